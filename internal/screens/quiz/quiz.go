package quiz

import (
	"context"
	"fmt"
	"log"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquiz/internal/clock"
	"github.com/abhisek/mathquiz/internal/router"
	"github.com/abhisek/mathquiz/internal/screen"
	"github.com/abhisek/mathquiz/internal/screens/summary"
	"github.com/abhisek/mathquiz/internal/session"
	"github.com/abhisek/mathquiz/internal/settings"
	"github.com/abhisek/mathquiz/internal/ui/components"
	"github.com/abhisek/mathquiz/internal/ui/layout"
)

// Scheduler is a clock.Scheduler driven by Bubble Tea messages.
type Scheduler interface {
	clock.Scheduler

	// Handle runs the task behind msg and reports whether msg was consumed.
	Handle(msg tea.Msg) bool

	// Cmd returns the commands for tasks scheduled since the last call.
	Cmd() tea.Cmd
}

// Deps are the collaborators of a quiz screen.
type Deps struct {
	Source   session.QuestionSource
	Settings *settings.Service
	Recorder session.Recorder
	Logger   *log.Logger

	// NewScheduler overrides the scheduler, for tests.
	NewScheduler func() Scheduler
}

// QuizScreen runs one session and implements session.View.
type QuizScreen struct {
	deps  Deps
	ctrl  *session.Controller
	sched Scheduler

	question  string
	choice    components.MultiChoice
	remaining string
	lastPick  int

	// result of the last answer, nil while waiting for one
	correct *bool

	ended       *session.Summary
	confirmQuit bool

	// cmds collects commands emitted from controller callbacks.
	cmds []tea.Cmd
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)
var _ screen.EscHandler = (*QuizScreen)(nil)
var _ session.View = (*QuizScreen)(nil)

// New creates a quiz screen. The session starts in Init with the
// settings stored at that moment.
func New(deps Deps) *QuizScreen {
	s := &QuizScreen{deps: deps, lastPick: -1}
	if deps.NewScheduler != nil {
		s.sched = deps.NewScheduler()
	} else {
		s.sched = clock.NewTea()
	}
	s.ctrl = session.NewController(deps.Source, s.sched, s)
	if deps.Recorder != nil {
		s.ctrl.SetRecorder(deps.Recorder)
	}
	s.ctrl.SetLogger(deps.Logger)
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	if s.ctrl.Phase() != session.PhaseIdle {
		// Re-exposed by the router; the session keeps running.
		return nil
	}
	st := settings.Defaults()
	if s.deps.Settings != nil {
		st, _ = s.deps.Settings.Load(context.Background())
	}
	s.ctrl.Start(st)
	return s.flush()
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) HandlesEsc() bool {
	return true
}

func (s *QuizScreen) Status() string {
	st := s.ctrl.State()
	return fmt.Sprintf("⏱ %s   ✓ %d/%d", s.remaining, st.Score, s.ctrl.Settings().NumQuestions)
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End quiz"},
			{Key: "N", Description: "Keep going"},
		}
	case s.ended != nil:
		return []layout.KeyHint{
			{Key: "any key", Description: "See results"},
		}
	}
	return []layout.KeyHint{
		{Key: fmt.Sprintf("1-%d", len(s.choice.Options)), Description: "Answer"},
		{Key: "↑↓ Enter", Description: "Pick"},
		{Key: "Esc", Description: "Quit"},
	}
}

// Controller exposes the session controller.
func (s *QuizScreen) Controller() *session.Controller {
	return s.ctrl
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.sched.Handle(msg) {
		return s, s.flush()
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	key := kmsg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			s.ctrl.End()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, s.flush()
	}

	// Time-up notice: any key moves on to the results.
	if s.ended != nil {
		return s, s.showSummary()
	}

	if key == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	var picked int
	s.choice, picked = s.choice.Update(msg)
	if picked >= 0 {
		s.lastPick = picked
		if !s.ctrl.SubmitChoice(picked) {
			s.lastPick = -1
		}
	}
	return s, s.flush()
}

func (s *QuizScreen) OnQuestionReady(text string, options []int) {
	s.question = text
	s.choice = components.NewMultiChoice(options)
	s.correct = nil
	s.lastPick = -1
}

func (s *QuizScreen) OnAnswerResult(correct bool, correctValue int) {
	s.correct = &correct
	s.choice.Reveal(s.lastPick, correctValue)
}

func (s *QuizScreen) OnSessionEnded(sum session.Summary) {
	s.ended = &sum
	if !sum.TimerExpired {
		s.cmds = append(s.cmds, s.showSummary())
	}
}

func (s *QuizScreen) OnTick(remaining string) {
	s.remaining = remaining
}

func (s *QuizScreen) showSummary() tea.Cmd {
	sum := *s.ended
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

// flush batches the scheduler ticks with commands queued by callbacks.
func (s *QuizScreen) flush() tea.Cmd {
	cmds := append(s.cmds, s.sched.Cmd())
	s.cmds = nil
	return tea.Batch(cmds...)
}
