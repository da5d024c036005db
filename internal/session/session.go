// Package session drives a timed multiple-choice quiz: it asks for
// questions, scores answers, runs the countdown and reports the result.
package session

import (
	"context"
	"io"
	"log"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mathquiz/internal/clock"
	"github.com/abhisek/mathquiz/internal/problemgen"
	"github.com/abhisek/mathquiz/internal/settings"
)

const (
	// TickInterval is the countdown resolution.
	TickInterval = time.Second

	// FeedbackDelay is how long the answer feedback stays up before the
	// next question is requested.
	FeedbackDelay = 700 * time.Millisecond
)

// View is the presentation layer. The controller calls it on its own
// thread and never reads presentation state back.
type View interface {
	OnQuestionReady(text string, options []int)
	OnAnswerResult(correct bool, correctValue int)
	OnSessionEnded(summary Summary)
	OnTick(remaining string)
}

// QuestionSource produces questions. *problemgen.Generator satisfies it.
type QuestionSource interface {
	Generate(d problemgen.Difficulty, numOptions int) problemgen.Question
}

// Recorder persists answers and results. Errors are logged, not returned
// to the player.
type Recorder interface {
	RecordAnswer(ctx context.Context, rec AnswerRecord) error
	RecordResult(ctx context.Context, sum Summary) error
}

// Controller owns the session state machine. It is not safe for concurrent
// use: every method and every scheduler callback must run on one thread.
type Controller struct {
	source QuestionSource
	sched  clock.Scheduler
	view   View
	rec    Recorder
	logger *log.Logger

	phase     Phase
	settings  settings.Settings
	state     State
	question  *problemgen.Question
	shownAt   time.Time
	answered  int
	sessionID string
	summary   *Summary

	// generation increments on every Start. Callbacks scheduled for an
	// earlier generation are ignored.
	generation int
	ticker     clock.Timer
	feedback   clock.Timer
}

// NewController creates an idle controller.
func NewController(source QuestionSource, sched clock.Scheduler, view View) *Controller {
	return &Controller{
		source: source,
		sched:  sched,
		view:   view,
		logger: log.New(io.Discard, "", 0),
	}
}

// SetRecorder attaches a recorder for answers and results.
func (c *Controller) SetRecorder(r Recorder) {
	c.rec = r
}

// SetLogger replaces the discard logger.
func (c *Controller) SetLogger(l *log.Logger) {
	if l != nil {
		c.logger = l
	}
}

// Start begins a new session with st, abandoning any session in progress.
func (c *Controller) Start(st settings.Settings) {
	c.stopTimers()
	c.generation++
	gen := c.generation

	c.settings = st.Normalize()
	c.phase = PhaseRunning
	c.state = State{
		RemainingSeconds: c.settings.TimeLimitSeconds(),
		StartedAt:        c.sched.Now(),
	}
	c.question = nil
	c.answered = 0
	c.summary = nil
	c.sessionID = uuid.NewString()

	c.logger.Printf("session %s: start %d questions, %d options, %d min, %s",
		c.sessionID, c.settings.NumQuestions, c.settings.NumOptions,
		c.settings.TimeLimitMinutes, c.settings.Difficulty)

	c.ticker = c.sched.Every(TickInterval, func() {
		if c.generation != gen {
			return
		}
		c.Tick()
	})
	c.view.OnTick(FormatClock(c.state.RemainingSeconds))
	c.nextQuestion()
}

// SubmitAnswer scores value against the displayed question. It reports
// whether the answer was accepted; answers are ignored when no session is
// running, input is frozen, the question was already answered, or value
// is not one of the options.
func (c *Controller) SubmitAnswer(value int) bool {
	if c.phase != PhaseRunning || c.state.Frozen || c.state.Answered || c.question == nil {
		return false
	}
	if !c.question.HasOption(value) {
		return false
	}

	q := c.question
	c.state.Answered = true
	correct := value == q.Answer
	if correct {
		c.state.Score++
	}
	c.answered++

	c.record(AnswerRecord{
		SessionID:     c.sessionID,
		QuestionIndex: c.state.QuestionIndex,
		QuestionText:  q.Text(),
		CorrectAnswer: q.Answer,
		Chosen:        value,
		Correct:       correct,
		TimeMs:        int(c.sched.Now().Sub(c.shownAt).Milliseconds()),
	})

	c.view.OnAnswerResult(correct, q.Answer)

	// The view may have ended the session from inside the callback.
	if c.phase != PhaseRunning {
		return true
	}

	gen := c.generation
	c.feedback = c.sched.AfterFunc(FeedbackDelay, func() {
		if c.generation != gen {
			return
		}
		c.feedback = nil
		c.advance()
	})
	return true
}

// SubmitChoice answers with the option at index i. Out-of-range indexes
// are ignored.
func (c *Controller) SubmitChoice(i int) bool {
	if c.question == nil || i < 0 || i >= len(c.question.Options) {
		return false
	}
	return c.SubmitAnswer(c.question.Options[i])
}

// SubmitText parses s as an integer answer. Non-numeric input is ignored.
func (c *Controller) SubmitText(s string) bool {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return c.SubmitAnswer(v)
}

// Tick advances the countdown by one second. At zero the session freezes
// and ends.
func (c *Controller) Tick() {
	if c.phase != PhaseRunning {
		return
	}

	c.state.RemainingSeconds--
	if c.state.RemainingSeconds < 0 {
		c.state.RemainingSeconds = 0
	}
	c.view.OnTick(FormatClock(c.state.RemainingSeconds))

	if c.state.RemainingSeconds == 0 {
		c.state.TimerExpired = true
		c.state.Frozen = true
		c.state.Answered = true
		c.logger.Printf("session %s: time is up", c.sessionID)
		c.End()
	}
}

// End finishes the running session and reports the summary. Calling End
// when no session is running does nothing.
func (c *Controller) End() {
	if c.phase != PhaseRunning {
		return
	}
	c.phase = PhaseEnded
	c.stopTimers()
	c.state.Frozen = true
	c.state.Answered = true

	sum := c.buildSummary()
	c.summary = &sum

	c.logger.Printf("session %s: ended %d/%d (%d%%) in %ds",
		sum.SessionID, sum.Score, sum.Total, sum.Percent, sum.TimeSpentSeconds)

	if c.rec != nil {
		if err := c.rec.RecordResult(context.Background(), sum); err != nil {
			c.logger.Printf("session %s: record result: %v", c.sessionID, err)
		}
	}
	c.view.OnSessionEnded(sum)
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// State returns a copy of the run state.
func (c *Controller) State() State {
	st := c.state
	if st.CorrectAnswer != nil {
		v := *st.CorrectAnswer
		st.CorrectAnswer = &v
	}
	return st
}

// Settings returns the settings of the current or last session.
func (c *Controller) Settings() settings.Settings {
	return c.settings
}

// Question returns the displayed question, if any.
func (c *Controller) Question() (problemgen.Question, bool) {
	if c.question == nil {
		return problemgen.Question{}, false
	}
	q := *c.question
	q.Options = slices.Clone(q.Options)
	return q, true
}

// Summary returns the result of the last finished session.
func (c *Controller) Summary() (Summary, bool) {
	if c.summary == nil {
		return Summary{}, false
	}
	return *c.summary, true
}

// SessionID returns the ID of the current or last session.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// advance runs after the feedback delay.
func (c *Controller) advance() {
	if c.phase != PhaseRunning {
		return
	}
	if c.state.QuestionIndex >= c.settings.NumQuestions {
		c.End()
		return
	}
	c.nextQuestion()
}

func (c *Controller) nextQuestion() {
	if c.phase != PhaseRunning || c.state.Frozen || c.state.TimerExpired {
		return
	}
	if c.state.QuestionIndex >= c.settings.NumQuestions {
		c.End()
		return
	}

	q := c.source.Generate(c.settings.Difficulty, c.settings.NumOptions)
	c.question = &q
	answer := q.Answer
	c.state.CorrectAnswer = &answer
	c.state.Answered = false
	c.state.QuestionIndex++
	c.shownAt = c.sched.Now()

	c.view.OnQuestionReady(q.Text(), slices.Clone(q.Options))
}

func (c *Controller) buildSummary() Summary {
	total := c.settings.NumQuestions
	now := c.sched.Now()

	var spent int
	if !c.state.StartedAt.IsZero() {
		spent = int(math.Round(now.Sub(c.state.StartedAt).Seconds()))
	} else {
		spent = max(0, c.settings.TimeLimitSeconds()-c.state.RemainingSeconds)
	}

	var avg float64
	if c.answered > 0 {
		avg = float64(spent) / float64(c.answered)
	}

	return Summary{
		SessionID:             c.sessionID,
		Score:                 c.state.Score,
		Total:                 total,
		Percent:               int(math.Round(100 * float64(c.state.Score) / float64(total))),
		AvgSecondsPerQuestion: avg,
		TimeSpentSeconds:      spent,
		Answered:              c.answered,
		Served:                c.state.QuestionIndex,
		TimerExpired:          c.state.TimerExpired,
		Difficulty:            string(c.settings.Difficulty),
		Category:              c.settings.Category,
		StartedAt:             c.state.StartedAt,
		EndedAt:               now,
	}
}

func (c *Controller) record(rec AnswerRecord) {
	if c.rec == nil {
		return
	}
	if err := c.rec.RecordAnswer(context.Background(), rec); err != nil {
		c.logger.Printf("session %s: record answer: %v", c.sessionID, err)
	}
}

func (c *Controller) stopTimers() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	if c.feedback != nil {
		c.feedback.Stop()
		c.feedback = nil
	}
}
