package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquiz/internal/router"
	"github.com/abhisek/mathquiz/internal/screen"
	"github.com/abhisek/mathquiz/internal/session"
	"github.com/abhisek/mathquiz/internal/store"
	"github.com/abhisek/mathquiz/internal/ui/layout"
	"github.com/abhisek/mathquiz/internal/ui/theme"
)

// maxResults bounds the number of sessions listed.
const maxResults = 50

type historyLoadedMsg struct {
	Results []store.Result
	Stats   store.Stats
	Err     error
}

type answersLoadedMsg struct {
	SessionID string
	Answers   []store.Answer
	Err       error
}

// HistoryScreen lists past quiz results.
type HistoryScreen struct {
	repo     store.HistoryRepo
	results  []store.Result
	stats    store.Stats
	answers  map[string][]store.Answer
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.HistoryRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		answers:  make(map[string][]store.Answer),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		ctx := context.Background()

		results, err := repo.Results(ctx, store.QueryOpts{Limit: maxResults})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		stats, err := repo.Stats(ctx)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Results: results, Stats: stats}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Answers"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.results = msg.Results
			s.stats = msg.Stats
			if s.selected >= len(s.results) {
				s.selected = 0
			}
		}
		s.loaded = true
		return s, nil

	case answersLoadedMsg:
		if msg.Err == nil {
			s.answers[msg.SessionID] = msg.Answers
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.results) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			if s.expanded[s.selected] {
				return s, s.loadAnswers(s.results[s.selected].SessionID)
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) loadAnswers(sessionID string) tea.Cmd {
	if _, ok := s.answers[sessionID]; ok {
		return nil
	}
	repo := s.repo
	return func() tea.Msg {
		answers, err := repo.Answers(context.Background(), sessionID)
		return answersLoadedMsg{SessionID: sessionID, Answers: answers, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error),
			fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return layout.Centered(width, theme.Dimmed, "\n\n  Loading history...")
	}
	if len(s.results) == 0 {
		return layout.Centered(width, theme.Dimmed.Italic(true), "\n\n  No quizzes yet. Start one from the menu!")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Hint, statsLine(s.stats)))
	b.WriteString("\n\n")

	for i, r := range s.results {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(layout.Centered(width, style, prefix+resultLine(r)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderAnswers(r.SessionID, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderAnswers(sessionID string, width int) string {
	answers, ok := s.answers[sessionID]
	if !ok {
		return layout.Centered(width, theme.Dimmed, "    Loading answers...") + "\n"
	}
	if len(answers) == 0 {
		return layout.Centered(width, theme.Dimmed.Italic(true), "    No answers this quiz") + "\n"
	}

	var b strings.Builder
	for _, a := range answers {
		style := theme.Correct
		mark := "✓"
		if !a.Correct {
			style = theme.Incorrect
			mark = "✗"
		}
		line := fmt.Sprintf("    %s Q%d  %s = %d", mark, a.QuestionIndex, a.QuestionText, a.Chosen)
		if !a.Correct {
			line += fmt.Sprintf("  (answer %d)", a.CorrectAnswer)
		}
		b.WriteString(layout.Centered(width, style, line))
		b.WriteString("\n")
	}
	return b.String()
}

func resultLine(r store.Result) string {
	line := fmt.Sprintf("%s  %d/%d  %3d%%  %s  %s",
		r.EndedAt.Local().Format("Jan 02 15:04"),
		r.Score, r.Total, r.Percent,
		session.FormatClock(r.TimeSpentSeconds),
		r.Difficulty)
	if r.TimerExpired {
		line += "  ⏱"
	}
	return line
}

func statsLine(st store.Stats) string {
	return fmt.Sprintf("%d quizzes  ·  avg %.0f%%  ·  best %d%%  ·  accuracy %.0f%%",
		st.Sessions, st.AvgPercent, st.BestPercent, st.Accuracy()*100)
}
