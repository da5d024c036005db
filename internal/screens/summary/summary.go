package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquiz/internal/router"
	"github.com/abhisek/mathquiz/internal/screen"
	"github.com/abhisek/mathquiz/internal/session"
	"github.com/abhisek/mathquiz/internal/ui/components"
	"github.com/abhisek/mathquiz/internal/ui/layout"
	"github.com/abhisek/mathquiz/internal/ui/theme"
)

// SummaryScreen displays the result of a finished quiz.
type SummaryScreen struct {
	summary session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(sum session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: sum}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Quiz Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")

	heading := "Quiz complete!"
	if sum.TimerExpired {
		heading = "Time's up!"
	}
	b.WriteString(layout.Centered(width, theme.Title, heading))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Subtitle, sum.EndedAt.Local().Format("Mon Jan 2, 15:04")))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Score", float64(sum.Percent)/100, true, cw-6)
	rows := []string{
		fmt.Sprintf("Score: %d / %d", sum.Score, sum.Total),
		bar.View(),
		"",
		fmt.Sprintf("Answered: %d of %d served", sum.Answered, sum.Served),
		fmt.Sprintf("Time spent: %s", session.FormatClock(sum.TimeSpentSeconds)),
		fmt.Sprintf("Average per question: %.2fs", sum.AvgSecondsPerQuestion),
		fmt.Sprintf("Difficulty: %s", sum.Difficulty),
		fmt.Sprintf("Category: %s", sum.CategoryLabel()),
	}
	card := lipgloss.NewStyle().Foreground(theme.Text).Render(strings.Join(rows, "\n"))
	b.WriteString(components.Card(card, cw, width))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered(width, verdictStyle(sum.Percent), verdict(sum.Percent)))

	return b.String()
}

func verdict(percent int) string {
	switch {
	case percent == 100:
		return "Perfect score!"
	case percent >= 80:
		return "Great work!"
	case percent >= 50:
		return "Good effort, keep practicing."
	default:
		return "Keep at it, you'll get there."
	}
}

func verdictStyle(percent int) lipgloss.Style {
	if percent >= 50 {
		return theme.Correct
	}
	return theme.Notice
}
