package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquiz/internal/ui/components"
	"github.com/abhisek/mathquiz/internal/ui/layout"
	"github.com/abhisek/mathquiz/internal/ui/theme"
)

// TimeUpNotice is shown when the countdown freezes the quiz.
const TimeUpNotice = "Time is up! Quiz frozen."

func (s *QuizScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	var b strings.Builder
	st := s.ctrl.State()
	cfg := s.ctrl.Settings()

	// Countdown bar.
	var frac float64
	if total := cfg.TimeLimitSeconds(); total > 0 {
		frac = float64(st.RemainingSeconds) / float64(total)
	}
	bar := components.NewProgressBar(s.remaining, frac, false, components.ContentWidth(width))
	bar.LowAt = 0.2
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered(width, theme.Dimmed,
		progressLine(st.QuestionIndex, cfg.NumQuestions, string(cfg.Difficulty))))
	b.WriteString("\n\n")

	if s.question == "" {
		b.WriteString(layout.Centered(width, theme.Dimmed, "Preparing your quiz..."))
		return b.String()
	}

	b.WriteString(layout.Centered(width, theme.Title.Foreground(theme.Text), s.question+" = ?"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View()))
	b.WriteString("\n")

	switch {
	case s.ended != nil && s.ended.TimerExpired:
		b.WriteString(layout.Centered(width, theme.Notice, TimeUpNotice))
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, theme.Hint, "Press any key to see your results"))
	case s.correct != nil && *s.correct:
		b.WriteString(layout.Centered(width, theme.Correct, "Correct!"))
	case s.correct != nil:
		b.WriteString(layout.Centered(width, theme.Incorrect, "Not quite"))
	}

	return b.String()
}

func progressLine(index, total int, difficulty string) string {
	return fmt.Sprintf("Question %d of %d  ·  %s", index, total, difficulty)
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(layout.Centered(width, theme.Body.Bold(true), "End quiz early?"))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Dimmed, "Your score so far will be recorded."))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Success), "[Y] Yes, end quiz"))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep going"))
	return b.String()
}
