package components

import (
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquiz/internal/ui/theme"
)

// MultiChoice renders numeric answer options and tracks the cursor. It
// never decides correctness itself; Reveal is called once the answer has
// been scored.
type MultiChoice struct {
	Options  []int
	Selected int

	revealed bool
	chosen   int // index, -1 if none
	correct  int // value
}

// NewMultiChoice creates a selector over options with the cursor on the first.
func NewMultiChoice(options []int) MultiChoice {
	return MultiChoice{Options: options, chosen: -1}
}

// Update moves the cursor. It reports the index picked with Enter or a
// digit key, or -1.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, int) {
	if m.revealed {
		return m, -1
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, -1
	}

	key := kmsg.String()
	switch key {
	case "up", "k", "left", "h":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j", "right", "l":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter", "space":
		if len(m.Options) > 0 {
			return m, m.Selected
		}
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Options) {
			m.Selected = n - 1
			return m, m.Selected
		}
	}
	return m, -1
}

// Reveal marks the options with the result of the chosen index.
func (m *MultiChoice) Reveal(chosen, correctValue int) {
	m.revealed = true
	m.chosen = chosen
	m.correct = correctValue
}

// View renders one option per line.
func (m MultiChoice) View() string {
	var s string
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %d", prefix, i+1, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.revealed && opt == m.correct:
			style = theme.Correct
		case m.revealed && i == m.chosen:
			style = theme.Incorrect
		case m.revealed:
			style = theme.Dimmed
		case i == m.Selected:
			style = theme.Selected
		}
		s += style.Render(line) + "\n"
	}
	return s
}
