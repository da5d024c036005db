package components

import (
	"github.com/abhisek/mathquiz/internal/ui/theme"
)

// Button renders a focusable action label.
type Button struct {
	Label   string
	Focused bool
}

// View renders the button.
func (b Button) View() string {
	if b.Focused {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render("  " + b.Label)
}
