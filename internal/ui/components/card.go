package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquiz/internal/ui/theme"
)

// ContentWidth returns the inner width used for centered cards.
func ContentWidth(frameWidth int) int {
	return min(56, max(20, frameWidth-6))
}

// Card wraps content in a rounded-border box of width cw, centered in width.
func Card(content string, cw, width int) string {
	box := theme.Card.
		Width(cw).
		Align(lipgloss.Center).
		Render(content)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}
