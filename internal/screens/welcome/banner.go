package welcome

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquiz/internal/ui/theme"
)

// glyphs holds the block letters of the banner, six rows each.
var glyphs = map[rune][6]string{
	'M': {"███╗   ███╗", "████╗ ████║", "██╔████╔██║", "██║╚██╔╝██║", "██║ ╚═╝ ██║", "╚═╝     ╚═╝"},
	'A': {" █████╗ ", "██╔══██╗", "███████║", "██╔══██║", "██║  ██║", "╚═╝  ╚═╝"},
	'T': {"████████╗", "╚══██╔══╝", "   ██║   ", "   ██║   ", "   ██║   ", "   ╚═╝   "},
	'H': {"██╗  ██╗", "██║  ██║", "███████║", "██╔══██║", "██║  ██║", "╚═╝  ╚═╝"},
	'Q': {" ██████╗ ", "██╔═══██╗", "██║   ██║", "██║▄▄ ██║", "╚██████╔╝", " ╚══▀▀═╝ "},
	'U': {"██╗   ██╗", "██║   ██║", "██║   ██║", "██║   ██║", "╚██████╔╝", " ╚═════╝ "},
	'I': {"██╗", "██║", "██║", "██║", "██║", "╚═╝"},
	'Z': {"███████╗", "╚══███╔╝", "  ███╔╝ ", " ███╔╝  ", "███████╗", "╚══════╝"},
}

const bannerWord = "MATHQUIZ"

const bannerCompact = "M A T H Q U I Z"

var bannerArt = buildBanner(bannerWord)

func buildBanner(word string) string {
	var rows [6]strings.Builder
	for _, r := range word {
		g := glyphs[r]
		for i := range rows {
			rows[i].WriteString(g[i])
		}
	}
	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = " " + rows[i].String()
	}
	return strings.Join(lines, "\n")
}

// RenderBanner returns the banner styled in the primary color, or a compact
// fallback when the art does not fit in width.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < lipgloss.Width(bannerArt)+2 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
