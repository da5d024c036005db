package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquiz/internal/store"
	"github.com/abhisek/mathquiz/internal/ui/theme"
)

// Mood selects the mascot art.
type Mood int

const (
	MoodIdle   Mood = iota // No recent quiz, or an average one
	MoodProud              // Last quiz scored 90% or better
	MoodSleepy             // Last quiz ran out of time
)

const artIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ ±×÷ │
└─────┘`

const artProud = `┌─────┐
│ ★ ★ │
│  ▿  │
│ ±×÷ │
└─╥═╥─┘`

const artSleepy = `┌─────┐
│ - - │ z
│  ○  │
│ ±×÷ │
└─────┘`

// moodFor picks the mascot mood from the most recent result.
func moodFor(last *store.Result) Mood {
	switch {
	case last == nil:
		return MoodIdle
	case last.TimerExpired:
		return MoodSleepy
	case last.Percent >= 90:
		return MoodProud
	}
	return MoodIdle
}

func renderMascot(m Mood) string {
	art, fg := artIdle, theme.Primary
	switch m {
	case MoodProud:
		art, fg = artProud, theme.Warning
	case MoodSleepy:
		art, fg = artSleepy, theme.TextDim
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
