package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquiz/internal/router"
	"github.com/abhisek/mathquiz/internal/screen"
	"github.com/abhisek/mathquiz/internal/screens/history"
	"github.com/abhisek/mathquiz/internal/screens/quiz"
	settingsscreen "github.com/abhisek/mathquiz/internal/screens/settings"
	"github.com/abhisek/mathquiz/internal/settings"
	"github.com/abhisek/mathquiz/internal/store"
	"github.com/abhisek/mathquiz/internal/ui/components"
	"github.com/abhisek/mathquiz/internal/ui/layout"
	"github.com/abhisek/mathquiz/internal/ui/theme"
)

const (
	itemStart = iota
	itemSettings
	itemHistory
	itemQuit
)

type dashboardMsg struct {
	Settings settings.Settings
	Stats    store.Stats
	Last     *store.Result
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps    quiz.Deps
	history store.HistoryRepo

	menu  components.Menu
	cfg   settings.Settings
	stats store.Stats
	mood  Mood
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen. hist may be nil, which disables History.
func New(deps quiz.Deps, hist store.HistoryRepo) *HomeScreen {
	h := &HomeScreen{deps: deps, history: hist, cfg: settings.Defaults()}

	items := []components.MenuItem{
		itemStart: {Label: "Start quiz", Action: func() tea.Cmd {
			return push(quiz.New(h.deps))
		}},
		itemSettings: {Label: "Settings", Action: func() tea.Cmd {
			return push(settingsscreen.New(h.deps.Settings))
		}, Disabled: deps.Settings == nil},
		itemHistory: {Label: "History", Action: func() tea.Cmd {
			return push(history.New(h.history))
		}, Disabled: hist == nil},
		itemQuit: {Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

// Init reloads the dashboard; it runs again whenever the menu is exposed.
func (h *HomeScreen) Init() tea.Cmd {
	svc, hist := h.deps.Settings, h.history
	return func() tea.Msg {
		ctx := context.Background()
		msg := dashboardMsg{Settings: settings.Defaults()}
		if svc != nil {
			msg.Settings, _ = svc.Load(ctx)
		}
		if hist == nil {
			return msg
		}
		if st, err := hist.Stats(ctx); err == nil {
			msg.Stats = st
		}
		if last, err := hist.Results(ctx, store.QueryOpts{Limit: 1}); err == nil && len(last) > 0 {
			msg.Last = &last[0]
		}
		return msg
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(dashboardMsg); ok {
		h.cfg = m.Settings
		h.stats = m.Stats
		h.mood = moodFor(m.Last)
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	compact := layout.IsCompactHeight(height + 8)

	var sections []string
	sections = append(sections, layout.Centered(width,
		lipgloss.NewStyle().Foreground(theme.Warning).Bold(true), "M A T H Q U I Z"))
	if !compact {
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, renderMascot(h.mood)))
	}
	sections = append(sections, layout.Centered(width, theme.Hint, settingsLine(h.cfg)))
	if h.stats.Sessions > 0 {
		sections = append(sections, layout.Centered(width, theme.Dimmed, statsLine(h.stats)))
	}
	sections = append(sections, components.Card(lipgloss.NewStyle().Width(18).Render(h.menu.View()), cw, width))

	return "\n" + strings.Join(sections, "\n\n")
}

func settingsLine(s settings.Settings) string {
	line := fmt.Sprintf("%d questions · %d options · %d min · %s",
		s.NumQuestions, s.NumOptions, s.TimeLimitMinutes, s.Difficulty)
	if s.Category != "" {
		line += " · " + s.Category
	}
	return line
}

func statsLine(st store.Stats) string {
	return fmt.Sprintf("%d quizzes played · best %d%% · avg %.0f%%", st.Sessions, st.BestPercent, st.AvgPercent)
}
