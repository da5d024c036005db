package settings

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquiz/internal/problemgen"
	"github.com/abhisek/mathquiz/internal/screen"
	quizcfg "github.com/abhisek/mathquiz/internal/settings"
	"github.com/abhisek/mathquiz/internal/ui/components"
	"github.com/abhisek/mathquiz/internal/ui/layout"
	"github.com/abhisek/mathquiz/internal/ui/theme"
)

const (
	fieldQuestions = iota
	fieldOptions
	fieldTimeLimit
	fieldDifficulty
	fieldCategory
	buttonSave
	buttonReset
	focusCount
)

// SettingsScreen is the form for quiz preferences.
type SettingsScreen struct {
	svc *quizcfg.Service

	questions  components.TextInput
	options    components.TextInput
	timeLimit  components.TextInput
	category   components.TextInput
	difficulty problemgen.Difficulty

	focus  int
	status string
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)

// New creates the form filled from the stored settings.
func New(svc *quizcfg.Service) *SettingsScreen {
	s := &SettingsScreen{
		svc:       svc,
		questions: components.NewTextInput("10", true, 4),
		options:   components.NewTextInput("4", true, 1),
		timeLimit: components.NewTextInput("1", true, 3),
		category:  components.NewTextInput("none", false, 40),
	}
	st, _ := svc.Load(context.Background())
	s.fill(st)
	return s
}

func (s *SettingsScreen) Init() tea.Cmd {
	return s.setFocus(s.focus)
}

func (s *SettingsScreen) Title() string {
	return "Settings"
}

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "Enter", Description: "Next / Press"},
	}
	if s.focus == fieldDifficulty {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Change"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, s.forward(msg)
	}

	switch kmsg.String() {
	case "down", "tab":
		return s, s.setFocus((s.focus + 1) % focusCount)
	case "up", "shift+tab":
		return s, s.setFocus((s.focus + focusCount - 1) % focusCount)
	case "enter":
		switch s.focus {
		case buttonSave:
			s.save()
			return s, nil
		case buttonReset:
			s.reset()
			return s, nil
		}
		return s, s.setFocus(s.focus + 1)
	case "left", "right":
		if s.focus == fieldDifficulty {
			s.cycleDifficulty(kmsg.String() == "right")
			return s, nil
		}
	}

	s.status = ""
	return s, s.forward(msg)
}

// Values returns the settings the form would save.
func (s *SettingsScreen) Values() quizcfg.Settings {
	def := quizcfg.Defaults()
	return quizcfg.Settings{
		NumQuestions:     intOr(s.questions.Value(), def.NumQuestions),
		NumOptions:       intOr(s.options.Value(), def.NumOptions),
		TimeLimitMinutes: intOr(s.timeLimit.Value(), def.TimeLimitMinutes),
		Difficulty:       s.difficulty,
		Category:         s.category.Value(),
	}.Normalize()
}

func (s *SettingsScreen) save() {
	saved := s.svc.Save(context.Background(), s.Values())
	s.fill(saved)
	s.status = "Settings saved."
}

func (s *SettingsScreen) reset() {
	s.svc.Clear(context.Background())
	s.fill(quizcfg.Defaults())
	s.status = "Settings reset to defaults."
}

func (s *SettingsScreen) fill(st quizcfg.Settings) {
	s.questions.SetValue(strconv.Itoa(st.NumQuestions))
	s.options.SetValue(strconv.Itoa(st.NumOptions))
	s.timeLimit.SetValue(strconv.Itoa(st.TimeLimitMinutes))
	s.category.SetValue(st.Category)
	s.difficulty = st.Difficulty
}

func (s *SettingsScreen) cycleDifficulty(forward bool) {
	i := slices.Index(problemgen.Difficulties, s.difficulty)
	n := len(problemgen.Difficulties)
	if forward {
		i = (i + 1) % n
	} else {
		i = (i + n - 1) % n
	}
	s.difficulty = problemgen.Difficulties[i]
	s.status = ""
}

func (s *SettingsScreen) input(field int) *components.TextInput {
	switch field {
	case fieldQuestions:
		return &s.questions
	case fieldOptions:
		return &s.options
	case fieldTimeLimit:
		return &s.timeLimit
	case fieldCategory:
		return &s.category
	}
	return nil
}

func (s *SettingsScreen) setFocus(field int) tea.Cmd {
	if in := s.input(s.focus); in != nil {
		in.Blur()
	}
	s.focus = field
	if in := s.input(field); in != nil {
		return in.Focus()
	}
	return nil
}

func (s *SettingsScreen) forward(msg tea.Msg) tea.Cmd {
	in := s.input(s.focus)
	if in == nil {
		return nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return cmd
}

func (s *SettingsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	label := func(field int, text string) string {
		style := theme.Unselected
		if s.focus == field {
			style = theme.Selected
		}
		return style.Width(16).Render(text)
	}

	difficulty := string(s.difficulty)
	if s.focus == fieldDifficulty {
		difficulty = "◂ " + difficulty + " ▸"
	}

	rows := []string{
		label(fieldQuestions, "Questions") + s.questions.View(),
		label(fieldOptions, "Options (2-6)") + s.options.View(),
		label(fieldTimeLimit, "Time (minutes)") + s.timeLimit.View(),
		label(fieldDifficulty, "Difficulty") + theme.Body.Render(difficulty),
		label(fieldCategory, "Category") + s.category.View(),
		"",
		components.Button{Label: "Save", Focused: s.focus == buttonSave}.View() + "  " +
			components.Button{Label: "Reset to defaults", Focused: s.focus == buttonReset}.View(),
	}
	form := lipgloss.NewStyle().Width(cw - 6).Render(strings.Join(rows, "\n"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(components.Card(form, cw, width))
	b.WriteString("\n\n")
	if s.status != "" {
		b.WriteString(layout.Centered(width, theme.Correct, s.status))
	} else {
		v := s.Values()
		b.WriteString(layout.Centered(width, theme.Hint, fmt.Sprintf(
			"%d questions · %d options · %d min · %s", v.NumQuestions, v.NumOptions, v.TimeLimitMinutes, v.Difficulty)))
	}
	return b.String()
}

// intOr parses s, falling back to def when it is empty, zero or invalid.
func intOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return def
	}
	return n
}
