package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquiz/internal/problemgen"
	"github.com/abhisek/mathquiz/internal/router"
	"github.com/abhisek/mathquiz/internal/screens/history"
	"github.com/abhisek/mathquiz/internal/screens/quiz"
	settingsscreen "github.com/abhisek/mathquiz/internal/screens/settings"
	"github.com/abhisek/mathquiz/internal/session"
	"github.com/abhisek/mathquiz/internal/settings"
	"github.com/abhisek/mathquiz/internal/store"
)

type memStore map[string][]byte

func (m memStore) Get(_ context.Context, k string) ([]byte, error) { return m[k], nil }
func (m memStore) Put(_ context.Context, k string, v []byte) error { m[k] = v; return nil }
func (m memStore) Delete(_ context.Context, k string) error        { delete(m, k); return nil }

type stubHistory struct {
	last []store.Result
}

func (stubHistory) RecordAnswer(context.Context, session.AnswerRecord) error { return nil }
func (stubHistory) RecordResult(context.Context, session.Summary) error      { return nil }
func (h stubHistory) Results(context.Context, store.QueryOpts) ([]store.Result, error) {
	return h.last, nil
}
func (stubHistory) Result(context.Context, string) (*store.Result, error) {
	return nil, store.ErrNotFound
}
func (stubHistory) Answers(context.Context, string) ([]store.Answer, error) { return nil, nil }
func (h stubHistory) Stats(context.Context) (store.Stats, error) {
	return store.Stats{Sessions: len(h.last), BestPercent: 95, AvgPercent: 95}, nil
}
func (stubHistory) Clear(context.Context) error { return nil }

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testDeps() quiz.Deps {
	return quiz.Deps{
		Source:   problemgen.New(nil, problemgen.DefaultConfig()),
		Settings: settings.NewService(memStore{}, nil),
	}
}

func selectItem(t *testing.T, h *HomeScreen, index int) tea.Msg {
	t.Helper()
	for h.menu.Selected < index {
		h.Update(specialKey(tea.KeyDown))
	}
	_, cmd := h.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatalf("item %d produced no command", index)
	}
	return cmd()
}

func TestHomeScreen_MenuPushesScreens(t *testing.T) {
	h := New(testDeps(), stubHistory{})

	msg := selectItem(t, h, itemStart)
	push, ok := msg.(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", msg)
	}
	if _, ok := push.Screen.(*quiz.QuizScreen); !ok {
		t.Errorf("start pushed %T", push.Screen)
	}

	push = selectItem(t, h, itemSettings).(router.PushScreenMsg)
	if _, ok := push.Screen.(*settingsscreen.SettingsScreen); !ok {
		t.Errorf("settings pushed %T", push.Screen)
	}

	push = selectItem(t, h, itemHistory).(router.PushScreenMsg)
	if _, ok := push.Screen.(*history.HistoryScreen); !ok {
		t.Errorf("history pushed %T", push.Screen)
	}
}

func TestHomeScreen_HistoryDisabledWithoutRepo(t *testing.T) {
	h := New(testDeps(), nil)

	h.Update(specialKey(tea.KeyDown))
	h.Update(specialKey(tea.KeyDown))
	if h.menu.Selected != itemQuit {
		t.Errorf("selected = %d, want quit (history skipped)", h.menu.Selected)
	}
}

func TestHomeScreen_DashboardReflectsStoredSettings(t *testing.T) {
	deps := testDeps()
	deps.Settings.Save(context.Background(), settings.Settings{
		NumQuestions: 5, NumOptions: 3, TimeLimitMinutes: 2, Difficulty: problemgen.DifficultyHard, Category: "tables",
	})
	hist := stubHistory{last: []store.Result{{Summary: session.Summary{Percent: 95}}}}
	h := New(deps, hist)

	h.Update(h.Init()())

	view := h.View(100, 40)
	for _, want := range []string{"5 questions", "3 options", "2 min", "Hard", "tables", "1 quizzes played"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if h.mood != MoodProud {
		t.Errorf("mood = %d, want proud", h.mood)
	}
}

func TestMoodFor(t *testing.T) {
	tests := []struct {
		name string
		last *store.Result
		want Mood
	}{
		{"none", nil, MoodIdle},
		{"average", &store.Result{Summary: session.Summary{Percent: 60}}, MoodIdle},
		{"great", &store.Result{Summary: session.Summary{Percent: 90}}, MoodProud},
		{"timed out", &store.Result{Summary: session.Summary{Percent: 100, TimerExpired: true}}, MoodSleepy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := moodFor(tt.last); got != tt.want {
				t.Errorf("moodFor = %d, want %d", got, tt.want)
			}
		})
	}
}
