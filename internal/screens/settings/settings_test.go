package settings

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquiz/internal/problemgen"
	quizcfg "github.com/abhisek/mathquiz/internal/settings"
)

type memStore map[string][]byte

func (m memStore) Get(_ context.Context, k string) ([]byte, error) { return m[k], nil }
func (m memStore) Put(_ context.Context, k string, v []byte) error { m[k] = v; return nil }
func (m memStore) Delete(_ context.Context, k string) error        { delete(m, k); return nil }

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func focusOn(s *SettingsScreen, field int) {
	for s.focus != field {
		s.Update(specialKey(tea.KeyDown))
	}
}

func TestSettingsScreen_FillsFromStore(t *testing.T) {
	store := memStore{}
	svc := quizcfg.NewService(store, nil)
	svc.Save(context.Background(), quizcfg.Settings{NumQuestions: 7, NumOptions: 3, TimeLimitMinutes: 2, Difficulty: "Hard", Category: "tables"})

	s := New(svc)
	got := s.Values()
	want := quizcfg.Settings{NumQuestions: 7, NumOptions: 3, TimeLimitMinutes: 2, Difficulty: problemgen.DifficultyHard, Category: "tables"}
	if got != want {
		t.Errorf("Values = %+v, want %+v", got, want)
	}
}

func TestSettingsScreen_SaveClampsAndPersists(t *testing.T) {
	store := memStore{}
	svc := quizcfg.NewService(store, nil)
	s := New(svc)
	s.Init()

	s.questions.SetValue("")
	s.options.SetValue("9")
	s.timeLimit.SetValue("3")
	focusOn(s, buttonSave)
	s.Update(specialKey(tea.KeyEnter))

	loaded, ok := svc.Load(context.Background())
	if !ok {
		t.Fatal("expected settings to be stored")
	}
	if loaded.NumQuestions != 10 || loaded.NumOptions != 6 || loaded.TimeLimitMinutes != 3 {
		t.Errorf("stored %+v", loaded)
	}
	if s.options.Value() != "6" {
		t.Errorf("form shows %q, want clamped 6", s.options.Value())
	}
	if !strings.Contains(s.View(80, 24), "Settings saved.") {
		t.Error("expected saved status")
	}
}

func TestSettingsScreen_ResetClearsStore(t *testing.T) {
	store := memStore{}
	svc := quizcfg.NewService(store, nil)
	svc.Save(context.Background(), quizcfg.Settings{NumQuestions: 3, NumOptions: 2, TimeLimitMinutes: 5, Difficulty: "Easy"})

	s := New(svc)
	focusOn(s, buttonReset)
	s.Update(specialKey(tea.KeyEnter))

	if _, ok := store[quizcfg.StorageKey]; ok {
		t.Error("expected stored record to be removed")
	}
	if s.Values() != quizcfg.Defaults() {
		t.Errorf("Values = %+v, want defaults", s.Values())
	}
	if !strings.Contains(s.View(80, 24), "reset to defaults") {
		t.Error("expected reset status")
	}
}

func TestSettingsScreen_CycleDifficulty(t *testing.T) {
	s := New(quizcfg.NewService(memStore{}, nil))
	focusOn(s, fieldDifficulty)

	s.Update(specialKey(tea.KeyRight))
	if s.difficulty != problemgen.DifficultyHard {
		t.Errorf("difficulty = %s, want Hard", s.difficulty)
	}
	s.Update(specialKey(tea.KeyRight))
	if s.difficulty != problemgen.DifficultyEasy {
		t.Errorf("difficulty = %s, want Easy (wrap)", s.difficulty)
	}
	s.Update(specialKey(tea.KeyLeft))
	if s.difficulty != problemgen.DifficultyHard {
		t.Errorf("difficulty = %s, want Hard (wrap back)", s.difficulty)
	}
}

func TestSettingsScreen_FocusWraps(t *testing.T) {
	s := New(quizcfg.NewService(memStore{}, nil))

	s.Update(specialKey(tea.KeyUp))
	if s.focus != buttonReset {
		t.Errorf("focus = %d, want reset button", s.focus)
	}
	s.Update(specialKey(tea.KeyDown))
	if s.focus != fieldQuestions {
		t.Errorf("focus = %d, want first field", s.focus)
	}
}

func TestIntOr(t *testing.T) {
	tests := []struct {
		in   string
		def  int
		want int
	}{
		{"5", 10, 5},
		{" 12 ", 10, 12},
		{"", 10, 10},
		{"0", 4, 4},
		{"x", 1, 1},
	}
	for _, tt := range tests {
		if got := intOr(tt.in, tt.def); got != tt.want {
			t.Errorf("intOr(%q, %d) = %d, want %d", tt.in, tt.def, got, tt.want)
		}
	}
}
