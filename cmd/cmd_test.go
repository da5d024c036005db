package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/abhisek/mathquiz/internal/problemgen"
	"github.com/abhisek/mathquiz/internal/session"
	"github.com/abhisek/mathquiz/internal/settings"
	"github.com/abhisek/mathquiz/internal/store"
)

func runArgs(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestParseOperators(t *testing.T) {
	tests := []struct {
		raw     string
		want    []problemgen.Operator
		wantErr bool
	}{
		{"+", []problemgen.Operator{problemgen.OpAdd}, false},
		{"+, -", []problemgen.Operator{problemgen.OpAdd, problemgen.OpSub}, false},
		{"*,/", []problemgen.Operator{problemgen.OpMul, problemgen.OpDiv}, false},
		{"%", nil, true},
		{" , ", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseOperators(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("op %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSettingsAndResetCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quiz.db")

	if err := runArgs(t, "settings", "--db", db, "--questions", "5", "--options", "9", "--difficulty", "hard"); err != nil {
		t.Fatalf("settings: %v", err)
	}

	st, err := store.Open(db)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := settings.NewService(st.KV(), nil).Load(context.Background())
	if !ok {
		t.Fatal("settings not stored")
	}
	if got.NumQuestions != 5 || got.NumOptions != 6 || got.Difficulty != problemgen.DifficultyHard {
		t.Errorf("stored %+v", got)
	}

	// Record a result so --history has something to clear.
	if err := st.History().RecordResult(context.Background(), session.Summary{SessionID: "s1", Total: 5}); err != nil {
		t.Fatal(err)
	}
	st.Close()

	if err := runArgs(t, "reset", "--db", db, "--history"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	st, err = store.Open(db)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if _, ok := settings.NewService(st.KV(), nil).Load(context.Background()); ok {
		t.Error("settings should be cleared")
	}
	results, err := st.History().Results(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

func TestSettingsCommandRejectsBadDifficulty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quiz.db")
	if err := runArgs(t, "settings", "--db", db, "--difficulty", "extreme"); err == nil {
		t.Error("expected error for invalid difficulty")
	}
}

func TestHistoryCommandUnknownSession(t *testing.T) {
	db := filepath.Join(t.TempDir(), "quiz.db")
	if err := runArgs(t, "history", "--db", db, "--session", "missing"); err == nil {
		t.Error("expected error for unknown session")
	}
}
