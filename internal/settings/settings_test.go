package settings

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathquiz/internal/problemgen"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{
			name: "defaults unchanged",
			in:   Defaults(),
			want: Defaults(),
		},
		{
			name: "clamps low values",
			in:   Settings{NumQuestions: 0, NumOptions: 1, TimeLimitMinutes: -3, Difficulty: "Easy"},
			want: Settings{NumQuestions: 1, NumOptions: 2, TimeLimitMinutes: 1, Difficulty: problemgen.DifficultyEasy},
		},
		{
			name: "clamps options high",
			in:   Settings{NumQuestions: 5, NumOptions: 12, TimeLimitMinutes: 3, Difficulty: "hard", Category: " maths "},
			want: Settings{NumQuestions: 5, NumOptions: 6, TimeLimitMinutes: 3, Difficulty: problemgen.DifficultyHard, Category: "maths"},
		},
		{
			name: "unknown difficulty",
			in:   Settings{NumQuestions: 5, NumOptions: 4, TimeLimitMinutes: 1, Difficulty: "insane"},
			want: Settings{NumQuestions: 5, NumOptions: 4, TimeLimitMinutes: 1, Difficulty: problemgen.DifficultyMedium},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      Settings
		wantNotes int
		wantErr   bool
	}{
		{
			name: "full record",
			raw:  `{"numQuestions":5,"numOptions":3,"timeLimit":2,"difficulty":"Hard","category":"maths"}`,
			want: Settings{NumQuestions: 5, NumOptions: 3, TimeLimitMinutes: 2, Difficulty: problemgen.DifficultyHard, Category: "maths"},
		},
		{
			name: "numeric strings",
			raw:  `{"numQuestions":"7","numOptions":"5.9","timeLimit":" 3 "}`,
			want: Settings{NumQuestions: 7, NumOptions: 5, TimeLimitMinutes: 3, Difficulty: problemgen.DifficultyMedium},
		},
		{
			name:      "zero and garbage fall back per field",
			raw:       `{"numQuestions":0,"numOptions":"many","timeLimit":true,"difficulty":42}`,
			want:      Defaults(),
			wantNotes: 4,
		},
		{
			name: "out of range is clamped",
			raw:  `{"numQuestions":-4,"numOptions":40}`,
			want: Settings{NumQuestions: 1, NumOptions: 6, TimeLimitMinutes: 1, Difficulty: problemgen.DifficultyMedium},
		},
		{
			name: "empty object",
			raw:  `{}`,
			want: Defaults(),
		},
		{
			name:    "malformed",
			raw:     `{"numQuestions":`,
			want:    Defaults(),
			wantErr: true,
		},
		{
			name:    "null",
			raw:     `null`,
			want:    Defaults(),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, notes, err := Decode([]byte(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Len(t, notes, tt.wantNotes)
		})
	}
}

func TestEncodeDecodeKeepsFieldNames(t *testing.T) {
	raw, err := Encode(Settings{NumQuestions: 3, NumOptions: 2, TimeLimitMinutes: 4, Difficulty: "Easy", Category: "maths"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"numQuestions":3,"numOptions":2,"timeLimit":4,"difficulty":"Easy","category":"maths"}`, string(raw))
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "N/A", Defaults().CategoryLabel())
	assert.Equal(t, "maths", Settings{Category: "maths"}.CategoryLabel())
}

// memStore is an in-memory Store that can be told to fail. writeErr fails
// only Put and Delete.
type memStore struct {
	data     map[string][]byte
	err      error
	writeErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.data[key], nil
}

func (m *memStore) Put(_ context.Context, key string, value []byte) error {
	if m.err != nil {
		return m.err
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	if m.err != nil {
		return m.err
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	delete(m.data, key)
	return nil
}

func TestService_LoadEmpty(t *testing.T) {
	svc := NewService(newMemStore(), nil)
	got, ok := svc.Load(context.Background())
	assert.False(t, ok)
	assert.Equal(t, Defaults(), got)
}

func TestService_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	svc := NewService(st, nil)

	saved := svc.Save(ctx, Settings{NumQuestions: 5, NumOptions: 9, TimeLimitMinutes: 2, Difficulty: "easy"})
	assert.Equal(t, 6, saved.NumOptions)
	assert.Contains(t, st.data, StorageKey)

	got, ok := svc.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, saved, got)

	svc.Clear(ctx)
	assert.NotContains(t, st.data, StorageKey)
	got, ok = svc.Load(ctx)
	assert.False(t, ok)
	assert.Equal(t, Defaults(), got)
}

func TestService_MalformedRecordYieldsDefaults(t *testing.T) {
	st := newMemStore()
	st.data[StorageKey] = []byte("not json")
	var logs bytes.Buffer
	svc := NewService(st, log.New(&logs, "", 0))

	got, ok := svc.Load(context.Background())
	assert.False(t, ok)
	assert.Equal(t, Defaults(), got)
	assert.Contains(t, logs.String(), "unreadable")
}

func TestService_StoreFailureFallsBackToMemory(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	st.err = errors.New("disk on fire")
	var logs bytes.Buffer
	svc := NewService(st, log.New(&logs, "", 0))

	want := svc.Save(ctx, Settings{NumQuestions: 3, NumOptions: 3, TimeLimitMinutes: 2, Difficulty: "Hard"})
	assert.Contains(t, logs.String(), "kept in memory")

	got, ok := svc.Load(ctx)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestService_WriteFailureServesMemoryOverStaleRecord(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	old := Settings{NumQuestions: 10, NumOptions: 4, TimeLimitMinutes: 1, Difficulty: problemgen.DifficultyMedium}
	raw, err := Encode(old)
	require.NoError(t, err)
	st.data[StorageKey] = raw
	st.writeErr = errors.New("readonly database")
	svc := NewService(st, nil)

	want := svc.Save(ctx, Settings{NumQuestions: 3, NumOptions: 2, TimeLimitMinutes: 5, Difficulty: "Hard"})
	got, ok := svc.Load(ctx)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	svc.Clear(ctx)
	got, ok = svc.Load(ctx)
	assert.False(t, ok)
	assert.Equal(t, Defaults(), got)

	// A later successful write goes back to reading the store.
	st.writeErr = nil
	want = svc.Save(ctx, Settings{NumQuestions: 7, NumOptions: 3, TimeLimitMinutes: 2, Difficulty: "Easy"})
	st.data[StorageKey], err = Encode(Settings{NumQuestions: 8, NumOptions: 3, TimeLimitMinutes: 2, Difficulty: problemgen.DifficultyEasy})
	require.NoError(t, err)
	got, ok = svc.Load(ctx)
	assert.True(t, ok)
	assert.Equal(t, 8, got.NumQuestions)
	assert.Equal(t, 7, want.NumQuestions)
}

func TestService_NilStore(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil, nil)

	_, ok := svc.Load(ctx)
	assert.False(t, ok)

	svc.Save(ctx, Settings{NumQuestions: 2})
	got, ok := svc.Load(ctx)
	assert.True(t, ok)
	assert.Equal(t, 2, got.NumQuestions)

	svc.Clear(ctx)
	_, ok = svc.Load(ctx)
	assert.False(t, ok)
}
