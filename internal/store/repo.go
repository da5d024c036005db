package store

import (
	"context"
	"time"

	"github.com/abhisek/mathquiz/internal/session"
)

// QueryOpts configures history queries.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // ended_at >= From
}

// Result is one stored quiz result.
type Result struct {
	Sequence int64
	session.Summary
}

// Answer is one stored answer event.
type Answer struct {
	Sequence  int64
	CreatedAt time.Time
	session.AnswerRecord
}

// Stats aggregates every stored result.
type Stats struct {
	Sessions       int
	AvgPercent     float64
	BestPercent    int
	TimeUps        int
	Answers        int
	CorrectAnswers int
	TimeSpentSecs  int
}

// Accuracy returns the share of correct answers, 0 when none were given.
func (s Stats) Accuracy() float64 {
	if s.Answers == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.Answers)
}

// KVRepo stores opaque values by key.
type KVRepo interface {
	// Get returns the value for key, or nil if none is stored.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// HistoryRepo records finished sessions and their answers. It satisfies
// session.Recorder.
type HistoryRepo interface {
	RecordAnswer(ctx context.Context, rec session.AnswerRecord) error
	RecordResult(ctx context.Context, sum session.Summary) error

	// Results returns stored results, newest first.
	Results(ctx context.Context, opts QueryOpts) ([]Result, error)

	// Result returns the result for sessionID, or ErrNotFound.
	Result(ctx context.Context, sessionID string) (*Result, error)

	// Answers returns the answers of sessionID in the order given.
	Answers(ctx context.Context, sessionID string) ([]Answer, error)

	// Stats aggregates all results and answers.
	Stats(ctx context.Context) (Stats, error)

	// Clear deletes all results and answers.
	Clear(ctx context.Context) error
}
