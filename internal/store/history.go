package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathquiz/internal/session"
)

// historyRepo implements HistoryRepo over quiz_results and answer_events.
type historyRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var resultColumns = []string{
	"sequence", "session_id", "started_at", "ended_at",
	"score", "total", "percent", "answered", "served",
	"time_spent_secs", "avg_secs", "timer_expired",
	"difficulty", "category",
}

func (r *historyRepo) RecordAnswer(ctx context.Context, rec session.AnswerRecord) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert("answer_events").
		Columns("sequence", "session_id", "question_index", "question_text",
			"correct_answer", "chosen", "correct", "time_ms", "created_at").
		Values(seqNum, rec.SessionID, rec.QuestionIndex, rec.QuestionText,
			rec.CorrectAnswer, rec.Chosen, rec.Correct, rec.TimeMs, time.Now().UnixMilli()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *historyRepo) RecordResult(ctx context.Context, sum session.Summary) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert("quiz_results").
		Columns(resultColumns...).
		Values(seqNum, sum.SessionID, toMillis(sum.StartedAt), toMillis(sum.EndedAt),
			sum.Score, sum.Total, sum.Percent, sum.Answered, sum.Served,
			sum.TimeSpentSeconds, sum.AvgSecondsPerQuestion, sum.TimerExpired,
			sum.Difficulty, sum.Category).
		OnConflict(
			entsql.ConflictColumns("session_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save quiz result: %w", err)
	}
	return nil
}

func (r *historyRepo) Results(ctx context.Context, opts QueryOpts) ([]Result, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(resultColumns...).
		From(entsql.Table("quiz_results")).
		OrderBy(entsql.Desc("sequence"))

	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	if !opts.From.IsZero() {
		sel = sel.Where(entsql.GTE("ended_at", opts.From.UnixMilli()))
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		results = append(results, *res)
	}
	return results, rows.Err()
}

func (r *historyRepo) Result(ctx context.Context, sessionID string) (*Result, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(resultColumns...).
		From(entsql.Table("quiz_results")).
		Where(entsql.EQ("session_id", sessionID)).
		Query()

	res, err := scanResult(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("result %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query quiz result: %w", err)
	}
	return res, nil
}

func (r *historyRepo) Answers(ctx context.Context, sessionID string) ([]Answer, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("sequence", "session_id", "question_index", "question_text",
			"correct_answer", "chosen", "correct", "time_ms", "created_at").
		From(entsql.Table("answer_events")).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var answers []Answer
	for rows.Next() {
		var (
			a         Answer
			createdAt int64
		)
		if err := rows.Scan(&a.Sequence, &a.SessionID, &a.QuestionIndex, &a.QuestionText,
			&a.CorrectAnswer, &a.Chosen, &a.Correct, &a.TimeMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		a.CreatedAt = fromMillis(createdAt)
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (r *historyRepo) Stats(ctx context.Context) (Stats, error) {
	var (
		st       Stats
		avg      sql.NullFloat64
		best     sql.NullInt64
		timeUps  sql.NullInt64
		timeSecs sql.NullInt64
	)

	query, args := entsql.Dialect(dialect.SQLite).
		Select(
			entsql.Count("*"),
			entsql.Avg("percent"),
			entsql.Max("percent"),
			entsql.Sum("timer_expired"),
			entsql.Sum("time_spent_secs"),
		).
		From(entsql.Table("quiz_results")).
		Query()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&st.Sessions, &avg, &best, &timeUps, &timeSecs)
	if err != nil {
		return Stats{}, fmt.Errorf("aggregate quiz results: %w", err)
	}
	st.AvgPercent = avg.Float64
	st.BestPercent = int(best.Int64)
	st.TimeUps = int(timeUps.Int64)
	st.TimeSpentSecs = int(timeSecs.Int64)

	var correct sql.NullInt64
	query, args = entsql.Dialect(dialect.SQLite).
		Select(entsql.Count("*"), entsql.Sum("correct")).
		From(entsql.Table("answer_events")).
		Query()
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&st.Answers, &correct)
	if err != nil {
		return Stats{}, fmt.Errorf("aggregate answer events: %w", err)
	}
	st.CorrectAnswers = int(correct.Int64)

	return st, nil
}

func (r *historyRepo) Clear(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"answer_events", "quiz_results"} {
		query, args := entsql.Dialect(dialect.SQLite).Delete(table).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*Result, error) {
	var (
		res                Result
		startedAt, endedAt int64
	)
	err := row.Scan(&res.Sequence, &res.SessionID, &startedAt, &endedAt,
		&res.Score, &res.Total, &res.Percent, &res.Answered, &res.Served,
		&res.TimeSpentSeconds, &res.AvgSecondsPerQuestion, &res.TimerExpired,
		&res.Difficulty, &res.Category)
	if err != nil {
		return nil, err
	}
	res.StartedAt = fromMillis(startedAt)
	res.EndedAt = fromMillis(endedAt)
	return &res, nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
