package session

import (
	"fmt"
	"time"
)

// Phase is the controller's lifecycle phase.
type Phase int

const (
	PhaseIdle    Phase = iota // No session started yet
	PhaseRunning              // Serving questions, countdown active
	PhaseEnded                // Finished; Start is required to run again
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseEnded:
		return "ended"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// State is the mutable run state of one session.
type State struct {
	// Score is the number of correct answers.
	Score int

	// QuestionIndex counts the questions served so far, including the one
	// currently displayed. It never exceeds the configured question count.
	QuestionIndex int

	// CorrectAnswer is the answer to the displayed question, nil before the
	// first question.
	CorrectAnswer *int

	// Answered is true once the displayed question has been answered.
	Answered bool

	// Frozen blocks all further answers.
	Frozen bool

	// TimerExpired is set when the countdown reached zero.
	TimerExpired bool

	// RemainingSeconds is the countdown value.
	RemainingSeconds int

	// StartedAt is when the session started. Zero if unknown.
	StartedAt time.Time
}

// Summary is the result of a finished session.
type Summary struct {
	SessionID string

	Score   int
	Total   int
	Percent int

	// AvgSecondsPerQuestion is TimeSpentSeconds divided by Answered,
	// or 0 when nothing was answered.
	AvgSecondsPerQuestion float64

	TimeSpentSeconds int
	Answered         int
	Served           int
	TimerExpired     bool

	Difficulty string
	Category   string

	StartedAt time.Time
	EndedAt   time.Time
}

// CategoryLabel returns the category for display, or "N/A" when unset.
func (s Summary) CategoryLabel() string {
	if s.Category == "" {
		return "N/A"
	}
	return s.Category
}

// AnswerRecord describes one scored answer.
type AnswerRecord struct {
	SessionID     string
	QuestionIndex int
	QuestionText  string
	CorrectAnswer int
	Chosen        int
	Correct       bool
	TimeMs        int
}

// FormatClock renders seconds as HH:MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
