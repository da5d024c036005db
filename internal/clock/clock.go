// Package clock abstracts time for the quiz controller.
//
// The controller never sleeps or starts goroutines itself. It asks a
// Scheduler for one-shot and interval tasks and keeps the returned Timer
// handles so it can cancel them. Front ends pick the implementation that
// matches their event loop; tests use Fake to step time by hand.
package clock

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled task.
type Timer interface {
	// Stop cancels the task. It reports whether the task was still pending.
	// Stopping an already stopped or fired one-shot task is a no-op.
	Stop() bool
}

// Scheduler runs callbacks after a delay or on an interval.
//
// Implementations must invoke callbacks on the same logical thread that
// drives the controller, so callbacks never race with user input.
type Scheduler interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc runs f once after d.
	AfterFunc(d time.Duration, f func()) Timer

	// Every runs f every d until the returned Timer is stopped.
	Every(d time.Duration, f func()) Timer
}

// Poster hands a callback to an event loop for execution.
type Poster func(f func())

// Real is a wall-clock Scheduler. Callbacks fire on runtime timer goroutines
// and are handed to post, which must forward them to the owning event loop.
type Real struct {
	post Poster
}

var _ Scheduler = (*Real)(nil)

// NewReal creates a wall-clock scheduler. A nil post runs callbacks directly
// on the timer goroutine.
func NewReal(post Poster) *Real {
	if post == nil {
		post = func(f func()) { f() }
	}
	return &Real{post: post}
}

func (r *Real) Now() time.Time {
	return time.Now()
}

func (r *Real) AfterFunc(d time.Duration, f func()) Timer {
	t := &realTimer{stop: make(chan struct{})}
	t.timer = time.AfterFunc(d, func() {
		r.post(func() {
			if t.stopped() {
				return
			}
			f()
		})
	})
	return t
}

func (r *Real) Every(d time.Duration, f func()) Timer {
	t := &realTimer{stop: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				r.post(func() {
					if t.stopped() {
						return
					}
					f()
				})
			}
		}
	}()
	return t
}

// realTimer guards against callbacks that were already posted to the loop
// when Stop was called.
type realTimer struct {
	once  sync.Once
	stop  chan struct{}
	timer *time.Timer
}

func (t *realTimer) Stop() bool {
	pending := !t.stopped()
	t.once.Do(func() {
		close(t.stop)
		if t.timer != nil {
			t.timer.Stop()
		}
	})
	return pending
}

func (t *realTimer) stopped() bool {
	select {
	case <-t.stop:
		return true
	default:
		return false
	}
}
