package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestFake_AfterFuncFiresOnce(t *testing.T) {
	c := NewFake(epoch)
	calls := 0
	c.AfterFunc(700*time.Millisecond, func() { calls++ })

	c.Advance(699 * time.Millisecond)
	assert.Equal(t, 0, calls)

	c.Advance(time.Millisecond)
	assert.Equal(t, 1, calls)

	c.Advance(time.Hour)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, c.Pending())
}

func TestFake_EveryRepeatsUntilStopped(t *testing.T) {
	c := NewFake(epoch)
	calls := 0
	timer := c.Every(time.Second, func() { calls++ })

	c.Advance(3500 * time.Millisecond)
	assert.Equal(t, 3, calls)

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	c.Advance(10 * time.Second)
	assert.Equal(t, 3, calls)
}

func TestFake_StopBeforeFire(t *testing.T) {
	c := NewFake(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	require.True(t, timer.Stop())
	c.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestFake_OrderAndNow(t *testing.T) {
	c := NewFake(epoch)
	var order []string
	var seen []time.Duration

	c.AfterFunc(2*time.Second, func() {
		order = append(order, "b")
		seen = append(seen, c.Now().Sub(epoch))
	})
	c.AfterFunc(time.Second, func() {
		order = append(order, "a")
		seen = append(seen, c.Now().Sub(epoch))
		// Scheduled from inside a callback, still within the window.
		c.AfterFunc(500*time.Millisecond, func() { order = append(order, "a2") })
	})

	c.Advance(5 * time.Second)

	assert.Equal(t, []string{"a", "a2", "b"}, order)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, seen)
	assert.Equal(t, epoch.Add(5*time.Second), c.Now())
}

func TestFake_CallbackStopsOtherTask(t *testing.T) {
	c := NewFake(epoch)
	ticks := 0
	var ticker Timer
	ticker = c.Every(time.Second, func() { ticks++ })
	c.AfterFunc(2500*time.Millisecond, func() { ticker.Stop() })

	c.Advance(10 * time.Second)
	assert.Equal(t, 2, ticks)
}

func TestReal_AfterFuncPostsToLoop(t *testing.T) {
	loop := make(chan func(), 1)
	r := NewReal(func(f func()) { loop <- f })

	done := make(chan struct{})
	r.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case f := <-loop:
		f()
	case <-time.After(2 * time.Second):
		t.Fatal("callback was never posted")
	}
	<-done
}

func TestReal_StoppedCallbackDropped(t *testing.T) {
	loop := make(chan func(), 4)
	r := NewReal(func(f func()) { loop <- f })

	fired := false
	timer := r.AfterFunc(time.Millisecond, func() { fired = true })

	// Wait until the closure reaches the loop, then stop before running it.
	f := <-loop
	timer.Stop()
	f()
	assert.False(t, fired)
}
