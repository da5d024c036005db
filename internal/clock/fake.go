package clock

import (
	"sort"
	"time"
)

// Fake is a manually driven Scheduler. Time only moves when Advance is
// called, and due callbacks run synchronously inside Advance in due order.
type Fake struct {
	now    time.Time
	nextID int
	tasks  map[int]*fakeTask
}

var _ Scheduler = (*Fake)(nil)

type fakeTask struct {
	id       int
	due      time.Time
	interval time.Duration
	f        func()
	fake     *Fake
}

// NewFake creates a fake scheduler starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start, tasks: make(map[int]*fakeTask)}
}

func (c *Fake) Now() time.Time {
	return c.now
}

func (c *Fake) AfterFunc(d time.Duration, f func()) Timer {
	return c.add(d, 0, f)
}

func (c *Fake) Every(d time.Duration, f func()) Timer {
	return c.add(d, d, f)
}

// Pending returns the number of scheduled tasks.
func (c *Fake) Pending() int {
	return len(c.tasks)
}

// Advance moves time forward by d, running every task that falls due.
// Tasks scheduled by callbacks run too if they fall within the window.
func (c *Fake) Advance(d time.Duration) {
	target := c.now.Add(d)
	for {
		t := c.nextDue(target)
		if t == nil {
			break
		}
		c.now = t.due
		if t.interval > 0 {
			t.due = t.due.Add(t.interval)
		} else {
			delete(c.tasks, t.id)
		}
		t.f()
	}
	c.now = target
}

func (c *Fake) add(d, interval time.Duration, f func()) *fakeTask {
	c.nextID++
	t := &fakeTask{
		id:       c.nextID,
		due:      c.now.Add(d),
		interval: interval,
		f:        f,
		fake:     c,
	}
	c.tasks[t.id] = t
	return t
}

// nextDue returns the earliest task due at or before target, breaking ties
// by scheduling order.
func (c *Fake) nextDue(target time.Time) *fakeTask {
	var due []*fakeTask
	for _, t := range c.tasks {
		if !t.due.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].id < due[j].id
		}
		return due[i].due.Before(due[j].due)
	})
	return due[0]
}

func (t *fakeTask) Stop() bool {
	if _, ok := t.fake.tasks[t.id]; !ok {
		return false
	}
	delete(t.fake.tasks, t.id)
	return true
}
