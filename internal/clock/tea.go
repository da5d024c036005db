package clock

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// TaskMsg is delivered by the Bubble Tea runtime when a task is due.
type TaskMsg struct {
	owner *Tea
	id    int
}

// Tea is a Scheduler for Bubble Tea programs. Tasks become tea.Tick
// commands; the owning model passes every message to Handle, which runs
// the callback inside Update, and returns Cmd from Update so newly
// scheduled ticks reach the runtime.
type Tea struct {
	nextID  int
	tasks   map[int]*teaTask
	pending []tea.Cmd
}

var _ Scheduler = (*Tea)(nil)

type teaTask struct {
	id       int
	interval time.Duration
	f        func()
	sched    *Tea
}

// NewTea creates a Bubble Tea scheduler.
func NewTea() *Tea {
	return &Tea{tasks: make(map[int]*teaTask)}
}

func (t *Tea) Now() time.Time {
	return time.Now()
}

func (t *Tea) AfterFunc(d time.Duration, f func()) Timer {
	return t.add(d, 0, f)
}

func (t *Tea) Every(d time.Duration, f func()) Timer {
	return t.add(d, d, f)
}

// Handle runs the task behind msg if msg is a TaskMsg of this scheduler.
// It reports whether msg was consumed.
func (t *Tea) Handle(msg tea.Msg) bool {
	tm, ok := msg.(TaskMsg)
	if !ok || tm.owner != t {
		return false
	}
	task, live := t.tasks[tm.id]
	if !live {
		return true
	}
	if task.interval > 0 {
		t.arm(task.id, task.interval)
	} else {
		delete(t.tasks, task.id)
	}
	task.f()
	return true
}

// Cmd drains the ticks scheduled since the last call.
func (t *Tea) Cmd() tea.Cmd {
	if len(t.pending) == 0 {
		return nil
	}
	cmds := t.pending
	t.pending = nil
	return tea.Batch(cmds...)
}

// Pending returns the number of live tasks.
func (t *Tea) Pending() int {
	return len(t.tasks)
}

func (t *Tea) add(d, interval time.Duration, f func()) *teaTask {
	t.nextID++
	task := &teaTask{id: t.nextID, interval: interval, f: f, sched: t}
	t.tasks[task.id] = task
	t.arm(task.id, d)
	return task
}

func (t *Tea) arm(id int, d time.Duration) {
	t.pending = append(t.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return TaskMsg{owner: t, id: id}
	}))
}

func (task *teaTask) Stop() bool {
	if _, ok := task.sched.tasks[task.id]; !ok {
		return false
	}
	delete(task.sched.tasks, task.id)
	return true
}
