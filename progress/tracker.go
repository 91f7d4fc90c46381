package progress

import (
	"sync"
	"sync/atomic"
	"time"
)

// Task counts progress of one unit of work. A nil *Task is valid and
// ignores every update, so callers never need to guard.
type Task struct {
	name    string
	total   int64
	started time.Time

	done     atomic.Int64
	checked  atomic.Uint64
	finished atomic.Int64 // unix nanos, 0 while running
}

// Snapshot is a point-in-time copy of a task.
type Snapshot struct {
	Name     string
	Total    int64
	Done     int64
	Checked  uint64
	Finished bool
	Elapsed  time.Duration
}

// Fraction returns Done/Total clamped to [0, 1]. Tasks with no work
// report 1 once finished.
func (s Snapshot) Fraction() float64 {
	if s.Total <= 0 {
		if s.Finished {
			return 1
		}

		return 0
	}

	f := float64(s.Done) / float64(s.Total)
	if f > 1 {
		return 1
	}

	return f
}

// Add records n completed units.
func (t *Task) Add(n int64) {
	if t == nil {
		return
	}

	t.done.Add(n)
}

// AddChecked records n examined candidates.
func (t *Task) AddChecked(n uint64) {
	if t == nil {
		return
	}

	t.checked.Add(n)
}

// Finish marks the task complete. Later calls are no-ops.
func (t *Task) Finish() {
	if t == nil {
		return
	}

	t.finished.CompareAndSwap(0, time.Now().UnixNano())
}

// Snapshot copies the current counters.
func (t *Task) Snapshot() Snapshot {
	if t == nil {
		return Snapshot{}
	}

	s := Snapshot{
		Name:    t.name,
		Total:   t.total,
		Done:    t.done.Load(),
		Checked: t.checked.Load(),
	}

	if end := t.finished.Load(); end != 0 {
		s.Finished = true
		s.Elapsed = time.Unix(0, end).Sub(t.started)
	} else {
		s.Elapsed = time.Since(t.started)
	}

	return s
}

// Tracker owns the tasks of one operation. A nil *Tracker hands out nil
// tasks.
type Tracker struct {
	mu    sync.Mutex
	tasks []*Task
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// NewTask registers a task expecting total units of work.
func (tr *Tracker) NewTask(name string, total int64) *Task {
	if tr == nil {
		return nil
	}

	t := &Task{
		name:    name,
		total:   total,
		started: time.Now(),
	}

	tr.mu.Lock()
	tr.tasks = append(tr.tasks, t)
	tr.mu.Unlock()

	return t
}

// Snapshots copies every task in creation order.
func (tr *Tracker) Snapshots() []Snapshot {
	if tr == nil {
		return nil
	}

	tr.mu.Lock()
	tasks := make([]*Task, len(tr.tasks))
	copy(tasks, tr.tasks)
	tr.mu.Unlock()

	out := make([]Snapshot, len(tasks))
	for i, t := range tasks {
		out[i] = t.Snapshot()
	}

	return out
}

// Checked sums the candidates examined across all tasks.
func (tr *Tracker) Checked() uint64 {
	var sum uint64

	for _, s := range tr.Snapshots() {
		sum += s.Checked
	}

	return sum
}
