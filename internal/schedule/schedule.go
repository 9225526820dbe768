// Package schedule defers work behind a cancellation handle. Timer backs it
// with real timers; Manual keeps a virtual clock that tests and headless
// simulations advance explicitly.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Task is a handle to one deferred call.
type Task interface {
	// Cancel stops the call from running. It reports whether the call was
	// still pending.
	Cancel() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	After(d time.Duration, fn func()) Task
}

// Timer schedules on time.AfterFunc. Callbacks run on their own goroutine.
type Timer struct{}

func NewTimer() Timer { return Timer{} }

func (Timer) After(d time.Duration, fn func()) Task {
	return timerTask{time.AfterFunc(d, fn)}
}

type timerTask struct{ t *time.Timer }

func (t timerTask) Cancel() bool { return t.t.Stop() }

// Manual queues tasks on a virtual clock. Nothing runs until Step or Drain is
// called, and callbacks run on the caller's goroutine.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	queue []*manualTask
}

type manualTask struct {
	m   *Manual
	due time.Duration
	seq int
	fn  func()
}

func NewManual() *Manual { return &Manual{} }

func (m *Manual) After(d time.Duration, fn func()) Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTask{m: m, due: m.now + d, seq: m.seq, fn: fn}
	m.queue = append(m.queue, t)
	sort.SliceStable(m.queue, func(i, j int) bool {
		if m.queue[i].due != m.queue[j].due {
			return m.queue[i].due < m.queue[j].due
		}
		return m.queue[i].seq < m.queue[j].seq
	})
	return t
}

func (t *manualTask) Cancel() bool {
	m := t.m
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, q := range m.queue {
		if q == t {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Step advances the clock to the earliest pending task and runs it. It
// reports false when nothing is pending.
func (m *Manual) Step() bool {
	m.mu.Lock()
	if len(m.queue) == 0 {
		m.mu.Unlock()
		return false
	}
	t := m.queue[0]
	m.queue = m.queue[1:]
	if t.due > m.now {
		m.now = t.due
	}
	m.mu.Unlock()

	t.fn()
	return true
}

// Drain runs tasks until none are pending or limit tasks have run
// (limit <= 0 means no limit). It returns the number of tasks run.
func (m *Manual) Drain(limit int) int {
	n := 0
	for (limit <= 0 || n < limit) && m.Step() {
		n++
	}
	return n
}

// Pending returns the number of queued tasks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Now returns the virtual time elapsed.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Group tracks the tasks it schedules so they can be cancelled together.
type Group struct {
	s     Scheduler
	mu    sync.Mutex
	tasks map[*groupTask]struct{}
}

type groupTask struct {
	g     *Group
	inner Task
}

func NewGroup(s Scheduler) *Group {
	return &Group{s: s, tasks: make(map[*groupTask]struct{})}
}

func (g *Group) After(d time.Duration, fn func()) Task {
	t := &groupTask{g: g}
	g.mu.Lock()
	g.tasks[t] = struct{}{}
	g.mu.Unlock()

	inner := g.s.After(d, func() {
		if g.release(t) {
			fn()
		}
	})

	g.mu.Lock()
	t.inner = inner
	g.mu.Unlock()
	return t
}

// release removes t and reports whether it was still live.
func (g *Group) release(t *groupTask) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, live := g.tasks[t]
	delete(g.tasks, t)
	return live
}

func (t *groupTask) Cancel() bool {
	live := t.g.release(t)
	t.g.mu.Lock()
	inner := t.inner
	t.g.mu.Unlock()
	if inner != nil {
		inner.Cancel()
	}
	return live
}

// CancelAll cancels every pending task of the group and returns how many there were.
func (g *Group) CancelAll() int {
	g.mu.Lock()
	pending := make([]*groupTask, 0, len(g.tasks))
	for t := range g.tasks {
		pending = append(pending, t)
	}
	g.mu.Unlock()

	n := 0
	for _, t := range pending {
		if t.Cancel() {
			n++
		}
	}
	return n
}

// Pending returns the number of tasks that have neither run nor been cancelled.
func (g *Group) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.tasks)
}
