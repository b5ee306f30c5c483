package schedule

import (
	"sync"
	"time"
)

// Manual is a Scheduler whose time only moves when Advance is called.
// Callbacks run synchronously on the goroutine calling Advance.
type Manual struct {
	mu    sync.Mutex
	tasks []*manualTask
}

// NewManual returns a scheduler for tests
func NewManual() *Manual {
	return &Manual{}
}

type manualTask struct {
	period  time.Duration
	elapsed time.Duration
	fn      func() bool
	done    chan struct{}
	once    sync.Once
}

func (m *Manual) Every(period time.Duration, fn func() bool) Task {
	t := &manualTask{
		period: clampPeriod(period),
		fn:     fn,
		done:   make(chan struct{}),
	}

	m.mu.Lock()
	m.tasks = append(m.tasks, t)
	m.mu.Unlock()

	return t
}

// Advance moves time forward by d, firing every due callback in order.
// Tasks started by a callback during Advance begin counting afterwards.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	tasks := make([]*manualTask, len(m.tasks))
	copy(tasks, m.tasks)
	m.mu.Unlock()

	for _, t := range tasks {
		t.advance(d)
	}

	m.prune()
}

// Active returns how many tasks are still scheduled
func (m *Manual) Active() int {
	m.prune()

	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *Manual) prune() {
	m.mu.Lock()
	defer m.mu.Unlock()

	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.finished() {
			live = append(live, t)
		}
	}
	m.tasks = live
}

func (t *manualTask) advance(d time.Duration) {
	t.elapsed += d
	for t.elapsed >= t.period && !t.finished() {
		t.elapsed -= t.period
		if !t.fn() {
			t.Stop()
		}
	}
}

func (t *manualTask) finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

func (t *manualTask) Stop() {
	t.once.Do(func() { close(t.done) })
}

func (t *manualTask) Done() <-chan struct{} {
	return t.done
}
