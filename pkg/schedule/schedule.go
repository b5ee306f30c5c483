// Package schedule provides cancellable repeating tasks. Stage timers (intro
// progress, recording countdown) run on a Scheduler so tests can drive them
// with Manual instead of wall-clock time.
package schedule

import (
	"sync"
	"time"
)

// Task is a running repeating job
type Task interface {
	// Stop cancels the task. It is safe to call more than once and from
	// inside the task's own callback; it never blocks.
	Stop()
	// Done is closed once the task will not run its callback again.
	Done() <-chan struct{}
}

// Scheduler starts repeating tasks. fn runs once per period until it
// returns false or the task is stopped.
type Scheduler interface {
	Every(period time.Duration, fn func() bool) Task
}

// MinPeriod is the shortest period a task runs at. Shorter or
// non-positive periods are raised to it.
const MinPeriod = time.Millisecond

func clampPeriod(period time.Duration) time.Duration {
	if period < MinPeriod {
		return MinPeriod
	}
	return period
}

// Real runs tasks on goroutines driven by time.Ticker
type Real struct{}

// NewReal returns the wall-clock scheduler
func NewReal() Real {
	return Real{}
}

func (Real) Every(period time.Duration, fn func() bool) Task {
	t := &tickerTask{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go t.run(clampPeriod(period), fn)
	return t
}

type tickerTask struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func (t *tickerTask) run(period time.Duration, fn func() bool) {
	defer close(t.done)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			// a tick and a stop can be ready together; stop wins
			select {
			case <-t.stop:
				return
			default:
			}
			if !fn() {
				return
			}
		}
	}
}

func (t *tickerTask) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

func (t *tickerTask) Done() <-chan struct{} {
	return t.done
}
