package loans

import (
	"sync"
	"time"

	"branchdesk/pkg/schedule"
)

const introLength = 100

// IntroPlayer plays the scripted presenter segment. Progress moves one
// point per tick while playing; reaching 100 fires onComplete once.
type IntroPlayer struct {
	mu         sync.Mutex
	sched      schedule.Scheduler
	tick       time.Duration
	onComplete func()

	progress  int
	playing   bool
	completed bool
	closed    bool
	task      schedule.Task
}

// NewIntroPlayer returns a paused player at zero. onComplete runs on the
// scheduler's goroutine without the player lock held.
func NewIntroPlayer(sched schedule.Scheduler, tick time.Duration, onComplete func()) *IntroPlayer {
	return &IntroPlayer{
		sched:      sched,
		tick:       tick,
		onComplete: onComplete,
	}
}

// Toggle flips between playing and paused and reports the new state
func (p *IntroPlayer) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.playing {
		p.pauseLocked()
	} else {
		p.playLocked()
	}
	return p.playing
}

func (p *IntroPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playLocked()
}

func (p *IntroPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauseLocked()
}

func (p *IntroPlayer) Progress() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

func (p *IntroPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *IntroPlayer) Completed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

// Close halts the timer immediately. A closed player never completes.
func (p *IntroPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	p.pauseLocked()
}

func (p *IntroPlayer) playLocked() {
	if p.playing || p.completed || p.closed {
		return
	}
	p.playing = true
	p.task = p.sched.Every(p.tick, p.advance)
}

func (p *IntroPlayer) pauseLocked() {
	p.playing = false
	if p.task != nil {
		p.task.Stop()
		p.task = nil
	}
}

func (p *IntroPlayer) advance() bool {
	p.mu.Lock()
	if !p.playing || p.closed {
		p.mu.Unlock()
		return false
	}

	p.progress++
	if p.progress < introLength {
		p.mu.Unlock()
		return true
	}

	p.playing = false
	p.completed = true
	p.task = nil
	p.mu.Unlock()

	if p.onComplete != nil {
		p.onComplete()
	}
	return false
}
