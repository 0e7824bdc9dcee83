package probe

import (
	"sync"
	"time"
)

// Pauser is a cooperative pause gate. The client checks it before every
// request, so toggling it freezes the whole scan at request granularity.
// While running, Wait costs a mutex lock and a bool check.
type Pauser struct {
	mu         sync.Mutex
	cond       *sync.Cond
	paused     bool
	pauseStart time.Time
	total      time.Duration
}

// NewPauser returns a Pauser in the running state.
func NewPauser() *Pauser {
	p := &Pauser{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Wait blocks while the scan is paused and returns immediately otherwise.
func (p *Pauser) Wait() {
	p.mu.Lock()
	for p.paused {
		p.cond.Wait()
	}
	p.mu.Unlock()
}

// Toggle flips between paused and running and reports the new state
// (true = now paused).
func (p *Pauser) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		p.total += time.Since(p.pauseStart)
		p.paused = false
		p.cond.Broadcast()
	} else {
		p.paused = true
		p.pauseStart = time.Now()
	}
	return p.paused
}

// IsPaused reports whether the scan is currently paused.
func (p *Pauser) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// PausedFor returns the accumulated time spent paused, including an ongoing
// pause.
func (p *Pauser) PausedFor() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.total
	if p.paused {
		d += time.Since(p.pauseStart)
	}
	return d
}
