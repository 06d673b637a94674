package anim

import "sync"

// pending is the only part of a sequencer that may be touched from other
// goroutines. Actions run on the tick goroutine in submission order.
type pending struct {
	mu      sync.Mutex
	actions []func()
}

func (p *pending) push(f func()) {
	p.mu.Lock()
	p.actions = append(p.actions, f)
	p.mu.Unlock()
}

// drain runs every queued action, including ones queued by the actions
// themselves, and reports how many ran.
func (p *pending) drain() int {
	n := 0
	for {
		p.mu.Lock()
		actions := p.actions
		p.actions = nil
		p.mu.Unlock()
		if len(actions) == 0 {
			return n
		}
		for _, f := range actions {
			f()
		}
		n += len(actions)
	}
}

func (p *pending) clear() {
	p.mu.Lock()
	p.actions = nil
	p.mu.Unlock()
}
