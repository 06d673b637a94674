package anim

import (
	"fmt"
	"time"
)

// Lazy defers building a sub-sequence until the tick its slot is reached,
// for steps that need values only valid at runtime. The sub-sequence runs as
// an inner queue with the usual ordering rules; Lazy finishes once it drains.
type Lazy struct {
	base
	factory func(b *Builder)
	inner   *queue
}

func NewLazy(factory func(b *Builder)) (*Lazy, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: lazy factory", ErrNilArgument)
	}
	return &Lazy{base: base{blocking: true}, factory: factory}, nil
}

func (l *Lazy) Update(us *UpdateState, qs *QueueState) error {
	if l.terminal() {
		return nil
	}
	if l.inner == nil {
		err := l.materialize(qs)
		if qs != nil && qs.q != nil {
			qs.q.dirty = true
		}
		if err != nil {
			l.finish()
			return err
		}
	}

	inner := &QueueState{q: l.inner, Secondary: qs != nil && qs.Secondary}
	if qs != nil {
		inner.Sequencer = qs.Sequencer
	}
	err := l.inner.advance(us, inner, func(_ Animation, err error) error { return err })
	l.inner.sweep()
	if l.inner.takeDirty() && qs != nil && qs.q != nil {
		qs.q.dirty = true
	}
	if err != nil {
		return err
	}
	if l.inner.len() == 0 {
		l.finish()
	}
	return nil
}

func (l *Lazy) materialize(qs *QueueState) error {
	var seq *Sequencer
	if qs != nil {
		seq = qs.Sequencer
	}
	var steps []Animation
	child := &Builder{
		seq:     seq,
		targets: l.targets,
		submit: func(items []Animation, secondary bool) error {
			if secondary {
				if seq == nil {
					return fmt.Errorf("%w: secondary sequence without a sequencer", ErrInvalidOperation)
				}
				seq.beginSequence(items, true)
				return nil
			}
			steps = items
			return nil
		},
	}
	l.factory(child)

	l.inner = newQueue(qs != nil && qs.Secondary)
	if !child.applied {
		if len(child.steps) > 0 {
			return ErrBuilderNotApplied
		}
		child.applied = true
	}
	if child.err != nil {
		return child.err
	}
	for _, s := range steps {
		s.SetIgnorePause(s.IgnorePause() || l.ignorePause)
	}
	l.inner.push(steps...)
	return nil
}

func (l *Lazy) Cancel() {
	if l.terminal() {
		return
	}
	l.base.Cancel()
	if l.inner != nil {
		l.inner.cancel(func(Animation) bool { return true })
	}
}

func (l *Lazy) IsObjectAnimated(target any) bool {
	if l.base.IsObjectAnimated(target) {
		return true
	}
	return l.inner != nil && l.inner.isAnimated(target)
}

// Reset drops the materialized sub-sequence; the factory runs again.
func (l *Lazy) Reset() {
	l.resetFlags()
	l.inner = nil
}

func (l *Lazy) TimeTillNextEvent(_, _, defaultCycle time.Duration) time.Duration {
	if l.inner == nil {
		return defaultCycle
	}
	eta, err := l.inner.nextEvent(defaultCycle)
	if err != nil || eta == Infinite {
		return defaultCycle
	}
	return eta
}
