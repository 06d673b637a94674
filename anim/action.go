package anim

import (
	"fmt"
	"time"
)

// CallAction runs an action once, on the first tick it is reached. If it is
// canceled before that, the cancel action runs instead.
type CallAction struct {
	base
	action       func() error
	cancelAction func()
	ran          bool
}

func NewCallAction(action func() error, cancelAction func()) (*CallAction, error) {
	if action == nil {
		return nil, fmt.Errorf("%w: action", ErrNilArgument)
	}
	return &CallAction{action: action, cancelAction: cancelAction}, nil
}

func (c *CallAction) Update(_ *UpdateState, _ *QueueState) error {
	if c.terminal() {
		return nil
	}
	c.ran = true
	c.finish()
	return c.action()
}

func (c *CallAction) Cancel() {
	if c.terminal() {
		return
	}
	c.base.Cancel()
	if !c.ran && c.cancelAction != nil {
		c.cancelAction()
	}
}

func (c *CallAction) Reset() {
	c.resetFlags()
	c.ran = false
}

func (c *CallAction) TimeTillNextEvent(_, _, defaultCycle time.Duration) time.Duration {
	return defaultCycle
}

// rewind closes a looping sequence. Once every earlier step is done it asks
// its queue to reset the steps and append them again, followed by its twin, so
// the same instances loop forever without growing memory.
type rewind struct {
	base
	steps []Animation
	twin  *rewind
}

func newRewind(steps []Animation) *rewind {
	r := &rewind{base: base{blocking: true}, steps: steps}
	r.twin = &rewind{base: base{blocking: true}, steps: steps, twin: r}
	return r
}

func (r *rewind) Update(_ *UpdateState, qs *QueueState) error {
	if r.terminal() {
		return nil
	}
	if qs == nil || qs.q == nil {
		return fmt.Errorf("%w: rewind outside of a queue", ErrInternal)
	}
	if r.ready() {
		r.close(qs.q)
	}
	return nil
}

func (r *rewind) ready() bool {
	for _, step := range r.steps {
		if !terminal(step) {
			return false
		}
	}
	return true
}

// broken reports whether a step of the loop was canceled. A canceled step is
// never run again, so the loop ends instead of starting over.
func (r *rewind) broken() bool {
	for _, step := range r.steps {
		if step.Canceled() {
			return true
		}
	}
	return false
}

// close ends the current cycle once every step is done, either scheduling
// the next cycle on q or canceling the loop.
func (r *rewind) close(q *queue) {
	if r.broken() {
		r.Cancel()
		return
	}
	r.finish()
	q.scheduleRewind(r)
}

func (r *rewind) Reset() { r.resetFlags() }

func (r *rewind) SetIgnorePause(ignore bool) {
	r.ignorePause = ignore
	r.twin.ignorePause = ignore
}

func (r *rewind) bind(targets []any) {
	r.base.bind(targets)
	r.twin.base.bind(targets)
}

func (r *rewind) TimeTillNextEvent(_, prevMax, defaultCycle time.Duration) time.Duration {
	if prevMax > 0 {
		return prevMax
	}
	return defaultCycle
}

// resubmit resets the loop and returns the instances to append.
func (r *rewind) resubmit() []Animation {
	for _, step := range r.steps {
		step.Reset()
	}
	r.twin.Reset()
	out := make([]Animation, 0, len(r.steps)+1)
	out = append(out, r.steps...)
	return append(out, r.twin)
}
