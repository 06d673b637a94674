package anim

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// WaitForTime blocks its queue for a fixed duration.
type WaitForTime struct {
	base
	duration time.Duration
	current  time.Duration
}

func NewWaitForTime(d time.Duration) (*WaitForTime, error) {
	if err := checkDuration(d); err != nil {
		return nil, err
	}
	return &WaitForTime{base: base{blocking: true}, duration: d}, nil
}

func (w *WaitForTime) Update(us *UpdateState, _ *QueueState) error {
	if w.terminal() {
		return nil
	}
	w.current += us.Delta
	if w.current >= w.duration {
		w.current = w.duration
		w.finish()
	}
	return nil
}

func (w *WaitForTime) Reset() {
	w.resetFlags()
	w.current = 0
}

func (w *WaitForTime) TimeTillNextEvent(_, _, _ time.Duration) time.Duration {
	return remaining(w.duration, w.current)
}

// WaitForCondition blocks until its predicate reports true.
type WaitForCondition struct {
	base
	pred func() bool
}

func NewWaitForCondition(pred func() bool) (*WaitForCondition, error) {
	if pred == nil {
		return nil, fmt.Errorf("%w: condition", ErrNilArgument)
	}
	return &WaitForCondition{base: base{blocking: true}, pred: pred}, nil
}

func (w *WaitForCondition) Update(_ *UpdateState, _ *QueueState) error {
	if w.terminal() {
		return nil
	}
	if w.pred() {
		w.finish()
	}
	return nil
}

func (w *WaitForCondition) Reset() { w.resetFlags() }

func (w *WaitForCondition) TimeTillNextEvent(_, _, defaultCycle time.Duration) time.Duration {
	return defaultCycle
}

// Task is an externally completed unit of work. A context.Context and a
// *Completion both satisfy it.
type Task interface {
	Done() <-chan struct{}
}

type taskErr interface {
	Err() error
}

// WaitForTask blocks until an external task completes. A task that reports a
// non-nil Err other than context.Canceled fails the step.
type WaitForTask struct {
	base
	task Task
}

func NewWaitForTask(t Task) (*WaitForTask, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: task", ErrNilArgument)
	}
	return &WaitForTask{base: base{blocking: true}, task: t}, nil
}

func (w *WaitForTask) Update(_ *UpdateState, _ *QueueState) error {
	if w.terminal() {
		return nil
	}
	select {
	case <-w.task.Done():
	default:
		return nil
	}
	w.finish()
	if te, ok := w.task.(taskErr); ok {
		if err := te.Err(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, ErrCanceled) {
			return fmt.Errorf("anim: awaited task failed: %w", err)
		}
	}
	return nil
}

func (w *WaitForTask) Reset() { w.resetFlags() }

func (w *WaitForTask) TimeTillNextEvent(_, _, defaultCycle time.Duration) time.Duration {
	return defaultCycle
}

// WaitForPreviousFinished is an ordering barrier over the earlier steps of
// the same sequence. It consumes no time of its own.
type WaitForPreviousFinished struct {
	base
	prev []Animation
}

func NewWaitForPreviousFinished(prev ...Animation) *WaitForPreviousFinished {
	return &WaitForPreviousFinished{
		base: base{blocking: true},
		prev: append([]Animation(nil), prev...),
	}
}

func (w *WaitForPreviousFinished) Update(_ *UpdateState, _ *QueueState) error {
	if w.terminal() {
		return nil
	}
	for _, p := range w.prev {
		if !terminal(p) {
			return nil
		}
	}
	w.finish()
	return nil
}

func (w *WaitForPreviousFinished) Reset() { w.resetFlags() }

// anyCanceled reports whether one of the awaited steps was canceled or
// removed after a failure instead of finishing.
func (w *WaitForPreviousFinished) anyCanceled() bool {
	for _, p := range w.prev {
		if p.Canceled() {
			return true
		}
	}
	return false
}

func (w *WaitForPreviousFinished) TimeTillNextEvent(_, prevMax, defaultCycle time.Duration) time.Duration {
	if prevMax > 0 {
		return prevMax
	}
	return defaultCycle
}

// sequenceClock records when a sequence first ticked.
type sequenceClock struct {
	started bool
	start   time.Duration
	now     time.Duration
}

func (c *sequenceClock) observe(us *UpdateState) {
	if !c.started {
		c.started = true
		c.start = us.Total - us.Delta
	}
	c.now = us.Total
}

func (c *sequenceClock) elapsed() time.Duration {
	if !c.started {
		return 0
	}
	return c.now - c.start
}

// clockStart is the hidden first step of sequences that use WaitUntilTimePassed.
type clockStart struct {
	base
	clock *sequenceClock
}

func (c *clockStart) Update(us *UpdateState, _ *QueueState) error {
	if c.terminal() {
		return nil
	}
	c.clock.observe(us)
	c.finish()
	return nil
}

func (c *clockStart) Reset() {
	c.resetFlags()
	c.clock.started = false
	c.clock.now = 0
}

func (c *clockStart) TimeTillNextEvent(_, _, defaultCycle time.Duration) time.Duration {
	return defaultCycle
}

// WaitUntilTimePassed blocks until d has passed since its sequence first ticked.
type WaitUntilTimePassed struct {
	base
	clock    *sequenceClock
	duration time.Duration
}

func newWaitUntilTimePassed(clock *sequenceClock, d time.Duration) (*WaitUntilTimePassed, error) {
	if err := checkDuration(d); err != nil {
		return nil, err
	}
	if clock == nil {
		return nil, fmt.Errorf("%w: sequence clock", ErrNilArgument)
	}
	return &WaitUntilTimePassed{base: base{blocking: true}, clock: clock, duration: d}, nil
}

func (w *WaitUntilTimePassed) Update(us *UpdateState, _ *QueueState) error {
	if w.terminal() {
		return nil
	}
	w.clock.observe(us)
	if w.clock.elapsed() >= w.duration {
		w.finish()
	}
	return nil
}

func (w *WaitUntilTimePassed) Reset() { w.resetFlags() }

func (w *WaitUntilTimePassed) TimeTillNextEvent(_, _, _ time.Duration) time.Duration {
	return remaining(w.duration, w.clock.elapsed())
}
