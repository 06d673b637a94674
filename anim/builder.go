package anim

import (
	"fmt"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
)

// Builder accumulates the steps of one sequence scoped to its targets. Steps
// that carry no target of their own are bound to the builder's targets, so
// canceling a target also removes the waits and actions built for it.
//
// A Builder is applied exactly once. Construction errors from the helper
// methods are kept and returned by the Apply call.
type Builder struct {
	seq     *Sequencer
	targets []any
	steps   []Animation
	clock   *sequenceClock
	applied bool
	err     error

	submit func(items []Animation, secondary bool) error
}

type binder interface {
	bind(targets []any)
}

// Add appends an animation. It panics with ErrBuilderApplied once the
// builder has been applied.
func (b *Builder) Add(a Animation) *Builder {
	if b.applied {
		panic(ErrBuilderApplied)
	}
	if a == nil {
		b.fail(fmt.Errorf("%w: animation", ErrNilArgument))
		return b
	}
	b.steps = append(b.steps, a)
	return b
}

// Err returns the first construction error recorded so far.
func (b *Builder) Err() error {
	return b.err
}

// Len returns the number of steps added so far.
func (b *Builder) Len() int {
	return len(b.steps)
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) add(a Animation, err error) *Builder {
	if b.applied {
		panic(ErrBuilderApplied)
	}
	if err != nil {
		b.fail(err)
		return b
	}
	return b.Add(a)
}

// Delay blocks the sequence for d.
func (b *Builder) Delay(d time.Duration) *Builder {
	w, err := NewWaitForTime(d)
	return b.add(w, err)
}

func (b *Builder) WaitTaskFinished(t Task) *Builder {
	w, err := NewWaitForTask(t)
	return b.add(w, err)
}

func (b *Builder) WaitForCondition(pred func() bool) *Builder {
	w, err := NewWaitForCondition(pred)
	return b.add(w, err)
}

// WaitFinished waits until every step added so far has finished or been
// canceled. It takes no time of its own.
func (b *Builder) WaitFinished() *Builder {
	return b.add(NewWaitForPreviousFinished(b.steps...), nil)
}

// WaitUntilTimePassed waits until d has passed since the sequence started.
func (b *Builder) WaitUntilTimePassed(d time.Duration) *Builder {
	if b.clock == nil {
		b.clock = &sequenceClock{}
	}
	w, err := newWaitUntilTimePassed(b.clock, d)
	return b.add(w, err)
}

// Lazy builds a sub-sequence when its slot is reached. The factory should
// apply the builder it receives; an untouched builder counts as empty.
func (b *Builder) Lazy(factory func(b *Builder)) *Builder {
	l, err := NewLazy(factory)
	return b.add(l, err)
}

func (b *Builder) CallAction(action func()) *Builder {
	if action == nil {
		return b.add(nil, fmt.Errorf("%w: action", ErrNilArgument))
	}
	c, err := NewCallAction(func() error { action(); return nil }, nil)
	return b.add(c, err)
}

// Call runs action once; onCancel runs instead if the step is canceled first.
func (b *Builder) Call(action func() error, onCancel func()) *Builder {
	c, err := NewCallAction(action, onCancel)
	return b.add(c, err)
}

func (b *Builder) ChangeFloatBy(get func() float64, set func(float64), delta float64, d time.Duration) *Builder {
	c, err := NewChangeFloatBy(get, set, delta, d)
	return b.add(c, err)
}

func (b *Builder) ChangeIntBy(get func() int, set func(int), delta int, d time.Duration) *Builder {
	c, err := NewChangeIntBy(get, set, delta, d)
	return b.add(c, err)
}

func (b *Builder) ChangeAccentuationTo(obj Accentuated, to float32, d time.Duration) *Builder {
	c, err := NewChangeAccentuationTo(obj, to, d)
	return b.add(c, err)
}

func (b *Builder) RotateEulerTo(obj EulerRotated, to mgl32.Vec3, d time.Duration) *Builder {
	r, err := NewRotateEulerTo(obj, to, d)
	return b.add(r, err)
}

func (b *Builder) RotateEulerBy(obj EulerRotated, by mgl32.Vec3, d time.Duration) *Builder {
	r, err := NewRotateEulerBy(obj, by, d)
	return b.add(r, err)
}

func (b *Builder) RotateQuatTo(obj QuatRotated, to mgl32.Quat, d time.Duration) *Builder {
	r, err := NewRotateQuatTo(obj, to, d)
	return b.add(r, err)
}

func (b *Builder) RotateQuatBy(obj QuatRotated, by mgl32.Quat, d time.Duration) *Builder {
	r, err := NewRotateQuatBy(obj, by, d)
	return b.add(r, err)
}

func (b *Builder) MoveTo(obj Positioned, to cp.Vector, d time.Duration) *Builder {
	m, err := NewMoveTo(obj, to, d)
	return b.add(m, err)
}

func (b *Builder) MoveBy(obj Positioned, by cp.Vector, d time.Duration) *Builder {
	m, err := NewMoveBy(obj, by, d)
	return b.add(m, err)
}

// ApplyOption configures how a sequence is handed to its sequencer.
type ApplyOption func(*applyConfig)

type applyConfig struct {
	onFinished  func()
	onCanceled  func()
	ignorePause *bool
}

// OnFinished runs f once every step of the sequence has completed.
func OnFinished(f func()) ApplyOption {
	return func(c *applyConfig) {
		c.onFinished = f
	}
}

// OnCanceled runs f if the sequence is canceled before it completes.
func OnCanceled(f func()) ApplyOption {
	return func(c *applyConfig) {
		c.onCanceled = f
	}
}

// IgnorePause overrides the pause behavior of every step.
func IgnorePause(ignore bool) ApplyOption {
	return func(c *applyConfig) {
		c.ignorePause = &ignore
	}
}

// Apply appends the sequence to the primary queue.
func (b *Builder) Apply(opts ...ApplyOption) error {
	items, err := b.finalize(opts, false)
	if err != nil {
		return err
	}
	return b.submit(items, false)
}

// ApplyAsSecondary starts the sequence as a new independent queue.
func (b *Builder) ApplyAsSecondary(opts ...ApplyOption) error {
	items, err := b.finalize(opts, false)
	if err != nil {
		return err
	}
	return b.submit(items, true)
}

// ApplyAsync is Apply with a Completion that resolves when the sequence
// finishes or is canceled.
func (b *Builder) ApplyAsync(opts ...ApplyOption) (*Completion, error) {
	return b.applyAsync(opts, false)
}

func (b *Builder) ApplyAsSecondaryAsync(opts ...ApplyOption) (*Completion, error) {
	return b.applyAsync(opts, true)
}

func (b *Builder) applyAsync(opts []ApplyOption, secondary bool) (*Completion, error) {
	var cfg applyConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	c := newCompletion()
	onFinished, onCanceled := cfg.onFinished, cfg.onCanceled
	opts = append(opts,
		OnFinished(func() {
			if onFinished != nil {
				onFinished()
			}
			c.resolve(nil)
		}),
		OnCanceled(func() {
			if onCanceled != nil {
				onCanceled()
			}
			c.resolve(ErrCanceled)
		}),
	)
	items, err := b.finalize(opts, false)
	if err != nil {
		return nil, err
	}
	if err := b.submit(items, secondary); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyAndRewind appends the sequence to the primary queue and loops it
// forever: when the last step is done every step is reset and queued again.
func (b *Builder) ApplyAndRewind(opts ...ApplyOption) error {
	items, err := b.finalize(opts, true)
	if err != nil {
		return err
	}
	return b.submit(items, false)
}

// ApplyAsSecondaryAndRewind loops the sequence in a new secondary queue.
func (b *Builder) ApplyAsSecondaryAndRewind(opts ...ApplyOption) error {
	items, err := b.finalize(opts, true)
	if err != nil {
		return err
	}
	return b.submit(items, true)
}

func (b *Builder) finalize(opts []ApplyOption, loop bool) ([]Animation, error) {
	if b.applied {
		panic(ErrBuilderApplied)
	}
	b.applied = true
	if b.err != nil {
		return nil, b.err
	}
	if loop && len(b.steps) == 0 {
		return nil, fmt.Errorf("%w: rewinding an empty sequence", ErrInvalidOperation)
	}

	var cfg applyConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	items := make([]Animation, 0, len(b.steps)+4)
	if b.clock != nil {
		items = append(items, &clockStart{clock: b.clock})
	}
	items = append(items, b.steps...)

	if cfg.onFinished != nil || cfg.onCanceled != nil {
		// The closing step reports a sequence as canceled when any of its
		// steps was, even if the closing step itself is not a target.
		onFinished, onCanceled := cfg.onFinished, cfg.onCanceled
		barrier := NewWaitForPreviousFinished(items...)
		call, err := NewCallAction(func() error {
			switch {
			case barrier.anyCanceled():
				if onCanceled != nil {
					onCanceled()
				}
			case onFinished != nil:
				onFinished()
			}
			return nil
		}, onCanceled)
		if err != nil {
			return nil, err
		}
		items = append(items, barrier, call)
	}
	if loop {
		items = append(items, newRewind(slices.Clone(items)))
	}

	for _, a := range items {
		if bd, ok := a.(binder); ok && len(b.targets) > 0 {
			bd.bind(b.targets)
		}
		if cfg.ignorePause != nil {
			a.SetIgnorePause(*cfg.ignorePause)
		}
	}
	return items, nil
}
