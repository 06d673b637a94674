package anim

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const defaultStepLimit = 1 << 20

// Result summarizes one tick.
type Result struct {
	// Completed counts animations dequeued this tick after finishing.
	Completed int
	// Canceled counts animations dequeued this tick after being canceled.
	Canceled int
	// Running counts entries still queued after the tick.
	Running int
}

// Sequencer runs animations in one primary queue and any number of secondary
// queues. It is driven by Update from a single goroutine; builders may apply
// sequences from anywhere, they become live on the next tick.
type Sequencer struct {
	owner        any
	defaultCycle time.Duration
	policy       FailurePolicy
	logger       *slog.Logger
	stepLimit    int
	handlers     []func(Failure)

	guard   guard
	pending pending

	primary     *queue
	secondaries []*queue

	timeTill time.Duration
	dirty    bool
}

func NewSequencer(opts ...Option) *Sequencer {
	s := &Sequencer{
		defaultCycle: DefaultCycle,
		logger:       slog.Default(),
		stepLimit:    defaultStepLimit,
		guard:        guard{enabled: concurrencyCheckDefault},
		primary:      newQueue(false),
		timeTill:     Infinite,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.policy == nil {
		if s.owner != nil {
			s.policy = AlwaysRemove
		} else {
			s.policy = AlwaysAbort
		}
	}
	return s
}

// NewOwnerSequencer creates a sequencer bound to owner. Failed animations are
// removed and the owner keeps ticking unless another policy is given.
func NewOwnerSequencer(owner any, opts ...Option) *Sequencer {
	return NewSequencer(append([]Option{WithOwner(owner)}, opts...)...)
}

func (s *Sequencer) Owner() any {
	return s.owner
}

func (s *Sequencer) DefaultCycle() time.Duration {
	return s.defaultCycle
}

// BuildSequence starts a sequence scoped to targets.
func (s *Sequencer) BuildSequence(targets ...any) *Builder {
	b := &Builder{seq: s}
	for _, t := range targets {
		if t == nil {
			b.fail(fmt.Errorf("%w: sequence target", ErrNilArgument))
			continue
		}
		b.targets = append(b.targets, t)
	}
	b.submit = func(items []Animation, secondary bool) error {
		s.pending.push(func() {
			s.beginSequence(items, secondary)
		})
		return nil
	}
	return b
}

// beginSequence makes items live. It runs on the tick goroutine.
func (s *Sequencer) beginSequence(items []Animation, secondary bool) {
	if len(items) == 0 {
		return
	}
	s.dirty = true
	if secondary {
		s.secondaries = append(s.secondaries, newQueue(true, items...))
		return
	}
	s.primary.push(items...)
}

// Update runs one tick. When a failure aborts the tick, terminal entries stay
// queued until the next successful tick and the returned Result is zero.
func (s *Sequencer) Update(us *UpdateState) (Result, error) {
	s.guard.enter()
	defer s.guard.exit()

	if us == nil {
		return Result{}, fmt.Errorf("%w: update state", ErrNilArgument)
	}

	if s.pending.drain() > 0 {
		s.dirty = true
	}
	if s.empty() {
		s.timeTill = Infinite
		s.dirty = false
		return Result{}, nil
	}

	qs := &QueueState{Sequencer: s, q: s.primary}
	if err := s.primary.advance(us, qs, s.failer(false, us.Pass)); err != nil {
		return s.abort(err)
	}

	// Secondary queues opened while this loop runs start on the next tick.
	n := len(s.secondaries)
	for i := 0; i < n; i++ {
		q := s.secondaries[i]
		qs := &QueueState{Sequencer: s, Secondary: true, q: q}
		if err := q.advance(us, qs, s.failer(true, us.Pass)); err != nil {
			return s.abort(err)
		}
	}

	var res Result
	f, c := s.primary.sweep()
	res.Completed += f
	res.Canceled += c
	kept := s.secondaries[:0]
	for _, q := range s.secondaries {
		f, c := q.sweep()
		res.Completed += f
		res.Canceled += c
		if q.len() > 0 {
			kept = append(kept, q)
		} else {
			s.dirty = true
		}
	}
	clear(s.secondaries[len(kept):])
	s.secondaries = kept

	if err := s.refreshTiming(us); err != nil {
		return res, err
	}
	res.Running = s.countRunning()
	if res.Completed > 0 || res.Canceled > 0 {
		s.logger.Debug("anim: tick", "pass", us.Pass, "completed", res.Completed, "canceled", res.Canceled, "running", res.Running)
	}
	return res, nil
}

// abort ends a tick that a failure policy stopped. Nothing is swept, but the
// time till the next event reflects the animations that did run; the queues
// stay marked changed so the next tick recomputes it again.
func (s *Sequencer) abort(err error) (Result, error) {
	s.dirty = true
	if terr := s.recomputeTiming(); terr != nil {
		return Result{}, errors.Join(err, terr)
	}
	return Result{}, err
}

func (s *Sequencer) failer(secondary bool, pass uint64) func(Animation, error) error {
	return func(a Animation, err error) error {
		return s.handleFailure(a, err, secondary, pass)
	}
}

// refreshTiming recomputes the time till the next event when the queues
// changed this tick and otherwise counts the cached value down, floored at the
// default cycle.
func (s *Sequencer) refreshTiming(us *UpdateState) error {
	changed := s.dirty || us.Paused
	if s.primary.takeDirty() {
		changed = true
	}
	for _, q := range s.secondaries {
		if q.takeDirty() {
			changed = true
		}
	}
	s.dirty = false

	if changed || s.timeTill == Infinite {
		return s.recomputeTiming()
	}
	s.timeTill = max(s.timeTill-us.Delta, s.defaultCycle)
	return nil
}

func (s *Sequencer) recomputeTiming() error {
	eta := Infinite
	queues := append([]*queue{s.primary}, s.secondaries...)
	for _, q := range queues {
		if q.len() == 0 {
			continue
		}
		v, err := q.nextEvent(s.defaultCycle)
		if err != nil {
			return err
		}
		eta = min(eta, v)
	}
	if eta == 0 {
		eta = s.defaultCycle
	}
	s.timeTill = eta
	return nil
}

// Precalculate makes pending sequences live and computes the time till the
// next event without advancing time.
func (s *Sequencer) Precalculate() error {
	s.guard.enter()
	defer s.guard.exit()

	s.pending.drain()
	s.dirty = false
	s.primary.takeDirty()
	for _, q := range s.secondaries {
		q.takeDirty()
	}
	if s.empty() {
		s.timeTill = Infinite
		return nil
	}
	return s.recomputeTiming()
}

// TimeTillCurrentAnimationStepFinished is the time until the next animation
// is expected to finish, as of the last tick. It is Infinite when idle.
func (s *Sequencer) TimeTillCurrentAnimationStepFinished() time.Duration {
	s.guard.enter()
	defer s.guard.exit()
	return s.timeTill
}

// CancelAnimations cancels every queued animation.
func (s *Sequencer) CancelAnimations() int {
	return s.cancel(func(Animation) bool { return true })
}

// CancelAnimationsOf cancels the animations bound to target in every queue.
func (s *Sequencer) CancelAnimationsOf(target any) int {
	return s.cancel(func(a Animation) bool { return a.IsObjectAnimated(target) })
}

func (s *Sequencer) cancel(match func(Animation) bool) int {
	s.guard.enter()
	defer s.guard.exit()

	n := s.primary.cancel(match)
	for _, q := range s.secondaries {
		n += q.cancel(match)
	}
	return n
}

// BeginCancelAnimations cancels every animation on the next tick. It is safe
// to call from any goroutine.
func (s *Sequencer) BeginCancelAnimations() {
	s.pending.push(func() { s.CancelAnimations() })
}

func (s *Sequencer) BeginCancelAnimationsOf(target any) {
	s.pending.push(func() { s.CancelAnimationsOf(target) })
}

// CountRunningAnimations counts queued entries, including terminal ones that
// have not been swept yet.
func (s *Sequencer) CountRunningAnimations() int {
	s.guard.enter()
	defer s.guard.exit()
	return s.countRunning()
}

func (s *Sequencer) countRunning() int {
	n := s.primary.len()
	for _, q := range s.secondaries {
		n += q.len()
	}
	return n
}

func (s *Sequencer) IsObjectAnimated(target any) bool {
	s.guard.enter()
	defer s.guard.exit()

	if s.primary.isAnimated(target) {
		return true
	}
	for _, q := range s.secondaries {
		if q.isAnimated(target) {
			return true
		}
	}
	return false
}

// Reset drops every queue and every pending action without canceling.
func (s *Sequencer) Reset() {
	s.guard.enter()
	defer s.guard.exit()

	s.pending.clear()
	s.primary = newQueue(false)
	s.secondaries = nil
	s.timeTill = Infinite
	s.dirty = false
}

func (s *Sequencer) empty() bool {
	return s.countRunning() == 0
}
