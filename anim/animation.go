package anim

import (
	"math"
	"reflect"
	"time"
)

// Infinite is reported as the time till the next event when nothing is queued.
const Infinite = time.Duration(math.MaxInt64)

// DefaultCycle is the step used for animations that finish "as soon as possible".
const DefaultCycle = time.Second / 60

// Animation is one time- or event-bounded mutation applied once per tick.
// The set of implementations is closed: every catalog type embeds base.
type Animation interface {
	Update(us *UpdateState, qs *QueueState) error
	Reset()
	IsObjectAnimated(target any) bool
	TimeTillNextEvent(prevMin, prevMax, defaultCycle time.Duration) time.Duration

	Finished() bool
	Canceled() bool
	Blocking() bool
	IgnorePause() bool
	SetIgnorePause(ignore bool)
	Cancel()

	core() *base
}

// UpdateState is the clock handed to every animation during a tick.
type UpdateState struct {
	// Delta is the time elapsed since the previous tick.
	Delta time.Duration
	// Total is the accumulated time of all ticks so far.
	Total time.Duration
	// Pass counts ticks.
	Pass uint64
	// Paused skips every animation that does not ignore pause.
	Paused bool
}

func NewUpdateState() *UpdateState {
	return &UpdateState{}
}

// Advance moves the clock forward by d and starts a new pass.
func (s *UpdateState) Advance(d time.Duration) {
	if s == nil {
		return
	}
	s.Delta = d
	s.Total += d
	s.Pass++
}

// QueueState identifies the queue an animation is being updated in.
type QueueState struct {
	Sequencer *Sequencer
	Secondary bool

	q *queue
}

// base carries the lifecycle flags shared by all catalog animations.
type base struct {
	finished    bool
	canceled    bool
	blocking    bool
	ignorePause bool
	targets     []any
}

func (b *base) core() *base { return b }

func (b *base) Finished() bool { return b.finished }

func (b *base) Canceled() bool { return b.canceled }

func (b *base) Blocking() bool { return b.blocking }

func (b *base) IgnorePause() bool { return b.ignorePause }

func (b *base) SetIgnorePause(ignore bool) { b.ignorePause = ignore }

// Cancel marks the animation canceled. It is swept out on the next pass.
func (b *base) Cancel() {
	if b.finished {
		return
	}
	b.canceled = true
}

func (b *base) terminal() bool {
	return b.finished || b.canceled
}

func (b *base) finish() {
	b.finished = true
}

// drop marks a failed animation as removed. Unlike Cancel it also applies to
// animations that finished in the update that failed.
func (b *base) drop() {
	b.finished = false
	b.canceled = true
}

func (b *base) resetFlags() {
	b.finished = false
	b.canceled = false
}

func (b *base) IsObjectAnimated(target any) bool {
	for _, t := range b.targets {
		if sameObject(t, target) {
			return true
		}
	}
	return false
}

func (b *base) bind(targets []any) {
	if len(b.targets) > 0 {
		return
	}
	b.targets = append(b.targets, targets...)
}

// sameObject compares by identity. Non-comparable values never match.
func sameObject(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

func terminal(a Animation) bool {
	return a.Finished() || a.Canceled()
}

func remaining(total, current time.Duration) time.Duration {
	if current >= total {
		return 0
	}
	return total - current
}

// factor is the clamped [0,1] progress of current through total.
func factor(current, total time.Duration) float64 {
	if total <= 0 || current >= total {
		return 1
	}
	if current <= 0 {
		return 0
	}
	return float64(current) / float64(total)
}
