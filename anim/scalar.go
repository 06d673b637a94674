package anim

import (
	"fmt"
	"math"
	"time"
)

// Number is the set of scalar types ChangeBy can tween.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// ChangeBy adds delta to a value over a fixed duration. The value is changed
// incrementally, so several ChangeBy animations on the same value add up.
type ChangeBy[T Number] struct {
	base
	get      func() T
	set      func(T)
	delta    T
	duration time.Duration
	current  time.Duration
	applied  T
}

func NewChangeBy[T Number](get func() T, set func(T), delta T, d time.Duration) (*ChangeBy[T], error) {
	if get == nil || set == nil {
		return nil, fmt.Errorf("%w: getter and setter", ErrNilArgument)
	}
	if err := checkDuration(d); err != nil {
		return nil, err
	}
	return &ChangeBy[T]{get: get, set: set, delta: delta, duration: d}, nil
}

func (c *ChangeBy[T]) Update(us *UpdateState, _ *QueueState) error {
	if c.terminal() {
		return nil
	}
	c.current += us.Delta
	f := factor(c.current, c.duration)

	var target T
	if f >= 1 {
		target = c.delta
	} else {
		target = scale(c.delta, f)
	}
	if step := target - c.applied; step != 0 {
		c.set(c.get() + step)
		c.applied = target
	}

	if f >= 1 {
		c.current = c.duration
		c.applied = 0
		c.finish()
	}
	return nil
}

func (c *ChangeBy[T]) Reset() {
	c.resetFlags()
	c.current = 0
	c.applied = 0
}

func (c *ChangeBy[T]) TimeTillNextEvent(_, _, _ time.Duration) time.Duration {
	return remaining(c.duration, c.current)
}

// scale multiplies v by f, rounding for integer types.
func scale[T Number](v T, f float64) T {
	half := 0.5
	if T(half) != 0 {
		return T(float64(v) * f)
	}
	return T(math.Round(float64(v) * f))
}

func NewChangeFloatBy(get func() float64, set func(float64), delta float64, d time.Duration) (*ChangeBy[float64], error) {
	return NewChangeBy(get, set, delta, d)
}

func NewChangeIntBy(get func() int, set func(int), delta int, d time.Duration) (*ChangeBy[int], error) {
	return NewChangeBy(get, set, delta, d)
}
