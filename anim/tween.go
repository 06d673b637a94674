package anim

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
)

// Accentuated objects expose a highlight factor in [0,1].
type Accentuated interface {
	AccentuationFactor() float32
	SetAccentuationFactor(f float32)
}

// EulerRotated objects expose their rotation as Euler angles in radians.
type EulerRotated interface {
	RotationEuler() mgl32.Vec3
	SetRotationEuler(v mgl32.Vec3)
}

// QuatRotated objects expose their rotation as a quaternion.
type QuatRotated interface {
	RotationQuat() mgl32.Quat
	SetRotationQuat(q mgl32.Quat)
}

// Positioned objects expose a 2D position. *cp.Body satisfies it.
type Positioned interface {
	Position() cp.Vector
	SetPosition(p cp.Vector)
}

// tween interpolates a value from the one found on the first update to an end
// value resolved at that moment. The exact end value is written on the frame
// that reaches the duration.
type tween[V any] struct {
	base
	get      func() V
	set      func(V)
	lerp     func(a, b V, t float64) V
	resolve  func(start V) V
	duration time.Duration
	current  time.Duration
	started  bool
	start    V
	end      V
}

func newTween[V any](target any, get func() V, set func(V), lerp func(a, b V, t float64) V, resolve func(V) V, d time.Duration) (tween[V], error) {
	if err := checkDuration(d); err != nil {
		return tween[V]{}, err
	}
	return tween[V]{
		base:     base{targets: []any{target}},
		get:      get,
		set:      set,
		lerp:     lerp,
		resolve:  resolve,
		duration: d,
	}, nil
}

func (t *tween[V]) Update(us *UpdateState, _ *QueueState) error {
	if t.terminal() {
		return nil
	}
	if !t.started {
		t.started = true
		t.start = t.get()
		t.end = t.resolve(t.start)
	}
	t.current += us.Delta
	f := factor(t.current, t.duration)
	if f >= 1 {
		t.set(t.end)
		t.current = t.duration
		t.finish()
		return nil
	}
	t.set(t.lerp(t.start, t.end, f))
	return nil
}

func (t *tween[V]) Reset() {
	t.resetFlags()
	t.current = 0
	t.started = false
}

func (t *tween[V]) TimeTillNextEvent(_, _, _ time.Duration) time.Duration {
	return remaining(t.duration, t.current)
}

// ChangeAccentuationTo moves an accentuation factor linearly to a target.
type ChangeAccentuationTo struct {
	tween[float32]
}

func NewChangeAccentuationTo(obj Accentuated, to float32, d time.Duration) (*ChangeAccentuationTo, error) {
	if obj == nil {
		return nil, fmt.Errorf("%w: accentuated object", ErrNilArgument)
	}
	if to < 0 || to > 1 {
		return nil, fmt.Errorf("%w: accentuation %v not in [0,1]", ErrOutOfRange, to)
	}
	tw, err := newTween(obj, obj.AccentuationFactor, obj.SetAccentuationFactor, lerpFloat32,
		func(float32) float32 { return to }, d)
	if err != nil {
		return nil, err
	}
	return &ChangeAccentuationTo{tween: tw}, nil
}

// RotateEuler tweens Euler angles, either to an absolute value or by an offset.
type RotateEuler struct {
	tween[mgl32.Vec3]
}

func NewRotateEulerTo(obj EulerRotated, to mgl32.Vec3, d time.Duration) (*RotateEuler, error) {
	return newRotateEuler(obj, func(mgl32.Vec3) mgl32.Vec3 { return to }, d)
}

func NewRotateEulerBy(obj EulerRotated, by mgl32.Vec3, d time.Duration) (*RotateEuler, error) {
	return newRotateEuler(obj, func(start mgl32.Vec3) mgl32.Vec3 { return start.Add(by) }, d)
}

func newRotateEuler(obj EulerRotated, resolve func(mgl32.Vec3) mgl32.Vec3, d time.Duration) (*RotateEuler, error) {
	if obj == nil {
		return nil, fmt.Errorf("%w: rotated object", ErrNilArgument)
	}
	tw, err := newTween(obj, obj.RotationEuler, obj.SetRotationEuler, lerpVec3, resolve, d)
	if err != nil {
		return nil, err
	}
	return &RotateEuler{tween: tw}, nil
}

// RotateQuat slerps a quaternion rotation.
type RotateQuat struct {
	tween[mgl32.Quat]
}

func NewRotateQuatTo(obj QuatRotated, to mgl32.Quat, d time.Duration) (*RotateQuat, error) {
	return newRotateQuat(obj, func(mgl32.Quat) mgl32.Quat { return to.Normalize() }, d)
}

// NewRotateQuatBy applies the rotation by on top of the orientation found on
// the first update.
func NewRotateQuatBy(obj QuatRotated, by mgl32.Quat, d time.Duration) (*RotateQuat, error) {
	return newRotateQuat(obj, func(start mgl32.Quat) mgl32.Quat { return by.Mul(start).Normalize() }, d)
}

func newRotateQuat(obj QuatRotated, resolve func(mgl32.Quat) mgl32.Quat, d time.Duration) (*RotateQuat, error) {
	if obj == nil {
		return nil, fmt.Errorf("%w: rotated object", ErrNilArgument)
	}
	tw, err := newTween(obj, obj.RotationQuat, obj.SetRotationQuat, slerpQuat, resolve, d)
	if err != nil {
		return nil, err
	}
	return &RotateQuat{tween: tw}, nil
}

// Move tweens a 2D position.
type Move struct {
	tween[cp.Vector]
}

func NewMoveTo(obj Positioned, to cp.Vector, d time.Duration) (*Move, error) {
	return newMove(obj, func(cp.Vector) cp.Vector { return to }, d)
}

func NewMoveBy(obj Positioned, by cp.Vector, d time.Duration) (*Move, error) {
	return newMove(obj, func(start cp.Vector) cp.Vector { return start.Add(by) }, d)
}

func newMove(obj Positioned, resolve func(cp.Vector) cp.Vector, d time.Duration) (*Move, error) {
	if obj == nil {
		return nil, fmt.Errorf("%w: positioned object", ErrNilArgument)
	}
	tw, err := newTween(obj, obj.Position, obj.SetPosition, lerpVector, resolve, d)
	if err != nil {
		return nil, err
	}
	return &Move{tween: tw}, nil
}

func lerpFloat32(a, b float32, t float64) float32 {
	return a + float32(t)*(b-a)
}

func lerpVec3(a, b mgl32.Vec3, t float64) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(float32(t)))
}

func slerpQuat(a, b mgl32.Quat, t float64) mgl32.Quat {
	return mgl32.QuatSlerp(a, b, float32(t))
}

func lerpVector(a, b cp.Vector, t float64) cp.Vector {
	return a.Lerp(b, t)
}
