package prefabs

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/sequencer/anim"
	"github.com/milk9111/sequencer/script"
)

// FloatFields exposes named float values to change_float_by steps.
type FloatFields interface {
	FloatField(name string) *float64
}

// Apply adds the steps of spec to b and applies it. Loop definitions rewind
// forever; secondary ones start their own queue. scripts may be nil when the
// definition has no script steps.
func Apply(spec SequenceSpec, b *anim.Builder, target any, scripts *script.Runtime) error {
	for i, step := range spec.Steps {
		if err := addStep(b, step, target, scripts); err != nil {
			return fmt.Errorf("prefabs: %s step %d (%s): %w", spec.Name, i, step.Kind, err)
		}
	}
	if err := b.Err(); err != nil {
		return fmt.Errorf("prefabs: %s: %w", spec.Name, err)
	}

	var opts []anim.ApplyOption
	if spec.IgnorePause {
		opts = append(opts, anim.IgnorePause(true))
	}
	switch {
	case spec.Loop && spec.Secondary:
		return b.ApplyAsSecondaryAndRewind(opts...)
	case spec.Loop:
		return b.ApplyAndRewind(opts...)
	case spec.Secondary:
		return b.ApplyAsSecondary(opts...)
	default:
		return b.Apply(opts...)
	}
}

func addStep(b *anim.Builder, step StepSpec, target any, scripts *script.Runtime) error {
	d, err := step.Dur()
	if err != nil {
		return err
	}

	switch step.Kind {
	case "delay":
		b.Delay(d)
	case "wait_finished":
		b.WaitFinished()
	case "wait_until":
		b.WaitUntilTimePassed(d)
	case "accentuate":
		a, ok := target.(anim.Accentuated)
		if !ok {
			return ErrTargetMismatch
		}
		b.ChangeAccentuationTo(a, float32(step.Value), d)
	case "rotate_euler_to", "rotate_euler_by":
		r, ok := target.(anim.EulerRotated)
		if !ok {
			return ErrTargetMismatch
		}
		if step.Kind == "rotate_euler_to" {
			v, err := vec3(step.To)
			if err != nil {
				return err
			}
			b.RotateEulerTo(r, v, d)
		} else {
			v, err := vec3(step.By)
			if err != nil {
				return err
			}
			b.RotateEulerBy(r, v, d)
		}
	case "rotate_quat_to":
		r, ok := target.(anim.QuatRotated)
		if !ok {
			return ErrTargetMismatch
		}
		v, err := vec3(step.To)
		if err != nil {
			return err
		}
		b.RotateQuatTo(r, mgl32.AnglesToQuat(v.X(), v.Y(), v.Z(), mgl32.XYZ), d)
	case "move_to", "move_by":
		p, ok := target.(anim.Positioned)
		if !ok {
			return ErrTargetMismatch
		}
		if step.Kind == "move_to" {
			v, err := vec2(step.To)
			if err != nil {
				return err
			}
			b.MoveTo(p, v, d)
		} else {
			v, err := vec2(step.By)
			if err != nil {
				return err
			}
			b.MoveBy(p, v, d)
		}
	case "change_float_by":
		ff, ok := target.(FloatFields)
		if !ok {
			return ErrTargetMismatch
		}
		field := ff.FloatField(step.Field)
		if field == nil {
			return fmt.Errorf("%w: no float field %q", ErrTargetMismatch, step.Field)
		}
		b.ChangeFloatBy(func() float64 { return *field }, func(v float64) { *field = v }, step.Value, d)
	case "script":
		if scripts == nil {
			return ErrNoScripts
		}
		b.Call(scripts.Action(step.Script, target), nil)
	case "script_condition":
		if scripts == nil {
			return ErrNoScripts
		}
		b.WaitForCondition(scripts.Condition(step.Script, target))
	default:
		return ErrUnknownStep
	}
	return nil
}

func vec3(v []float64) (mgl32.Vec3, error) {
	if len(v) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("%w: want 3, got %d", ErrBadVector, len(v))
	}
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}, nil
}

func vec2(v []float64) (cp.Vector, error) {
	if len(v) != 2 {
		return cp.Vector{}, fmt.Errorf("%w: want 2, got %d", ErrBadVector, len(v))
	}
	return cp.Vector{X: v[0], Y: v[1]}, nil
}
