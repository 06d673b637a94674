package component

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
)

// Transform is the pose sequences animate. Euler angles and the quaternion
// are independent: rotate-euler steps write the former, slerp steps the
// latter.
type Transform struct {
	Euler       mgl32.Vec3
	Orientation mgl32.Quat
	Pos         cp.Vector
	Scale       float64
}

func NewTransform(pos cp.Vector) *Transform {
	return &Transform{Orientation: mgl32.QuatIdent(), Pos: pos, Scale: 1}
}

func (t *Transform) RotationEuler() mgl32.Vec3     { return t.Euler }
func (t *Transform) SetRotationEuler(v mgl32.Vec3) { t.Euler = v }
func (t *Transform) RotationQuat() mgl32.Quat      { return t.Orientation }
func (t *Transform) SetRotationQuat(q mgl32.Quat)  { t.Orientation = q }
func (t *Transform) Position() cp.Vector           { return t.Pos }
func (t *Transform) SetPosition(p cp.Vector)       { t.Pos = p }

// FloatField exposes scale, x and y to data-driven float tweens.
func (t *Transform) FloatField(name string) *float64 {
	switch name {
	case "scale":
		return &t.Scale
	case "x":
		return &t.Pos.X
	case "y":
		return &t.Pos.Y
	default:
		return nil
	}
}

var TransformComponent = NewComponent[Transform]()
