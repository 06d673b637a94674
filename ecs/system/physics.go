package system

import (
	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/component"
)

// PhysicsSystem keeps Chipmunk bodies and transforms in sync. Kinematic
// bodies follow their transform, which sequences animate; dynamic bodies are
// simulated and written back.
type PhysicsSystem struct{}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(),
		func(e ecs.Entity, t *component.Transform, pb *component.PhysicsBody) {
			pw.EnsureBody(e, t, pb)
			if pb.Kinematic && pb.Body != nil {
				pb.Body.SetPosition(t.Pos)
				pb.Body.SetAngle(float64(t.Euler.Z()))
			}
		})

	if w.Paused() {
		return
	}
	pw.Step(w.Clock().Delta)

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(),
		func(_ ecs.Entity, t *component.Transform, pb *component.PhysicsBody) {
			if pb.Kinematic || pb.Body == nil {
				return
			}
			t.Pos = pb.Body.Position()
		})
}
