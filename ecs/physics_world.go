package ecs

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/sequencer/ecs/component"
)

const (
	collisionTypeKinematic cp.CollisionType = iota + 1
	collisionTypeDynamic
)

// PhysicsWorld owns the Chipmunk space that bodies of animated entities live in.
type PhysicsWorld struct {
	space         *cp.Space
	shapeToEntity map[*cp.Shape]Entity
	bodies        map[Entity]*cp.Body
}

// NewPhysicsWorld creates a space with the given gravity.
func NewPhysicsWorld(gravity cp.Vector) *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(gravity)
	return &PhysicsWorld{
		space:         space,
		shapeToEntity: make(map[*cp.Shape]Entity),
		bodies:        make(map[Entity]*cp.Body),
	}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// EnsureBody creates a box body for e at the transform's position if it does
// not have one yet. Kinematic bodies ignore gravity and are moved by tweens.
func (pw *PhysicsWorld) EnsureBody(e Entity, t *component.Transform, pb *component.PhysicsBody) *component.PhysicsBody {
	if pw == nil || pw.space == nil || t == nil || pb == nil {
		return pb
	}
	if pb.Body != nil {
		return pb
	}

	var body *cp.Body
	if pb.Kinematic {
		body = cp.NewKinematicBody()
	} else {
		mass := pb.Mass
		if mass <= 0 {
			mass = 1
		}
		body = cp.NewBody(mass, math.Inf(1))
	}
	body.SetPosition(t.Pos)

	shape := cp.NewBox(body, pb.Width, pb.Height, 0)
	shape.SetFriction(pb.Friction)
	if pb.Kinematic {
		shape.SetCollisionType(collisionTypeKinematic)
	} else {
		shape.SetCollisionType(collisionTypeDynamic)
	}

	pw.space.AddBody(body)
	pw.space.AddShape(shape)
	pw.shapeToEntity[shape] = e
	pw.bodies[e] = body

	pb.Body = body
	pb.Shape = shape
	return pb
}

// RemoveBody drops e's body and shape from the space.
func (pw *PhysicsWorld) RemoveBody(e Entity, pb *component.PhysicsBody) {
	if pw == nil || pb == nil {
		return
	}
	if pb.Shape != nil {
		pw.space.RemoveShape(pb.Shape)
		delete(pw.shapeToEntity, pb.Shape)
	}
	if pb.Body != nil {
		pw.space.RemoveBody(pb.Body)
	}
	delete(pw.bodies, e)
	pb.Body, pb.Shape = nil, nil
}

// EntityForShape maps a shape back to its entity.
func (pw *PhysicsWorld) EntityForShape(s *cp.Shape) (Entity, bool) {
	if pw == nil {
		return 0, false
	}
	e, ok := pw.shapeToEntity[s]
	return e, ok
}

// Step advances the space by dt.
func (pw *PhysicsWorld) Step(dt time.Duration) {
	if pw == nil || pw.space == nil || dt <= 0 {
		return
	}
	pw.space.Step(dt.Seconds())
}
