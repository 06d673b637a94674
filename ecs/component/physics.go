package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data. Kinematic bodies are driven by
// move tweens; dynamic ones by the space.
type PhysicsBody struct {
	Body      *cp.Body
	Shape     *cp.Shape
	Width     float64
	Height    float64
	Mass      float64
	Friction  float64
	Kinematic bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
