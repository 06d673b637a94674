package prefabs

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/sequencer/ecs/component"
)

// Actor is a standalone target for definitions, combining the components a
// step can animate. The viewer builds its actors from world components; tools
// without a world use NewActor.
type Actor struct {
	*component.Transform
	*component.Accentuation
}

func NewActor(pos cp.Vector) *Actor {
	return &Actor{
		Transform:    component.NewTransform(pos),
		Accentuation: &component.Accentuation{},
	}
}
