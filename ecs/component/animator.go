package component

import "github.com/milk9111/sequencer/anim"

// Animator attaches an owner-bound sequencer to an entity.
type Animator struct {
	Sequencer *anim.Sequencer
	// Name is the definition the sequence was built from, if any.
	Name string
	// Idle is set once the sequencer has drained.
	Idle bool
}

var AnimatorComponent = NewComponent[Animator]()
