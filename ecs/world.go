package ecs

import (
	"fmt"
	"time"

	"github.com/milk9111/sequencer/anim"
	"github.com/milk9111/sequencer/ecs/component"
)

// World owns entities, component storages, the system order and the clock
// every system reads during a frame.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]*SparseSet
	scheduler *Scheduler
	events    EventQueue
	clock     *anim.UpdateState

	physicsWorld *PhysicsWorld
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores:    make(map[component.ComponentID]*SparseSet),
		scheduler: NewScheduler(),
		clock:     anim.NewUpdateState(),
	}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its id.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.entities.alive()
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil {
		return
	}
	w.scheduler.Add(s)
}

// Update advances the world clock by dt, runs all systems once and drops
// events nobody drained.
func (w *World) Update(dt time.Duration) {
	if w == nil {
		return
	}
	w.clock.Advance(dt)
	w.scheduler.Update(w)
	w.events.flush()
}

// Clock is the update state handed to sequencers during this frame.
func (w *World) Clock() *anim.UpdateState {
	if w == nil {
		return nil
	}
	return w.clock
}

// SetPaused pauses every animation that does not ignore pause.
func (w *World) SetPaused(paused bool) {
	if w == nil {
		return
	}
	w.clock.Paused = paused
}

func (w *World) Paused() bool {
	return w != nil && w.clock.Paused
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// SetPhysicsWorld attaches a physics world to this ECS world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physicsWorld = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physicsWorld
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// AddComponent stores v for e under the component kind id.
func (w *World) AddComponent(e Entity, kind component.Kind, v any) error {
	if w == nil {
		return fmt.Errorf("ecs: add component: nil world")
	}
	if kind == nil || kind.ID() == 0 {
		return component.ErrInvalidComponentKind
	}
	if !w.entities.isAlive(e) {
		return fmt.Errorf("%w: %s", component.ErrEntityNotAlive, e)
	}
	if v == nil {
		return component.ErrNilComponent
	}
	w.store(kind.ID(), true).Set(e, v)
	return nil
}

func (w *World) RemoveComponent(e Entity, kind component.Kind) bool {
	if w == nil || kind == nil {
		return false
	}
	return w.store(kind.ID(), false).Remove(e)
}

func (w *World) HasComponent(e Entity, kind component.Kind) bool {
	if w == nil || kind == nil {
		return false
	}
	return w.store(kind.ID(), false).Has(e)
}

func (w *World) GetComponent(e Entity, kind component.Kind) (any, bool) {
	if w == nil || kind == nil {
		return nil, false
	}
	v := w.store(kind.ID(), false).Get(e)
	return v, v != nil
}
