package ecs

import "github.com/milk9111/sequencer/anim"

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventAnimationFailed = "animation_failed"
	EventSequenceDone    = "sequence_done"
)

// AnimationFailure is the payload of EventAnimationFailed.
type AnimationFailure struct {
	Entity  Entity
	Failure anim.Failure
}

// SequenceDone is the payload of EventSequenceDone, pushed when an animator
// has nothing left to run.
type SequenceDone struct {
	Entity Entity
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
