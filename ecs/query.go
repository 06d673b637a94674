package ecs

import (
	"slices"

	"github.com/milk9111/sequencer/ecs/component"
)

// Query returns the entities that have every listed component, in the dense
// order of the smallest storage.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID(), false)
		if s.Len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}
	// iterate smaller set
	slices.SortFunc(sets, func(a, b *SparseSet) int { return a.Len() - b.Len() })

	out := make([]Entity, 0, sets[0].Len())
	for _, e := range sets[0].Entities() {
		if hasAll(sets[1:], e) {
			out = append(out, e)
		}
	}
	return out
}

func hasAll(sets []*SparseSet, e Entity) bool {
	for _, s := range sets {
		if !s.Has(e) {
			return false
		}
	}
	return true
}

// First returns any entity that has the component.
func (w *World) First(kind component.Kind) (Entity, bool) {
	ents := w.Query(kind)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}

// ForEach calls fn for every entity with the component. fn may add or remove
// components; the entity list is snapshotted first.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	for _, e := range w.Query(kind) {
		if v, ok := Get(w, e, kind); ok {
			fn(e, v)
		}
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	for _, e := range w.Query(ka, kb) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}
