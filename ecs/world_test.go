package ecs

import (
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/sequencer/ecs/component"
)

func TestSparseWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return false for a dead entity")
				}
				if len(Entities(w)) != c.create-1 {
					t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(Entities(w)))
				}
			}
		})
	}
}

func TestRecycledEntityIsNotTheOldOne(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	if err := Add(w, old, h.Kind(), intPtr(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh.id() != old.id() {
		t.Fatalf("expected id reuse, got %s and %s", old, fresh)
	}
	if fresh == old {
		t.Fatalf("recycled entity must have a new generation")
	}
	if Has(w, fresh, h.Kind()) {
		t.Fatalf("components of the destroyed entity leaked to its successor")
	}
	if err := Add(w, old, h.Kind(), intPtr(2)); err == nil {
		t.Fatalf("expected error adding to a dead entity")
	}
}

func TestSparseWorldComponentsAndQueries(t *testing.T) {
	w := NewWorld()

	h1 := component.NewComponent[int]()
	h2 := component.NewComponent[string]()
	h3 := component.NewComponent[float64]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h1.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove(w, e1, h1.Kind()) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, h2.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, h2.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				if !Has(w, e1, h2.Kind()) || !Has(w, e2, h2.Kind()) {
					t.Fatalf("expected both entities to have string component")
				}
				if got := len(w.Query(h2.Kind())); got != 2 {
					t.Fatalf("expected 2 entities in query, got %d", got)
				}
			},
			teardown: func() bool { return Remove(w, e1, h2.Kind()) },
		},
		{
			name:  "add_float_and_remove",
			setup: func() error { return Add(w, e1, h3.Kind(), float64Ptr(1.23)) },
			check: func(t *testing.T) {
				if _, ok := Get(w, e1, h3.Kind()); !ok {
					t.Fatalf("expected float present")
				}
			},
			teardown: func() bool { return Remove(w, e1, h3.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	if err := Add[int](w, e, component.NewComponentKind[int](), nil); err != component.ErrNilComponent {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
	if err := w.AddComponent(e, component.ComponentKind[int]{}, intPtr(1)); err != component.ErrInvalidComponentKind {
		t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	if err := Add(w, e1, h.Kind(), intPtr(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := Add(w, e3, h.Kind(), intPtr(3)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	var ents []Entity
	ForEach(w, h.Kind(), func(e Entity, v *int) {
		*v *= 10
		ents = append(ents, e)
	})
	set := toSet(ents)

	if _, ok := set[e1]; !ok {
		t.Fatalf("expected e1 in ForEach result")
	}
	if _, ok := set[e3]; !ok {
		t.Fatalf("expected e3 in ForEach result")
	}
	if _, ok := set[e2]; ok {
		t.Fatalf("did not expect e2 in ForEach result")
	}
	if v, _ := Get(w, e3, h.Kind()); *v != 30 {
		t.Fatalf("expected ForEach to mutate in place, got %d", *v)
	}
}

func TestForEach2(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	mustAdd(t, Add(w, e1, ka, intPtr(1)))
	mustAdd(t, Add(w, e2, ka, intPtr(2)))
	mustAdd(t, Add(w, e2, kb, stringPtr("two")))
	mustAdd(t, Add(w, e3, kb, stringPtr("three")))

	var res []Entity
	ForEach2(w, ka, kb, func(e Entity, a *int, b *string) {
		if *a != 2 || *b != "two" {
			t.Fatalf("unexpected values %d %q", *a, *b)
		}
		res = append(res, e)
	})
	if len(res) != 1 || res[0] != e2 {
		t.Fatalf("expected only e2, got %v", res)
	}
	if first, ok := w.First(kb); !ok || (first != e2 && first != e3) {
		t.Fatalf("unexpected First result %v %v", first, ok)
	}
}

type countingSystem struct {
	calls  int
	totals []time.Duration
}

func (s *countingSystem) Update(w *World) {
	s.calls++
	s.totals = append(s.totals, w.Clock().Total)
	w.Events().Push(Event{Type: "tick"})
}

type drainingSystem struct {
	seen int
}

func (s *drainingSystem) Update(w *World) {
	s.seen += len(w.Events().Drain())
}

func TestWorldUpdateRunsSystemsInOrder(t *testing.T) {
	w := NewWorld()
	counter := &countingSystem{}
	drain := &drainingSystem{}
	w.AddSystem(counter)
	w.AddSystem(nil)
	w.AddSystem(drain)

	w.Update(100 * time.Millisecond)
	w.Update(50 * time.Millisecond)

	if counter.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", counter.calls)
	}
	if counter.totals[1] != 150*time.Millisecond {
		t.Fatalf("expected accumulated clock, got %v", counter.totals[1])
	}
	if drain.seen != 2 {
		t.Fatalf("expected the later system to drain 2 events, got %d", drain.seen)
	}
	if w.Events().Len() != 0 {
		t.Fatalf("expected events flushed after update")
	}
}

func TestSetPaused(t *testing.T) {
	w := NewWorld()
	w.SetPaused(true)
	if !w.Paused() || !w.Clock().Paused {
		t.Fatalf("expected world clock to be paused")
	}
	w.SetPaused(false)
	if w.Paused() {
		t.Fatalf("expected world clock to run")
	}
}

func TestPhysicsWorldBodies(t *testing.T) {
	w := NewWorld()
	pw := NewPhysicsWorld(cp.Vector{Y: 100})
	w.SetPhysicsWorld(pw)

	e := CreateEntity(w)
	tr := component.NewTransform(cp.Vector{X: 5, Y: 5})
	pb := &component.PhysicsBody{Width: 2, Height: 2, Mass: 1}
	pw.EnsureBody(e, tr, pb)
	if pb.Body == nil || pb.Shape == nil {
		t.Fatalf("expected body and shape to be created")
	}
	if got, ok := pw.EntityForShape(pb.Shape); !ok || got != e {
		t.Fatalf("expected shape to map back to entity")
	}

	pw.Step(100 * time.Millisecond)
	if pb.Body.Position().Y <= 5 {
		t.Fatalf("expected dynamic body to fall, got %v", pb.Body.Position())
	}

	if !pw.Space().ContainsBody(pb.Body) {
		t.Fatalf("expected body to be added to the space")
	}

	body := pb.Body
	pw.RemoveBody(e, pb)
	if pb.Body != nil {
		t.Fatalf("expected body to be cleared")
	}
	if pw.Space().ContainsBody(body) {
		t.Fatalf("expected body to be removed from the space")
	}
	if (*PhysicsWorld)(nil).Space() != nil {
		t.Fatalf("expected nil world to have no space")
	}
}

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func float64Ptr(f float64) *float64 {
	return &f
}
