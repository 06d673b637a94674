package ecs

// entityStore tracks entity generations and free ids. Ids start at 1.
type entityStore struct {
	gen  []generation
	free []entityID
}

func (s *entityStore) create() Entity {
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gen = append(s.gen, 0)
		id = entityID(len(s.gen))
	}
	return makeEntity(id, s.gen[id-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	s.gen[e.id()-1]++
	s.free = append(s.free, e.id())
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.id()
	if id == 0 || int(id) > len(s.gen) {
		return false
	}
	return s.gen[id-1] == e.generation()
}

func (s *entityStore) alive() []Entity {
	dead := make(map[entityID]struct{}, len(s.free))
	for _, id := range s.free {
		dead[id] = struct{}{}
	}
	out := make([]Entity, 0, len(s.gen)-len(s.free))
	for i, g := range s.gen {
		id := entityID(i + 1)
		if _, ok := dead[id]; ok {
			continue
		}
		out = append(out, makeEntity(id, g))
	}
	return out
}
