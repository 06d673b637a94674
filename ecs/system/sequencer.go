package system

import (
	"log/slog"

	"github.com/milk9111/sequencer/anim"
	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/component"
)

// SequencerSystem ticks every Animator with the world clock. Failures reported
// by a sequencer become EventAnimationFailed events; an animator that drains
// pushes EventSequenceDone once.
type SequencerSystem struct {
	logger *slog.Logger
	hooked map[*anim.Sequencer]ecs.Entity
}

func NewSequencerSystem(logger *slog.Logger) *SequencerSystem {
	if logger == nil {
		logger = slog.Default()
	}
	return &SequencerSystem{
		logger: logger,
		hooked: make(map[*anim.Sequencer]ecs.Entity),
	}
}

func (s *SequencerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	seen := make(map[*anim.Sequencer]struct{}, len(s.hooked))
	ecs.ForEach(w, component.AnimatorComponent.Kind(), func(e ecs.Entity, a *component.Animator) {
		if a == nil || a.Sequencer == nil {
			return
		}
		seen[a.Sequencer] = struct{}{}
		s.hook(w, e, a.Sequencer)

		res, err := a.Sequencer.Update(w.Clock())
		if err != nil {
			// Only bare sequencers abort; the failure already went out as an event.
			s.logger.Error("animator tick aborted", "entity", e.String(), "pass", w.Clock().Pass, "err", err)
			return
		}

		idle := res.Running == 0
		if idle && !a.Idle {
			w.Events().Push(ecs.Event{Type: ecs.EventSequenceDone, Data: ecs.SequenceDone{Entity: e}})
		}
		a.Idle = idle
	})

	for seq := range s.hooked {
		if _, ok := seen[seq]; !ok {
			delete(s.hooked, seq)
		}
	}
}

func (s *SequencerSystem) hook(w *ecs.World, e ecs.Entity, seq *anim.Sequencer) {
	if _, ok := s.hooked[seq]; ok {
		return
	}
	s.hooked[seq] = e
	events := w.Events()
	seq.OnFailure(func(f anim.Failure) {
		events.Push(ecs.Event{
			Type: ecs.EventAnimationFailed,
			Data: ecs.AnimationFailure{Entity: e, Failure: f},
		})
	})
}
