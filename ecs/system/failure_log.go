package system

import (
	"fmt"
	"log/slog"

	"github.com/milk9111/sequencer/ecs"
)

// FailureLogSystem drains the world event queue, logging animation failures.
// Every drained event is also handed to OnEvent when set.
type FailureLogSystem struct {
	logger  *slog.Logger
	OnEvent func(ecs.Event)
}

func NewFailureLogSystem(logger *slog.Logger) *FailureLogSystem {
	if logger == nil {
		logger = slog.Default()
	}
	return &FailureLogSystem{logger: logger}
}

func (s *FailureLogSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	for _, evt := range w.Events().Drain() {
		switch data := evt.Data.(type) {
		case ecs.AnimationFailure:
			s.logger.Warn("animation failed",
				"entity", data.Entity.String(),
				"animation", fmt.Sprintf("%T", data.Failure.Animation),
				"secondary", data.Failure.Secondary,
				"pass", data.Failure.Pass,
				"err", data.Failure.Err,
			)
		case ecs.SequenceDone:
			s.logger.Debug("sequence done", "entity", data.Entity.String())
		}
		if s.OnEvent != nil {
			s.OnEvent(evt)
		}
	}
}
