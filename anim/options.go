package anim

import (
	"log/slog"
	"time"
)

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithOwner binds the sequencer to the object whose update loop drives it.
// Owner-bound sequencers default to the RemoveAndContinue policy.
func WithOwner(owner any) Option {
	return func(s *Sequencer) {
		s.owner = owner
	}
}

// WithDefaultCycle sets the step used by condition and event driven
// animations. Non-positive values are ignored.
func WithDefaultCycle(d time.Duration) Option {
	return func(s *Sequencer) {
		if d > 0 {
			s.defaultCycle = d
		}
	}
}

func WithFailurePolicy(p FailurePolicy) Option {
	return func(s *Sequencer) {
		s.policy = p
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Sequencer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConcurrencyCheck turns the cross-goroutine access check on or off. It
// is on by default in builds tagged debug.
func WithConcurrencyCheck(on bool) Option {
	return func(s *Sequencer) {
		s.guard.enabled = on
	}
}

// WithStepLimit bounds the number of ticks taken by the drive modes.
func WithStepLimit(n int) Option {
	return func(s *Sequencer) {
		if n > 0 {
			s.stepLimit = n
		}
	}
}
