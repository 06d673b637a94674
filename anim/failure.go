package anim

import "fmt"

// Reaction is what a FailurePolicy decides for a failed animation.
type Reaction int

const (
	// Abort stops the tick and returns the error from Update.
	Abort Reaction = iota
	// RemoveAndContinue cancels the failed animation and keeps ticking.
	RemoveAndContinue
)

func (r Reaction) String() string {
	switch r {
	case Abort:
		return "abort"
	case RemoveAndContinue:
		return "remove-and-continue"
	default:
		return fmt.Sprintf("Reaction(%d)", int(r))
	}
}

// Failure describes an animation whose update returned an error or panicked.
type Failure struct {
	Animation Animation
	Err       error
	Secondary bool
	Pass      uint64
}

// FailurePolicy decides how the sequencer reacts to a failure.
type FailurePolicy func(f Failure) Reaction

// AlwaysAbort is the policy of a bare sequencer.
func AlwaysAbort(Failure) Reaction { return Abort }

// AlwaysRemove is the policy of an owner-bound sequencer.
func AlwaysRemove(Failure) Reaction { return RemoveAndContinue }

// OnFailure registers a handler that is notified of every failure before the
// policy is asked. Handlers run on the tick goroutine.
func (s *Sequencer) OnFailure(h func(Failure)) {
	if h == nil {
		return
	}
	s.handlers = append(s.handlers, h)
}

func (s *Sequencer) notify(f Failure) {
	for _, h := range s.handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Warn("anim: failure handler panicked", "panic", r)
				}
			}()
			h(f)
		}()
	}
}

// handleFailure notifies, asks the policy and applies its reaction. A non-nil
// return aborts the tick.
func (s *Sequencer) handleFailure(a Animation, err error, secondary bool, pass uint64) error {
	f := Failure{Animation: a, Err: err, Secondary: secondary, Pass: pass}
	s.notify(f)

	reaction := s.policy(f)
	switch reaction {
	case Abort:
		return fmt.Errorf("anim: %T failed: %w", a, err)
	case RemoveAndContinue:
		s.logger.Debug("anim: removing failed animation", "animation", fmt.Sprintf("%T", a), "pass", pass, "err", err)
		if a.Finished() {
			a.core().drop()
		} else {
			a.Cancel()
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown failure reaction %v", ErrInternal, reaction)
	}
}
