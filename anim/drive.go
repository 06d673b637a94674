package anim

import (
	"fmt"
	"time"
)

// StepReport describes one tick taken by CalculateEventDriven.
type StepReport struct {
	Index     int
	Interval  time.Duration
	Elapsed   time.Duration
	Running   int
	Completed int
}

// CalculateContinuous ticks the sequencer with a fixed step until nothing is
// queued and returns the number of ticks taken.
func (s *Sequencer) CalculateContinuous(step time.Duration) (int, error) {
	if step == 0 {
		return 0, ErrZeroInterval
	}
	if step < 0 {
		return 0, fmt.Errorf("%w: %v", ErrNegativeInterval, step)
	}
	if err := s.Precalculate(); err != nil {
		return 0, err
	}

	us := NewUpdateState()
	steps := 0
	for s.CountRunningAnimations() > 0 {
		if steps >= s.stepLimit {
			return steps, fmt.Errorf("%w: %d ticks", ErrStepLimit, steps)
		}
		us.Advance(step)
		if _, err := s.Update(us); err != nil {
			return steps, err
		}
		steps++
	}
	return steps, nil
}

// CalculateEventDriven ticks the sequencer by jumping straight to the next
// known event until nothing is queued.
func (s *Sequencer) CalculateEventDriven() ([]StepReport, error) {
	if err := s.Precalculate(); err != nil {
		return nil, err
	}

	us := NewUpdateState()
	var reports []StepReport
	for s.CountRunningAnimations() > 0 {
		if len(reports) >= s.stepLimit {
			return reports, fmt.Errorf("%w: %d ticks", ErrStepLimit, len(reports))
		}
		interval := s.TimeTillCurrentAnimationStepFinished()
		switch {
		case interval == Infinite:
			return reports, fmt.Errorf("%w: no next event while %d animations run", ErrInternal, s.CountRunningAnimations())
		case interval == 0:
			return reports, ErrZeroInterval
		case interval < 0:
			return reports, fmt.Errorf("%w: %v", ErrNegativeInterval, interval)
		}

		us.Advance(interval)
		res, err := s.Update(us)
		if err != nil {
			return reports, err
		}
		reports = append(reports, StepReport{
			Index:     len(reports),
			Interval:  interval,
			Elapsed:   us.Total,
			Running:   res.Running,
			Completed: res.Completed,
		})
	}
	return reports, nil
}
