package prefabs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/sequencer/anim"
	"github.com/milk9111/sequencer/script"
)

// Evaluation is the outcome of running a definition to completion offline,
// once with a fixed step and once event-driven.
type Evaluation struct {
	Step    time.Duration
	Ticks   int
	Reports []anim.StepReport

	// Continuous and EventDriven are the actors after each run.
	Continuous  *Actor
	EventDriven *Actor

	// ContinuousErr and EventErr keep the error each run stopped with.
	// Looping definitions always stop with anim.ErrStepLimit.
	ContinuousErr error
	EventErr      error
}

// Err joins the errors of both runs.
func (ev Evaluation) Err() error {
	return errors.Join(ev.ContinuousErr, ev.EventErr)
}

// Evaluate runs spec on fresh actors in both drive modes. limit caps the ticks
// of each run; zero keeps the sequencer default.
func Evaluate(spec SequenceSpec, scripts *script.Runtime, step time.Duration, limit int) (Evaluation, error) {
	ev := Evaluation{Step: step}

	run := func() (*anim.Sequencer, *Actor, error) {
		var opts []anim.Option
		if limit > 0 {
			opts = append(opts, anim.WithStepLimit(limit))
		}
		actor := NewActor(cp.Vector{})
		seq := anim.NewSequencer(opts...)
		if err := Apply(spec, seq.BuildSequence(actor), actor, scripts); err != nil {
			return nil, nil, err
		}
		return seq, actor, nil
	}

	seq, actor, err := run()
	if err != nil {
		return ev, err
	}
	ev.Continuous = actor
	ev.Ticks, ev.ContinuousErr = seq.CalculateContinuous(step)

	seq, actor, err = run()
	if err != nil {
		return ev, err
	}
	ev.EventDriven = actor
	ev.Reports, ev.EventErr = seq.CalculateEventDriven()
	return ev, nil
}

// Summary formats the evaluation as plain text, one event-driven step per
// line.
func (ev Evaluation) Summary(name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", name)
	fmt.Fprintf(&sb, "continuous: %d ticks of %v (%v)", ev.Ticks, ev.Step, time.Duration(ev.Ticks)*ev.Step)
	if ev.ContinuousErr != nil {
		fmt.Fprintf(&sb, " stopped: %v", ev.ContinuousErr)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "event-driven: %d ticks", len(ev.Reports))
	if ev.EventErr != nil {
		fmt.Fprintf(&sb, " stopped: %v", ev.EventErr)
	}
	sb.WriteString("\n")
	for _, r := range ev.Reports {
		fmt.Fprintf(&sb, "%4d  +%-10v %-10v running=%d completed=%d\n", r.Index, r.Interval, r.Elapsed, r.Running, r.Completed)
	}
	return sb.String()
}
