package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/milk9111/sequencer/anim"
)

// Clock is a streamer that ticks a sequencer by the audio it produces, so
// sequences stay locked to playback instead of the frame clock.
type Clock struct {
	streamer beep.Streamer
	seq      *anim.Sequencer
	rate     beep.SampleRate
	us       *anim.UpdateState

	samples int
	err     error
}

func NewClock(s beep.Streamer, rate beep.SampleRate, seq *anim.Sequencer) *Clock {
	return &Clock{
		streamer: s,
		seq:      seq,
		rate:     rate,
		us:       anim.NewUpdateState(),
	}
}

// Stream forwards to the wrapped streamer and ticks the sequencer by the
// duration of the samples it produced. A failed tick ends the stream.
func (c *Clock) Stream(samples [][2]float64) (n int, ok bool) {
	if c.err != nil {
		return 0, false
	}
	n, ok = c.streamer.Stream(samples)
	if n == 0 {
		return n, ok
	}

	// Convert the running total so rounding never accumulates.
	before := c.rate.D(c.samples)
	c.samples += n
	c.us.Advance(c.rate.D(c.samples) - before)

	if _, err := c.seq.Update(c.us); err != nil {
		c.err = err
		return n, false
	}
	return n, ok
}

func (c *Clock) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.streamer.Err()
}

// Elapsed is the audio time streamed so far.
func (c *Clock) Elapsed() time.Duration {
	return c.us.Total
}

// UpdateState is the clock the sequencer is ticked with. Callers sharing it
// with the audio goroutine must hold the speaker lock.
func (c *Clock) UpdateState() *anim.UpdateState {
	return c.us
}

// SetPaused pauses the sequencer clock; audio keeps streaming.
func (c *Clock) SetPaused(paused bool) {
	c.us.Paused = paused
}
