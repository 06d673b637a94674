package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/chewxy/math32"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/sequencer/anim"
	"github.com/milk9111/sequencer/audio"
	"github.com/milk9111/sequencer/prefabs"
	"github.com/milk9111/sequencer/script"
)

const (
	frameInterval = 16 * time.Millisecond
	cellWidth     = 8.0
	cellHeight    = 16.0
	sampleRate    = beep.SampleRate(44100)
)

var arrows = []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// Preview plays one definition on a single actor in the terminal.
type Preview struct {
	screen tcell.Screen
	name   string

	seq     *anim.Sequencer
	actor   *prefabs.Actor
	scripts *script.Runtime
	us      *anim.UpdateState

	// clock is set when the audio device drives the sequencer.
	clock *audio.Clock

	width, height int
	last          time.Time
	err           error
}

func NewPreview(name string, withAudio bool) (*Preview, error) {
	spec, err := prefabs.LoadSequence(name)
	if err != nil {
		return nil, err
	}

	p := &Preview{
		name:  name,
		seq:   anim.NewSequencer(anim.WithFailurePolicy(anim.AlwaysRemove)),
		actor: prefabs.NewActor(cp.Vector{}),
		us:    anim.NewUpdateState(),
	}

	if withAudio {
		if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
			log.Printf("Audio initialization failed, using wall clock: %v", err)
		} else {
			p.clock = audio.NewClock(beep.Silence(-1), sampleRate, p.seq)
			p.us = p.clock.UpdateState()
		}
	}

	p.scripts = script.NewRuntime(prefabs.LoadScript, script.WithClock(p.us))
	if err := prefabs.Apply(spec, p.seq.BuildSequence(p.actor), p.actor, p.scripts); err != nil {
		return nil, err
	}
	if p.clock != nil {
		speaker.Play(p.clock)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	p.screen = screen
	p.width, p.height = screen.Size()
	p.last = time.Now()
	return p, nil
}

// locked runs fn while the audio goroutine cannot tick the sequencer.
func (p *Preview) locked(fn func()) {
	if p.clock != nil {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}

func (p *Preview) tick() {
	now := time.Now()
	dt := now.Sub(p.last)
	p.last = now
	if p.clock != nil || p.err != nil {
		return
	}
	p.us.Advance(dt)
	if _, err := p.seq.Update(p.us); err != nil {
		p.err = err
	}
}

func (p *Preview) togglePause() {
	p.locked(func() {
		p.us.Paused = !p.us.Paused
	})
}

func (p *Preview) draw() {
	p.screen.Clear()

	var (
		pos     cp.Vector
		euler   mgl32.Vec3
		quat    mgl32.Quat
		accent  float32
		scale   float64
		running int
		next    time.Duration
		elapsed time.Duration
		paused  bool
		err     = p.err
	)
	p.locked(func() {
		pos, euler, quat = p.actor.Pos, p.actor.Euler, p.actor.Orientation
		accent, scale = p.actor.Factor, p.actor.Scale
		running = p.seq.CountRunningAnimations()
		next = p.seq.TimeTillCurrentAnimationStepFinished()
		elapsed, paused = p.us.Total, p.us.Paused
		if p.clock != nil && err == nil {
			err = p.clock.Err()
		}
	})

	cx := p.width/2 + int(math32.Round(float32(pos.X)/cellWidth))
	cy := p.height/2 + int(math32.Round(float32(pos.Y)/cellHeight))

	rot := quat.Mul(mgl32.AnglesToQuat(euler.X(), euler.Y(), euler.Z(), mgl32.XYZ))
	heading := rot.Rotate(mgl32.Vec3{1, 0, 0})
	angle := math32.Atan2(heading.Y(), heading.X())
	sector := int(math32.Round(angle/(math32.Pi/4))+8) % 8

	level := int32(80 + 175*accent)
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(level, level, 255-level/2))
	if cx >= 0 && cx < p.width && cy >= 0 && cy < p.height {
		p.screen.SetContent(cx, cy, arrows[sector], nil, style.Bold(true))
		if scale > 1.2 && cx+1 < p.width {
			p.screen.SetContent(cx+1, cy, '█', nil, style)
		}
	}

	status := fmt.Sprintf("%s  t=%v  running=%d", p.name, elapsed.Truncate(time.Millisecond), running)
	if next != anim.Infinite {
		status += fmt.Sprintf("  next=%v", next.Truncate(time.Millisecond))
	}
	if paused {
		status += "  [paused]"
	}
	p.text(0, 0, status, tcell.StyleDefault)
	p.text(0, 1, "space pause  x cancel  esc quit", tcell.StyleDefault.Dim(true))
	if err != nil {
		p.text(0, 2, err.Error(), tcell.StyleDefault.Foreground(tcell.ColorRed))
	}

	p.screen.Show()
}

func (p *Preview) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= p.width {
			return
		}
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (p *Preview) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case ' ':
				p.togglePause()
			case 'x':
				p.seq.BeginCancelAnimations()
			case 'q':
				return false
			}
		}
	case *tcell.EventResize:
		p.width, p.height = p.screen.Size()
		p.screen.Sync()
	}
	return true
}

func (p *Preview) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- p.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !p.handleInput(ev) {
				return
			}
		case <-ticker.C:
			p.tick()
			p.draw()
		}
	}
}

func (p *Preview) cleanup() {
	if p.clock != nil {
		speaker.Close()
	}
	p.screen.Fini()
}

func main() {
	withAudio := flag.Bool("audio", false, "drive the sequencer from the audio device clock")
	flag.Parse()

	name := "spin.yaml"
	if flag.NArg() > 0 {
		name = flag.Arg(0)
	}

	preview, err := NewPreview(name, *withAudio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer preview.cleanup()

	preview.run()
}
