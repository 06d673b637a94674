package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/sequencer/anim"
	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/component"
	"github.com/milk9111/sequencer/ecs/system"
	"github.com/milk9111/sequencer/prefabs"
	"github.com/milk9111/sequencer/script"
	"golang.design/x/clipboard"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	actorSpacing = 200
	reportStep   = 10 * time.Millisecond
	reportLimit  = 2000
)

// actor is one definition playing on one entity.
type actor struct {
	name   string
	entity ecs.Entity
	target *prefabs.Actor
	seq    *anim.Sequencer
	home   cp.Vector
}

type Game struct {
	frames int
	debug  bool
	paused bool

	world   *ecs.World
	scripts *script.Runtime
	watcher *prefabs.Watcher
	ui      *ebitenui.UI

	actors   []*actor
	selected int

	clipboardOK bool
	status      string
}

func NewGame(names []string, debug, watch bool) (*Game, error) {
	if len(names) == 0 {
		names = prefabs.Names()
	}
	if len(names) == 0 {
		return nil, errors.New("no sequence definitions")
	}

	world := ecs.NewWorld()
	world.SetPhysicsWorld(ecs.NewPhysicsWorld(cp.Vector{}))

	g := &Game{
		debug:   debug,
		world:   world,
		scripts: script.NewRuntime(prefabs.LoadScript, script.WithClock(world.Clock())),
	}

	failures := system.NewFailureLogSystem(nil)
	failures.OnEvent = g.onEvent
	world.AddSystem(system.NewSequencerSystem(nil))
	world.AddSystem(system.NewPhysicsSystem())
	world.AddSystem(failures)
	world.AddSystem(system.NewRenderSystem())

	for i, name := range names {
		home := cp.Vector{X: float64(actorSpacing/2 + i*actorSpacing), Y: baseHeight / 2}
		a, err := g.spawn(name, home)
		if err != nil {
			return nil, err
		}
		g.actors = append(g.actors, a)
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}

	if watch {
		g.watcher = startWatcher()
	}

	g.ui = NewPauseUI(g)
	return g, nil
}

func (g *Game) spawn(name string, home cp.Vector) (*actor, error) {
	w := g.world
	e := w.CreateEntity()

	t := component.NewTransform(home)
	acc := &component.Accentuation{}
	seq := anim.NewOwnerSequencer(e)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), t); err != nil {
		return nil, err
	}
	if err := ecs.Add(w, e, component.AccentuationComponent.Kind(), acc); err != nil {
		return nil, err
	}
	if err := ecs.Add(w, e, component.AnimatorComponent.Kind(), &component.Animator{Sequencer: seq, Name: name}); err != nil {
		return nil, err
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:     24,
		Height:    24,
		Mass:      1,
		Kinematic: true,
	}); err != nil {
		return nil, err
	}

	a := &actor{
		name:   name,
		entity: e,
		target: &prefabs.Actor{Transform: t, Accentuation: acc},
		seq:    seq,
		home:   home,
	}
	if err := g.start(a); err != nil {
		return nil, err
	}
	return a, nil
}

// start drops whatever a was running, puts it back home and applies its
// definition again.
func (g *Game) start(a *actor) error {
	spec, err := prefabs.LoadSequence(a.name)
	if err != nil {
		return err
	}

	a.seq.Reset()
	*a.target.Transform = *component.NewTransform(a.home)
	a.target.Factor = 0
	if anm, ok := ecs.Get(g.world, a.entity, component.AnimatorComponent.Kind()); ok {
		anm.Idle = false
	}

	return prefabs.Apply(spec, a.seq.BuildSequence(a.target), a.target, g.scripts)
}

func startWatcher() *prefabs.Watcher {
	var dirs []string
	for _, dir := range []string{"prefabs", filepath.Join("prefabs", "scripts")} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return nil
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		log.Printf("hot reload disabled: %v", err)
		return nil
	}
	return w
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++

	g.handleInput()
	g.pollWatcher()

	g.world.SetPaused(g.paused)
	g.world.Update(time.Second / time.Duration(ebiten.TPS()))

	if g.paused {
		g.ui.Update()
	}
	return nil
}

func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.selected = (g.selected + 1) % len(g.actors)
		g.highlightSelected()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.restartAll()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyReport()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		a := g.actors[g.selected]
		a.seq.BeginCancelAnimationsOf(a.target)
		g.status = fmt.Sprintf("canceled %s", a.name)
	}
}

// highlightSelected plays a short pulse on the selected actor in its own
// queue, independent of the definition it runs.
func (g *Game) highlightSelected() {
	a := g.actors[g.selected]
	err := a.seq.BuildSequence(a.target).
		ChangeAccentuationTo(a.target, 1, 150*time.Millisecond).
		WaitFinished().
		ChangeAccentuationTo(a.target, a.target.Factor, 300*time.Millisecond).
		ApplyAsSecondary(anim.IgnorePause(true))
	if err != nil {
		slog.Warn("highlight", "err", err)
	}
}

func (g *Game) restartAll() {
	for _, a := range g.actors {
		if err := g.start(a); err != nil {
			slog.Warn("restart", "sequence", a.name, "err", err)
		}
	}
	g.status = "restarted"
}

func (g *Game) copyReport() {
	a := g.actors[g.selected]
	spec, err := prefabs.LoadSequence(a.name)
	if err != nil {
		g.status = err.Error()
		return
	}
	ev, err := prefabs.Evaluate(spec, g.scripts, reportStep, reportLimit)
	if err != nil {
		g.status = err.Error()
		return
	}
	if !g.clipboardOK {
		g.status = "clipboard unavailable"
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(ev.Summary(a.name)))
	g.status = fmt.Sprintf("copied report for %s (%d event-driven ticks)", a.name, len(ev.Reports))
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(path)
		case err, ok := <-g.watcher.Errors:
			if ok {
				slog.Warn("watcher", "err", err)
			}
		default:
			return
		}
	}
}

func (g *Game) reload(path string) {
	base := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(base), ".tengo") {
		g.scripts.Invalidate(base)
		g.restartAll()
		g.status = fmt.Sprintf("reloaded script %s", base)
		return
	}
	for _, a := range g.actors {
		if filepath.Base(a.name) != base {
			continue
		}
		if err := g.start(a); err != nil {
			g.status = fmt.Sprintf("%s: %v", base, err)
			return
		}
		g.status = fmt.Sprintf("reloaded %s", base)
	}
}

func (g *Game) onEvent(evt ecs.Event) {
	switch data := evt.Data.(type) {
	case ecs.AnimationFailure:
		g.status = fmt.Sprintf("%s failed: %v", data.Entity, data.Failure.Err)
	case ecs.SequenceDone:
		for _, a := range g.actors {
			if a.entity == data.Entity {
				g.status = fmt.Sprintf("%s done", a.name)
			}
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.world.Draw(screen)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Frames: %d    FPS: %.2f    t=%v\n", g.frames, ebiten.ActualFPS(), g.world.Clock().Total.Truncate(time.Millisecond))
	sb.WriteString("Tab select  R restart  X cancel  C copy report  Esc pause\n")
	for i, a := range g.actors {
		cursor := " "
		if i == g.selected {
			cursor = ">"
		}
		fmt.Fprintf(&sb, "%s %-14s running=%d", cursor, a.name, a.seq.CountRunningAnimations())
		if g.debug {
			next := a.seq.TimeTillCurrentAnimationStepFinished()
			if next == anim.Infinite {
				sb.WriteString("  next=idle")
			} else {
				fmt.Fprintf(&sb, "  next=%v", next.Truncate(time.Millisecond))
			}
		}
		sb.WriteString("\n")
	}
	if g.status != "" {
		sb.WriteString(g.status)
	}
	ebitenutil.DebugPrint(screen, sb.String())

	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
