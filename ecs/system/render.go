package system

import (
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/component"
)

const markerSize = 24

// RenderSystem draws every transform as a square marker. Accentuation
// brightens the fill and the combined rotation turns a heading line.
type RenderSystem struct{}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Update(*ecs.World) {}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil {
		return
	}

	entities := w.Query(component.TransformComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		accent := float32(0)
		if a, ok := ecs.Get(w, e, component.AccentuationComponent.Kind()); ok {
			accent = a.Factor
		}

		size := float32(markerSize * t.Scale)
		x := float32(t.Pos.X) - size/2
		y := float32(t.Pos.Y) - size/2
		fill := color.RGBA{R: 60 + uint8(195*accent), G: 80, B: 160 - uint8(100*accent), A: 255}
		vector.FillRect(screen, x, y, size, size, fill, false)
		vector.StrokeRect(screen, x, y, size, size, 1.0, color.White, false)

		rot := t.Orientation.Mul(mgl32.AnglesToQuat(t.Euler.X(), t.Euler.Y(), t.Euler.Z(), mgl32.XYZ))
		heading := rot.Rotate(mgl32.Vec3{1, 0, 0})
		cx, cy := float32(t.Pos.X), float32(t.Pos.Y)
		vector.StrokeLine(screen, cx, cy, cx+heading.X()*size, cy+heading.Y()*size, 2, color.RGBA{R: 255, G: 220, B: 0, A: 255}, false)
	}
}
