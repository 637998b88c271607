// Package render draws a side projection of the scene into a tcell screen
package render

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/spawnbench/scene"
	"github.com/lixenwraith/spawnbench/vmath"
)

// Depth shading range: nearest objects draw at full brightness, farthest at minDepthShade
const minDepthShade = 0.35

// Frame is everything drawn on one screen refresh
type Frame struct {
	Objects     []scene.Object
	OptionsText string  // drawn top-left
	StatusText  string  // drawn top-right
	FPS         float64 // colors the status text
}

// Renderer projects world x to columns and world y to rows; z becomes depth shading
type Renderer struct {
	screen tcell.Screen
	world  vmath.Box
	floorY float64
	drain  float64
	centre float64

	width, height int
	depth         []float64 // per-cell nearest z of the current frame
}

// NewRenderer creates a renderer for a scene with the given configuration
// The visible volume is the spawn box extended down to the trigger volume
func NewRenderer(screen tcell.Screen, cfg scene.Config) *Renderer {
	world := cfg.Spawn
	world.Min.Y = math.Min(cfg.KillY, cfg.FloorY)
	return &Renderer{
		screen: screen,
		world:  world,
		floorY: cfg.FloorY,
		drain:  cfg.DrainRadius,
		centre: (cfg.Spawn.Min.X + cfg.Spawn.Max.X) / 2,
	}
}

// Draw renders a frame and shows it
func (r *Renderer) Draw(f Frame) {
	r.resize()
	bg := tcell.StyleDefault.Background(RgbBackground)
	r.screen.Fill(' ', bg)

	r.drawFloor(bg)
	r.drawObjects(f.Objects, bg)
	r.drawText(f.OptionsText, 0, false, bg.Foreground(RgbText))
	r.drawText(f.StatusText, 0, true, bg.Foreground(FPSColor(f.FPS)))

	r.screen.Show()
}

func (r *Renderer) resize() {
	w, h := r.screen.Size()
	if w == r.width && h == r.height && r.depth != nil {
		return
	}
	r.width, r.height = w, h
	r.depth = make([]float64, w*h)
}

// Project maps a world position to a screen cell; ok is false outside the visible volume
func (r *Renderer) Project(p vmath.Vec3F) (col, row int, ok bool) {
	if r.width <= 0 || r.height <= 0 {
		return 0, 0, false
	}
	size := r.world.Size()
	if size.X <= 0 || size.Y <= 0 {
		return 0, 0, false
	}
	fx := (p.X - r.world.Min.X) / size.X
	fy := (r.world.Max.Y - p.Y) / size.Y // rows grow downward
	if fx < 0 || fx > 1 || fy < 0 || fy > 1 {
		return 0, 0, false
	}
	col = int(math.Round(fx * float64(r.width-1)))
	row = int(math.Round(fy * float64(r.height-1)))
	return col, row, true
}

// depthShade maps z to a brightness factor, nearest (min z) is brightest
func (r *Renderer) depthShade(z float64) float64 {
	size := r.world.Size().Z
	if size <= 0 {
		return 1
	}
	t := vmath.Clamp01((z - r.world.Min.Z) / size)
	return vmath.Lerp(1, minDepthShade, t)
}

func (r *Renderer) drawFloor(bg tcell.Style) {
	_, row, ok := r.Project(vmath.Vec3F{X: r.world.Min.X, Y: r.floorY})
	if !ok {
		return
	}
	style := bg.Foreground(RgbFloor)
	for col := 0; col < r.width; col++ {
		x := r.world.Min.X + float64(col)/float64(max(r.width-1, 1))*r.world.Size().X
		if math.Abs(x-r.centre) < r.drain {
			continue
		}
		r.screen.SetContent(col, row, '─', nil, style)
	}
}

func (r *Renderer) drawObjects(objects []scene.Object, bg tcell.Style) {
	for i := range r.depth {
		r.depth[i] = math.Inf(1)
	}

	for i := range objects {
		o := &objects[i]
		col, row, ok := r.Project(o.Pos)
		if !ok {
			continue
		}
		idx := row*r.width + col
		if o.Pos.Z >= r.depth[idx] {
			continue
		}
		r.depth[idx] = o.Pos.Z

		base := RgbUnlit
		if o.Lit {
			base = ShapeColor(o.Shape)
		}
		shade := r.depthShade(o.Pos.Z)
		if o.Scripted {
			shade *= o.Brightness
		}
		r.screen.SetContent(col, row, Glyph(o.Shape), nil, bg.Foreground(Shade(base, shade)))
	}
}

// drawText writes one screen row per line, right-aligned when alignRight is set
func (r *Renderer) drawText(text string, top int, alignRight bool, style tcell.Style) {
	if text == "" {
		return
	}
	for i, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		row := top + i
		if row >= r.height {
			return
		}
		col := 0
		if alignRight {
			col = r.width - utf8.RuneCountInString(line)
		}
		for _, ch := range line {
			if col >= 0 && col < r.width {
				r.screen.SetContent(col, row, ch, nil, style)
			}
			col++
		}
	}
}
