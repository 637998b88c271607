package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/spawnbench/options"
)

// Palette
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbFloor      = tcell.NewRGBColor(90, 90, 110)   // Floor plane
	RgbText       = tcell.NewRGBColor(200, 200, 210) // Options and status text
	RgbUnlit      = tcell.NewRGBColor(150, 150, 150) // Objects without lighting

	RgbCube     = tcell.NewRGBColor(255, 165, 0)   // Orange
	RgbCapsule  = tcell.NewRGBColor(100, 150, 255) // Blue
	RgbCylinder = tcell.NewRGBColor(0, 200, 0)     // Green
	RgbSphere   = tcell.NewRGBColor(255, 80, 80)   // Red
)

// Glyph returns the rune drawn for a shape
func Glyph(s options.Shape) rune {
	switch s {
	case options.ShapeCube:
		return '■'
	case options.ShapeCapsule:
		return '▮'
	case options.ShapeCylinder:
		return '▯'
	case options.ShapeSphere:
		return '●'
	default:
		return '?'
	}
}

// ShapeColor returns the lit base color for a shape
func ShapeColor(s options.Shape) tcell.Color {
	switch s {
	case options.ShapeCube:
		return RgbCube
	case options.ShapeCapsule:
		return RgbCapsule
	case options.ShapeCylinder:
		return RgbCylinder
	case options.ShapeSphere:
		return RgbSphere
	default:
		return RgbUnlit
	}
}

// Shade scales each channel of c by factor in [0, 1]
func Shade(c tcell.Color, factor float64) tcell.Color {
	if factor <= 0 {
		return tcell.NewRGBColor(0, 0, 0)
	}
	if factor > 1 {
		factor = 1
	}
	r, g, b := c.RGB()
	return tcell.NewRGBColor(
		int32(float64(r)*factor),
		int32(float64(g)*factor),
		int32(float64(b)*factor),
	)
}

// FPSColor returns a green to red gradient for a frame rate
// 70 and above is green, 30 and below is red
func FPSColor(fps float64) tcell.Color {
	t := (fps - 30) / 40
	if t <= 0 {
		return tcell.NewRGBColor(220, 40, 40)
	}
	if t >= 1 {
		return tcell.NewRGBColor(40, 220, 40)
	}
	if t < 0.5 { // Red to Yellow
		k := t / 0.5
		return tcell.NewRGBColor(220, int32(40+180*k), 40)
	}
	k := (t - 0.5) / 0.5 // Yellow to Green
	return tcell.NewRGBColor(int32(220-180*k), 220, 40)
}
