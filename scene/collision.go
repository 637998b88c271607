package scene

import (
	"math"

	"github.com/lixenwraith/spawnbench/vmath"
)

// resolveContact separates two overlapping equal-mass spheres and exchanges
// momentum along the contact normal. Returns false when they do not touch.
func resolveContact(a, b *Object, radius, restitution float64) bool {
	d := vmath.V3FSub(b.Pos, a.Pos)
	distSq := vmath.V3FMagSq(d)
	minDist := 2 * radius
	if distSq == 0 || distSq >= minDist*minDist {
		return false
	}

	dist := math.Sqrt(distSq)
	n := vmath.V3FScale(d, 1/dist)

	// Push apart so they no longer overlap, half each
	push := vmath.V3FScale(n, (minDist-dist)/2)
	a.Pos = vmath.V3FSub(a.Pos, push)
	b.Pos = vmath.V3FAdd(b.Pos, push)

	// Approaching along the normal?
	vn := vmath.V3FDot(vmath.V3FSub(a.Vel, b.Vel), n)
	if vn <= 0 {
		return true
	}

	// Equal masses: impulse j = (1+e) * vn / 2 applied to each
	j := (1 + restitution) * vn / 2
	impulse := vmath.V3FScale(n, j)
	a.Vel = vmath.V3FSub(a.Vel, impulse)
	b.Vel = vmath.V3FAdd(b.Vel, impulse)
	return true
}
