package vmath

import (
	"math"
	"math/rand/v2"
)

// Vec3F is a float64 3D vector used for scene positions and velocities
type Vec3F struct {
	X, Y, Z float64
}

func V3FAdd(a, b Vec3F) Vec3F {
	return Vec3F{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3FSub(a, b Vec3F) Vec3F {
	return Vec3F{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3FScale(v Vec3F, s float64) Vec3F {
	return Vec3F{v.X * s, v.Y * s, v.Z * s}
}

func V3FDot(a, b Vec3F) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func V3FMagSq(v Vec3F) float64 {
	return V3FDot(v, v)
}

func V3FMag(v Vec3F) float64 {
	return math.Sqrt(V3FMagSq(v))
}

func V3FNormalize(v Vec3F) Vec3F {
	mag := V3FMag(v)
	if mag == 0 {
		return Vec3F{}
	}
	inv := 1.0 / mag
	return Vec3F{v.X * inv, v.Y * inv, v.Z * inv}
}

// Lerp interpolates a toward b by t without clamping
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 limits t to [0, 1]
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Box is an axis-aligned bounding volume
type Box struct {
	Min, Max Vec3F
}

// Size returns the extent of the box along each axis
func (b Box) Size() Vec3F {
	return V3FSub(b.Max, b.Min)
}

// Contains reports whether p lies inside the box, bounds inclusive
func (b Box) Contains(p Vec3F) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// RandomIn returns a point uniformly distributed inside the box
func (b Box) RandomIn(r *rand.Rand) Vec3F {
	return Vec3F{
		X: Lerp(b.Min.X, b.Max.X, r.Float64()),
		Y: Lerp(b.Min.Y, b.Max.Y, r.Float64()),
		Z: Lerp(b.Min.Z, b.Max.Z, r.Float64()),
	}
}
