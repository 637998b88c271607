// Package scene simulates the objects spawned by a stress run
//
// Objects drop out of the spawn volume under gravity, land on a floor and
// are removed when they fall through the drain into the trigger volume below
// it. Object-to-object collision and per-object behaviour scripts are
// optional and add per-frame cost proportional to the object count.
package scene

import (
	"errors"
	"math"

	"github.com/lixenwraith/spawnbench/harness"
	"github.com/lixenwraith/spawnbench/options"
	"github.com/lixenwraith/spawnbench/vmath"
)

// ErrFull is returned by Spawn once MaxObjects objects are live
var ErrFull = errors.New("scene: object limit reached")

// Behaviour script tuning
const (
	ScriptCooldown = 10.0 // seconds of fade-in countdown per object
	ScriptFadeSpan = 2.0  // brightness reaches black over the last ScriptFadeSpan seconds
)

// Object is a single spawned body
type Object struct {
	ID         harness.Handle
	Pos        vmath.Vec3F
	Vel        vmath.Vec3F
	Shape      options.Shape
	Lit        bool
	Scripted   bool
	Cooldown   float64
	Brightness float64 // 0 black .. 1 white
}

// Config describes the scene geometry and physics
type Config struct {
	Spawn       vmath.Box // spawn volume, also the horizontal extent of the floor
	FloorY      float64   // objects rest on this plane when outside the drain
	KillY       float64   // top of the trigger volume; objects below are removed
	DrainRadius float64   // radius of the hole in the floor around the spawn centre
	Radius      float64   // collision radius of every object
	Gravity     float64
	Restitution float64
	Collisions  bool    // object-to-object collision response
	CellSize    float64 // collision cells hold at most MaxObjectsPerCell objects, see Scene.Clipped
	MaxObjects  int     // 0 means unlimited
}

// DefaultConfig returns the scene used by the harness binary
func DefaultConfig() Config {
	return Config{
		Spawn: vmath.Box{
			Min: vmath.Vec3F{X: -20, Y: 10, Z: -10},
			Max: vmath.Vec3F{X: 20, Y: 20, Z: 10},
		},
		FloorY:      0,
		KillY:       -5,
		DrainRadius: 4,
		Radius:      0.5,
		Gravity:     9.81,
		Restitution: 0.3,
		CellSize:    1,
	}
}

// Scene owns every live object; it is driven from the frame loop goroutine only
type Scene struct {
	cfg     Config
	objects []Object
	nextID  harness.Handle
	grid    *Grid
	centre  vmath.Vec3F
	clipped int

	// supported[i] is set when object i started the frame at or above the floor
	supported []bool

	// OnRemoved fires once per object that enters the trigger volume
	OnRemoved func()
}

// New creates an empty scene
func New(cfg Config) *Scene {
	if cfg.CellSize <= 0 {
		cfg.CellSize = 1
	}
	size := cfg.Spawn.Size()
	cols := int(math.Ceil(size.X/cfg.CellSize)) + 1
	rows := int(math.Ceil(size.Z/cfg.CellSize)) + 1
	return &Scene{
		cfg:  cfg,
		grid: NewGrid(cols, rows),
		centre: vmath.Vec3F{
			X: (cfg.Spawn.Min.X + cfg.Spawn.Max.X) / 2,
			Z: (cfg.Spawn.Min.Z + cfg.Spawn.Max.Z) / 2,
		},
	}
}

// Spawn places one object as described by req
func (s *Scene) Spawn(req harness.SpawnRequest) (harness.Handle, error) {
	if s.cfg.MaxObjects > 0 && len(s.objects) >= s.cfg.MaxObjects {
		return 0, ErrFull
	}
	s.nextID++
	obj := Object{
		ID:         s.nextID,
		Pos:        req.Position,
		Shape:      req.Shape,
		Lit:        req.Lit,
		Scripted:   req.BehaviorEnabled,
		Brightness: 1,
	}
	if obj.Scripted {
		obj.Cooldown = ScriptCooldown
	}
	s.objects = append(s.objects, obj)
	return obj.ID, nil
}

// Update advances the simulation by dt seconds and returns the number of objects removed
func (s *Scene) Update(dt float64) int {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return 0
	}

	rest := s.cfg.FloorY + s.cfg.Radius
	s.supported = s.supported[:0]
	for i := range s.objects {
		o := &s.objects[i]
		if o.Scripted {
			runScript(o, dt)
		}
		prevY := o.Pos.Y
		s.supported = append(s.supported, prevY >= s.cfg.FloorY)
		o.Vel.Y -= s.cfg.Gravity * dt
		o.Pos = vmath.V3FAdd(o.Pos, vmath.V3FScale(o.Vel, dt))

		// Land only when crossing down through the floor outside the drain
		if prevY >= s.cfg.FloorY && o.Pos.Y < rest && !s.overDrain(o.Pos) {
			o.Pos.Y = rest
			if o.Vel.Y < 0 {
				o.Vel.Y = -o.Vel.Y * s.cfg.Restitution
			}
		}
	}

	if s.cfg.Collisions {
		s.collide()
		s.settle(rest)
	}

	return s.removeFallen()
}

// runScript is the per-object fade-in behaviour: white fading to black over the end of the cooldown
func runScript(o *Object, dt float64) {
	if o.Cooldown <= 0 {
		return
	}
	o.Cooldown -= dt
	o.Brightness = vmath.Clamp01(vmath.Lerp(0, 1, o.Cooldown/ScriptFadeSpan))
}

func (s *Scene) overDrain(p vmath.Vec3F) bool {
	dx, dz := p.X-s.centre.X, p.Z-s.centre.Z
	return dx*dx+dz*dz < s.cfg.DrainRadius*s.cfg.DrainRadius
}

func (s *Scene) cellOf(p vmath.Vec3F) (int, int) {
	x := int((p.X - s.cfg.Spawn.Min.X) / s.cfg.CellSize)
	z := int((p.Z - s.cfg.Spawn.Min.Z) / s.cfg.CellSize)
	return x, z
}

// collide buckets objects by floor cell and resolves contacts with neighbours
func (s *Scene) collide() {
	s.grid.Clear()
	s.clipped = 0
	for i := range s.objects {
		x, z := s.cellOf(s.objects[i].Pos)
		if !s.grid.Add(uint32(i), x, z) {
			s.clipped++
		}
	}

	for i := range s.objects {
		a := &s.objects[i]
		cx, cz := s.cellOf(a.Pos)
		for dz := -1; dz <= 1; dz++ {
			for dx := -1; dx <= 1; dx++ {
				for _, j := range s.grid.At(cx+dx, cz+dz) {
					// Each pair once
					if int(j) <= i {
						continue
					}
					resolveContact(a, &s.objects[j], s.cfg.Radius, s.cfg.Restitution)
				}
			}
		}
	}
}

// settle puts back on the floor any supported object that contact resolution pushed through it
func (s *Scene) settle(rest float64) {
	for i := range s.objects {
		o := &s.objects[i]
		if !s.supported[i] || o.Pos.Y >= rest || s.overDrain(o.Pos) {
			continue
		}
		o.Pos.Y = rest
		if o.Vel.Y < 0 {
			o.Vel.Y = 0
		}
	}
}

// removeFallen swap-removes objects inside the trigger volume and reports each
func (s *Scene) removeFallen() int {
	removed := 0
	for i := 0; i < len(s.objects); {
		if s.objects[i].Pos.Y >= s.cfg.KillY {
			i++
			continue
		}
		last := len(s.objects) - 1
		s.objects[i] = s.objects[last]
		s.objects = s.objects[:last]
		removed++
		if s.OnRemoved != nil {
			s.OnRemoved()
		}
	}
	return removed
}

// Objects returns the live objects; the slice is only valid until the next Update or Spawn
func (s *Scene) Objects() []Object {
	return s.objects
}

// Clipped returns how many objects the last collision pass could not bucket,
// either because their cell was full or they left the floor grid. Those objects
// received no contact response that frame.
func (s *Scene) Clipped() int {
	return s.clipped
}

// Len returns the number of live objects
func (s *Scene) Len() int {
	return len(s.objects)
}

// Config returns the scene configuration
func (s *Scene) Config() Config {
	return s.cfg
}
