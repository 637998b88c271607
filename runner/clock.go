package runner

import "time"

// Clock supplies the delta for the next frame
// live is the number of objects in the scene when the frame starts
type Clock interface {
	Delta(live int) float64
}

// RealClock measures wall time between calls
type RealClock struct {
	now  func() time.Time
	last time.Time
}

// NewRealClock starts measuring from now
func NewRealClock() *RealClock {
	return newRealClock(time.Now)
}

func newRealClock(now func() time.Time) *RealClock {
	return &RealClock{now: now, last: now()}
}

func (c *RealClock) Delta(int) float64 {
	t := c.now()
	dt := t.Sub(c.last).Seconds()
	c.last = t
	return dt
}

// SimulatedClock models frame cost as a fixed base plus a per-object cost
// Runs under it are deterministic and independent of the host machine
type SimulatedClock struct {
	Base      float64 // seconds per frame with an empty scene
	PerObject float64 // additional seconds per live object
}

// DefaultSimulatedClock starts near 120 FPS and crosses 30 FPS around 4,200 objects
func DefaultSimulatedClock() SimulatedClock {
	return SimulatedClock{Base: 1.0 / 120, PerObject: 6e-6}
}

func (c SimulatedClock) Delta(live int) float64 {
	return c.Base + c.PerObject*float64(max(live, 0))
}
