package harness

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/lixenwraith/spawnbench/options"
	"github.com/lixenwraith/spawnbench/vmath"
)

// Config wires a Controller to its collaborators
type Config struct {
	Options  options.Options
	Bounds   vmath.Box // spawn volume, positions are uniform inside it
	Spawner  Spawner
	Reporter Reporter
	Cue      Cue        // optional
	Rand     *rand.Rand // optional, seeded from the clock when nil
	Logger   *slog.Logger
}

// Snapshot is a read-only view of the run state after the last tick
type Snapshot struct {
	SpawnCount    int
	Ticks         int
	DeltaTime     float64
	SmoothedFPS   float64
	Scheduler     SchedulerState
	Thresholds    [len(Thresholds)]int
	Terminal      bool
	ReportEmitted bool
	Status        string
}

// Controller is the run context: it owns every piece of mutable run state and
// advances it once per frame. It is not safe for concurrent use; Tick and
// OnObjectRemoved must be called from the frame loop goroutine.
type Controller struct {
	opts     options.Options
	bounds   vmath.Box
	spawner  Spawner
	reporter Reporter
	cue      Cue
	rng      *rand.Rand
	logger   *slog.Logger

	spawnCount int
	ticks      int
	lastDelta  float64
	smoothed   float64
	window     FPSWindow
	scheduler  *Scheduler
	tracker    *Tracker
	terminal   bool
	emitted    bool
	status     string
}

// NewController validates cfg and returns a controller in its initial state
func NewController(cfg Config) (*Controller, error) {
	if err := cfg.Options.Validate(); err != nil {
		return nil, err
	}
	if cfg.Spawner == nil {
		return nil, errors.New("harness: spawner is required")
	}
	if cfg.Reporter == nil {
		return nil, errors.New("harness: reporter is required")
	}

	rng := cfg.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		opts:      cfg.Options,
		bounds:    cfg.Bounds,
		spawner:   cfg.Spawner,
		reporter:  cfg.Reporter,
		cue:       cfg.Cue,
		rng:       rng,
		logger:    logger,
		scheduler: NewScheduler(),
		tracker:   NewTracker(),
	}
	c.status = c.buildStatus()
	return c, nil
}

// Tick advances the run by one frame of dt seconds
//
// Once terminal, Tick is a no-op. A negative or non-finite dt is rejected
// with ErrInvalidTickInput and changes nothing. A zero dt still advances the
// scheduler but skips FPS observation and returns ErrInvalidTickInput.
// A failed report is returned as *PersistenceError; the run stays terminal.
func (c *Controller) Tick(dt float64) error {
	if c.terminal {
		return nil
	}
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return fmt.Errorf("%w: delta %v", ErrInvalidTickInput, dt)
	}

	c.ticks++
	c.lastDelta = dt

	for range c.scheduler.Tick(dt) {
		c.spawnOne()
	}

	var tickErr error
	if dt == 0 {
		tickErr = fmt.Errorf("%w: zero-duration frame", ErrInvalidTickInput)
	} else {
		c.window.Observe(1 / dt)
		c.smoothed = c.window.Mean()
		if th, ok := c.tracker.Update(c.smoothed, c.spawnCount); ok {
			c.logger.Info("threshold crossed", "fps_below", th, "spawn_count", c.spawnCount, "smoothed_fps", c.smoothed)
			if c.cue != nil {
				c.cue.ThresholdCrossed(th, c.spawnCount)
			}
		}
		c.terminal = c.tracker.IsTerminal()
	}

	c.status = c.buildStatus()

	if c.terminal {
		if err := c.emitReport(); err != nil {
			return err
		}
	}
	return tickErr
}

func (c *Controller) spawnOne() {
	req := SpawnRequest{
		Position:        c.bounds.RandomIn(c.rng),
		BehaviorEnabled: c.opts.Scripts,
		Shape:           c.opts.Shape,
		Lit:             c.opts.Lighting,
	}
	if _, err := c.spawner.Spawn(req); err != nil {
		c.logger.Debug("spawn failed", "error", err)
		return
	}
	c.spawnCount++
}

// emitReport runs once, on the tick the tracker turns terminal
func (c *Controller) emitReport() error {
	if c.emitted {
		return nil
	}
	c.emitted = true

	r := c.Report()
	c.logger.Info("run complete", "tag", r.Tag, "ticks", r.Ticks, "spawn_count", r.SpawnCount)
	if err := c.reporter.Emit(r); err != nil {
		return &PersistenceError{Tag: r.Tag, Err: err}
	}
	return nil
}

// Report composes the result from the current state
func (c *Controller) Report() Report {
	return Report{
		Tag:        c.opts.FileNameTag(),
		Options:    c.opts,
		Thresholds: c.tracker.Snapshot(),
		Body:       "Options:\n" + c.opts.DisplayText() + "\n\nStats:\n" + c.tracker.Report(),
		Ticks:      c.ticks,
		SpawnCount: c.spawnCount,
	}
}

// OnObjectRemoved records one object leaving the scene
// Accepted at any time, including after termination; the counter may go negative
func (c *Controller) OnObjectRemoved() {
	c.spawnCount--
}

func (c *Controller) buildStatus() string {
	return "Count: " + groupInt(c.spawnCount) +
		"\nFrame Time: " + formatFrameTime(c.lastDelta) +
		"\nFPS: " + formatFPS(c.smoothed) +
		"\n\n" + c.tracker.Report()
}

// Status returns the display text rebuilt on the last tick
func (c *Controller) Status() string {
	return c.status
}

// IsTerminal reports whether the run has finished
func (c *Controller) IsTerminal() bool {
	return c.terminal
}

// SpawnCount returns the live spawn counter
func (c *Controller) SpawnCount() int {
	return c.spawnCount
}

// Options returns the options the run was configured with
func (c *Controller) Options() options.Options {
	return c.opts
}

// Snapshot captures the run state for display and telemetry
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		SpawnCount:    c.spawnCount,
		Ticks:         c.ticks,
		DeltaTime:     c.lastDelta,
		SmoothedFPS:   c.smoothed,
		Scheduler:     c.scheduler.State(),
		Thresholds:    c.tracker.Snapshot(),
		Terminal:      c.terminal,
		ReportEmitted: c.emitted,
		Status:        c.status,
	}
}
