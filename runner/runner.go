// Package runner drives a stress run frame by frame
package runner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/spawnbench/harness"
	"github.com/lixenwraith/spawnbench/render"
	"github.com/lixenwraith/spawnbench/scene"
	"github.com/lixenwraith/spawnbench/status"
)

// StopReason tells why Run returned
type StopReason int

const (
	StopTerminal  StopReason = iota // lowest threshold latched, report emitted
	StopDuration                    // MaxDuration of frame time elapsed
	StopCancelled                   // context cancelled
	StopQuit                        // user pressed q, Esc or Ctrl-C
)

func (r StopReason) String() string {
	switch r {
	case StopTerminal:
		return "terminal"
	case StopDuration:
		return "max-duration"
	case StopCancelled:
		return "cancelled"
	case StopQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Config wires a Runner; Controller, Scene and Clock are required
type Config struct {
	Controller *harness.Controller
	Scene      *scene.Scene
	Clock      Clock

	Screen   tcell.Screen     // optional; enables input and, with Renderer, display
	Renderer *render.Renderer // optional
	Status   *status.Registry // optional; receives a snapshot every frame

	FrameCap    float64       // frames per second upper bound, 0 for uncapped
	MaxDuration time.Duration // bound on summed frame deltas, 0 for unbounded
	Logger      *slog.Logger
}

// Result summarizes a finished run
type Result struct {
	Reason  StopReason
	Ticks   int
	Elapsed time.Duration // summed frame deltas
	Final   harness.Snapshot
}

// Runner owns the frame loop; Run must be called once
type Runner struct {
	cfg       Config
	publisher *publisher
	logger    *slog.Logger
	options   string
}

// New validates cfg and links scene removals to the controller's counter
func New(cfg Config) (*Runner, error) {
	if cfg.Controller == nil || cfg.Scene == nil || cfg.Clock == nil {
		return nil, errors.New("runner: controller, scene and clock are required")
	}
	if cfg.FrameCap < 0 {
		return nil, errors.New("runner: frame cap must not be negative")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := &Runner{
		cfg:     cfg,
		logger:  logger,
		options: cfg.Controller.Options().DisplayText(),
	}
	if cfg.Status != nil {
		r.publisher = newPublisher(cfg.Status)
	}
	cfg.Scene.OnRemoved = cfg.Controller.OnObjectRemoved
	return r, nil
}

// Run executes frames until the run is terminal, MaxDuration elapses, the user quits or ctx is done
// A report persistence failure is returned after the loop stops
func (r *Runner) Run(ctx context.Context) (Result, error) {
	done := make(chan struct{})
	defer close(done)

	var events chan tcell.Event
	if r.cfg.Screen != nil {
		events = make(chan tcell.Event, 16)
		go func() {
			for {
				ev := r.cfg.Screen.PollEvent()
				if ev == nil {
					return // screen finalized
				}
				select {
				case events <- ev:
				case <-done:
					return
				}
			}
		}()
	}

	var pace <-chan time.Time
	if r.cfg.FrameCap > 0 {
		ticker := time.NewTicker(time.Duration(float64(time.Second) / r.cfg.FrameCap))
		defer ticker.Stop()
		pace = ticker.C
	}

	var (
		res     Result
		elapsed float64
	)
	maxElapsed := r.cfg.MaxDuration.Seconds()

	r.logger.Info("run started", "options", r.cfg.Controller.Options().FileNameTag(), "frame_cap", r.cfg.FrameCap)
	for {
		if reason, stop := r.interrupted(ctx, events); stop {
			res.Reason = reason
			break
		}

		dt, err := r.frame()
		if err != nil {
			res.Reason = StopTerminal
			res.Ticks, res.Elapsed, res.Final = r.summary(elapsed)
			r.logger.Error("report failed", "error", err)
			return res, err
		}
		elapsed += dt

		if r.cfg.Controller.IsTerminal() {
			res.Reason = StopTerminal
			break
		}
		if maxElapsed > 0 && elapsed >= maxElapsed {
			res.Reason = StopDuration
			break
		}

		if pace != nil {
			select {
			case <-pace:
			case <-ctx.Done():
			}
		}
	}

	res.Ticks, res.Elapsed, res.Final = r.summary(elapsed)
	r.logger.Info("run stopped", "reason", res.Reason.String(), "ticks", res.Ticks, "spawn_count", res.Final.SpawnCount)
	return res, nil
}

// frame advances the scene and controller by one delta and publishes the result
func (r *Runner) frame() (float64, error) {
	dt := r.cfg.Clock.Delta(r.cfg.Scene.Len())

	r.cfg.Scene.Update(dt)
	tickErr := r.cfg.Controller.Tick(dt)

	var persistErr *harness.PersistenceError
	switch {
	case tickErr == nil:
	case errors.As(tickErr, &persistErr):
	case errors.Is(tickErr, harness.ErrInvalidTickInput):
		r.logger.Debug("frame skipped", "delta", dt, "error", tickErr)
		tickErr = nil
	}

	snap := r.cfg.Controller.Snapshot()
	if r.publisher != nil {
		r.publisher.publish(snap, r.cfg.Scene.Len(), r.cfg.Scene.Clipped())
	}
	if r.cfg.Renderer != nil {
		r.cfg.Renderer.Draw(render.Frame{
			Objects:     r.cfg.Scene.Objects(),
			OptionsText: r.options,
			StatusText:  snap.Status,
			FPS:         snap.SmoothedFPS,
		})
	}

	if dt < 0 {
		dt = 0
	}
	return dt, tickErr
}

// interrupted drains pending input without blocking
func (r *Runner) interrupted(ctx context.Context, events <-chan tcell.Event) (StopReason, bool) {
	for {
		select {
		case <-ctx.Done():
			return StopCancelled, true
		case ev := <-events:
			if quitKey(ev) {
				return StopQuit, true
			}
			if _, ok := ev.(*tcell.EventResize); ok && r.cfg.Screen != nil {
				r.cfg.Screen.Sync()
			}
		default:
			return 0, false
		}
	}
}

func quitKey(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return key.Rune() == 'q' || key.Rune() == 'Q'
	}
	return false
}

func (r *Runner) summary(elapsed float64) (int, time.Duration, harness.Snapshot) {
	snap := r.cfg.Controller.Snapshot()
	return snap.Ticks, time.Duration(elapsed * float64(time.Second)), snap
}
