// Command spawnbench ramps up spawned objects until the frame rate degrades
// and records the object count at which each FPS threshold was crossed.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/spawnbench/audio"
	"github.com/lixenwraith/spawnbench/harness"
	"github.com/lixenwraith/spawnbench/options"
	"github.com/lixenwraith/spawnbench/render"
	"github.com/lixenwraith/spawnbench/report"
	"github.com/lixenwraith/spawnbench/runner"
	"github.com/lixenwraith/spawnbench/scene"
	"github.com/lixenwraith/spawnbench/status"
	"github.com/lixenwraith/spawnbench/telemetry"
)

var version = "dev"

// activeScreen is finalized by the crash handler so the terminal is usable after a panic
var activeScreen tcell.Screen

func main() {
	defer func() {
		if r := recover(); r != nil {
			if activeScreen != nil {
				activeScreen.Fini()
			}
			fmt.Fprintf(os.Stderr, "\n\x1b[31mSPAWNBENCH CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spawnbench",
		Short: "Adaptive spawn stress harness",
		Long: `spawnbench spawns objects at an accelerating rate and watches the smoothed
frame rate. The object count is latched the first time FPS falls below each of
70, 60, 50, 40 and 30; the run ends at 30 and writes "Results <options>.txt".

Run options (collisions, scripts, lighting, shape) are read from the options
file. Harness settings come from flags, SPAWNBENCH_* environment variables or
spawnbench.yaml, in that order of precedence.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd.Flags())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, s)
		},
	}
	registerFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, s settings) error {
	logger, logFile := setupLogging(s.Debug, s.Headless)
	if logFile != nil {
		defer logFile.Close()
	}
	runID := uuid.New()
	logger = logger.With("run_id", runID.String())
	if s.ConfigFile != "" {
		logger.Info("settings loaded", "file", s.ConfigFile)
	}

	opts, err := options.Load(s.OptionsPath, logger)
	if err != nil {
		return err
	}

	sceneCfg := scene.DefaultConfig()
	sceneCfg.Collisions = opts.Collisions
	sc := scene.New(sceneCfg)

	rep := report.NewFileReporter(s.OutputDir, logger)
	rep.RunID = runID

	var cue harness.Cue
	if s.Audio {
		cueCfg := audio.DefaultConfig()
		cueCfg.Volume = s.Volume
		var sink audio.Sink
		if spk, err := audio.OpenSpeaker(cueCfg.SampleRate); err != nil {
			logger.Warn("audio unavailable, continuing silent", "error", err)
		} else {
			sink = spk
			defer spk.Close()
		}
		cue = audio.NewCuePlayer(cueCfg, sink, logger)
	}

	seed := s.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	ctrl, err := harness.NewController(harness.Config{
		Options:  opts,
		Bounds:   sceneCfg.Spawn,
		Spawner:  sc,
		Reporter: rep,
		Cue:      cue,
		Rand:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	reg := status.NewRegistry()
	reg.Strings.Get(status.KeyRunID).Store(runID.String())
	reg.Strings.Get(status.KeyOptionsTag).Store(opts.FileNameTag())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	telemetryDone := make(chan struct{})
	if s.MetricsAddr != "" {
		srv, err := telemetry.NewServer(telemetry.Config{Addr: s.MetricsAddr, Status: reg, Logger: logger})
		if err != nil {
			return err
		}
		go func() {
			defer close(telemetryDone)
			if err := srv.Run(runCtx); err != nil {
				logger.Error("telemetry server failed", "error", err)
			}
		}()
	} else {
		close(telemetryDone)
	}

	cfg := runner.Config{
		Controller:  ctrl,
		Scene:       sc,
		Status:      reg,
		FrameCap:    s.FrameCap,
		MaxDuration: s.MaxDuration,
		Logger:      logger,
	}
	if s.Simulate {
		cfg.Clock = runner.DefaultSimulatedClock()
	} else {
		cfg.Clock = runner.NewRealClock()
	}

	if !s.Headless {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("create screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("init screen: %w", err)
		}
		activeScreen = screen
		defer func() {
			if activeScreen != nil {
				activeScreen.Fini()
				activeScreen = nil
			}
		}()
		cfg.Screen = screen
		cfg.Renderer = render.NewRenderer(screen, sceneCfg)
	}

	r, err := runner.New(cfg)
	if err != nil {
		return err
	}
	res, runErr := r.Run(runCtx)

	cancel()
	<-telemetryDone
	if activeScreen != nil {
		activeScreen.Fini()
		activeScreen = nil
	}

	printResult(res, rep.TextPath(opts.FileNameTag()), runErr == nil)
	var perr *harness.PersistenceError
	if errors.As(runErr, &perr) {
		return fmt.Errorf("results not saved: %w", runErr)
	}
	return runErr
}

func printResult(res runner.Result, reportPath string, saved bool) {
	fmt.Println(res.Final.Status)
	fmt.Printf("\nStopped: %s after %d frames (%s of frame time)\n", res.Reason, res.Ticks, res.Elapsed.Round(time.Millisecond))
	if res.Final.ReportEmitted && saved {
		fmt.Printf("Results: %s\n", reportPath)
	}
}
