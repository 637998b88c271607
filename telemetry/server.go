// Package telemetry exposes live run state over HTTP
//
// Routes:
//
//	GET /metrics  Prometheus exposition of the status registry
//	GET /status   the on-screen status text
//	GET /vars     every registry value as sorted "key value" lines
//	GET /healthz  liveness
//
// Every value is read from the status registry, so handlers never touch
// harness state owned by the frame loop goroutine.
package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lixenwraith/spawnbench/harness"
	"github.com/lixenwraith/spawnbench/status"
)

const (
	namespace       = "spawnbench"
	shutdownTimeout = 2 * time.Second
)

// Config holds server configuration
type Config struct {
	Addr   string
	Status *status.Registry
	Logger *slog.Logger
}

// Server serves metrics for one run
type Server struct {
	addr   string
	router *chi.Mux
	prom   *prometheus.Registry
	vars   *status.Registry
	text   *status.AtomicString
	logger *slog.Logger
}

// NewServer builds the router and registers gauges over cfg.Status
func NewServer(cfg Config) (*Server, error) {
	if cfg.Status == nil {
		return nil, errors.New("telemetry: status registry is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		addr:   cfg.Addr,
		router: chi.NewRouter(),
		prom:   prometheus.NewRegistry(),
		vars:   cfg.Status,
		text:   cfg.Status.Strings.Get(status.KeyStatusText),
		logger: logger,
	}
	if err := s.registerCollectors(cfg.Status); err != nil {
		return nil, err
	}

	s.router.Use(middleware.Recoverer)
	s.router.Get("/metrics", promhttp.HandlerFor(s.prom, promhttp.HandlerOpts{}).ServeHTTP)
	s.router.Get("/status", s.statusHandler)
	s.router.Get("/vars", s.varsHandler)
	s.router.Get("/healthz", healthzHandler)
	return s, nil
}

func (s *Server) registerCollectors(reg *status.Registry) error {
	intGauge := func(name, help, key string) prometheus.Collector {
		v := reg.Ints.Get(key)
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help},
			func() float64 { return float64(v.Load()) })
	}
	floatGauge := func(name, help, key string) prometheus.Collector {
		v := reg.Floats.Get(key)
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help},
			func() float64 { return v.Get() })
	}
	boolGauge := func(name, help, key string) prometheus.Collector {
		v := reg.Bools.Get(key)
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help},
			func() float64 {
				if v.Load() {
					return 1
				}
				return 0
			})
	}

	ticks := reg.Ints.Get(status.KeyTicks)
	collectors := []prometheus.Collector{
		intGauge("spawn_count", "Objects currently counted by the harness.", status.KeySpawnCount),
		intGauge("live_objects", "Objects alive in the scene.", status.KeyLiveObjects),
		intGauge("collision_clipped", "Objects skipped by the last collision pass.", status.KeyClipped),
		floatGauge("fps", "Smoothed frames per second.", status.KeySmoothedFPS),
		floatGauge("frame_time_seconds", "Last frame delta.", status.KeyFrameTime),
		floatGauge("frame_time_peak_seconds", "Largest frame delta of the run.", status.KeyPeakFrameTime),
		floatGauge("spawn_amount", "Current burst size before truncation.", status.KeySpawnAmount),
		floatGauge("spawn_interval_seconds", "Current interval between bursts.", status.KeySpawnInterval),
		boolGauge("terminal", "1 once the lowest threshold has latched.", status.KeyTerminal),
		boolGauge("report_emitted", "1 once the result file has been written.", status.KeyReported),
		prometheus.NewCounterFunc(prometheus.CounterOpts{Namespace: namespace, Name: "ticks_total", Help: "Frames processed."},
			func() float64 { return float64(ticks.Load()) }),
	}

	for _, th := range harness.Thresholds {
		v := reg.Ints.Get(status.ThresholdKey(th))
		collectors = append(collectors, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "threshold_spawn_count",
			Help:        "Spawn count latched when smoothed FPS first fell below the threshold, -1 if not yet.",
			ConstLabels: prometheus.Labels{"fps_below": strconv.Itoa(th)},
		}, func() float64 { return float64(v.Load()) }))
	}

	for _, c := range collectors {
		if err := s.prom.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on the configured address and serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("telemetry listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("telemetry stopped")
	return nil
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.text.Load()))
}

func (s *Server) varsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := s.vars.WriteTo(w); err != nil {
		s.logger.Debug("vars write failed", "error", err)
	}
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
