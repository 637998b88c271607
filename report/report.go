// Package report persists the final result of a stress run
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/spawnbench/harness"
	"github.com/lixenwraith/spawnbench/options"
	"github.com/lixenwraith/spawnbench/toml"
)

// FilePrefix starts every result file name
const FilePrefix = "Results "

// Summary is the machine-readable sidecar written next to the text report
type Summary struct {
	RunID      string          `toml:"run_id"`
	Tag        string          `toml:"tag"`
	Started    string          `toml:"started"`
	Finished   string          `toml:"finished"`
	Ticks      int             `toml:"ticks"`
	SpawnCount int             `toml:"spawn_count"`
	Options    options.Options `toml:"options"`
	Thresholds map[string]int  `toml:"thresholds"` // "fps_below_70" -> spawn count, -1 if never breached
}

// FileReporter writes "Results <tag>.txt" and "Results <tag>.toml" into Dir
// A report with the same tag replaces the previous one
type FileReporter struct {
	Dir     string
	RunID   uuid.UUID
	Started time.Time
	Now     func() time.Time // defaults to time.Now
	Logger  *slog.Logger
}

// NewFileReporter returns a reporter for a run starting now
func NewFileReporter(dir string, logger *slog.Logger) *FileReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileReporter{
		Dir:     dir,
		RunID:   uuid.New(),
		Started: time.Now(),
		Now:     time.Now,
		Logger:  logger,
	}
}

// TextPath returns the text report path for tag
func (f *FileReporter) TextPath(tag string) string {
	return filepath.Join(f.Dir, FilePrefix+tag+".txt")
}

// SummaryPath returns the sidecar path for tag
func (f *FileReporter) SummaryPath(tag string) string {
	return filepath.Join(f.Dir, FilePrefix+tag+".toml")
}

// Emit implements harness.Reporter
func (f *FileReporter) Emit(r harness.Report) error {
	if f.Dir != "" {
		if err := os.MkdirAll(f.Dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}

	textPath := f.TextPath(r.Tag)
	if err := writeFileAtomic(textPath, []byte(r.Body)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	data, err := toml.Marshal(f.summarize(r))
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	summaryPath := f.SummaryPath(r.Tag)
	if err := writeFileAtomic(summaryPath, data); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	f.logger().Info("report written", "run_id", f.RunID.String(), "report", textPath, "summary", summaryPath)
	return nil
}

func (f *FileReporter) summarize(r harness.Report) Summary {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	th := make(map[string]int, len(r.Thresholds))
	for i, count := range r.Thresholds {
		th[ThresholdKey(harness.Thresholds[i])] = count
	}
	return Summary{
		RunID:      f.RunID.String(),
		Tag:        r.Tag,
		Started:    f.Started.UTC().Format(time.RFC3339),
		Finished:   now().UTC().Format(time.RFC3339),
		Ticks:      r.Ticks,
		SpawnCount: r.SpawnCount,
		Options:    r.Options,
		Thresholds: th,
	}
}

func (f *FileReporter) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.Default()
	}
	return f.Logger
}

// ThresholdKey names a threshold in the summary file
func ThresholdKey(threshold int) string {
	return "fps_below_" + strconv.Itoa(threshold)
}

// ReadSummary loads a sidecar written by FileReporter
func ReadSummary(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, err
	}
	var s Summary
	if err := toml.Unmarshal(data, &s); err != nil {
		return Summary{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := s.Options.Validate(); err != nil {
		return Summary{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// writeFileAtomic replaces path so readers never observe a partial report
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
