package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
)

const (
	logDir      = "logs"
	logFileName = "spawnbench.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging returns the run logger and the file backing it, if any
// Without debug, terminal runs discard logs and headless runs log warnings to stderr.
// With debug, terminal runs log to logs/spawnbench.log and headless runs log debug to stderr.
func setupLogging(debug, headless bool) (*slog.Logger, *os.File) {
	if headless {
		level := slog.LevelWarn
		if debug {
			level = slog.LevelDebug
		}
		return newLogger(os.Stderr, level, true), nil
	}

	if !debug {
		return slog.New(slog.DiscardHandler), nil
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return slog.New(slog.DiscardHandler), nil
	}
	logPath := filepath.Join(logDir, logFileName)
	rotateLog(logPath)

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return slog.New(slog.DiscardHandler), nil
	}
	return newLogger(f, slog.LevelDebug, false), f
}

func newLogger(w io.Writer, level slog.Level, color bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !color,
	}))
}

// rotateLog moves an oversized log aside with a timestamp suffix
func rotateLog(path string) {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= maxLogSize {
		return
	}
	ext := filepath.Ext(path)
	rotated := fmt.Sprintf("%s.%s%s", path[:len(path)-len(ext)], time.Now().Format("20060102-150405"), ext)
	_ = os.Rename(path, rotated)
}
