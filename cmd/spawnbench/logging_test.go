package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	t.Chdir(t.TempDir())

	logger, logFile := setupLogging(false, false)
	if logFile != nil {
		t.Error("Expected nil log file when debug=false")
		logFile.Close()
	}
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("Expected logging to be discarded when debug=false")
	}
	if _, err := os.Stat(logDir); !os.IsNotExist(err) {
		t.Error("Expected no logs directory when debug=false")
	}
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	t.Chdir(t.TempDir())

	logger, logFile := setupLogging(true, false)
	if logFile == nil {
		t.Fatal("Expected non-nil log file when debug=true")
	}
	defer logFile.Close()

	logPath := filepath.Join(logDir, logFileName)
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Fatal("Expected log file to be created")
	}

	logger.Debug("test log message", "count", 1100)

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "test log message") {
		t.Errorf("Expected log file to contain the message, got %q", data)
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Error("Log file should not contain color escapes")
	}
}

func TestSetupLogging_Rotation(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		t.Fatalf("Failed to create logs directory: %v", err)
	}
	logPath := filepath.Join(logDir, logFileName)
	if err := os.WriteFile(logPath, make([]byte, maxLogSize+1), 0o644); err != nil {
		t.Fatalf("Failed to write large log file: %v", err)
	}

	_, logFile := setupLogging(true, false)
	if logFile == nil {
		t.Fatal("Expected non-nil log file")
	}
	defer logFile.Close()

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}
	rotatedFound := false
	for _, entry := range entries {
		if entry.Name() != logFileName && filepath.Ext(entry.Name()) == ".log" {
			rotatedFound = true
			break
		}
	}
	if !rotatedFound {
		t.Error("Expected to find rotated log file")
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > maxLogSize {
		t.Errorf("Expected new log file to be smaller than %d bytes, got %d", maxLogSize, info.Size())
	}
}

func TestSetupLogging_HeadlessUsesStderr(t *testing.T) {
	t.Chdir(t.TempDir())

	logger, logFile := setupLogging(false, true)
	if logFile != nil {
		t.Error("Headless logging should not open a file")
		logFile.Close()
	}
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Headless without debug should only log warnings and above")
	}
	if !logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("Headless should log warnings")
	}

	logger, _ = setupLogging(true, true)
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Headless debug should log debug")
	}
}
