package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/spawnbench/options"
	"github.com/lixenwraith/spawnbench/report"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("spawnbench", pflag.ContinueOnError)
	registerFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadSettingsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := loadSettings(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, options.DefaultPath, s.OptionsPath)
	assert.Equal(t, ".", s.OutputDir)
	assert.True(t, s.Audio)
	assert.False(t, s.Headless)
	assert.Zero(t, s.MaxDuration)
	assert.Empty(t, s.ConfigFile)
}

func TestLoadSettingsPrecedence(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("spawnbench.yaml", []byte("headless: true\noutput-dir: from-file\nframe-cap: 30\n"), 0o644))
	t.Setenv("SPAWNBENCH_OUTPUT_DIR", "from-env")
	t.Setenv("SPAWNBENCH_MAX_DURATION", "90s")

	s, err := loadSettings(newFlags(t, "--frame-cap=60"))
	require.NoError(t, err)

	assert.True(t, s.Headless, "file value")
	assert.Equal(t, "from-env", s.OutputDir, "env over file")
	assert.Equal(t, 90*time.Second, s.MaxDuration, "env over default")
	assert.Equal(t, 60.0, s.FrameCap, "flag over file")
	assert.Contains(t, s.ConfigFile, "spawnbench.yaml")
}

func TestLoadSettingsExplicitFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := loadSettings(newFlags(t, "--config=nope.yaml"))
	assert.Error(t, err)
}

func TestLoadSettingsValidation(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, args := range [][]string{
		{"--volume=2"},
		{"--frame-cap=-1"},
		{"--options="},
		{"--max-duration=-1s"},
	} {
		_, err := loadSettings(newFlags(t, args...))
		assert.Error(t, err, "args %v", args)
	}
}

func TestRunHeadlessSimulated(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	optsPath := filepath.Join(dir, "options.toml")
	require.NoError(t, options.Save(optsPath, options.Options{Lighting: true, Shape: options.ShapeSphere}))

	err := run(context.Background(), settings{
		OptionsPath: optsPath,
		OutputDir:   filepath.Join(dir, "out"),
		Headless:    true,
		Simulate:    true,
		Seed:        42,
	})
	require.NoError(t, err)

	tag := "Collisions_Off Scripts_Off Lighting_On Shapes_Sphere"
	data, err := os.ReadFile(filepath.Join(dir, "out", report.FilePrefix+tag+".txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Options:\n  Collisions: false\n"))
	assert.Contains(t, string(data), "  Shape: Sphere (515 verts, 768 tris)")
	assert.Contains(t, string(data), "  fps < 30: ")
}

func TestRunRejectsBadOptions(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	optsPath := filepath.Join(dir, "options.toml")
	require.NoError(t, os.WriteFile(optsPath, []byte("shape = \"torus\"\n"), 0o644))

	err := run(context.Background(), settings{
		OptionsPath: optsPath,
		OutputDir:   dir,
		Headless:    true,
		Simulate:    true,
	})
	var cfgErr *options.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRootCommandHelp(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--help"})
	cmd.SetOut(&strings.Builder{})
	assert.NoError(t, cmd.Execute())
	assert.NotNil(t, cmd.Flags().Lookup("metrics-addr"))
}
