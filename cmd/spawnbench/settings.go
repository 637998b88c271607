package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lixenwraith/spawnbench/options"
)

const envPrefix = "SPAWNBENCH"

// settings are harness knobs; run options live in the options file
type settings struct {
	OptionsPath string
	OutputDir   string
	Headless    bool
	Simulate    bool
	Debug       bool
	Audio       bool
	Volume      float64
	MetricsAddr string
	MaxDuration time.Duration
	FrameCap    float64
	Seed        uint64
	ConfigFile  string
}

func registerFlags(fs *pflag.FlagSet) {
	fs.String("options", options.DefaultPath, "run options file, created with defaults when missing")
	fs.String("output-dir", ".", "directory for result files")
	fs.Bool("headless", false, "run without a terminal display")
	fs.Bool("simulate", false, "use the simulated frame cost model instead of wall time")
	fs.Bool("debug", false, "enable debug logging")
	fs.Bool("audio", true, "play a tone when a threshold is crossed")
	fs.Float64("volume", 0.4, "cue volume, 0 to 1")
	fs.String("metrics-addr", "", "serve /metrics, /status, /vars and /healthz on this address")
	fs.Duration("max-duration", 0, "stop after this much frame time, 0 for no limit")
	fs.Float64("frame-cap", 0, "upper bound on frames per second, 0 for uncapped")
	fs.Uint64("seed", 0, "spawn position seed, 0 picks one from the clock")
	fs.String("config", "", "settings file (default ./spawnbench.yaml)")
}

// loadSettings layers flags over SPAWNBENCH_* env over the settings file over flag defaults
func loadSettings(fs *pflag.FlagSet) (settings, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return settings{}, err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("spawnbench")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read settings: %w", err)
		}
	}

	s := settings{
		OptionsPath: v.GetString("options"),
		OutputDir:   v.GetString("output-dir"),
		Headless:    v.GetBool("headless"),
		Simulate:    v.GetBool("simulate"),
		Debug:       v.GetBool("debug"),
		Audio:       v.GetBool("audio"),
		Volume:      v.GetFloat64("volume"),
		MetricsAddr: v.GetString("metrics-addr"),
		MaxDuration: v.GetDuration("max-duration"),
		FrameCap:    v.GetFloat64("frame-cap"),
		Seed:        v.GetUint64("seed"),
		ConfigFile:  v.ConfigFileUsed(),
	}
	return s, s.validate()
}

func (s settings) validate() error {
	switch {
	case s.OptionsPath == "":
		return errors.New("options path must not be empty")
	case s.Volume < 0 || s.Volume > 1:
		return fmt.Errorf("volume %v outside 0..1", s.Volume)
	case s.FrameCap < 0:
		return fmt.Errorf("frame cap %v must not be negative", s.FrameCap)
	case s.MaxDuration < 0:
		return fmt.Errorf("max duration %v must not be negative", s.MaxDuration)
	}
	return nil
}
