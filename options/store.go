package options

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/lixenwraith/spawnbench/toml"
)

// DefaultPath is the options file read from the working directory
const DefaultPath = "options.toml"

// Load reads options from path
// A missing or unparseable file yields Default, which is then written with exclusive create
// so an existing file is never overwritten. Write-back failures are logged, not returned.
// A parseable file carrying an unrecognized shape is a fatal *ConfigurationError.
func Load(path string, logger *slog.Logger) (Options, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("options unreadable, using defaults", "path", path, "error", err)
		}
		return createDefault(path, logger), nil
	}

	// Keys absent from the file keep their default values
	o := Default()
	if err := toml.Unmarshal(data, &o); err != nil {
		logger.Warn("options malformed, using defaults", "path", path, "error", err)
		return createDefault(path, logger), nil
	}

	if _, err := ParseShape(string(o.Shape)); err != nil {
		return Options{}, fmt.Errorf("load %s: %w", path, err)
	}

	logger.Debug("options loaded", "path", path, "tag", o.FileNameTag())
	return o, nil
}

func createDefault(path string, logger *slog.Logger) Options {
	o := Default()
	if err := write(path, o, os.O_WRONLY|os.O_CREATE|os.O_EXCL); err != nil {
		logger.Warn("default options not persisted", "path", path, "error", err)
	} else {
		logger.Info("default options written", "path", path)
	}
	return o
}

// Save writes o to path, replacing any existing file
func Save(path string, o Options) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return write(path, o, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

func write(path string, o Options, flag int) error {
	data, err := toml.Marshal(o)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
