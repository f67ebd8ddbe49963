// Package config loads scan and report settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/idelchi/sz/internal/scan"
)

// Config holds every setting that can come from a config file.
type Config struct {
	// Workers is the size of the worker pool.
	Workers int `koanf:"workers"`
	// Blacklist lists paths or glob patterns excluded from recursion.
	Blacklist []string `koanf:"blacklist"`
	// Timeout stops the scan early (0 = no limit).
	Timeout time.Duration `koanf:"timeout"`
	// Human renders sizes with units.
	Human bool `koanf:"human"`
	// Colors enables colored output on terminals.
	Colors bool `koanf:"colors"`
	// Summary lists only entries above 1% of the total.
	Summary bool `koanf:"summary"`
	// Zeroes lists zero-size entries.
	Zeroes bool `koanf:"zeroes"`
	// Top limits the number of listed entries (0 = all).
	Top int `koanf:"top"`
	// Output is the output format: table, plain or json.
	Output string `koanf:"output"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Workers:   scan.DefaultWorkers,
		Blacklist: append([]string(nil), scan.DefaultBlacklist...),
		Colors:    true,
		Summary:   true,
		Output:    "table",
	}
}

// DefaultPath returns the location of the user config file.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "sz", "config.yaml")
}

// Load reads path on top of the defaults.
// A missing file is only an error when required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}

		return cfg, fmt.Errorf("accessing config %q: %w", path, err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return cfg, fmt.Errorf("loading config %q: %w", path, err)
	}

	if k.Exists("blacklist") {
		cfg.Blacklist = nil
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("decoding config %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}

	if c.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}

	if c.Top < 0 {
		return errors.New("top cannot be negative")
	}

	switch c.Output {
	case "table", "plain", "json":
	default:
		return fmt.Errorf("invalid output format %q: must be one of [table plain json]", c.Output)
	}

	return nil
}
