// Package config loads the editor's YAML settings.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds the user-tunable settings.
type Config struct {
	QuitTimes      int           `yaml:"quit_times"`
	MessageTimeout time.Duration `yaml:"message_timeout"`
	WheelLines     int           `yaml:"wheel_lines"`
	Mouse          bool          `yaml:"mouse"`
	LogFile        string        `yaml:"log_file"`
	LogLevel       string        `yaml:"log_level"`
	Status         StatusConfig  `yaml:"status"`
}

// StatusConfig colours the status bar. Both empty means reverse video.
type StatusConfig struct {
	Foreground string `yaml:"foreground"`
	Background string `yaml:"background"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		QuitTimes:      3,
		MessageTimeout: 5 * time.Second,
		WheelLines:     3,
		Mouse:          true,
		LogLevel:       "info",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/hecto/config.yaml, or "" when no
// user config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hecto", "config.yaml")
}

// Load reads the file at path over the defaults. An empty path means the
// default location, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	if err := loadInto(&cfg, path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("loading config from %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// loadInto decodes the YAML file over cfg. Keys absent from the file keep
// their current values.
func loadInto(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	return nil
}

// Validate checks configuration validity.
func (c Config) Validate() error {
	if c.QuitTimes < 0 {
		return fmt.Errorf("%w: quit_times must not be negative, got %d", ErrInvalid, c.QuitTimes)
	}
	if c.MessageTimeout <= 0 {
		return fmt.Errorf("%w: message_timeout must be positive, got %s", ErrInvalid, c.MessageTimeout)
	}
	if c.WheelLines < 1 {
		return fmt.Errorf("%w: wheel_lines must be at least 1, got %d", ErrInvalid, c.WheelLines)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q (valid: debug, info, warn, error)", c.LogLevel)
	}
	return level, nil
}
