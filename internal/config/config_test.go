package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := writeConfig(t, `
quit_times: 1
message_timeout: 2s
mouse: false
status:
  background: "62"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.QuitTimes != 1 {
		t.Errorf("QuitTimes = %d, want 1", cfg.QuitTimes)
	}
	if cfg.MessageTimeout != 2*time.Second {
		t.Errorf("MessageTimeout = %s, want 2s", cfg.MessageTimeout)
	}
	if cfg.Mouse {
		t.Error("Mouse should be overridden to false")
	}
	if cfg.Status.Background != "62" || cfg.Status.Foreground != "" {
		t.Errorf("Status = %+v", cfg.Status)
	}
	// Untouched keys keep their defaults.
	if cfg.WheelLines != 3 || cfg.LogLevel != "info" {
		t.Errorf("defaults lost: wheel_lines=%d log_level=%q", cfg.WheelLines, cfg.LogLevel)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadDefaultMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "hecto"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "hecto", "config.yaml"), []byte("wheel_lines: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WheelLines != 5 {
		t.Errorf("WheelLines = %d, want 5", cfg.WheelLines)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := writeConfig(t, "quit_times: [1, 2\n")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative quit_times", func(c *Config) { c.QuitTimes = -1 }},
		{"zero message_timeout", func(c *Config) { c.MessageTimeout = 0 }},
		{"zero wheel_lines", func(c *Config) { c.WheelLines = 0 }},
		{"unknown log level", func(c *Config) { c.LogLevel = "chatty" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "wheel_lines: 0\n")
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		cfg := Default()
		cfg.LogLevel = in
		got, err := cfg.Level()
		if err != nil || got != want {
			t.Errorf("Level(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}
