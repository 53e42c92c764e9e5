// Package config loads and provides application configuration.
//
// On first run, a default YAML config is written to ~/.termwm.yaml.
// Subsequent runs read and merge that file with built-in defaults.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WindowSpec describes one of the windows opened at startup.
type WindowSpec struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Shell  string `yaml:"shell"` // empty = Config.DefaultShell
}

// Theme names the colors the frame renderer uses for window chrome.
// Values are lipgloss-compatible color strings (hex or ANSI index as text).
type Theme struct {
	BorderFocused   string `yaml:"border_focused"`
	BorderUnfocused string `yaml:"border_unfocused"`
	TitleFG         string `yaml:"title_fg"`
}

// Config holds all user-configurable settings.
type Config struct {
	// DefaultShell is the command spawned for a window whose WindowSpec
	// leaves Shell empty. Empty means the PTY layer's default: $SHELL, then
	// the user's /etc/passwd login shell, then the first of /bin/bash,
	// /bin/zsh and /bin/sh that exists.
	DefaultShell string `yaml:"default_shell"`

	// InitialWindows lists the windows opened at startup, back-to-front in
	// list order (the last entry starts focused/on top).
	InitialWindows []WindowSpec `yaml:"initial_windows"`

	// Theme controls window chrome coloring.
	Theme Theme `yaml:"theme"`

	// IdlePollMillis is the event loop's tick interval in milliseconds —
	// how often each window's PTY output queue is drained and the frame
	// redrawn even with no input event pending.
	IdlePollMillis int `yaml:"idle_poll_millis"`

	// ShowDiagnostics toggles the renderer's debug line (the frame's
	// buffer size). Defaults on; can be turned off.
	ShowDiagnostics bool `yaml:"show_diagnostics"`
}

// DefaultConfig returns the built-in defaults: three tiled windows running
// the default shell, a dark border theme, and a 33ms poll tick (~30Hz).
func DefaultConfig() Config {
	return Config{
		DefaultShell: "",
		InitialWindows: []WindowSpec{
			{X: 1, Y: 1, Width: 40, Height: 12},
			{X: 43, Y: 1, Width: 40, Height: 12},
			{X: 1, Y: 14, Width: 82, Height: 12},
		},
		Theme: Theme{
			BorderFocused:   "62",
			BorderUnfocused: "240",
			TitleFG:         "15",
		},
		IdlePollMillis:  33,
		ShowDiagnostics: true,
	}
}

// configPath returns the path to ~/.termwm.yaml.
func configPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".termwm.yaml")
}

// Load reads ~/.termwm.yaml, falling back to defaults for missing fields.
// If no file exists yet, the defaults are written out for future editing.
func Load() Config {
	return loadFrom(configPath())
}

// loadFrom is Load's real merge/clamp/fallback logic, taking the config
// path explicitly so tests can point it at a temp file instead of the real
// home directory.
func loadFrom(path string) Config {
	cfg := DefaultConfig()

	if path == "" {
		return cfg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		_ = writeDefaults(path, cfg)
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	if cfg.IdlePollMillis < 10 {
		cfg.IdlePollMillis = 10
	}
	if cfg.IdlePollMillis > 1000 {
		cfg.IdlePollMillis = 1000
	}
	if len(cfg.InitialWindows) == 0 {
		cfg.InitialWindows = DefaultConfig().InitialWindows
	}

	return cfg
}

// writeDefaults persists cfg to path as YAML with a short header comment.
func writeDefaults(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	header := []byte("# termwm configuration\n# Edit this file to customise defaults.\n\n")
	return os.WriteFile(path, append(header, data...), 0644)
}
