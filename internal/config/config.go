package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/1broseidon/checkbar/internal/topology"
	"gopkg.in/yaml.v3"
)

// Sidebar width limits in device pixels.
const (
	MinSidebarWidth     = 280
	MaxSidebarWidth     = 900
	DefaultSidebarWidth = 400
)

// ChecklistConfig is the static checklist painted in the sidebar.
type ChecklistConfig struct {
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
	// SaveDir receives saved checklist results. Empty means
	// $XDG_DATA_HOME/checkbar/saves.
	SaveDir string `yaml:"save_dir"`
}

// Config is the effective configuration.
type Config struct {
	// Display is the X display to connect to. Empty means $DISPLAY.
	Display             string          `yaml:"display"`
	TargetMonitor       string          `yaml:"target_monitor"`
	SidebarWidthPx      int             `yaml:"sidebar_width_px"`
	DebounceMs          int             `yaml:"debounce_ms"`
	ResizeGripPx        int             `yaml:"resize_grip_px"`
	LogLevel            string          `yaml:"log_level"`
	WatchPortalSettings bool            `yaml:"watch_portal_settings"`
	Checklist           ChecklistConfig `yaml:"checklist"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Display:             "",
		TargetMonitor:       string(topology.PreferenceMain),
		SidebarWidthPx:      DefaultSidebarWidth,
		DebounceMs:          200,
		ResizeGripPx:        6,
		LogLevel:            "info",
		WatchPortalSettings: true,
		Checklist: ChecklistConfig{
			Title: "Checklist",
			Items: []string{},
		},
	}
}

// Normalize clamps the sidebar width and maps unknown monitor preferences
// to main.
func (c *Config) Normalize() {
	c.SidebarWidthPx = ClampWidth(c.SidebarWidthPx)
	c.TargetMonitor = string(topology.ParsePreference(c.TargetMonitor))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.Checklist.Items == nil {
		c.Checklist.Items = []string{}
	}
}

// ClampWidth limits w to [MinSidebarWidth, MaxSidebarWidth].
func ClampWidth(w int) int {
	if w < MinSidebarWidth {
		return MinSidebarWidth
	}
	if w > MaxSidebarWidth {
		return MaxSidebarWidth
	}
	return w
}

// Preference returns the parsed monitor preference.
func (c *Config) Preference() topology.Preference {
	return topology.ParsePreference(c.TargetMonitor)
}

// SlogLevel maps LogLevel to a slog level. Unknown levels map to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	if !topology.Valid(c.TargetMonitor) {
		return &ValidationError{Path: "target_monitor", Err: fmt.Errorf("target_monitor must be one of: main, sub, auto")}
	}
	if c.SidebarWidthPx < MinSidebarWidth || c.SidebarWidthPx > MaxSidebarWidth {
		return &ValidationError{Path: "sidebar_width_px", Err: fmt.Errorf("sidebar_width_px must be between %d and %d", MinSidebarWidth, MaxSidebarWidth)}
	}
	if c.DebounceMs <= 0 {
		return &ValidationError{Path: "debounce_ms", Err: fmt.Errorf("debounce_ms must be > 0")}
	}
	if c.ResizeGripPx <= 0 {
		return &ValidationError{Path: "resize_grip_px", Err: fmt.Errorf("resize_grip_px must be > 0")}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if strings.TrimSpace(c.Checklist.Title) == "" {
		return &ValidationError{Path: "checklist.title", Err: fmt.Errorf("checklist.title must not be empty")}
	}
	for i, item := range c.Checklist.Items {
		if strings.TrimSpace(item) == "" {
			return &ValidationError{Path: fmt.Sprintf("checklist.items[%d]", i), Err: fmt.Errorf("checklist items must not be empty")}
		}
	}
	return nil
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path atomically.
// Comments in the existing file are not preserved.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp config file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close config file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}
