package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw over the defaults and normalizes the
// result.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.TargetMonitor != nil {
		cfg.TargetMonitor = *raw.TargetMonitor
	}
	if raw.SidebarWidthPx != nil {
		cfg.SidebarWidthPx = *raw.SidebarWidthPx
	}
	if raw.DebounceMs != nil {
		cfg.DebounceMs = *raw.DebounceMs
	}
	if raw.ResizeGripPx != nil {
		cfg.ResizeGripPx = *raw.ResizeGripPx
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.WatchPortalSettings != nil {
		cfg.WatchPortalSettings = *raw.WatchPortalSettings
	}
	if raw.Checklist != nil {
		if raw.Checklist.Title != nil {
			cfg.Checklist.Title = *raw.Checklist.Title
		}
		if raw.Checklist.Items != nil {
			cfg.Checklist.Items = append([]string(nil), raw.Checklist.Items...)
		}
		if raw.Checklist.SaveDir != nil {
			cfg.Checklist.SaveDir = *raw.Checklist.SaveDir
		}
	}

	cfg.Normalize()
	return cfg, nil
}
