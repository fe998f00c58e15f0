package config

type RawChecklist struct {
	Title   *string  `yaml:"title"`
	Items   []string `yaml:"items"`
	SaveDir *string  `yaml:"save_dir"`
}

// RawConfig mirrors the YAML file. Nil fields were not set.
type RawConfig struct {
	Display             *string       `yaml:"display"`
	TargetMonitor       *string       `yaml:"target_monitor"`
	SidebarWidthPx      *int          `yaml:"sidebar_width_px"`
	DebounceMs          *int          `yaml:"debounce_ms"`
	ResizeGripPx        *int          `yaml:"resize_grip_px"`
	LogLevel            *string       `yaml:"log_level"`
	WatchPortalSettings *bool         `yaml:"watch_portal_settings"`
	Checklist           *RawChecklist `yaml:"checklist"`
}

// merge returns c with every field set in overlay replacing it.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.TargetMonitor != nil {
		out.TargetMonitor = overlay.TargetMonitor
	}
	if overlay.SidebarWidthPx != nil {
		out.SidebarWidthPx = overlay.SidebarWidthPx
	}
	if overlay.DebounceMs != nil {
		out.DebounceMs = overlay.DebounceMs
	}
	if overlay.ResizeGripPx != nil {
		out.ResizeGripPx = overlay.ResizeGripPx
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.WatchPortalSettings != nil {
		out.WatchPortalSettings = overlay.WatchPortalSettings
	}
	if overlay.Checklist != nil {
		merged := RawChecklist{}
		if out.Checklist != nil {
			merged = *out.Checklist
		}
		if overlay.Checklist.Title != nil {
			merged.Title = overlay.Checklist.Title
		}
		if overlay.Checklist.Items != nil {
			merged.Items = append([]string(nil), overlay.Checklist.Items...)
		}
		if overlay.Checklist.SaveDir != nil {
			merged.SaveDir = overlay.Checklist.SaveDir
		}
		out.Checklist = &merged
	}
	return out
}
