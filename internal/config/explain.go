package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths:
//
//	display
//	target_monitor
//	sidebar_width_px
//	debounce_ms
//	resize_grip_px
//	log_level
//	watch_portal_settings
//	checklist.title
//	checklist.items
//	checklist.items[<n>]
//	checklist.save_dir
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "display":
		return cfg.Display, nil
	case "target_monitor":
		return cfg.TargetMonitor, nil
	case "sidebar_width_px":
		return cfg.SidebarWidthPx, nil
	case "debounce_ms":
		return cfg.DebounceMs, nil
	case "resize_grip_px":
		return cfg.ResizeGripPx, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "watch_portal_settings":
		return cfg.WatchPortalSettings, nil
	case "checklist.title":
		return cfg.Checklist.Title, nil
	case "checklist.items":
		return cfg.Checklist.Items, nil
	case "checklist.save_dir":
		return cfg.Checklist.SaveDir, nil
	}

	if rest, ok := strings.CutPrefix(path, "checklist.items["); ok {
		idx, err := strconv.Atoi(strings.TrimSuffix(rest, "]"))
		if err != nil || !strings.HasSuffix(rest, "]") {
			return nil, fmt.Errorf("invalid index in %q", path)
		}
		if idx < 0 || idx >= len(cfg.Checklist.Items) {
			return nil, fmt.Errorf("%s: index out of range", path)
		}
		return cfg.Checklist.Items[idx], nil
	}
	return nil, fmt.Errorf("unknown config path %q", path)
}
