package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.SidebarWidthPx != DefaultSidebarWidth || cfg.TargetMonitor != "main" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.File != "" {
		t.Fatalf("File = %q, want empty", res.File)
	}
	if res.Config.DebounceMs != 200 || res.Config.ResizeGripPx != 6 {
		t.Fatalf("unexpected config: %+v", res.Config)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.SidebarWidthPx != DefaultSidebarWidth {
		t.Fatalf("width = %d, want %d", res.Config.SidebarWidthPx, DefaultSidebarWidth)
	}
}

func TestLoadFromPath_ClampsWidthAndNormalizesMonitor(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantWidth   int
		wantMonitor string
	}{
		{"too narrow", "sidebar_width_px: 100\n", 280, "main"},
		{"too wide", "sidebar_width_px: 5000\n", 900, "main"},
		{"in range", "sidebar_width_px: 512\n", 512, "main"},
		{"sub", "target_monitor: SUB\n", DefaultSidebarWidth, "sub"},
		{"auto", "target_monitor: auto\n", DefaultSidebarWidth, "auto"},
		{"unknown monitor", "target_monitor: left\n", DefaultSidebarWidth, "main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := LoadFromPath(writeConfig(t, tt.yaml))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if res.Config.SidebarWidthPx != tt.wantWidth {
				t.Errorf("width = %d, want %d", res.Config.SidebarWidthPx, tt.wantWidth)
			}
			if res.Config.TargetMonitor != tt.wantMonitor {
				t.Errorf("target_monitor = %q, want %q", res.Config.TargetMonitor, tt.wantMonitor)
			}
		})
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "sidebar_width: 400\n"))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "sidebar_width") {
		t.Fatalf("error %q does not name the key", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	path := writeConfig(t, "log_level: info\ndebounce_ms: 0\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "debounce_ms" {
		t.Fatalf("path = %q, want debounce_ms", verr.Path)
	}
	if verr.Source.Line != 2 || verr.Source.File != path {
		t.Fatalf("source = %+v, want line 2 of %s", verr.Source, path)
	}
	if !strings.HasPrefix(err.Error(), path+":2:") {
		t.Fatalf("error %q lacks file position", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"grip", func(c *Config) { c.ResizeGripPx = 0 }, "resize_grip_px"},
		{"title", func(c *Config) { c.Checklist.Title = "  " }, "checklist.title"},
		{"empty item", func(c *Config) { c.Checklist.Items = []string{"ok", ""} }, "checklist.items[1]"},
		{"monitor", func(c *Config) { c.TargetMonitor = "left" }, "target_monitor"},
		{"width", func(c *Config) { c.SidebarWidthPx = 10 }, "sidebar_width_px"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			var verr *ValidationError
			if err := cfg.Validate(); !errors.As(err, &verr) || verr.Path != tt.path {
				t.Fatalf("Validate() = %v, want error at %s", err, tt.path)
			}
		})
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.SidebarWidthPx = 640
	cfg.TargetMonitor = "sub"
	cfg.Checklist.Items = []string{"review PR", "deploy"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := res.Config
	if got.SidebarWidthPx != 640 || got.TargetMonitor != "sub" || len(got.Checklist.Items) != 2 {
		t.Fatalf("round trip = %+v", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only config.yaml after save, found %d entries", len(entries))
	}
}

func TestSaveTo_RefusesInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.DebounceMs = -1
	if err := cfg.SaveTo(path); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("invalid config was written: %v", err)
	}
}

func TestLoadFromPathWithOverrides(t *testing.T) {
	path := writeConfig(t, "sidebar_width_px: 500\ntarget_monitor: sub\n")
	width := 320
	res, err := LoadFromPathWithOverrides(path, RawConfig{SidebarWidthPx: &width})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.SidebarWidthPx != 320 || res.Config.TargetMonitor != "sub" {
		t.Fatalf("config = %+v", res.Config)
	}
}

func TestLoadFromPath_ChecklistSaveDir(t *testing.T) {
	path := writeConfig(t, "checklist:\n  title: Ops\n  save_dir: ~/ops-runs\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Checklist.SaveDir != "~/ops-runs" || res.Config.Checklist.Title != "Ops" {
		t.Fatalf("checklist = %+v", res.Config.Checklist)
	}
	value, src, err := Explain(res, "checklist.save_dir")
	if err != nil || value != "~/ops-runs" || src.Kind != SourceFile || src.Line != 3 {
		t.Fatalf("Explain(checklist.save_dir) = %v %+v %v", value, src, err)
	}

	dir := "/srv/runs"
	res, err = LoadFromPathWithOverrides(path, RawConfig{Checklist: &RawChecklist{SaveDir: &dir}})
	if err != nil {
		t.Fatalf("load with override: %v", err)
	}
	if res.Config.Checklist.SaveDir != dir || res.Config.Checklist.Title != "Ops" {
		t.Fatalf("override = %+v", res.Config.Checklist)
	}
}

func TestExplain(t *testing.T) {
	path := writeConfig(t, "checklist:\n  title: Release\n  items:\n    - tag\n    - publish\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	value, src, err := Explain(res, "checklist.items[1]")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if value != "publish" || src.Kind != SourceFile || src.Line != 5 {
		t.Fatalf("Explain = %v %+v", value, src)
	}

	value, src, err = Explain(res, "debounce_ms")
	if err != nil || value != 200 || src.Kind != SourceDefault {
		t.Fatalf("Explain(debounce_ms) = %v %+v %v", value, src, err)
	}

	if _, _, err := Explain(res, "hotkey"); err == nil {
		t.Fatal("expected error for unknown path")
	}
	if _, _, err := Explain(res, "checklist.items[9]"); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := DefaultConfig()
	for level, want := range map[string]string{"debug": "DEBUG", "info": "INFO", "warn": "WARN", "warning": "WARN", "error": "ERROR"} {
		cfg.LogLevel = level
		if got := cfg.SlogLevel().String(); got != want {
			t.Errorf("SlogLevel(%q) = %s, want %s", level, got, want)
		}
	}
}
