package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/1broseidon/checkbar/internal/config"
	"github.com/1broseidon/checkbar/internal/ipc"
)

func TestRenderStatus_Plain(t *testing.T) {
	var buf bytes.Buffer
	renderStatus(&buf, newStyles(&buf), &ipc.StatusData{
		Registered:    true,
		Edge:          "right",
		Preference:    "main",
		Monitor:       "eDP-1",
		WidthPx:       400,
		Committed:     ipc.RectInfo{X: 1520, Y: 0, Width: 400, Height: 1080},
		Reapplies:     2,
		UptimeSeconds: 90,
	})
	out := buf.String()

	for _, want := range []string{
		"Dock:      registered (right edge)",
		"Monitor:   eDP-1 (preference: main)",
		"Width:     400 px",
		"Bounds:    x=1520 y=0 w=400 h=1080",
		"Reapplies: 2",
		"Uptime:    1m30s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("plain output contains escape codes:\n%q", out)
	}
}

func TestRenderStatus_Unregistered(t *testing.T) {
	var buf bytes.Buffer
	renderStatus(&buf, newStyles(&buf), &ipc.StatusData{Preference: "sub", WidthPx: 280})
	out := buf.String()
	if !strings.Contains(out, "not registered") || strings.Contains(out, "Bounds") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "Monitor:   - (preference: sub)") {
		t.Fatalf("missing placeholder monitor:\n%s", out)
	}
}

func TestRenderMonitors(t *testing.T) {
	var buf bytes.Buffer
	renderMonitors(&buf, newStyles(&buf), []ipc.MonitorInfo{
		{Name: "eDP-1", Primary: true, Bounds: ipc.RectInfo{Width: 1920, Height: 1080}, WorkArea: ipc.RectInfo{Y: 32, Width: 1920, Height: 1048}, ScaleX: 1},
		{Name: "HDMI-1", Target: true, Bounds: ipc.RectInfo{X: 1920, Width: 2560, Height: 1440}, WorkArea: ipc.RectInfo{X: 1920, Width: 2560, Height: 1440}},
	})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	want := []string{
		"  eDP-1 1920x1080+0+0 work 1920x1048+0+32",
		"    primary, scale 1.00",
		"* HDMI-1 2560x1440+1920+0 work 2560x1440+1920+0",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRenderSaved(t *testing.T) {
	var buf bytes.Buffer
	renderSaved(&buf, newStyles(&buf), &ipc.SaveChecklistData{
		Path:    "/home/ops/.local/share/checkbar/saves/2026-03-14.yaml",
		Title:   "Deploy",
		Items:   4,
		Checked: 3,
		Reset:   true,
	})
	out := buf.String()
	for _, want := range []string{
		"Saved:     /home/ops/.local/share/checkbar/saves/2026-03-14.yaml",
		"Checklist: Deploy",
		"Checked:   3/4",
		"Ticks:     cleared",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	renderSaved(&buf, newStyles(&buf), &ipc.SaveChecklistData{Path: "/tmp/x.yaml", Title: "T", Items: 1, Checked: 1})
	if strings.Contains(buf.String(), "Ticks") {
		t.Fatalf("ticks row without reset:\n%s", buf.String())
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 1}, "file:/c.yaml:3:1"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceFile}, "file"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestRunOverrides_OnlyChangedFlags(t *testing.T) {
	cmd := runCmd
	t.Cleanup(func() {
		cmd.Flags().Set("width", "0")
		cmd.Flags().Lookup("width").Changed = false
		cmd.Flags().Lookup("no-portal").Changed = false
		runFlags.noPortal = false
	})

	if raw := runOverrides(cmd); raw.SidebarWidthPx != nil || raw.WatchPortalSettings != nil {
		t.Fatalf("unset flags produced overrides: %+v", raw)
	}

	if err := cmd.Flags().Set("width", "512"); err != nil {
		t.Fatalf("set width: %v", err)
	}
	if err := cmd.Flags().Set("no-portal", "true"); err != nil {
		t.Fatalf("set no-portal: %v", err)
	}
	raw := runOverrides(cmd)
	if raw.SidebarWidthPx == nil || *raw.SidebarWidthPx != 512 {
		t.Fatalf("width override = %v", raw.SidebarWidthPx)
	}
	if raw.WatchPortalSettings == nil || *raw.WatchPortalSettings {
		t.Fatalf("portal override = %v", raw.WatchPortalSettings)
	}
	if raw.TargetMonitor != nil {
		t.Fatal("monitor override set without flag")
	}
}
