// Package topology enumerates monitors and resolves a monitor preference to a
// concrete monitor.
package topology

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/1broseidon/checkbar/internal/platform"
)

// Preference selects the monitor the sidebar docks to.
type Preference string

const (
	PreferenceMain Preference = "main"
	PreferenceSub  Preference = "sub"
	PreferenceAuto Preference = "auto"
)

// FallbackScreen is used when neither monitors nor primary-screen metrics
// are available.
var FallbackScreen = platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

// ParsePreference parses a preference case-insensitively. Unknown values
// map to PreferenceMain.
func ParsePreference(s string) Preference {
	switch Preference(strings.ToLower(strings.TrimSpace(s))) {
	case PreferenceSub:
		return PreferenceSub
	case PreferenceAuto:
		return PreferenceAuto
	default:
		return PreferenceMain
	}
}

// Valid reports whether s names a known preference.
func Valid(s string) bool {
	switch Preference(strings.ToLower(strings.TrimSpace(s))) {
	case PreferenceMain, PreferenceSub, PreferenceAuto:
		return true
	}
	return false
}

// WindowResolver returns the sidebar window, if it exists yet.
type WindowResolver func() (platform.WindowID, bool)

// Topology answers monitor queries against the shell. Nothing is cached:
// every call enumerates afresh.
type Topology struct {
	shell  platform.Shell
	window WindowResolver
	logger *slog.Logger
}

// New creates a topology backed by shell. window may be nil, in which case
// PreferenceAuto behaves like PreferenceMain.
func New(shell platform.Shell, window WindowResolver, logger *slog.Logger) *Topology {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Topology{shell: shell, window: window, logger: logger}
}

// Enumerate returns all monitors, primary first, then ordered by name and id.
// The result is never empty.
func (t *Topology) Enumerate() []platform.Monitor {
	monitors, err := t.shell.Monitors()
	if err != nil {
		t.logger.Debug("monitor enumeration failed", "error", err)
		monitors = nil
	}
	if len(monitors) == 0 {
		return []platform.Monitor{t.fallback()}
	}

	sorted := make([]platform.Monitor, len(monitors))
	copy(sorted, monitors)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Primary != b.Primary {
			return a.Primary
		}
		if la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name); la != lb {
			return la < lb
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return sorted
}

// HasSecondary reports whether a non-primary monitor other than the main
// monitor is connected.
func (t *Topology) HasSecondary() bool {
	return hasSecondary(t.Enumerate())
}

// Resolve maps a preference to a monitor. It never fails: "sub" without a
// secondary monitor and "auto" without a nearest-monitor answer both fall
// back to the main monitor.
func (t *Topology) Resolve(pref Preference) platform.Monitor {
	monitors := t.Enumerate()
	main := mainMonitor(monitors)

	switch pref {
	case PreferenceSub:
		if sub, ok := secondary(monitors, main); ok {
			return sub
		}
		return main
	case PreferenceAuto:
		if t.window == nil {
			return main
		}
		win, ok := t.window()
		if !ok {
			return main
		}
		id, err := t.shell.NearestMonitor(win)
		if err != nil {
			t.logger.Debug("nearest monitor query failed", "window", win, "error", err)
			return main
		}
		for _, m := range monitors {
			if m.ID == id {
				return m
			}
		}
		return main
	default:
		return main
	}
}

func (t *Topology) fallback() platform.Monitor {
	bounds, err := t.shell.PrimaryScreen()
	if err != nil || bounds.Empty() {
		t.logger.Debug("primary screen metrics unavailable, using default", "error", err)
		bounds = FallbackScreen
	}
	return platform.Monitor{
		Name:     "fallback",
		Bounds:   bounds,
		WorkArea: bounds,
		Primary:  true,
		ScaleX:   1,
		ScaleY:   1,
	}
}

func mainMonitor(monitors []platform.Monitor) platform.Monitor {
	for _, m := range monitors {
		if m.Primary {
			return m
		}
	}
	return monitors[0]
}

func hasSecondary(monitors []platform.Monitor) bool {
	if len(monitors) < 2 {
		return false
	}
	_, ok := secondary(monitors, mainMonitor(monitors))
	return ok
}

// secondary returns the first non-primary monitor that is not main. When no
// output carries the primary flag, main is the first enumerated monitor and
// must not be returned again.
func secondary(monitors []platform.Monitor, main platform.Monitor) (platform.Monitor, bool) {
	for _, m := range monitors {
		if m.Primary || sameMonitor(m, main) {
			continue
		}
		return m, true
	}
	return platform.Monitor{}, false
}

func sameMonitor(a, b platform.Monitor) bool {
	return a.ID == b.ID && a.Name == b.Name
}
