package dock

import "github.com/1broseidon/checkbar/internal/platform"

// State is the externally observable docking state.
type State struct {
	Registered bool
	Edge       platform.Edge
	// Committed is the last rect committed to the shell, in device pixels.
	// It is empty while unregistered.
	Committed platform.Rect
}

func unregisteredState() State {
	return State{Edge: platform.EdgeRight}
}
