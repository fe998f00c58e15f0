package mcp

// EmptyInput is the argument type of tools that take no arguments.
type EmptyInput struct{}

// SetMonitorInput selects the target monitor.
type SetMonitorInput struct {
	Preference string `json:"preference" jsonschema:"Target monitor: main, sub or auto"`
}

// SaveChecklistInput controls a checklist save.
type SaveChecklistInput struct {
	Reset bool `json:"reset,omitempty" jsonschema:"Clear all ticks after saving"`
}

// SetWidthInput sets the sidebar width.
type SetWidthInput struct {
	WidthPx int `json:"width_px" jsonschema:"Sidebar width in device pixels (clamped to 280..900)"`
}
