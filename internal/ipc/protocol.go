package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetMonitors CommandType = "GET_MONITORS"
	CommandSetMonitor  CommandType = "SET_MONITOR"
	CommandSetWidth    CommandType = "SET_WIDTH"
	CommandRedock      CommandType = "REDOCK"
	CommandReload      CommandType = "RELOAD"
	// CommandSaveChecklist records which checklist items are ticked.
	CommandSaveChecklist CommandType = "SAVE_CHECKLIST"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// RectInfo is a rectangle on the wire.
type RectInfo struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// LogicalRectInfo is a rectangle in device-independent pixels.
type LogicalRectInfo struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// StatusData represents the data returned by GET_STATUS and the mutating
// commands.
type StatusData struct {
	Registered    bool            `json:"registered"`
	Edge          string          `json:"edge"`
	Preference    string          `json:"preference"`
	Monitor       string          `json:"monitor"`
	WidthPx       int             `json:"width_px"`
	Committed     RectInfo        `json:"committed"`
	Logical       LogicalRectInfo `json:"logical"`
	Dragging      bool            `json:"dragging"`
	Reapplies     int             `json:"reapplies"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	DaemonRunning bool            `json:"daemon_running"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID       uint32   `json:"id"`
	Name     string   `json:"name"`
	Primary  bool     `json:"primary"`
	Bounds   RectInfo `json:"bounds"`
	WorkArea RectInfo `json:"work_area"`
	ScaleX   float64  `json:"scale_x"`
	ScaleY   float64  `json:"scale_y"`
	// Target marks the monitor the current preference resolves to.
	Target bool `json:"target"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// SetMonitorPayload is the payload of SET_MONITOR.
type SetMonitorPayload struct {
	Preference string `json:"preference"`
}

// SetWidthPayload is the payload of SET_WIDTH.
type SetWidthPayload struct {
	WidthPx int `json:"width_px"`
}

// SaveChecklistPayload is the payload of SAVE_CHECKLIST. Reset clears the
// ticks after a successful save.
type SaveChecklistPayload struct {
	Reset bool `json:"reset"`
}

// SaveChecklistData describes a saved checklist snapshot.
type SaveChecklistData struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Items   int    `json:"items"`
	Checked int    `json:"checked"`
	Reset   bool   `json:"reset"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: command is required")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
