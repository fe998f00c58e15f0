package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/checkbar/internal/ipc"
)

const (
	ServerName    = "checkbar"
	ServerVersion = "0.1.0"
)

// Controller is the daemon control surface the tools call. *ipc.Client
// satisfies it.
type Controller interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	SetMonitor(preference string) (*ipc.StatusData, error)
	SetWidth(widthPx int) (*ipc.StatusData, error)
	Redock() (*ipc.StatusData, error)
	SaveChecklist(reset bool) (*ipc.SaveChecklistData, error)
}

// Server exposes the sidebar daemon to MCP clients.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Controller
	logger    *slog.Logger
}

// NewServer creates an MCP server that forwards every tool to daemon.
func NewServer(daemon Controller, logger *slog.Logger) *Server {
	if daemon == nil {
		daemon = ipc.NewClient()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{daemon: daemon, logger: logger}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "dock_status",
		Description: "Report whether the checklist sidebar holds its right-edge reservation, which monitor it is docked to, its width in device pixels and its committed bounds.",
	}, s.handleDockStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List connected monitors with bounds, work area, scale and which one the sidebar currently targets. The primary monitor is listed first.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_monitor",
		Description: "Move the sidebar to another monitor. preference is main (primary), sub (first non-primary) or auto (the monitor the sidebar is on). sub fails when only one monitor is connected. The choice is saved to the config file.",
	}, s.handleSetMonitor)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_width",
		Description: "Resize the sidebar. The width is clamped to 280..900 device pixels and saved to the config file.",
	}, s.handleSetWidth)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "redock",
		Description: "Release and re-negotiate the sidebar's screen reservation. Use after panels or monitors changed and the sidebar overlaps something.",
	}, s.handleRedock)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "save_checklist",
		Description: "Save which checklist items are ticked, appending a timestamped entry to today's results file. With reset the ticks are cleared after saving, ready for the next run.",
	}, s.handleSaveChecklist)
}
