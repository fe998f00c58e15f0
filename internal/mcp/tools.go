package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/checkbar/internal/ipc"
	"github.com/1broseidon/checkbar/internal/topology"
)

func (s *Server) handleDockStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, ipc.StatusData{}, fmt.Errorf("dock_status: %w", err)
	}
	return nil, *status, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ipc.MonitorsData, error) {
	monitors, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, ipc.MonitorsData{}, fmt.Errorf("list_monitors: %w", err)
	}
	if monitors.Monitors == nil {
		monitors.Monitors = []ipc.MonitorInfo{}
	}
	return nil, *monitors, nil
}

func (s *Server) handleSetMonitor(_ context.Context, _ *mcpsdk.CallToolRequest, args SetMonitorInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	pref := strings.ToLower(strings.TrimSpace(args.Preference))
	if !topology.Valid(pref) {
		return nil, ipc.StatusData{}, fmt.Errorf("set_monitor: preference must be main, sub or auto, got %q", args.Preference)
	}
	status, err := s.daemon.SetMonitor(pref)
	if err != nil {
		s.logger.Debug("set_monitor failed", "preference", pref, "error", err)
		return nil, ipc.StatusData{}, fmt.Errorf("set_monitor: %w", err)
	}
	s.logger.Debug("set_monitor", "preference", pref, "monitor", status.Monitor)
	return nil, *status, nil
}

func (s *Server) handleSetWidth(_ context.Context, _ *mcpsdk.CallToolRequest, args SetWidthInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	if args.WidthPx <= 0 {
		return nil, ipc.StatusData{}, fmt.Errorf("set_width: width_px must be positive, got %d", args.WidthPx)
	}
	status, err := s.daemon.SetWidth(args.WidthPx)
	if err != nil {
		return nil, ipc.StatusData{}, fmt.Errorf("set_width: %w", err)
	}
	s.logger.Debug("set_width", "requested", args.WidthPx, "width", status.WidthPx)
	return nil, *status, nil
}

func (s *Server) handleRedock(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	status, err := s.daemon.Redock()
	if err != nil {
		return nil, ipc.StatusData{}, fmt.Errorf("redock: %w", err)
	}
	return nil, *status, nil
}

func (s *Server) handleSaveChecklist(_ context.Context, _ *mcpsdk.CallToolRequest, args SaveChecklistInput) (*mcpsdk.CallToolResult, ipc.SaveChecklistData, error) {
	saved, err := s.daemon.SaveChecklist(args.Reset)
	if err != nil {
		return nil, ipc.SaveChecklistData{}, fmt.Errorf("save_checklist: %w", err)
	}
	s.logger.Debug("save_checklist", "path", saved.Path, "checked", saved.Checked)
	return nil, *saved, nil
}
