// Package daemon wires the docked checklist sidebar together: monitor
// selection, the edge reservation, drag-to-resize, persistence and the
// control surface served over IPC.
package daemon

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/checkbar/internal/checklist"
	"github.com/1broseidon/checkbar/internal/config"
	"github.com/1broseidon/checkbar/internal/dock"
	"github.com/1broseidon/checkbar/internal/dpi"
	"github.com/1broseidon/checkbar/internal/ipc"
	"github.com/1broseidon/checkbar/internal/platform"
	"github.com/1broseidon/checkbar/internal/resize"
	"github.com/1broseidon/checkbar/internal/topology"
)

// ErrNoSecondary is returned when "sub" is requested with a single monitor.
var ErrNoSecondary = errors.New("no secondary monitor connected")

// View is the sidebar window as seen by the daemon.
type View interface {
	resize.Pointer
	// Window returns the window id once the window exists.
	Window() (platform.WindowID, bool)
	SetChecklist(title string, items []string)
	// Checklist returns the title and the items with their ticks.
	Checklist() (string, []checklist.Item)
	ClearChecks()
}

// Options configures a Sidebar.
type Options struct {
	Shell  platform.Shell
	View   View
	Config *config.Config
	// NewTask creates the debounce timer. eventloop.Loop.NewTask in
	// production.
	NewTask dock.TaskFactory
	// Persist saves the configuration after a width or monitor change.
	Persist func(*config.Config) error
	// Load re-reads the configuration for Reload.
	Load func() (*config.Config, error)
	// SaveChecklist stores a checklist snapshot and returns where it went.
	SaveChecklist func(*config.Config, checklist.Entry) (string, error)
	Logger        *slog.Logger
}

// Sidebar owns the docking state. All methods must run on the event loop.
type Sidebar struct {
	shell    platform.Shell
	view     View
	cfg      *config.Config
	newTask  dock.TaskFactory
	persist  func(*config.Config) error
	load     func() (*config.Config, error)
	saveList func(*config.Config, checklist.Entry) (string, error)
	logger   *slog.Logger
	started  time.Time
	topology *topology.Topology

	client    *dock.Client
	scheduler *dock.ReapplyScheduler
	resizer   *resize.Controller

	lastMonitor platform.Monitor
	lastLogical dpi.LogicalRect
}

// New builds the sidebar's components. Nothing touches the shell until
// Start.
func New(opts Options) (*Sidebar, error) {
	if opts.Shell == nil {
		return nil, errors.New("shell is required")
	}
	if opts.View == nil {
		return nil, errors.New("view is required")
	}
	if opts.NewTask == nil {
		return nil, errors.New("task factory is required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	cfg.Normalize()

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Sidebar{
		shell:    opts.Shell,
		view:     opts.View,
		cfg:      cfg,
		newTask:  opts.NewTask,
		persist:  opts.Persist,
		load:     opts.Load,
		saveList: opts.SaveChecklist,
		logger:   logger,
		started:  time.Now(),
	}

	s.topology = topology.New(s.shell, topology.WindowResolver(s.view.Window), logger.With("component", "topology"))
	s.client = dock.NewClient(dock.Options{
		Shell:    s.shell,
		Window:   dock.WindowResolver(s.view.Window),
		OnPlaced: s.placed,
		Logger:   logger.With("component", "dock"),
	})
	s.scheduler = s.newScheduler()
	s.resizer = resize.NewController(resize.Options{
		Dock:             s.client,
		Pointer:          s.view,
		Target:           s.target,
		Min:              config.MinSidebarWidth,
		Max:              config.MaxSidebarWidth,
		OnWidthCommitted: s.widthCommitted,
		Logger:           logger.With("component", "resize"),
	})
	return s, nil
}

func (s *Sidebar) newScheduler() *dock.ReapplyScheduler {
	quiet := time.Duration(s.cfg.DebounceMs) * time.Millisecond
	return dock.NewReapplyScheduler(s.client, s.target, s.newTask, quiet, s.logger.With("component", "reapply"))
}

// Start registers the reservation and docks to the configured monitor.
func (s *Sidebar) Start() {
	s.view.SetChecklist(s.cfg.Checklist.Title, s.cfg.Checklist.Items)
	s.client.Register()
	s.dock()
	s.logger.Info("sidebar docked",
		"monitor", s.lastMonitor.Name,
		"preference", s.cfg.TargetMonitor,
		"width", s.cfg.SidebarWidthPx)
}

// Stop releases the reservation.
func (s *Sidebar) Stop() {
	s.resizer.EndDrag()
	s.scheduler.Close()
	s.client.Close()
	s.logger.Info("sidebar reservation released")
}

// target resolves the monitor and width in effect right now. A drag in
// progress wins over the saved width.
func (s *Sidebar) target() (platform.Monitor, int) {
	if session, ok := s.resizer.Session(); ok {
		return session.Monitor, session.CurrentWidth
	}
	return s.topology.Resolve(s.cfg.Preference()), s.cfg.SidebarWidthPx
}

func (s *Sidebar) dock() {
	monitor, width := s.target()
	s.client.ApplyDock(monitor, width)
}

func (s *Sidebar) placed(monitor platform.Monitor, bounds dpi.LogicalRect) {
	s.lastMonitor = monitor
	s.lastLogical = bounds
}

func (s *Sidebar) widthCommitted(widthPx int) {
	if widthPx == s.cfg.SidebarWidthPx {
		return
	}
	s.cfg.SidebarWidthPx = widthPx
	s.save("sidebar_width_px")
}

func (s *Sidebar) save(field string) {
	if s.persist == nil {
		return
	}
	if err := s.persist(s.cfg); err != nil {
		s.logger.Warn("failed to save config", "field", field, "error", err)
		return
	}
	s.logger.Debug("config saved", "field", field)
}

// GripPressed starts a resize drag.
func (s *Sidebar) GripPressed() {
	s.resizer.BeginDrag()
}

// PointerMoved feeds the pointer's root x coordinate into the drag.
func (s *Sidebar) PointerMoved(rootX int) {
	s.resizer.OnPointerMove(rootX)
}

// GripReleased finishes the drag and persists the final width.
func (s *Sidebar) GripReleased() {
	s.resizer.EndDrag()
}

// WindowRealized completes a registration that was deferred because the
// window did not exist yet.
func (s *Sidebar) WindowRealized() {
	s.client.WindowRealized()
	if s.client.Registered() && s.client.State().Committed.Empty() {
		s.dock()
	}
}

// NeedsRedock reports whether the committed reservation no longer matches
// the target. Used by the drift reconciler.
func (s *Sidebar) NeedsRedock() bool {
	if _, dragging := s.resizer.Session(); dragging {
		return false
	}
	state := s.client.State()
	if !state.Registered {
		return true
	}
	monitor, width := s.target()
	c := state.Committed
	if c.Width != width {
		return true
	}
	b := monitor.Bounds
	return c.X < b.X || c.Right() > b.Right() || c.Y < b.Y || c.Bottom() > b.Bottom()
}

// RequestRedock schedules a debounced re-negotiation.
func (s *Sidebar) RequestRedock() {
	s.scheduler.Request()
}

// Status reports the docking state.
func (s *Sidebar) Status() ipc.StatusData {
	state := s.client.State()
	monitor := s.lastMonitor.Name
	if !state.Registered {
		monitor = ""
	}
	return ipc.StatusData{
		Registered:    state.Registered,
		Edge:          state.Edge.String(),
		Preference:    string(s.cfg.Preference()),
		Monitor:       monitor,
		WidthPx:       s.cfg.SidebarWidthPx,
		Committed:     rectInfo(state.Committed),
		Logical:       ipc.LogicalRectInfo{X: s.lastLogical.Left, Y: s.lastLogical.Top, Width: s.lastLogical.Width, Height: s.lastLogical.Height},
		Dragging:      s.resizer.Phase() == resize.PhaseDragging,
		Reapplies:     s.scheduler.Cycles(),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		DaemonRunning: true,
	}
}

// Monitors lists connected monitors in topology order.
func (s *Sidebar) Monitors() ([]ipc.MonitorInfo, error) {
	target := s.topology.Resolve(s.cfg.Preference())
	monitors := s.topology.Enumerate()
	out := make([]ipc.MonitorInfo, 0, len(monitors))
	for _, m := range monitors {
		out = append(out, ipc.MonitorInfo{
			ID:       uint32(m.ID),
			Name:     m.Name,
			Primary:  m.Primary,
			Bounds:   rectInfo(m.Bounds),
			WorkArea: rectInfo(m.WorkArea),
			ScaleX:   m.ScaleX,
			ScaleY:   m.ScaleY,
			Target:   m.ID == target.ID && m.Name == target.Name,
		})
	}
	return out, nil
}

// SetMonitor switches the target monitor and persists the preference. A
// "sub" request with no secondary monitor is rejected and nothing is saved.
func (s *Sidebar) SetMonitor(preference string) (ipc.StatusData, error) {
	if !topology.Valid(preference) {
		return ipc.StatusData{}, fmt.Errorf("unknown monitor preference %q (want main, sub or auto)", preference)
	}
	pref := topology.ParsePreference(preference)
	if pref == topology.PreferenceSub && !s.topology.HasSecondary() {
		s.logger.Info("monitor switch rejected", "preference", pref, "reason", ErrNoSecondary)
		return ipc.StatusData{}, ErrNoSecondary
	}

	s.cfg.TargetMonitor = string(pref)
	s.save("target_monitor")
	s.dock()
	s.logger.Info("monitor switched", "preference", pref, "monitor", s.lastMonitor.Name)
	return s.Status(), nil
}

// SetWidth clamps and applies a new width and persists it.
func (s *Sidebar) SetWidth(widthPx int) (ipc.StatusData, error) {
	if widthPx <= 0 {
		return ipc.StatusData{}, fmt.Errorf("width must be positive, got %d", widthPx)
	}
	if _, dragging := s.resizer.Session(); dragging {
		return ipc.StatusData{}, errors.New("resize drag in progress")
	}
	width := s.resizer.Clamp(widthPx)
	s.cfg.SidebarWidthPx = width
	s.save("sidebar_width_px")
	s.dock()
	s.logger.Info("width changed", "requested", widthPx, "width", width)
	return s.Status(), nil
}

// Redock runs a full unregister/register/apply cycle immediately.
func (s *Sidebar) Redock() (ipc.StatusData, error) {
	s.client.Unregister()
	s.client.Register()
	s.dock()
	return s.Status(), nil
}

// Reload re-reads the configuration and applies what changed.
func (s *Sidebar) Reload() error {
	if s.load == nil {
		return errors.New("reload not supported")
	}
	next, err := s.load()
	if err != nil {
		return err
	}
	next.Normalize()

	prev := s.cfg
	s.cfg = next
	if next.DebounceMs != prev.DebounceMs {
		s.scheduler.SetQuietPeriod(time.Duration(next.DebounceMs) * time.Millisecond)
	}
	s.view.SetChecklist(next.Checklist.Title, next.Checklist.Items)
	if next.TargetMonitor != prev.TargetMonitor || next.SidebarWidthPx != prev.SidebarWidthPx {
		s.dock()
	}
	s.logger.Info("config reloaded",
		"preference", next.TargetMonitor,
		"width", next.SidebarWidthPx,
		"debounce_ms", next.DebounceMs)
	return nil
}

// SaveChecklist records which items are ticked. With reset the ticks are
// cleared once the snapshot is stored.
func (s *Sidebar) SaveChecklist(reset bool) (ipc.SaveChecklistData, error) {
	if s.saveList == nil {
		return ipc.SaveChecklistData{}, errors.New("checklist saving not supported")
	}
	title, items := s.view.Checklist()
	entry := checklist.Entry{Title: title, Items: items}
	path, err := s.saveList(s.cfg, entry)
	if err != nil {
		return ipc.SaveChecklistData{}, err
	}
	if reset {
		s.view.ClearChecks()
	}
	s.logger.Info("checklist saved", "path", path, "checked", entry.Checked(), "items", len(items), "reset", reset)
	return ipc.SaveChecklistData{
		Path:    path,
		Title:   title,
		Items:   len(items),
		Checked: entry.Checked(),
		Reset:   reset,
	}, nil
}

// Config returns the live configuration.
func (s *Sidebar) Config() *config.Config {
	return s.cfg
}

func rectInfo(r platform.Rect) ipc.RectInfo {
	return ipc.RectInfo{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

var _ ipc.Handler = (*Sidebar)(nil)
