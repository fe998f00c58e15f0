//go:build linux

package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/1broseidon/checkbar/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// X11Shell implements Shell on an EWMH window manager. A reservation is a
// dock window carrying _NET_WM_STRUT_PARTIAL.
//
// Shell methods and notification delivery must run on the event loop that
// is paired with the connection's dispatcher.
type X11Shell struct {
	conn   *x11.Connection
	logger *slog.Logger
	post   func(func())

	subs   map[string]map[int]func(Notification)
	nextID int

	// own holds every window ever registered. Their struts never count as
	// foreign.
	own        map[WindowID]bool
	registered map[WindowID]string

	foreignSig string
	xftDPI     float64
}

var _ Shell = (*X11Shell)(nil)

// NewX11Shell wraps an existing X11 connection.
func NewX11Shell(conn *x11.Connection, logger *slog.Logger) *X11Shell {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &X11Shell{
		conn:       conn,
		logger:     logger,
		subs:       make(map[string]map[int]func(Notification)),
		own:        make(map[WindowID]bool),
		registered: make(map[WindowID]string),
	}
}

// NewX11ShellFromDisplay opens a fresh connection to display.
func NewX11ShellFromDisplay(display string, logger *slog.Logger) (*X11Shell, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewX11Shell(conn, logger), nil
}

// Conn returns the underlying connection.
func (s *X11Shell) Conn() *x11.Connection {
	return s.conn
}

// Disconnect closes the underlying X11 connection.
func (s *X11Shell) Disconnect() {
	if s != nil && s.conn != nil {
		s.conn.Close()
	}
}

// Start begins watching for shell notifications. post must queue a function
// onto the event loop; it is used by watchers that run on their own
// goroutines.
func (s *X11Shell) Start(ctx context.Context, post func(func())) error {
	s.post = post
	s.foreignSig = s.foreignSignature()
	s.xftDPI, _ = s.conn.XftDPI()

	if err := s.conn.WatchRootProperties(s.onRootProperty); err != nil {
		return fmt.Errorf("failed to watch root properties: %w", err)
	}

	go x11.WatchRandR(ctx, s.conn.Display(), s.logger, func() {
		post(func() { s.Emit(Notification{Kind: DisplayTopologyChanged}) })
	})
	return nil
}

// Emit delivers n to the subscribers of every channel that currently holds
// a registered reservation. Each channel receives n once.
func (s *X11Shell) Emit(n Notification) {
	s.logger.Debug("shell notification", "kind", n.Kind.String())
	seen := make(map[string]bool, len(s.registered))
	for _, channel := range s.registered {
		if seen[channel] {
			continue
		}
		seen[channel] = true
		for _, fn := range s.subs[channel] {
			fn(n)
		}
	}
}

func (s *X11Shell) onRootProperty(atom string) {
	switch atom {
	case "_NET_CLIENT_LIST", "_NET_WORKAREA":
		sig := s.foreignSignature()
		if sig == s.foreignSig {
			return
		}
		s.foreignSig = sig
		s.Emit(Notification{Kind: ReservationPositionChanged})

	case "RESOURCE_MANAGER":
		newDPI, ok := s.conn.XftDPI()
		if !ok || newDPI == s.xftDPI {
			return
		}
		oldDPI := s.xftDPI
		s.xftDPI = newDPI

		n := Notification{Kind: DPIChanged}
		for win := range s.registered {
			if geom, err := s.conn.WindowGeometry(xproto.Window(win)); err == nil {
				n.Suggested = SuggestForDPI(fromX11Rect(geom), oldDPI, newDPI)
			}
			break
		}
		s.Emit(n)
	}
}

func (s *X11Shell) foreignSignature() string {
	struts, err := s.conn.DockStruts(s.ownWindows()...)
	if err != nil {
		return ""
	}
	return x11.StrutSignature(struts)
}

func (s *X11Shell) ownWindows() []xproto.Window {
	out := make([]xproto.Window, 0, len(s.own))
	for w := range s.own {
		out = append(out, xproto.Window(w))
	}
	return out
}

// Monitors returns all active monitors with their work areas and scales.
func (s *X11Shell) Monitors() ([]Monitor, error) {
	monitors, err := s.conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	xft, _ := s.conn.XftDPI()
	rootWidth, rootHeight, rootErr := s.conn.RootSize()
	struts, strutErr := s.conn.DockStruts(s.ownWindows()...)

	out := make([]Monitor, 0, len(monitors))
	for _, m := range monitors {
		var work x11.Rect
		if rootErr == nil && strutErr == nil {
			work = m.Bounds.Inset(x11.InsetsFor(m.Bounds, rootWidth, rootHeight, struts))
		} else {
			work = s.conn.WorkArea(m, s.ownWindows()...)
		}
		sx, sy := m.Scale(xft)
		out = append(out, Monitor{
			ID:       MonitorID(m.Output),
			Name:     m.Name,
			Bounds:   fromX11Rect(m.Bounds),
			WorkArea: fromX11Rect(work),
			Primary:  m.Primary,
			ScaleX:   sx,
			ScaleY:   sy,
		})
	}
	return out, nil
}

// PrimaryScreen returns the primary monitor's bounds, or the root window
// when no monitor is marked primary.
func (s *X11Shell) PrimaryScreen() (Rect, error) {
	if monitors, err := s.conn.GetMonitors(); err == nil {
		for _, m := range monitors {
			if m.Primary {
				return fromX11Rect(m.Bounds), nil
			}
		}
	}
	w, h, err := s.conn.RootSize()
	if err != nil {
		return Rect{}, err
	}
	return Rect{Width: w, Height: h}, nil
}

// NearestMonitor returns the monitor containing, or closest to, the window.
func (s *X11Shell) NearestMonitor(win WindowID) (MonitorID, error) {
	monitors, err := s.conn.GetMonitors()
	if err != nil {
		return 0, err
	}
	mon, err := s.conn.MonitorForWindow(monitors, xproto.Window(win))
	if err != nil {
		mon, err = s.conn.MonitorForPointer(monitors)
		if err != nil {
			return 0, err
		}
	}
	if mon == nil {
		return 0, fmt.Errorf("no monitors found")
	}
	return MonitorID(mon.Output), nil
}

// RegisterReservation marks win as a dock.
func (s *X11Shell) RegisterReservation(win WindowID, channel string) error {
	if err := s.conn.MarkDock(xproto.Window(win)); err != nil {
		return err
	}
	s.own[win] = true
	s.registered[win] = channel
	return nil
}

// UnregisterReservation removes win's struts.
func (s *X11Shell) UnregisterReservation(win WindowID) error {
	delete(s.registered, win)
	return s.conn.ClearStrut(xproto.Window(win))
}

// QueryAdjustedPosition moves a right-edge proposal clear of other docks.
func (s *X11Shell) QueryAdjustedPosition(win WindowID, proposed Rect, edge Edge) (Rect, error) {
	if edge != EdgeRight {
		return Rect{}, fmt.Errorf("unsupported edge %s", edge)
	}

	monitors, err := s.conn.GetMonitors()
	if err != nil {
		return Rect{}, err
	}
	target := toX11Rect(proposed)
	if len(monitors) == 0 {
		return Rect{}, fmt.Errorf("no monitors found")
	}
	monitor := monitors[0]
	cx, cy := target.X+target.Width/2, target.Y+target.Height/2
	for _, m := range monitors {
		b := m.Bounds
		if cx >= b.X && cx < b.Right() && cy >= b.Y && cy < b.Bottom() {
			monitor = m
			break
		}
	}

	rootWidth, rootHeight, err := s.conn.RootSize()
	if err != nil {
		return Rect{}, err
	}
	struts, err := s.conn.DockStruts(s.ownWindows()...)
	if err != nil {
		return Rect{}, err
	}

	adjusted := x11.AdjustToStruts(target, monitor.Bounds, rootWidth, rootHeight, struts)
	return fromX11Rect(adjusted), nil
}

// CommitPosition reserves rect through win's strut properties.
func (s *X11Shell) CommitPosition(win WindowID, rect Rect, edge Edge) error {
	if edge != EdgeRight {
		return fmt.Errorf("unsupported edge %s", edge)
	}
	return s.conn.SetStrut(xproto.Window(win), toX11Rect(rect))
}

// PlaceWindow moves win to rect above other windows without focusing it.
func (s *X11Shell) PlaceWindow(win WindowID, rect Rect) error {
	return s.conn.PlaceWindow(xproto.Window(win), toX11Rect(rect))
}

// Subscribe routes notifications to fn until cancel is called.
func (s *X11Shell) Subscribe(channel string, fn func(Notification)) func() {
	if s.subs[channel] == nil {
		s.subs[channel] = make(map[int]func(Notification))
	}
	id := s.nextID
	s.nextID++
	s.subs[channel][id] = fn
	return func() { delete(s.subs[channel], id) }
}

func fromX11Rect(r x11.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func toX11Rect(r Rect) x11.Rect {
	return x11.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
