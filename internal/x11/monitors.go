package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// baselineDPI maps to a scale of 1.0.
const baselineDPI = 96.0

// Rect is a rectangle in root window coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

func (r Rect) contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Monitor represents a physical display
type Monitor struct {
	Output   randr.Output
	Name     string
	Bounds   Rect
	Primary  bool
	WidthMM  uint32
	HeightMM uint32
}

// Scale returns the monitor's scale relative to 96 DPI. A positive xftDPI
// (the desktop-wide Xft.dpi resource) wins; otherwise the physical size is
// used. Zero means unknown.
func (m Monitor) Scale(xftDPI float64) (float64, float64) {
	if xftDPI > 0 {
		s := xftDPI / baselineDPI
		return s, s
	}
	if m.WidthMM == 0 || m.HeightMM == 0 {
		return 0, 0
	}
	dpiX := float64(m.Bounds.Width) / (float64(m.WidthMM) / 25.4)
	dpiY := float64(m.Bounds.Height) / (float64(m.HeightMM) / 25.4)
	return dpiX / baselineDPI, dpiY / baselineDPI
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()

	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(conn, c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var monitors []Monitor

	// Query each CRTC for active monitors
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		output := crtcInfo.Outputs[0]
		mon := Monitor{
			Output: output,
			Name:   fmt.Sprintf("Monitor%d", i),
			Bounds: Rect{
				X:      int(crtcInfo.X),
				Y:      int(crtcInfo.Y),
				Width:  int(crtcInfo.Width),
				Height: int(crtcInfo.Height),
			},
		}
		for _, o := range crtcInfo.Outputs {
			if o == primary {
				mon.Primary = true
				mon.Output = o
				output = o
			}
		}

		if outputInfo, err := randr.GetOutputInfo(conn, output, resources.ConfigTimestamp).Reply(); err == nil {
			mon.Name = string(outputInfo.Name)
			mon.WidthMM = outputInfo.MmWidth
			mon.HeightMM = outputInfo.MmHeight
		}

		monitors = append(monitors, mon)
	}

	return monitors, nil
}

// WorkArea returns the monitor bounds minus the struts of dock windows other
// than exclude.
func (c *Connection) WorkArea(monitor Monitor, exclude ...xproto.Window) Rect {
	rootWidth, rootHeight, err := c.RootSize()
	if err != nil {
		return monitor.Bounds
	}

	struts, err := c.DockStruts(exclude...)
	if err != nil {
		return c.workAreaFromEWMH(monitor)
	}

	insets := InsetsFor(monitor.Bounds, rootWidth, rootHeight, struts)
	return monitor.Bounds.Inset(insets)
}

// workAreaFromEWMH intersects the monitor with _NET_WORKAREA of the current
// desktop. Used when the client list is unavailable.
func (c *Connection) workAreaFromEWMH(monitor Monitor) Rect {
	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return monitor.Bounds
	}

	desktopIndex := 0
	if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(currentDesktop) >= 0 && int(currentDesktop) < len(workArea) {
			desktopIndex = int(currentDesktop)
		}
	}
	wa := workArea[desktopIndex]

	b := monitor.Bounds
	x1 := max(b.X, int(wa.X))
	y1 := max(b.Y, int(wa.Y))
	x2 := min(b.Right(), int(wa.X)+int(wa.Width))
	y2 := min(b.Bottom(), int(wa.Y)+int(wa.Height))
	if x2 <= x1 || y2 <= y1 {
		return b
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// MonitorForWindow returns the monitor containing the window's center, or
// the monitor nearest to it.
func (c *Connection) MonitorForWindow(monitors []Monitor, windowID xproto.Window) (*Monitor, error) {
	geom, err := c.WindowGeometry(windowID)
	if err != nil {
		return nil, err
	}
	return nearestMonitor(monitors, geom.X+geom.Width/2, geom.Y+geom.Height/2), nil
}

// MonitorForPointer returns the monitor under the pointer.
func (c *Connection) MonitorForPointer(monitors []Monitor) (*Monitor, error) {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query pointer: %w", err)
	}
	return nearestMonitor(monitors, int(pointer.RootX), int(pointer.RootY)), nil
}

// nearestMonitor returns the monitor containing (x, y) or, failing that, the
// one whose bounds are closest to it. Nil only for an empty slice.
func nearestMonitor(monitors []Monitor, x, y int) *Monitor {
	var best *Monitor
	bestDist := -1
	for i := range monitors {
		mon := &monitors[i]
		if mon.Bounds.contains(x, y) {
			return mon
		}
		dx := max(mon.Bounds.X-x, 0, x-(mon.Bounds.Right()-1))
		dy := max(mon.Bounds.Y-y, 0, y-(mon.Bounds.Bottom()-1))
		dist := dx*dx + dy*dy
		if bestDist < 0 || dist < bestDist {
			best, bestDist = mon, dist
		}
	}
	return best
}
