package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// MonitorID is an opaque monitor identifier (the RandR output on X11).
type MonitorID uint32

// Rect describes a rectangular region in screen coordinates (device pixels).
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// RectFromEdges builds a Rect from its left, top, right and bottom edges.
// Right and bottom are exclusive.
func RectFromEdges(left, top, right, bottom int) Rect {
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether the point lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Edge is the screen edge a reservation is anchored to.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeTop
	EdgeRight
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeTop:
		return "top"
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Monitor describes a physical display, its usable work area and its scale.
//
// ScaleX/ScaleY are relative to 96 DPI. Zero means the platform could not
// report a scale.
type Monitor struct {
	ID       MonitorID
	Name     string
	Bounds   Rect
	WorkArea Rect
	Primary  bool
	ScaleX   float64
	ScaleY   float64
}

// NotificationKind identifies an asynchronous shell notification.
type NotificationKind int

const (
	ReservationPositionChanged NotificationKind = iota
	DisplayTopologyChanged
	DPIChanged
	SettingChanged
)

func (k NotificationKind) String() string {
	switch k {
	case ReservationPositionChanged:
		return "reservation-position-changed"
	case DisplayTopologyChanged:
		return "display-topology-changed"
	case DPIChanged:
		return "dpi-changed"
	case SettingChanged:
		return "setting-changed"
	default:
		return "unknown"
	}
}

// Notification is delivered to reservation subscribers.
// Suggested is only set for DPIChanged.
type Notification struct {
	Kind      NotificationKind
	Suggested *Rect
}

// Shell abstracts the host windowing shell that arbitrates reserved screen
// strips. All raw protocol concerns stay behind this interface.
type Shell interface {
	Monitors() ([]Monitor, error)
	PrimaryScreen() (Rect, error)
	NearestMonitor(win WindowID) (MonitorID, error)

	RegisterReservation(win WindowID, channel string) error
	UnregisterReservation(win WindowID) error
	QueryAdjustedPosition(win WindowID, proposed Rect, edge Edge) (Rect, error)
	CommitPosition(win WindowID, rect Rect, edge Edge) error
	PlaceWindow(win WindowID, rect Rect) error

	// Subscribe routes notifications for channel to fn until cancel is called.
	Subscribe(channel string, fn func(Notification)) (cancel func())
}
