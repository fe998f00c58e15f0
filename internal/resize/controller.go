// Package resize implements drag-to-resize for the docked sidebar. The right
// edge stays pinned while the left edge follows the pointer.
package resize

import (
	"log/slog"

	"github.com/1broseidon/checkbar/internal/platform"
)

// Width limits in device pixels.
const (
	DefaultMinWidth = 280
	DefaultMaxWidth = 900
)

// Phase is the controller's drag state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Pointer captures and releases the pointer for the duration of a drag.
type Pointer interface {
	Capture() error
	Release()
}

// Docker negotiates a new strip width. *dock.Client satisfies it.
type Docker interface {
	ApplyDock(monitor platform.Monitor, widthPx int)
}

// TargetFunc returns the monitor and width in effect when a drag starts.
type TargetFunc func() (platform.Monitor, int)

// Session is the snapshot taken when a drag begins.
type Session struct {
	AnchorRight  int
	Monitor      platform.Monitor
	CurrentWidth int
}

// Options configures a Controller.
type Options struct {
	Dock    Docker
	Pointer Pointer
	Target  TargetFunc
	Min     int
	Max     int
	// OnWidthCommitted fires once per finished drag with the final width.
	OnWidthCommitted func(widthPx int)
	Logger           *slog.Logger
}

// Controller tracks one drag at a time. It must be driven from the event
// loop.
type Controller struct {
	dock      Docker
	pointer   Pointer
	target    TargetFunc
	minWidth  int
	maxWidth  int
	committed func(int)
	logger    *slog.Logger

	phase   Phase
	session Session
}

// NewController returns an idle controller.
func NewController(opts Options) *Controller {
	lo, hi := opts.Min, opts.Max
	if lo <= 0 {
		lo = DefaultMinWidth
	}
	if hi < lo {
		hi = DefaultMaxWidth
		if hi < lo {
			hi = lo
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		dock:      opts.Dock,
		pointer:   opts.Pointer,
		target:    opts.Target,
		minWidth:  lo,
		maxWidth:  hi,
		committed: opts.OnWidthCommitted,
		logger:    logger,
	}
}

// Phase returns the current drag phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Session returns the active drag snapshot.
func (c *Controller) Session() (Session, bool) {
	return c.session, c.phase == PhaseDragging
}

// BeginDrag starts a drag. Calling it while dragging is a no-op.
func (c *Controller) BeginDrag() {
	if c.phase == PhaseDragging {
		return
	}

	monitor, width := c.target()
	c.session = Session{
		AnchorRight:  monitor.WorkArea.Right(),
		Monitor:      monitor,
		CurrentWidth: width,
	}
	c.phase = PhaseDragging

	if c.pointer != nil {
		if err := c.pointer.Capture(); err != nil {
			c.logger.Debug("pointer capture failed", "error", err)
		}
	}
	c.logger.Debug("resize started", "monitor", monitor.Name, "anchor", c.session.AnchorRight, "width", width)
}

// OnPointerMove updates the width from the pointer's x coordinate.
func (c *Controller) OnPointerMove(x int) {
	if c.phase != PhaseDragging {
		return
	}
	w := c.Clamp(c.session.AnchorRight - x)
	if w == c.session.CurrentWidth {
		return
	}
	c.session.CurrentWidth = w
	c.dock.ApplyDock(c.session.Monitor, w)
}

// EndDrag finishes the drag and reports the final width.
func (c *Controller) EndDrag() {
	if c.phase != PhaseDragging {
		return
	}
	if c.pointer != nil {
		c.pointer.Release()
	}
	c.phase = PhaseIdle
	width := c.session.CurrentWidth
	c.session = Session{}

	c.logger.Debug("resize finished", "width", width)
	if c.committed != nil {
		c.committed(width)
	}
}

// Clamp limits w to the controller's width range.
func (c *Controller) Clamp(w int) int {
	if w < c.minWidth {
		return c.minWidth
	}
	if w > c.maxWidth {
		return c.maxWidth
	}
	return w
}
