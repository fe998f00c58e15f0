package x11

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Sidebar colors (0xRRGGBB).
const (
	ColorSidebarBg   = 0x1e1e2e
	ColorSidebarText = 0xcdd6f4
	ColorSidebarDone = 0x6c7086
	ColorGrip        = 0x45475a
)

const (
	sidebarPaddingX   = 12
	sidebarPaddingY   = 10
	sidebarLineHeight = 20
	maxTextLen        = 255
)

var sidebarFonts = []string{"9x15", "fixed", "8x13", "6x13"}

// ChecklistItem is one line of the checklist.
type ChecklistItem struct {
	Text string
	Done bool
}

// SidebarHandler receives resize-grip input. Methods run on the event
// dispatcher.
type SidebarHandler interface {
	GripPressed()
	PointerMoved(rootX int)
	GripReleased()
}

// SidebarOptions configures the sidebar window.
type SidebarOptions struct {
	Title  string
	Items  []string
	GripPx int
	// Class is used for WM_CLASS and the window title.
	Class  string
	Logger *slog.Logger
}

// Sidebar is the docked checklist window. The left GripPx columns form the
// resize grip.
type Sidebar struct {
	conn   *Connection
	win    *xwindow.Window
	logger *slog.Logger
	gc     xproto.Gcontext
	font   xproto.Font

	charWidth int
	gripPx    int
	width     int
	height    int

	title string
	items []ChecklistItem

	handler  SidebarHandler
	dragging bool
	grabbed  bool
}

// NewSidebar creates the sidebar window unmapped. It is mapped by the first
// PlaceWindow.
func (c *Connection) NewSidebar(opts SidebarOptions) (*Sidebar, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	evMask := xproto.EventMaskExposure |
		xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease |
		xproto.EventMaskButtonMotion |
		xproto.EventMaskStructureNotify
	// Value list order follows the bit positions of the mask (low -> high).
	err = win.CreateChecked(c.Root, 0, 0, 1, 1,
		xproto.CwBackPixel|xproto.CwEventMask,
		ColorSidebarBg, uint32(evMask))
	if err != nil {
		return nil, fmt.Errorf("failed to create sidebar window: %w", err)
	}

	class := opts.Class
	if class == "" {
		class = "checkbar"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	setWindowProperties(logger, win.Id,
		windowProperty{"WM_CLASS", func() error {
			return icccm.WmClassSet(c.XUtil, win.Id, &icccm.WmClass{Instance: class, Class: class})
		}},
		windowProperty{"_NET_WM_NAME", func() error {
			return ewmh.WmNameSet(c.XUtil, win.Id, class)
		}},
	)

	s := &Sidebar{
		conn:   c,
		win:    win,
		logger: logger,
		gripPx: max(opts.GripPx, 1),
		width:  1,
		height: 1,
	}
	s.SetChecklist(opts.Title, opts.Items)

	if err := s.createGC(); err != nil {
		win.Destroy()
		return nil, err
	}

	s.connectEvents()
	return s, nil
}

type windowProperty struct {
	name string
	set  func() error
}

// setWindowProperties writes cosmetic properties. A failure leaves the
// window usable, so it is only logged.
func setWindowProperties(logger *slog.Logger, id xproto.Window, props ...windowProperty) {
	for _, p := range props {
		if err := p.set(); err != nil {
			logger.Debug("failed to set window property", "window", id, "property", p.name, "error", err)
		}
	}
}

func (s *Sidebar) createGC() error {
	conn := s.conn.XUtil.Conn()

	font, err := xproto.NewFontId(conn)
	if err != nil {
		return fmt.Errorf("failed to allocate font id: %w", err)
	}
	opened := false
	for _, fontName := range sidebarFonts {
		if err := xproto.OpenFontChecked(conn, font, uint16(len(fontName)), fontName).Check(); err == nil {
			opened = true
			break
		}
	}
	if !opened {
		return fmt.Errorf("no usable core font among %v", sidebarFonts)
	}

	s.charWidth = 8
	if info, err := xproto.QueryFont(conn, xproto.Fontable(font)).Reply(); err == nil && info.MaxBounds.CharacterWidth > 0 {
		s.charWidth = int(info.MaxBounds.CharacterWidth)
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.CloseFont(conn, font)
		return fmt.Errorf("failed to allocate gc id: %w", err)
	}
	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(s.win.Id),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{
			ColorSidebarText, // foreground
			ColorSidebarBg,   // background
			uint32(font),     // font
			0,                // graphics_exposures=false
		},
	).Check()
	if err != nil {
		xproto.CloseFont(conn, font)
		return fmt.Errorf("failed to create gc: %w", err)
	}

	s.font = font
	s.gc = gc
	return nil
}

func (s *Sidebar) connectEvents() {
	xu := s.conn.XUtil
	id := s.win.Id

	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		if ev.Count == 0 {
			s.Paint()
		}
	}).Connect(xu, id)

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		if int(ev.Width) != s.width || int(ev.Height) != s.height {
			s.width, s.height = int(ev.Width), int(ev.Height)
			s.Paint()
		}
	}).Connect(xu, id)

	xevent.ButtonPressFun(func(_ *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		if ev.Detail != xproto.ButtonIndex1 {
			return
		}
		if int(ev.EventX) < s.gripPx {
			s.dragging = true
			if s.handler != nil {
				s.handler.GripPressed()
			}
			return
		}
		if idx := itemIndexAt(int(ev.EventY), len(s.items)); idx >= 0 {
			s.items[idx].Done = !s.items[idx].Done
			s.Paint()
		}
	}).Connect(xu, id)

	xevent.MotionNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		if s.dragging && s.handler != nil {
			s.handler.PointerMoved(int(ev.RootX))
		}
	}).Connect(xu, id)

	xevent.ButtonReleaseFun(func(_ *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		if ev.Detail != xproto.ButtonIndex1 || !s.dragging {
			return
		}
		s.dragging = false
		if s.handler != nil {
			s.handler.GripReleased()
		}
	}).Connect(xu, id)
}

// ID returns the X window id.
func (s *Sidebar) ID() xproto.Window {
	return s.win.Id
}

// SetHandler routes resize-grip input to h.
func (s *Sidebar) SetHandler(h SidebarHandler) {
	s.handler = h
}

// SetChecklist replaces the checklist. Items whose text is unchanged keep
// their done state.
func (s *Sidebar) SetChecklist(title string, items []string) {
	done := make(map[string]bool, len(s.items))
	for _, it := range s.items {
		done[it.Text] = it.Done
	}
	s.title = title
	s.items = make([]ChecklistItem, 0, len(items))
	for _, text := range items {
		s.items = append(s.items, ChecklistItem{Text: text, Done: done[text]})
	}
}

// Title returns the checklist title.
func (s *Sidebar) Title() string {
	return s.title
}

// ClearChecks unticks every item. The caller repaints.
func (s *Sidebar) ClearChecks() {
	for i := range s.items {
		s.items[i].Done = false
	}
}

// Items returns a copy of the checklist.
func (s *Sidebar) Items() []ChecklistItem {
	out := make([]ChecklistItem, len(s.items))
	copy(out, s.items)
	return out
}

// Paint redraws the grip, title and checklist.
func (s *Sidebar) Paint() {
	conn := s.conn.XUtil.Conn()
	drawable := xproto.Drawable(s.win.Id)

	xproto.ClearArea(conn, false, s.win.Id, 0, 0, 0, 0)

	xproto.ChangeGC(conn, s.gc, xproto.GcForeground, []uint32{ColorGrip})
	xproto.PolyFillRectangle(conn, drawable, s.gc, []xproto.Rectangle{
		{X: 0, Y: 0, Width: uint16(s.gripPx), Height: uint16(max(s.height, 1))},
	})

	maxChars := (s.width - s.gripPx - 2*sidebarPaddingX) / s.charWidth
	for i, line := range checklistLines(s.title, s.items) {
		color := uint32(ColorSidebarText)
		if i > 0 && s.items[i-1].Done {
			color = ColorSidebarDone
		}
		xproto.ChangeGC(conn, s.gc, xproto.GcForeground|xproto.GcBackground, []uint32{color, ColorSidebarBg})

		text := truncate(line, maxChars)
		if text == "" {
			continue
		}
		baseline := sidebarPaddingY + (i+1)*sidebarLineHeight - 5
		xproto.ImageText8(conn, byte(len(text)), drawable, s.gc,
			int16(s.gripPx+sidebarPaddingX), int16(baseline), text)
	}
}

// Capture grabs the pointer for a resize drag.
func (s *Sidebar) Capture() error {
	conn := s.conn.XUtil.Conn()
	grab := func() (*xproto.GrabPointerReply, error) {
		return xproto.GrabPointer(
			conn,
			false,    // owner_events
			s.win.Id, // grab_window
			uint16(xproto.EventMaskButtonRelease|xproto.EventMaskButtonMotion|xproto.EventMaskPointerMotion),
			xproto.GrabModeAsync, // pointer_mode
			xproto.GrabModeAsync, // keyboard_mode
			xproto.WindowNone,    // confine_to
			xproto.CursorNone,    // cursor
			xproto.TimeCurrentTime,
		).Reply()
	}

	reply, err := grab()
	if err != nil {
		return err
	}
	if reply.Status == xproto.GrabStatusAlreadyGrabbed {
		xproto.UngrabPointer(conn, xproto.TimeCurrentTime)
		if reply, err = grab(); err != nil {
			return err
		}
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("pointer grab failed with status %d", reply.Status)
	}
	s.grabbed = true
	return nil
}

// Release ungrabs the pointer.
func (s *Sidebar) Release() {
	if !s.grabbed {
		return
	}
	xproto.UngrabPointer(s.conn.XUtil.Conn(), xproto.TimeCurrentTime)
	s.grabbed = false
}

// Destroy frees the window and its drawing resources.
func (s *Sidebar) Destroy() {
	conn := s.conn.XUtil.Conn()
	s.Release()
	xevent.Detach(s.conn.XUtil, s.win.Id)
	if s.gc != 0 {
		xproto.FreeGC(conn, s.gc)
	}
	if s.font != 0 {
		xproto.CloseFont(conn, s.font)
	}
	s.win.Destroy()
}

func checklistLines(title string, items []ChecklistItem) []string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, title)
	for _, it := range items {
		mark := "[ ] "
		if it.Done {
			mark = "[x] "
		}
		lines = append(lines, mark+it.Text)
	}
	return lines
}

// itemIndexAt maps a window y coordinate to a checklist item index, or -1.
// Line 0 is the title.
func itemIndexAt(y, count int) int {
	if y < sidebarPaddingY {
		return -1
	}
	line := (y - sidebarPaddingY) / sidebarLineHeight
	idx := line - 1
	if idx < 0 || idx >= count {
		return -1
	}
	return idx
}

func truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	limit := min(maxChars, maxTextLen)
	if len(s) <= limit {
		return s
	}
	if limit <= 3 {
		return s[:limit]
	}
	return s[:limit-3] + "..."
}
