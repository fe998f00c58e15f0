package x11

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Strut is the reserved space advertised by one dock window.
type Strut struct {
	Window  xproto.Window
	Partial ewmh.WmStrutPartial
}

// Insets is the space struts take from each side of a region.
type Insets struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// Zero reports whether no side is inset.
func (in Insets) Zero() bool {
	return in.Left == 0 && in.Right == 0 && in.Top == 0 && in.Bottom == 0
}

// Inset shrinks r by in, keeping at least one pixel in each dimension.
func (r Rect) Inset(in Insets) Rect {
	out := Rect{
		X:      r.X + in.Left,
		Y:      r.Y + in.Top,
		Width:  r.Width - (in.Left + in.Right),
		Height: r.Height - (in.Top + in.Bottom),
	}
	if out.Width < 1 {
		out.Width = 1
	}
	if out.Height < 1 {
		out.Height = 1
	}
	return out
}

// DockStruts returns the struts of every dock window in the client list,
// skipping exclude.
func (c *Connection) DockStruts(exclude ...xproto.Window) ([]Strut, error) {
	rootWidth, rootHeight, err := c.RootSize()
	if err != nil {
		return nil, err
	}

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}

	var struts []Strut
	for _, windowID := range clients {
		if isExcluded(windowID, exclude) || !c.isDock(windowID) {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			struts = append(struts, Strut{Window: windowID, Partial: *sp})
			continue
		}

		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			struts = append(struts, Strut{Window: windowID, Partial: fullSpanStrut(s, rootWidth, rootHeight)})
		}
	}
	return struts, nil
}

func (c *Connection) isDock(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

func isExcluded(w xproto.Window, exclude []xproto.Window) bool {
	for _, e := range exclude {
		if w == e {
			return true
		}
	}
	return false
}

func fullSpanStrut(s *ewmh.WmStrut, rootWidth, rootHeight int) ewmh.WmStrutPartial {
	return ewmh.WmStrutPartial{
		Left:         s.Left,
		Right:        s.Right,
		Top:          s.Top,
		Bottom:       s.Bottom,
		LeftStartY:   0,
		LeftEndY:     uint(rootHeight - 1),
		RightStartY:  0,
		RightEndY:    uint(rootHeight - 1),
		TopStartX:    0,
		TopEndX:      uint(rootWidth - 1),
		BottomStartX: 0,
		BottomEndX:   uint(rootWidth - 1),
	}
}

// InsetsFor accumulates how far struts reach into region on each side.
func InsetsFor(region Rect, rootWidth, rootHeight int, struts []Strut) Insets {
	var acc Insets
	for i := range struts {
		updateInsets(region, rootWidth, rootHeight, &struts[i].Partial, &acc)
	}
	return acc
}

func updateInsets(region Rect, rootWidth, rootHeight int, sp *ewmh.WmStrutPartial, acc *Insets) {
	// Top strut: y=[0,Top), x=[TopStartX,TopEndX]
	if sp.Top > 0 {
		b := Rect{X: int(sp.TopStartX), Y: 0, Width: int(sp.TopEndX) + 1 - int(sp.TopStartX), Height: int(sp.Top)}
		acc.Top = max(acc.Top, intersection(region, b).Height)
	}

	// Bottom strut: y=[rootHeight-Bottom,rootHeight), x=[BottomStartX,BottomEndX]
	if sp.Bottom > 0 {
		b := Rect{X: int(sp.BottomStartX), Y: rootHeight - int(sp.Bottom), Width: int(sp.BottomEndX) + 1 - int(sp.BottomStartX), Height: int(sp.Bottom)}
		acc.Bottom = max(acc.Bottom, intersection(region, b).Height)
	}

	// Left strut: x=[0,Left), y=[LeftStartY,LeftEndY]
	if sp.Left > 0 {
		b := Rect{X: 0, Y: int(sp.LeftStartY), Width: int(sp.Left), Height: int(sp.LeftEndY) + 1 - int(sp.LeftStartY)}
		acc.Left = max(acc.Left, intersection(region, b).Width)
	}

	// Right strut: x=[rootWidth-Right,rootWidth), y=[RightStartY,RightEndY]
	if sp.Right > 0 {
		b := Rect{X: rootWidth - int(sp.Right), Y: int(sp.RightStartY), Width: int(sp.Right), Height: int(sp.RightEndY) + 1 - int(sp.RightStartY)}
		acc.Right = max(acc.Right, intersection(region, b).Width)
	}
}

func intersection(a, b Rect) Rect {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.Right(), b.Right())
	y2 := min(a.Bottom(), b.Bottom())

	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// AdjustToStruts moves a right-edge proposal on monitor clear of foreign
// struts. The right edge shifts left by any right strut overlapping the
// proposal's rows; top and bottom shrink by top and bottom struts. Width is
// not preserved; callers re-fix it.
func AdjustToStruts(proposed, monitor Rect, rootWidth, rootHeight int, struts []Strut) Rect {
	region := Rect{X: monitor.X, Y: proposed.Y, Width: monitor.Width, Height: proposed.Height}
	in := InsetsFor(region, rootWidth, rootHeight, struts)
	if in.Zero() {
		return proposed
	}

	right := min(proposed.Right(), region.Right()-in.Right)
	top := max(proposed.Y, region.Y+in.Top)
	bottom := min(proposed.Bottom(), region.Bottom()-in.Bottom)
	if bottom <= top {
		bottom = top + 1
	}
	return Rect{X: proposed.X, Y: top, Width: right - proposed.X, Height: bottom - top}
}

// RightStrut builds the strut reserving rect at the right edge of the root
// window.
func RightStrut(rect Rect, rootWidth int) ewmh.WmStrutPartial {
	reserve := rootWidth - rect.X
	if reserve < 0 {
		reserve = 0
	}
	endY := rect.Bottom() - 1
	if endY < rect.Y {
		endY = rect.Y
	}
	return ewmh.WmStrutPartial{
		Right:       uint(reserve),
		RightStartY: uint(max(rect.Y, 0)),
		RightEndY:   uint(max(endY, 0)),
	}
}

// StrutSignature is a stable fingerprint of a strut set, used to tell real
// layout changes from unrelated client-list churn.
func StrutSignature(struts []Strut) string {
	parts := make([]string, 0, len(struts))
	for _, s := range struts {
		p := s.Partial
		parts = append(parts, fmt.Sprintf("%d:%d,%d,%d,%d/%d-%d,%d-%d,%d-%d,%d-%d",
			s.Window, p.Left, p.Right, p.Top, p.Bottom,
			p.LeftStartY, p.LeftEndY, p.RightStartY, p.RightEndY,
			p.TopStartX, p.TopEndX, p.BottomStartX, p.BottomEndX))
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}
