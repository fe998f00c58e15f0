package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
)

// allDesktops is the _NET_WM_DESKTOP value for sticky windows.
const allDesktops = 0xFFFFFFFF

var dockStates = []string{
	"_NET_WM_STATE_ABOVE",
	"_NET_WM_STATE_STICKY",
	"_NET_WM_STATE_SKIP_TASKBAR",
	"_NET_WM_STATE_SKIP_PAGER",
}

// MarkDock turns windowID into an always-on-top, never-focused dock on every
// desktop.
func (c *Connection) MarkDock(windowID xproto.Window) error {
	if err := ewmh.WmWindowTypeSet(c.XUtil, windowID, []string{"_NET_WM_WINDOW_TYPE_DOCK"}); err != nil {
		return fmt.Errorf("failed to set window type: %w", err)
	}
	if err := ewmh.WmStateSet(c.XUtil, windowID, dockStates); err != nil {
		return fmt.Errorf("failed to set window state: %w", err)
	}
	if err := ewmh.WmDesktopSet(c.XUtil, windowID, allDesktops); err != nil {
		return fmt.Errorf("failed to set window desktop: %w", err)
	}
	hints := &icccm.Hints{Flags: icccm.HintInput, Input: 0}
	if err := icccm.WmHintsSet(c.XUtil, windowID, hints); err != nil {
		return fmt.Errorf("failed to set WM_HINTS: %w", err)
	}
	return nil
}

// SetStrut reserves rect at the right edge through _NET_WM_STRUT_PARTIAL and
// the legacy _NET_WM_STRUT.
func (c *Connection) SetStrut(windowID xproto.Window, rect Rect) error {
	rootWidth, _, err := c.RootSize()
	if err != nil {
		return err
	}

	partial := RightStrut(rect, rootWidth)
	if err := ewmh.WmStrutPartialSet(c.XUtil, windowID, &partial); err != nil {
		return fmt.Errorf("failed to set _NET_WM_STRUT_PARTIAL: %w", err)
	}
	strut := &ewmh.WmStrut{Right: partial.Right}
	if err := ewmh.WmStrutSet(c.XUtil, windowID, strut); err != nil {
		return fmt.Errorf("failed to set _NET_WM_STRUT: %w", err)
	}
	return nil
}

// ClearStrut removes both strut properties from windowID.
func (c *Connection) ClearStrut(windowID xproto.Window) error {
	for _, name := range []string{"_NET_WM_STRUT_PARTIAL", "_NET_WM_STRUT"} {
		atom, err := xprop.Atm(c.XUtil, name)
		if err != nil {
			return fmt.Errorf("failed to intern %s: %w", name, err)
		}
		if err := xproto.DeletePropertyChecked(c.XUtil.Conn(), windowID, atom).Check(); err != nil {
			return fmt.Errorf("failed to delete %s: %w", name, err)
		}
	}
	return nil
}
