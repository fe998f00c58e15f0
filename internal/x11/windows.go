package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// PlaceWindow moves and resizes a window, raises it and maps it if needed.
// It never requests focus.
func (c *Connection) PlaceWindow(windowID xproto.Window, r Rect) error {
	width, height := max(r.Width, 1), max(r.Height, 1)

	err := xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		windowID,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(int32(r.X)),
			uint32(int32(r.Y)),
			uint32(width),
			uint32(height),
			xproto.StackModeAbove, // Keep on top
		},
	).Check()
	if err != nil {
		// Fall back to asking the window manager.
		if err := ewmh.MoveresizeWindow(c.XUtil, windowID, r.X, r.Y, width, height); err != nil {
			return fmt.Errorf("failed to place window: %w", err)
		}
	}

	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err == nil && attrs.MapState == xproto.MapStateUnmapped {
		xproto.MapWindow(c.XUtil.Conn(), windowID)
	}
	return nil
}

// WindowGeometry returns a window's position and size in root coordinates.
func (c *Connection) WindowGeometry(windowID xproto.Window) (Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Rect{}, fmt.Errorf("failed to get window geometry: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return Rect{}, fmt.Errorf("failed to translate window coordinates: %w", err)
	}

	return Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}
