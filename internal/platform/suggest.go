package platform

import "math"

// SuggestForDPI scales a window's width by newDPI/oldDPI around its right
// edge. The vertical extent is kept. It returns nil when either DPI is
// unknown or the rect is empty.
func SuggestForDPI(current Rect, oldDPI, newDPI float64) *Rect {
	if oldDPI <= 0 || newDPI <= 0 || current.Empty() {
		return nil
	}
	width := int(math.Round(float64(current.Width) * newDPI / oldDPI))
	if width < 1 {
		width = 1
	}
	r := RectFromEdges(current.Right()-width, current.Y, current.Right(), current.Bottom())
	return &r
}
