// Package dpi converts between device pixels and device-independent pixels.
package dpi

import (
	"math"

	"github.com/1broseidon/checkbar/internal/platform"
)

// BaselineDPI is the DPI that maps to a scale of 1.0.
const BaselineDPI = 96.0

// LogicalRect is a rectangle in device-independent pixels (DIP).
type LogicalRect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// NormalizeScale returns s, or 1.0 when s is not a usable scale factor.
// Platforms report 0 when DPI metadata is unavailable.
func NormalizeScale(s float64) float64 {
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return 1.0
	}
	return s
}

// ToLogical converts a device-pixel rect to DIP using the given scales.
func ToLogical(r platform.Rect, scaleX, scaleY float64) LogicalRect {
	sx := NormalizeScale(scaleX)
	sy := NormalizeScale(scaleY)
	return LogicalRect{
		Left:   float64(r.X) / sx,
		Top:    float64(r.Y) / sy,
		Width:  float64(r.Width) / sx,
		Height: float64(r.Height) / sy,
	}
}

// ToDevice converts a DIP rect back to device pixels, rounding each edge.
func ToDevice(r LogicalRect, scaleX, scaleY float64) platform.Rect {
	sx := NormalizeScale(scaleX)
	sy := NormalizeScale(scaleY)
	left := int(math.Round(r.Left * sx))
	top := int(math.Round(r.Top * sy))
	right := int(math.Round((r.Left + r.Width) * sx))
	bottom := int(math.Round((r.Top + r.Height) * sy))
	return platform.RectFromEdges(left, top, right, bottom)
}

// ScaleFromDPI converts a DPI value to a scale factor. Non-positive input
// yields 0 (unknown).
func ScaleFromDPI(dpi float64) float64 {
	if dpi <= 0 || math.IsNaN(dpi) || math.IsInf(dpi, 0) {
		return 0
	}
	return dpi / BaselineDPI
}

// ForMonitor converts r using the monitor's scale.
func ForMonitor(r platform.Rect, m platform.Monitor) LogicalRect {
	return ToLogical(r, m.ScaleX, m.ScaleY)
}
