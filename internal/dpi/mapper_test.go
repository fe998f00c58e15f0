package dpi

import (
	"math"
	"testing"

	"github.com/1broseidon/checkbar/internal/platform"
)

func TestToLogical(t *testing.T) {
	tests := []struct {
		name   string
		rect   platform.Rect
		sx, sy float64
		want   LogicalRect
	}{
		{
			name: "identity at 96 dpi",
			rect: platform.Rect{X: 1520, Y: 0, Width: 400, Height: 1040},
			sx:   1, sy: 1,
			want: LogicalRect{Left: 1520, Top: 0, Width: 400, Height: 1040},
		},
		{
			name: "150 percent",
			rect: platform.Rect{X: 3000, Y: 30, Width: 600, Height: 2100},
			sx:   1.5, sy: 1.5,
			want: LogicalRect{Left: 2000, Top: 20, Width: 400, Height: 1400},
		},
		{
			name: "independent axes",
			rect: platform.Rect{X: 200, Y: 200, Width: 200, Height: 200},
			sx:   2, sy: 1.25,
			want: LogicalRect{Left: 100, Top: 160, Width: 100, Height: 160},
		},
		{
			name: "zero scale treated as one",
			rect: platform.Rect{X: 10, Y: 20, Width: 30, Height: 40},
			sx:   0, sy: 0,
			want: LogicalRect{Left: 10, Top: 20, Width: 30, Height: 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToLogical(tt.rect, tt.sx, tt.sy)
			if got != tt.want {
				t.Fatalf("ToLogical(%+v, %v, %v) = %+v, want %+v", tt.rect, tt.sx, tt.sy, got, tt.want)
			}
		})
	}
}

func TestToLogical_InvalidScalesNeverProduceNaN(t *testing.T) {
	for _, s := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		got := ToLogical(platform.Rect{X: 1, Y: 2, Width: 3, Height: 4}, s, s)
		for _, v := range []float64{got.Left, got.Top, got.Width, got.Height} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("scale %v produced non-finite value in %+v", s, got)
			}
		}
	}
}

func TestToDevice_InvertsToLogical(t *testing.T) {
	r := platform.Rect{X: 3440, Y: 24, Width: 400, Height: 1416}
	got := ToDevice(ToLogical(r, 1.25, 1.25), 1.25, 1.25)
	if got != r {
		t.Fatalf("round trip = %+v, want %+v", got, r)
	}
}

func TestScaleFromDPI(t *testing.T) {
	if got := ScaleFromDPI(144); got != 1.5 {
		t.Fatalf("ScaleFromDPI(144) = %v, want 1.5", got)
	}
	if got := ScaleFromDPI(0); got != 0 {
		t.Fatalf("ScaleFromDPI(0) = %v, want 0", got)
	}
}
