package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
)

func TestInsetsFor_DualMonitor(t *testing.T) {
	// Two 1920x1080 monitors side by side; root is 3840x1080.
	left := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}

	struts := []Strut{
		// Top panel spanning only the left monitor.
		{Window: 1, Partial: ewmh.WmStrutPartial{Top: 30, TopStartX: 0, TopEndX: 1919}},
		// Right dock on the right monitor, rows 100-899.
		{Window: 2, Partial: ewmh.WmStrutPartial{Right: 64, RightStartY: 100, RightEndY: 899}},
	}

	tests := []struct {
		name   string
		region Rect
		want   Insets
	}{
		{"left monitor", left, Insets{Top: 30}},
		{"right monitor", right, Insets{Right: 64}},
		{"rows above dock", Rect{X: 1920, Y: 0, Width: 1920, Height: 100}, Insets{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InsetsFor(tt.region, 3840, 1080, struts)
			if got != tt.want {
				t.Errorf("InsetsFor(%+v) = %+v, want %+v", tt.region, got, tt.want)
			}
		})
	}
}

func TestInsetsFor_LargestStrutWins(t *testing.T) {
	region := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	struts := []Strut{
		{Partial: ewmh.WmStrutPartial{Bottom: 24, BottomStartX: 0, BottomEndX: 1919}},
		{Partial: ewmh.WmStrutPartial{Bottom: 48, BottomStartX: 0, BottomEndX: 1919}},
	}
	if got := InsetsFor(region, 1920, 1080, struts); got.Bottom != 48 {
		t.Fatalf("bottom inset = %d, want 48", got.Bottom)
	}
}

func TestRect_InsetKeepsOnePixel(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	got := r.Inset(Insets{Left: 80, Right: 80, Top: 10})
	if got.Width != 1 || got.Height != 90 || got.X != 80 || got.Y != 10 {
		t.Fatalf("Inset = %+v", got)
	}
}

func TestAdjustToStruts(t *testing.T) {
	monitor := Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}
	proposed := Rect{X: 3440, Y: 0, Width: 400, Height: 1080}

	tests := []struct {
		name   string
		struts []Strut
		want   Rect
	}{
		{
			name: "no struts",
			want: proposed,
		},
		{
			name:   "foreign right dock shifts right edge",
			struts: []Strut{{Partial: ewmh.WmStrutPartial{Right: 64, RightStartY: 0, RightEndY: 1079}}},
			want:   Rect{X: 3440, Y: 0, Width: 336, Height: 1080},
		},
		{
			name:   "top panel shrinks top",
			struts: []Strut{{Partial: ewmh.WmStrutPartial{Top: 32, TopStartX: 1920, TopEndX: 3839}}},
			want:   Rect{X: 3440, Y: 32, Width: 400, Height: 1048},
		},
		{
			name:   "strut on other monitor ignored",
			struts: []Strut{{Partial: ewmh.WmStrutPartial{Top: 32, TopStartX: 0, TopEndX: 1919}}},
			want:   proposed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustToStruts(proposed, monitor, 3840, 1080, tt.struts)
			if got != tt.want {
				t.Errorf("AdjustToStruts() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRightStrut(t *testing.T) {
	got := RightStrut(Rect{X: 3440, Y: 28, Width: 400, Height: 1052}, 3840)
	want := ewmh.WmStrutPartial{Right: 400, RightStartY: 28, RightEndY: 1079}
	if got != want {
		t.Fatalf("RightStrut() = %+v, want %+v", got, want)
	}

	// A strip on the left monitor reserves everything to the root's right
	// edge.
	got = RightStrut(Rect{X: 1520, Y: 0, Width: 400, Height: 1080}, 3840)
	if got.Right != 2320 {
		t.Fatalf("Right = %d, want 2320", got.Right)
	}
}

func TestStrutSignature_OrderIndependent(t *testing.T) {
	a := Strut{Window: 1, Partial: ewmh.WmStrutPartial{Top: 30}}
	b := Strut{Window: 2, Partial: ewmh.WmStrutPartial{Right: 64}}

	if StrutSignature([]Strut{a, b}) != StrutSignature([]Strut{b, a}) {
		t.Fatal("signature depends on order")
	}

	b.Partial.Right = 65
	if StrutSignature([]Strut{a}) == StrutSignature([]Strut{a, b}) {
		t.Fatal("signature ignores added strut")
	}
	if StrutSignature(nil) != "" {
		t.Fatal("empty set should have empty signature")
	}
}
