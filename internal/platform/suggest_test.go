package platform

import "testing"

func TestSuggestForDPI(t *testing.T) {
	current := RectFromEdges(1520, 0, 1920, 1080)

	tests := []struct {
		name   string
		oldDPI float64
		newDPI float64
		want   *Rect
	}{
		{"scale up", 96, 144, &Rect{X: 1320, Y: 0, Width: 600, Height: 1080}},
		{"scale down", 144, 96, &Rect{X: 1653, Y: 0, Width: 267, Height: 1080}},
		{"unchanged", 96, 96, &current},
		{"unknown old", 0, 144, nil},
		{"unknown new", 96, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestForDPI(current, tt.oldDPI, tt.newDPI)
			switch {
			case tt.want == nil && got != nil:
				t.Fatalf("SuggestForDPI() = %+v, want nil", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Fatalf("SuggestForDPI() = %v, want %+v", got, *tt.want)
			}
		})
	}

	if SuggestForDPI(Rect{}, 96, 144) != nil {
		t.Fatal("empty rect should yield nil")
	}
}

func TestRectEdges(t *testing.T) {
	r := RectFromEdges(3740, 0, 3840, 1080)
	if r.Width != 100 || r.Right() != 3840 || r.Bottom() != 1080 {
		t.Fatalf("RectFromEdges = %+v", r)
	}
	if !r.Contains(3740, 0) || r.Contains(3840, 0) {
		t.Fatal("Contains should be right-exclusive")
	}
	if EdgeRight.String() != "right" || DPIChanged.String() != "dpi-changed" {
		t.Fatal("unexpected String values")
	}
}
