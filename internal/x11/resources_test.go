package x11

import "testing"

func TestParseXftDPI(t *testing.T) {
	tests := []struct {
		name   string
		db     string
		want   float64
		wantOK bool
	}{
		{"typical", "Xcursor.size:\t24\nXft.dpi:\t144\nXft.antialias:\t1\n", 144, true},
		{"spaces", "Xft.dpi :  120.5", 120.5, true},
		{"comment skipped", "! Xft.dpi: 200\nXft.dpi: 96", 96, true},
		{"missing", "Xcursor.theme: Adwaita", 0, false},
		{"zero", "Xft.dpi: 0", 0, false},
		{"garbage", "Xft.dpi: big", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseXftDPI(tt.db)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseXftDPI() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
