package portal

import (
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestParseSignal(t *testing.T) {
	tests := []struct {
		name   string
		sig    *dbus.Signal
		want   Change
		wantOK bool
	}{
		{
			name: "variant value",
			sig: &dbus.Signal{
				Path: objectPath,
				Name: "org.freedesktop.portal.Settings.SettingChanged",
				Body: []interface{}{"org.gnome.desktop.interface", "text-scaling-factor", dbus.MakeVariant(1.25)},
			},
			want:   Change{Namespace: "org.gnome.desktop.interface", Key: "text-scaling-factor", Value: 1.25},
			wantOK: true,
		},
		{
			name: "plain value",
			sig: &dbus.Signal{
				Name: "org.freedesktop.portal.Settings.SettingChanged",
				Body: []interface{}{"org.freedesktop.appearance", "color-scheme", uint32(1)},
			},
			want:   Change{Namespace: "org.freedesktop.appearance", Key: "color-scheme", Value: uint32(1)},
			wantOK: true,
		},
		{
			name: "other member",
			sig: &dbus.Signal{
				Path: objectPath,
				Name: "org.freedesktop.portal.Settings.Other",
				Body: []interface{}{"a", "b", dbus.MakeVariant(1)},
			},
		},
		{
			name: "other path",
			sig: &dbus.Signal{
				Path: "/org/example",
				Name: "org.freedesktop.portal.Settings.SettingChanged",
				Body: []interface{}{"a", "b", dbus.MakeVariant(1)},
			},
		},
		{
			name: "short body",
			sig: &dbus.Signal{
				Name: "org.freedesktop.portal.Settings.SettingChanged",
				Body: []interface{}{"a"},
			},
		},
		{
			name: "wrong types",
			sig: &dbus.Signal{
				Name: "org.freedesktop.portal.Settings.SettingChanged",
				Body: []interface{}{1, "b", "c"},
			},
		},
		{name: "nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSignal(tt.sig)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("change = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		change Change
		want   bool
	}{
		{Change{Namespace: "org.gnome.desktop.interface", Key: "text-scaling-factor"}, true},
		{Change{Namespace: "org.gnome.desktop.interface", Key: "cursor-blink"}, false},
		{Change{Namespace: "org.kde.kdeglobals.KScreen", Key: "ScaleFactor"}, true},
		{Change{Namespace: "org.freedesktop.appearance", Key: "color-scheme"}, true},
		{Change{Namespace: "org.gnome.desktop.wm.preferences", Key: "button-layout"}, false},
	}
	for _, tt := range tests {
		if got := Relevant(tt.change); got != tt.want {
			t.Errorf("Relevant(%s) = %v, want %v", tt.change, got, tt.want)
		}
	}
}
