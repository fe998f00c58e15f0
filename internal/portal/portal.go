// Package portal follows desktop appearance settings published by the XDG
// desktop portal on the session bus.
package portal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

const (
	objectPath        = dbus.ObjectPath("/org/freedesktop/portal/desktop")
	settingsInterface = "org.freedesktop.portal.Settings"
	settingChanged    = "SettingChanged"
)

// Change is one SettingChanged signal.
type Change struct {
	Namespace string
	Key       string
	Value     any
}

func (c Change) String() string {
	return fmt.Sprintf("%s.%s=%v", c.Namespace, c.Key, c.Value)
}

// relevantKeys lists settings that can move or resize the sidebar. An empty
// key set matches the whole namespace.
var relevantKeys = map[string]map[string]bool{
	"org.gnome.desktop.interface": {
		"text-scaling-factor": true,
		"scaling-factor":      true,
		"font-name":           true,
	},
	"org.gnome.mutter": {
		"experimental-features": true,
	},
	"org.kde.kdeglobals.KScreen": {},
	"org.freedesktop.appearance": {
		"color-scheme": true,
		"contrast":     true,
	},
}

// Relevant reports whether c can affect the reservation geometry or look.
func Relevant(c Change) bool {
	keys, ok := relevantKeys[c.Namespace]
	if !ok {
		return false
	}
	return len(keys) == 0 || keys[c.Key]
}

// ParseSignal decodes a SettingChanged signal. ok is false for any other
// signal or a malformed body.
func ParseSignal(sig *dbus.Signal) (Change, bool) {
	if sig == nil || sig.Name != settingsInterface+"."+settingChanged {
		return Change{}, false
	}
	if sig.Path != "" && sig.Path != objectPath {
		return Change{}, false
	}
	if len(sig.Body) != 3 {
		return Change{}, false
	}
	namespace, ok1 := sig.Body[0].(string)
	key, ok2 := sig.Body[1].(string)
	if !ok1 || !ok2 {
		return Change{}, false
	}

	value := sig.Body[2]
	if v, ok := value.(dbus.Variant); ok {
		value = v.Value()
	}
	return Change{Namespace: namespace, Key: key, Value: value}, true
}

// Watch subscribes to SettingChanged on a private session bus connection and
// calls fn for every relevant change until ctx ends. fn runs on the watch
// goroutine. It returns an error only if the subscription cannot be set up.
func Watch(ctx context.Context, logger *slog.Logger, fn func(Change)) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(objectPath),
		dbus.WithMatchInterface(settingsInterface),
		dbus.WithMatchMember(settingChanged),
	); err != nil {
		conn.Close()
		return fmt.Errorf("failed to subscribe to portal settings: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)

	go func() {
		defer conn.Close()
		defer conn.RemoveSignal(signals)

		logger.Debug("portal settings watcher started")
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-signals:
				if !ok {
					logger.Debug("portal settings watcher stopped", "reason", "bus closed")
					return
				}
				change, ok := ParseSignal(sig)
				if !ok {
					continue
				}
				if !Relevant(change) {
					logger.Debug("portal setting ignored", "setting", change.String())
					continue
				}
				logger.Debug("portal setting changed", "setting", change.String())
				fn(change)
			}
		}
	}()
	return nil
}
