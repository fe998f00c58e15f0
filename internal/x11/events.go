package x11

import (
	"context"
	"log/slog"
	"time"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WatchRootProperties calls fn with the atom name of every property change
// on the root window. fn runs on the event dispatcher.
func (c *Connection) WatchRootProperties(fn func(atom string)) error {
	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange); err != nil {
		return err
	}

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil {
			return
		}
		fn(name)
	}).Connect(c.XUtil, c.Root)
	return nil
}

const (
	randrBackoffMin = 500 * time.Millisecond
	randrBackoffMax = 30 * time.Second
)

// WatchRandR calls fn for every RandR screen, CRTC or output change until
// ctx is cancelled. It uses its own connection because xgbutil does not
// dispatch extension events, and reconnects with backoff on failure. fn runs
// on the watcher goroutine.
func WatchRandR(ctx context.Context, display string, logger *slog.Logger, fn func()) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	backoff := randrBackoffMin
	sleep := func() bool {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, randrBackoffMax)
		return true
	}

	for ctx.Err() == nil {
		xu, err := xgbutil.NewConnDisplay(display)
		if err != nil {
			logger.Warn("randr watcher connect failed; retrying", "error", err)
			if !sleep() {
				return
			}
			continue
		}
		conn := xu.Conn()

		if err := randr.Init(conn); err != nil {
			logger.Warn("randr init failed; retrying", "error", err)
			conn.Close()
			if !sleep() {
				return
			}
			continue
		}

		mask := uint16(randr.NotifyMaskScreenChange | randr.NotifyMaskCrtcChange | randr.NotifyMaskOutputChange)
		if err := randr.SelectInputChecked(conn, xu.RootWin(), mask).Check(); err != nil {
			logger.Warn("randr select input failed; retrying", "error", err)
			conn.Close()
			if !sleep() {
				return
			}
			continue
		}

		logger.Debug("randr watcher started")
		backoff = randrBackoffMin

		stop := context.AfterFunc(ctx, func() { conn.Close() })
		for {
			ev, xerr := conn.WaitForEvent()
			if xerr != nil {
				logger.Debug("randr watcher x error", "error", xerr)
				continue
			}
			if ev == nil {
				// Both nil: the connection is gone.
				if ctx.Err() == nil {
					logger.Warn("randr watcher disconnected; will retry")
				}
				break
			}

			switch ev.(type) {
			case randr.ScreenChangeNotifyEvent:
				logger.Debug("randr event", "event", "ScreenChangeNotify")
				fn()
			case randr.NotifyEvent:
				logger.Debug("randr event", "event", "Notify")
				fn()
			}
		}
		stop()
		conn.Close()

		if !sleep() {
			return
		}
	}
}
