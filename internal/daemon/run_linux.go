//go:build linux

package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/checkbar/internal/checklist"
	"github.com/1broseidon/checkbar/internal/config"
	"github.com/1broseidon/checkbar/internal/dock"
	"github.com/1broseidon/checkbar/internal/eventloop"
	"github.com/1broseidon/checkbar/internal/ipc"
	"github.com/1broseidon/checkbar/internal/platform"
	"github.com/1broseidon/checkbar/internal/portal"
	"github.com/1broseidon/checkbar/internal/runtimepath"
	"github.com/1broseidon/checkbar/internal/x11"
)

// DefaultReconcileInterval is how often the reservation is checked for drift.
const DefaultReconcileInterval = 30 * time.Second

// RunOptions configures Run.
type RunOptions struct {
	// ConfigPath is where the configuration is loaded from and saved to.
	ConfigPath string
	// Overrides are command-line values layered over the file on every load.
	Overrides config.RawConfig
	Logger    *slog.Logger
}

// Run starts the sidebar on X11 and blocks until ctx is cancelled or a
// termination signal arrives.
func Run(ctx context.Context, opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	load := func() (*config.Config, error) {
		res, err := config.LoadFromPathWithOverrides(opts.ConfigPath, opts.Overrides)
		if err != nil {
			return nil, err
		}
		return res.Config, nil
	}
	cfg, err := load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	lockPath, err := runtimepath.LockPath()
	if err != nil {
		return err
	}
	lock, err := AcquireLock(lockPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shell, err := platform.NewX11ShellFromDisplay(cfg.Display, logger.With("component", "x11"))
	if err != nil {
		return err
	}
	defer shell.Disconnect()

	bar, err := shell.Conn().NewSidebar(x11.SidebarOptions{
		Title:  cfg.Checklist.Title,
		Items:  cfg.Checklist.Items,
		GripPx: cfg.ResizeGripPx,
		Class:  "checkbar",
		Logger: logger.With("component", "sidebar-window"),
	})
	if err != nil {
		return err
	}
	defer bar.Destroy()

	loop := eventloop.New(logger.With("component", "loop"))

	sidebar, err := New(Options{
		Shell:   shell,
		View:    x11View{bar: bar},
		Config:  cfg,
		NewTask: func(fn func()) dock.Task { return loop.NewTask(fn) },
		Persist: func(c *config.Config) error { return c.SaveTo(opts.ConfigPath) },
		Load:    load,
		SaveChecklist: func(c *config.Config, entry checklist.Entry) (string, error) {
			dir, err := checklist.ResolveDir(c.Checklist.SaveDir)
			if err != nil {
				return "", err
			}
			return checklist.NewStore(dir).Save(entry)
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}
	bar.SetHandler(sidebar)

	if err := shell.Start(ctx, loop.Post); err != nil {
		return err
	}

	if cfg.WatchPortalSettings {
		err := portal.Watch(ctx, logger.With("component", "portal"), func(portal.Change) {
			loop.Post(func() { shell.Emit(platform.Notification{Kind: platform.SettingChanged}) })
		})
		if err != nil {
			logger.Warn("portal settings unavailable", "error", err)
		}
	}

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	server, err := ipc.NewServer(ipc.ServerOptions{
		SocketPath: socketPath,
		Handler:    sidebar,
		Exec:       loop.Call,
		Logger:     logger.With("component", "ipc"),
	})
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	reconciler := NewReconciler(ReconcilerConfig{
		Interval: DefaultReconcileInterval,
		Post:     loop.Post,
		Logger:   logger.With("component", "reconciler"),
	}, sidebar)
	go reconciler.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					logger.Info("received SIGHUP, reloading config")
					loop.Post(func() {
						if err := sidebar.Reload(); err != nil {
							logger.Error("config reload failed", "error", err)
						}
					})
					continue
				}
				logger.Info("shutting down", "signal", sig.String())
				cancel()
				return
			}
		}
	}()

	loop.Post(sidebar.Start)

	before, after, quit := shell.Conn().Ping()
	loop.Run(ctx, &eventloop.Pinger{Before: before, After: after, Quit: quit})

	shell.Conn().Quit()
	sidebar.Stop()

	if ctx.Err() == nil {
		return errors.New("X11 connection closed")
	}
	return nil
}

type x11View struct {
	bar *x11.Sidebar
}

func (v x11View) Window() (platform.WindowID, bool) {
	return platform.WindowID(v.bar.ID()), true
}

func (v x11View) SetChecklist(title string, items []string) {
	v.bar.SetChecklist(title, items)
	v.bar.Paint()
}

func (v x11View) Checklist() (string, []checklist.Item) {
	items := v.bar.Items()
	out := make([]checklist.Item, 0, len(items))
	for _, it := range items {
		out = append(out, checklist.Item{Text: it.Text, Checked: it.Done})
	}
	return v.bar.Title(), out
}

func (v x11View) ClearChecks() {
	v.bar.ClearChecks()
	v.bar.Paint()
}

func (v x11View) Capture() error { return v.bar.Capture() }

func (v x11View) Release() { v.bar.Release() }
