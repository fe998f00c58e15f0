package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/checkbar/internal/config"
	"github.com/1broseidon/checkbar/internal/daemon"
)

var runFlags struct {
	display    string
	monitor    string
	width      int
	debounceMs int
	noPortal   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the sidebar (foreground)",
	Long: `Start the sidebar in the foreground. Flags override the config file for
this run. Width and monitor changes made while running are saved back to the
config file. SIGHUP reloads the config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		overrides := runOverrides(cmd)

		res, err := config.LoadFromPathWithOverrides(path, overrides)
		if err != nil {
			return err
		}
		logger := newLogger(res.Config.SlogLevel())
		if res.File == "" {
			logger.Info("no config file, using defaults", "path", path)
		} else {
			logger.Info("configuration loaded", "path", res.File)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := daemon.Run(ctx, daemon.RunOptions{
			ConfigPath: path,
			Overrides:  overrides,
			Logger:     logger,
		}); err != nil {
			return fmt.Errorf("checkbar: %w", err)
		}
		logger.Info("checkbar stopped")
		return nil
	},
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.display, "display", "", "X display (default: $DISPLAY)")
	f.StringVar(&runFlags.monitor, "monitor", "", "Target monitor: main, sub or auto")
	f.IntVar(&runFlags.width, "width", 0, "Sidebar width in device pixels")
	f.IntVar(&runFlags.debounceMs, "debounce-ms", 0, "Quiet period before re-docking after shell changes")
	f.BoolVar(&runFlags.noPortal, "no-portal", false, "Do not watch desktop portal settings")
}

// runOverrides collects the flags the user actually set.
func runOverrides(cmd *cobra.Command) config.RawConfig {
	var raw config.RawConfig
	f := cmd.Flags()
	if f.Changed("display") {
		raw.Display = &runFlags.display
	}
	if f.Changed("monitor") {
		raw.TargetMonitor = &runFlags.monitor
	}
	if f.Changed("width") {
		raw.SidebarWidthPx = &runFlags.width
	}
	if f.Changed("debounce-ms") {
		raw.DebounceMs = &runFlags.debounceMs
	}
	if f.Changed("no-portal") {
		watch := !runFlags.noPortal
		raw.WatchPortalSettings = &watch
	}
	if debugMode {
		level := "debug"
		raw.LogLevel = &level
	}
	return raw
}
