package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/checkbar/internal/config"
)

var (
	version = "dev"

	configPath string
	debugMode  bool
)

var rootCmd = &cobra.Command{
	Use:   "checkbar",
	Short: "A checklist sidebar docked to the right edge of an X11 desktop",
	Long: `checkbar keeps a small checklist window docked to the right edge of a
monitor. It reserves its strip with the window manager so maximized windows
stop short of it, follows monitor and DPI changes, and can be resized by
dragging its left edge.

Run 'checkbar run' to start the sidebar. The other commands talk to the
running instance over its control socket.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: ~/.config/checkbar/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Log at debug level")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(monitorsCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(widthCmd)
	rootCmd.AddCommand(redockCmd)
	rootCmd.AddCommand(reloadCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveConfigPath returns --config or the default location.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultConfigPath()
}

// newLogger builds the stderr text logger used by long-running commands.
func newLogger(level slog.Level) *slog.Logger {
	if debugMode {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the checkbar version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "checkbar %s\n", version)
	},
}
