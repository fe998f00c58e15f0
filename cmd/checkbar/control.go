package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/1broseidon/checkbar/internal/ipc"
)

var jsonOutput bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sidebar's docking status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := ipc.NewClient().GetStatus()
		if err != nil {
			return err
		}
		return printStatus(cmd.OutOrStdout(), status)
	},
}

var monitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "List connected monitors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := ipc.NewClient().GetMonitors()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, data)
		}
		renderMonitors(out, newStyles(out), data.Monitors)
		return nil
	},
}

var monitorCmd = &cobra.Command{
	Use:       "monitor main|sub|auto",
	Short:     "Move the sidebar to another monitor",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"main", "sub", "auto"},
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := ipc.NewClient().SetMonitor(args[0])
		if err != nil {
			return err
		}
		return printStatus(cmd.OutOrStdout(), status)
	},
}

var widthCmd = &cobra.Command{
	Use:   "width N",
	Short: "Set the sidebar width in device pixels",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, err := strconv.Atoi(args[0])
		if err != nil || width <= 0 {
			return fmt.Errorf("width must be a positive integer, got %q", args[0])
		}
		status, err := ipc.NewClient().SetWidth(width)
		if err != nil {
			return err
		}
		return printStatus(cmd.OutOrStdout(), status)
	},
}

var redockCmd = &cobra.Command{
	Use:   "redock",
	Short: "Release and re-negotiate the screen reservation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := ipc.NewClient().Redock()
		if err != nil {
			return err
		}
		return printStatus(cmd.OutOrStdout(), status)
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the running sidebar's config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ipc.NewClient().Reload(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, newStyles(out).ok.Render("config reloaded"))
		return nil
	},
}

var resetChecks bool

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save which checklist items are ticked",
	Long: `Append a timestamped record of the ticked checklist items to today's
results file in the save directory (checklist.save_dir).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		saved, err := ipc.NewClient().SaveChecklist(resetChecks)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, saved)
		}
		renderSaved(out, newStyles(out), saved)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{statusCmd, monitorsCmd, monitorCmd, widthCmd, redockCmd, saveCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	}
	saveCmd.Flags().BoolVar(&resetChecks, "reset", false, "Clear all ticks after saving")
}

func printStatus(w io.Writer, status *ipc.StatusData) error {
	if jsonOutput {
		return writeJSON(w, status)
	}
	renderStatus(w, newStyles(w), status)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
