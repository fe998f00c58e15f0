package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/checkbar/internal/config"
	"github.com/1broseidon/checkbar/internal/ipc"
)

var (
	colorGreen = lipgloss.Color("#4CAF50")
	colorRed   = lipgloss.Color("#E95420")
	colorGray  = lipgloss.Color("#9A9EA0")
	colorCyan  = lipgloss.Color("#00BCD4")
)

type styles struct {
	label lipgloss.Style
	value lipgloss.Style
	ok    lipgloss.Style
	bad   lipgloss.Style
	dim   lipgloss.Style
}

// newStyles returns colored styles when w is a terminal and plain ones
// otherwise.
func newStyles(w io.Writer) styles {
	if !isTerminal(w) {
		plain := lipgloss.NewStyle()
		return styles{label: plain, value: plain, ok: plain, bad: plain, dim: plain}
	}
	return styles{
		label: lipgloss.NewStyle().Bold(true).Width(11),
		value: lipgloss.NewStyle().Foreground(colorCyan),
		ok:    lipgloss.NewStyle().Foreground(colorGreen),
		bad:   lipgloss.NewStyle().Foreground(colorRed),
		dim:   lipgloss.NewStyle().Foreground(colorGray),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func row(w io.Writer, st styles, label, value string) {
	fmt.Fprintf(w, "%s %s\n", st.label.Render(fmt.Sprintf("%-10s", label+":")), value)
}

func renderStatus(w io.Writer, st styles, s *ipc.StatusData) {
	dock := st.bad.Render("not registered")
	if s.Registered {
		dock = st.ok.Render("registered") + st.dim.Render(" ("+s.Edge+" edge)")
	}
	row(w, st, "Dock", dock)

	monitor := s.Monitor
	if monitor == "" {
		monitor = "-"
	}
	row(w, st, "Monitor", st.value.Render(monitor)+st.dim.Render(" (preference: "+s.Preference+")"))
	row(w, st, "Width", st.value.Render(fmt.Sprintf("%d px", s.WidthPx)))
	if s.Registered {
		c := s.Committed
		row(w, st, "Bounds", fmt.Sprintf("x=%d y=%d w=%d h=%d", c.X, c.Y, c.Width, c.Height))
		l := s.Logical
		row(w, st, "Logical", st.dim.Render(fmt.Sprintf("x=%.1f y=%.1f w=%.1f h=%.1f", l.X, l.Y, l.Width, l.Height)))
	}
	if s.Dragging {
		row(w, st, "Resize", st.value.Render("dragging"))
	}
	row(w, st, "Reapplies", fmt.Sprintf("%d", s.Reapplies))
	row(w, st, "Uptime", (time.Duration(s.UptimeSeconds) * time.Second).String())
}

func renderSaved(w io.Writer, st styles, s *ipc.SaveChecklistData) {
	row(w, st, "Saved", st.value.Render(s.Path))
	row(w, st, "Checklist", s.Title)
	checked := st.ok
	if s.Checked < s.Items {
		checked = st.bad
	}
	row(w, st, "Checked", checked.Render(fmt.Sprintf("%d/%d", s.Checked, s.Items)))
	if s.Reset {
		row(w, st, "Ticks", st.dim.Render("cleared"))
	}
}

func renderMonitors(w io.Writer, st styles, monitors []ipc.MonitorInfo) {
	if len(monitors) == 0 {
		fmt.Fprintln(w, st.dim.Render("no monitors reported"))
		return
	}
	for _, m := range monitors {
		marker := "  "
		if m.Target {
			marker = st.ok.Render("* ")
		}
		var tags []string
		if m.Primary {
			tags = append(tags, "primary")
		}
		if m.ScaleX > 0 {
			tags = append(tags, fmt.Sprintf("scale %.2f", m.ScaleX))
		}
		b, wa := m.Bounds, m.WorkArea
		fmt.Fprintf(w, "%s%s %dx%d+%d+%d %s\n",
			marker,
			st.value.Render(m.Name),
			b.Width, b.Height, b.X, b.Y,
			st.dim.Render(fmt.Sprintf("work %dx%d+%d+%d", wa.Width, wa.Height, wa.X, wa.Y)))
		if len(tags) > 0 {
			fmt.Fprintf(w, "    %s\n", st.dim.Render(strings.Join(tags, ", ")))
		}
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		return "default"
	default:
		return string(src.Kind)
	}
}
