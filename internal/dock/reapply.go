package dock

import (
	"log/slog"
	"time"

	"github.com/1broseidon/checkbar/internal/platform"
)

// DefaultQuietPeriod is how long notifications must stop before the
// reservation is re-negotiated.
const DefaultQuietPeriod = 200 * time.Millisecond

// Task is a reschedulable timer handle. Rescheduling replaces the pending
// deadline; there is no separate cancel.
type Task interface {
	Reschedule(d time.Duration)
}

// TaskFactory creates an unscheduled task whose body is fn.
type TaskFactory func(fn func()) Task

// TargetFunc returns the monitor and width to dock to, resolved at the
// moment the re-negotiation runs.
type TargetFunc func() (platform.Monitor, int)

// ReapplyScheduler coalesces bursts of shell notifications into a single
// unregister/register/apply cycle.
type ReapplyScheduler struct {
	client *Client
	target TargetFunc
	task   Task
	quiet  time.Duration
	logger *slog.Logger

	pending []platform.NotificationKind
	armed   bool
	cycles  int
	closed  bool

	// OnCycle is called after every re-negotiation. Optional.
	OnCycle func(monitor platform.Monitor, widthPx int)
}

// NewReapplyScheduler wires a scheduler to client. The client's
// notifications are routed to the scheduler.
func NewReapplyScheduler(client *Client, target TargetFunc, newTask TaskFactory, quiet time.Duration, logger *slog.Logger) *ReapplyScheduler {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &ReapplyScheduler{
		client: client,
		target: target,
		quiet:  quiet,
		logger: logger,
	}
	s.task = newTask(s.fire)
	client.SetNotificationHandler(s.Notify)
	return s
}

// Notify records a notification and restarts the quiet period.
func (s *ReapplyScheduler) Notify(n platform.Notification) {
	if s.closed {
		return
	}

	// Resize to the shell's suggestion right away so the window does not sit
	// at a stale size until the re-dock.
	if n.Kind == platform.DPIChanged && n.Suggested != nil {
		s.client.PlaceSuggested(*n.Suggested)
	}

	s.pending = append(s.pending, n.Kind)
	s.arm()
}

// Request schedules a re-negotiation without a shell notification.
func (s *ReapplyScheduler) Request() {
	if s.closed {
		return
	}
	s.arm()
}

// SetQuietPeriod changes the quiet period. A pending re-negotiation is
// restarted with the new period and still runs exactly once.
func (s *ReapplyScheduler) SetQuietPeriod(d time.Duration) {
	if d <= 0 {
		d = DefaultQuietPeriod
	}
	if d == s.quiet {
		return
	}
	s.quiet = d
	if s.armed && !s.closed {
		s.task.Reschedule(s.quiet)
	}
}

// Pending reports whether a re-negotiation is scheduled.
func (s *ReapplyScheduler) Pending() bool {
	return s.armed && !s.closed
}

func (s *ReapplyScheduler) arm() {
	s.armed = true
	s.task.Reschedule(s.quiet)
}

func (s *ReapplyScheduler) fire() {
	if s.closed {
		return
	}
	s.armed = false

	monitor, width := s.target()
	s.logger.Debug("re-negotiating dock",
		"notifications", len(s.pending),
		"monitor", monitor.Name,
		"width", width)
	s.pending = s.pending[:0]

	s.client.Unregister()
	s.client.Register()
	s.client.ApplyDock(monitor, width)
	s.cycles++

	if s.OnCycle != nil {
		s.OnCycle(monitor, width)
	}
}

// Cycles returns how many re-negotiations have run.
func (s *ReapplyScheduler) Cycles() int {
	return s.cycles
}

// Close turns any pending or future expiry into a no-op.
func (s *ReapplyScheduler) Close() {
	s.closed = true
}
