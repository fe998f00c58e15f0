// Package platformtest provides an in-memory platform.Shell for tests.
package platformtest

import (
	"fmt"

	"github.com/1broseidon/checkbar/internal/platform"
)

// Shell is a scriptable platform.Shell that records every call.
type Shell struct {
	MonitorList []platform.Monitor
	MonitorsErr error

	Primary    platform.Rect
	PrimaryErr error

	Nearest    platform.MonitorID
	NearestErr error

	RegisterErr error
	QueryErr    error
	CommitErr   error
	PlaceErr    error

	// Adjust rewrites a proposal the way a shell would. Nil returns the
	// proposal unchanged.
	Adjust func(proposed platform.Rect, edge platform.Edge) platform.Rect

	Registered map[platform.WindowID]string
	Calls      []string
	Proposals  []platform.Rect
	Commits    []platform.Rect
	Placements []platform.Rect

	subs   map[string]map[int]func(platform.Notification)
	nextID int
}

var _ platform.Shell = (*Shell)(nil)

// New returns a shell exposing monitors.
func New(monitors ...platform.Monitor) *Shell {
	return &Shell{
		MonitorList: monitors,
		Registered:  make(map[platform.WindowID]string),
		subs:        make(map[string]map[int]func(platform.Notification)),
	}
}

func (s *Shell) record(format string, args ...any) {
	s.Calls = append(s.Calls, fmt.Sprintf(format, args...))
}

func (s *Shell) Monitors() ([]platform.Monitor, error) {
	if s.MonitorsErr != nil {
		return nil, s.MonitorsErr
	}
	out := make([]platform.Monitor, len(s.MonitorList))
	copy(out, s.MonitorList)
	return out, nil
}

func (s *Shell) PrimaryScreen() (platform.Rect, error) {
	return s.Primary, s.PrimaryErr
}

func (s *Shell) NearestMonitor(win platform.WindowID) (platform.MonitorID, error) {
	return s.Nearest, s.NearestErr
}

func (s *Shell) RegisterReservation(win platform.WindowID, channel string) error {
	s.record("register %d", win)
	if s.RegisterErr != nil {
		return s.RegisterErr
	}
	s.Registered[win] = channel
	return nil
}

func (s *Shell) UnregisterReservation(win platform.WindowID) error {
	s.record("unregister %d", win)
	delete(s.Registered, win)
	return nil
}

func (s *Shell) QueryAdjustedPosition(win platform.WindowID, proposed platform.Rect, edge platform.Edge) (platform.Rect, error) {
	s.record("query %d", win)
	s.Proposals = append(s.Proposals, proposed)
	if s.QueryErr != nil {
		return platform.Rect{}, s.QueryErr
	}
	if s.Adjust != nil {
		return s.Adjust(proposed, edge), nil
	}
	return proposed, nil
}

func (s *Shell) CommitPosition(win platform.WindowID, rect platform.Rect, edge platform.Edge) error {
	s.record("commit %d", win)
	if s.CommitErr != nil {
		return s.CommitErr
	}
	s.Commits = append(s.Commits, rect)
	return nil
}

func (s *Shell) PlaceWindow(win platform.WindowID, rect platform.Rect) error {
	s.record("place %d", win)
	if s.PlaceErr != nil {
		return s.PlaceErr
	}
	s.Placements = append(s.Placements, rect)
	return nil
}

func (s *Shell) Subscribe(channel string, fn func(platform.Notification)) func() {
	if s.subs == nil {
		s.subs = make(map[string]map[int]func(platform.Notification))
	}
	if s.subs[channel] == nil {
		s.subs[channel] = make(map[int]func(platform.Notification))
	}
	id := s.nextID
	s.nextID++
	s.subs[channel][id] = fn
	return func() { delete(s.subs[channel], id) }
}

// Subscribers returns the number of live subscriptions on channel.
func (s *Shell) Subscribers(channel string) int {
	return len(s.subs[channel])
}

// Fire delivers n to every subscriber of channel.
func (s *Shell) Fire(channel string, n platform.Notification) {
	for _, fn := range s.subs[channel] {
		fn(n)
	}
}

// Count returns how many recorded calls start with prefix.
func (s *Shell) Count(prefix string) int {
	n := 0
	for _, c := range s.Calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// Reset clears recorded calls, proposals, commits and placements.
func (s *Shell) Reset() {
	s.Calls = nil
	s.Proposals = nil
	s.Commits = nil
	s.Placements = nil
}

// Monitor builds a monitor whose work area equals its bounds.
func Monitor(id platform.MonitorID, name string, bounds platform.Rect, primary bool) platform.Monitor {
	return platform.Monitor{
		ID:       id,
		Name:     name,
		Bounds:   bounds,
		WorkArea: bounds,
		Primary:  primary,
		ScaleX:   1,
		ScaleY:   1,
	}
}
