package dock

import (
	"testing"
	"time"

	"github.com/1broseidon/checkbar/internal/platform"
	"github.com/1broseidon/checkbar/internal/platform/platformtest"
)

type schedulerFixture struct {
	shell  *platformtest.Shell
	client *Client
	clock  *fakeClock
	sched  *ReapplyScheduler
	width  int
}

func newSchedulerFixture(t *testing.T) *schedulerFixture {
	t.Helper()
	f := &schedulerFixture{
		shell: platformtest.New(primary()),
		clock: &fakeClock{},
		width: 400,
	}
	f.client = newTestClient(f.shell)
	f.sched = NewReapplyScheduler(f.client, func() (platform.Monitor, int) {
		return primary(), f.width
	}, f.clock.newTask, DefaultQuietPeriod, nil)
	f.client.Register()
	f.client.ApplyDock(primary(), f.width)
	f.shell.Reset()
	return f
}

func TestReapply_BurstCollapsesToOneCycle(t *testing.T) {
	f := newSchedulerFixture(t)

	kinds := []platform.NotificationKind{
		platform.DisplayTopologyChanged,
		platform.SettingChanged,
		platform.ReservationPositionChanged,
		platform.DisplayTopologyChanged,
		platform.DPIChanged,
	}
	for _, k := range kinds {
		f.shell.Fire(DefaultChannel, platform.Notification{Kind: k})
		f.clock.Advance(50 * time.Millisecond)
	}
	if got := f.sched.Cycles(); got != 0 {
		t.Fatalf("cycles during burst = %d, want 0", got)
	}

	f.clock.Advance(DefaultQuietPeriod)
	if got := f.sched.Cycles(); got != 1 {
		t.Fatalf("cycles after burst = %d, want 1", got)
	}
	if n := f.shell.Count("unregister"); n != 1 {
		t.Fatalf("unregister calls = %d, want 1", n)
	}
	if n := f.shell.Count("register"); n != 1 {
		t.Fatalf("register calls = %d, want 1", n)
	}
	if len(f.shell.Commits) != 1 {
		t.Fatalf("commits = %d, want 1", len(f.shell.Commits))
	}
}

func TestReapply_SpacedNotificationsEachCycle(t *testing.T) {
	f := newSchedulerFixture(t)

	for i := 0; i < 4; i++ {
		f.shell.Fire(DefaultChannel, platform.Notification{Kind: platform.DisplayTopologyChanged})
		f.clock.Advance(DefaultQuietPeriod + 10*time.Millisecond)
	}
	if got := f.sched.Cycles(); got != 4 {
		t.Fatalf("cycles = %d, want 4", got)
	}
}

func TestReapply_UsesLatestTarget(t *testing.T) {
	f := newSchedulerFixture(t)

	f.shell.Fire(DefaultChannel, platform.Notification{Kind: platform.DisplayTopologyChanged})
	f.width = 520
	f.clock.Advance(DefaultQuietPeriod)

	if got := f.client.State().Committed.Width; got != 520 {
		t.Fatalf("committed width = %d, want 520", got)
	}
}

func TestReapply_DPISuggestionAppliedBeforeRedock(t *testing.T) {
	f := newSchedulerFixture(t)

	suggested := platform.RectFromEdges(1320, 0, 1920, 1080)
	f.shell.Fire(DefaultChannel, platform.Notification{Kind: platform.DPIChanged, Suggested: &suggested})

	if len(f.shell.Placements) != 1 || f.shell.Placements[0] != suggested {
		t.Fatalf("placements before re-dock = %+v, want [%+v]", f.shell.Placements, suggested)
	}

	f.clock.Advance(DefaultQuietPeriod)

	if len(f.shell.Placements) != 2 {
		t.Fatalf("placements = %+v, want suggestion then re-dock", f.shell.Placements)
	}
	placeIdx, registerIdx := -1, -1
	for i, c := range f.shell.Calls {
		if c == "place 44040195" && placeIdx < 0 {
			placeIdx = i
		}
		if c == "register 44040195" && registerIdx < 0 {
			registerIdx = i
		}
	}
	if placeIdx < 0 || registerIdx < 0 || placeIdx > registerIdx {
		t.Fatalf("suggested placement did not precede negotiation: %v", f.shell.Calls)
	}
}

func TestReapply_ReRegistrationKeepsNotificationsFlowing(t *testing.T) {
	f := newSchedulerFixture(t)

	f.shell.Fire(DefaultChannel, platform.Notification{Kind: platform.DisplayTopologyChanged})
	f.clock.Advance(DefaultQuietPeriod)
	if n := f.shell.Subscribers(DefaultChannel); n != 1 {
		t.Fatalf("subscribers after cycle = %d, want 1", n)
	}

	f.shell.Fire(DefaultChannel, platform.Notification{Kind: platform.ReservationPositionChanged})
	f.clock.Advance(DefaultQuietPeriod)
	if got := f.sched.Cycles(); got != 2 {
		t.Fatalf("cycles = %d, want 2", got)
	}
}

func TestReapply_CloseDropsPendingCycle(t *testing.T) {
	f := newSchedulerFixture(t)

	f.shell.Fire(DefaultChannel, platform.Notification{Kind: platform.DisplayTopologyChanged})
	f.sched.Close()
	f.clock.Advance(time.Second)

	if got := f.sched.Cycles(); got != 0 {
		t.Fatalf("cycles after Close = %d, want 0", got)
	}
}

func TestReapply_SetQuietPeriodKeepsPendingCycle(t *testing.T) {
	f := newSchedulerFixture(t)

	f.shell.Fire(DefaultChannel, platform.Notification{Kind: platform.DisplayTopologyChanged})
	f.clock.Advance(100 * time.Millisecond)
	f.sched.SetQuietPeriod(500 * time.Millisecond)
	if !f.sched.Pending() {
		t.Fatal("Pending() = false after quiet period change")
	}

	f.clock.Advance(DefaultQuietPeriod)
	if got := f.sched.Cycles(); got != 0 {
		t.Fatalf("cycles before new quiet period elapsed = %d, want 0", got)
	}
	f.clock.Advance(500 * time.Millisecond)
	if got := f.sched.Cycles(); got != 1 {
		t.Fatalf("cycles = %d, want 1", got)
	}
	if f.sched.Pending() {
		t.Fatal("Pending() = true after the cycle ran")
	}
}
