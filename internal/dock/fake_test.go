package dock

import (
	"sort"
	"time"
)

// fakeClock drives fakeTasks deterministically.
type fakeClock struct {
	now   time.Duration
	tasks []*fakeTask
}

type fakeTask struct {
	clock    *fakeClock
	fn       func()
	deadline time.Duration
	armed    bool
}

func (c *fakeClock) newTask(fn func()) Task {
	t := &fakeTask{clock: c, fn: fn}
	c.tasks = append(c.tasks, t)
	return t
}

func (t *fakeTask) Reschedule(d time.Duration) {
	t.deadline = t.clock.now + d
	t.armed = true
}

// Advance moves time forward and fires due tasks in deadline order.
func (c *fakeClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		var due []*fakeTask
		for _, t := range c.tasks {
			if t.armed && t.deadline <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			break
		}
		sort.Slice(due, func(i, j int) bool { return due[i].deadline < due[j].deadline })
		next := due[0]
		c.now = next.deadline
		next.armed = false
		next.fn()
	}
	c.now = target
}
