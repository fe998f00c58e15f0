// Package eventloop runs every state-changing operation of the daemon on a
// single goroutine.
package eventloop

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Pinger pairs the loop with an external event dispatcher that runs its own
// callbacks between a Before and an After ping (xgbutil's xevent.MainPing).
// The loop blocks on After once Before fires, so those callbacks never run
// concurrently with loop work.
type Pinger struct {
	Before <-chan struct{}
	After  <-chan struct{}
	Quit   <-chan struct{}
}

// Loop serializes posted functions, timer expiries and external callbacks.
type Loop struct {
	posted chan func()
	logger *slog.Logger
}

// New creates a loop. Post may be called before Run starts.
func New(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		posted: make(chan func(), 64),
		logger: logger,
	}
}

// Post queues fn to run on the loop goroutine. Safe from any goroutine.
func (l *Loop) Post(fn func()) {
	l.posted <- fn
}

// Call runs fn on the loop and waits for it to finish, or for ctx to end.
// When Call returns an error fn has not run and never will. Once fn has
// started, Call waits for it regardless of ctx. It must not be called from
// the loop goroutine itself.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	const (
		queued int32 = iota
		started
		abandoned
	)
	var state atomic.Int32
	done := make(chan struct{})
	select {
	case l.posted <- func() {
		if !state.CompareAndSwap(queued, started) {
			return
		}
		defer close(done)
		fn()
	}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if state.CompareAndSwap(queued, abandoned) {
			return ctx.Err()
		}
		<-done
		return nil
	}
}

// Run processes work until ctx is cancelled or the pinger quits. A nil
// pinger runs the loop on posted work only.
func (l *Loop) Run(ctx context.Context, pinger *Pinger) {
	var before, after, quit <-chan struct{}
	if pinger != nil {
		before, after, quit = pinger.Before, pinger.After, pinger.Quit
	}

	l.logger.Debug("event loop started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("event loop stopped")
			return
		case <-quit:
			l.logger.Debug("event loop stopped", "reason", "dispatcher quit")
			return
		case <-before:
			<-after
		case fn := <-l.posted:
			l.run(fn)
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if err := recover(); err != nil {
			l.logger.Error("event loop panic recovered", "error", err)
		}
	}()
	fn()
}

// NewTask creates an unscheduled task that runs fn on the loop.
func (l *Loop) NewTask(fn func()) *Task {
	return &Task{loop: l, fn: fn}
}

// Task is a reschedulable one-shot timer whose body runs on the loop.
// Reschedule must be called from the loop goroutine.
type Task struct {
	loop  *Loop
	fn    func()
	timer *time.Timer
	gen   uint64
}

// Reschedule moves the task's deadline to d from now. An earlier pending
// deadline never fires.
func (t *Task) Reschedule(d time.Duration) {
	t.gen++
	gen := t.gen
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(d, func() {
		t.loop.Post(func() {
			// A reschedule may have raced with this expiry.
			if t.gen != gen {
				return
			}
			t.fn()
		})
	})
}
