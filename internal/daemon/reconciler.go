package daemon

import (
	"context"
	"log/slog"
	"time"
)

// DriftChecker is what the reconciler inspects. *Sidebar satisfies it.
type DriftChecker interface {
	NeedsRedock() bool
	RequestRedock()
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	// Post runs fn on the goroutine that owns the sidebar state.
	Post   func(fn func())
	Logger *slog.Logger
}

// Reconciler periodically checks that the reservation still matches the
// target and schedules a re-dock when it drifted without a notification,
// e.g. when a window manager restarts and forgets the strut.
type Reconciler struct {
	interval time.Duration
	post     func(fn func())
	target   DriftChecker
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, target DriftChecker) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	post := cfg.Post
	if post == nil {
		post = func(fn func()) { fn() }
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Reconciler{
		interval: interval,
		post:     post,
		target:   target,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Debug("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("reconciler stopped")
			return
		case <-ticker.C:
			r.post(r.reconcile)
		}
	}
}

// reconcile performs a single pass. It must run on the owning goroutine.
func (r *Reconciler) reconcile() {
	if !r.target.NeedsRedock() {
		return
	}
	r.logger.Info("reservation drift detected, re-docking")
	r.target.RequestRedock()
}

// ReconcileNow performs a pass on the calling goroutine.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}
