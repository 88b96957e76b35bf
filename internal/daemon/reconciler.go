package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/gridsnap/internal/platform"
)

// WindowProbe reports whether a window still exists.
type WindowProbe func(id platform.WindowID) bool

// ProbeFromBackend treats any failure to read a window's bounds as the
// window being gone.
func ProbeFromBackend(backend platform.Backend) WindowProbe {
	return func(id platform.WindowID) bool {
		_, err := backend.WindowBounds(id)
		return err == nil
	}
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically drops controller state for windows that were
// destroyed without a new activation replacing them.
type Reconciler struct {
	interval time.Duration
	ctrl     *Controller
	probe    WindowProbe
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, ctrl *Controller, probe WindowProbe) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval: interval,
		ctrl:     ctrl,
		probe:    probe,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single pass and returns how many windows it dropped.
func (r *Reconciler) reconcile() (dropped int) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	for _, id := range r.ctrl.TrackedWindows() {
		if r.probe(id) {
			continue
		}
		r.logger.Info("reconciler: tracked window is gone", "window", id)
		r.ctrl.Forget(id)
		dropped++
	}
	return dropped
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() int {
	return r.reconcile()
}
