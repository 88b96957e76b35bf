package daemon

import (
	"context"
	"testing"
	"time"

	"github.com/1broseidon/gridsnap/internal/config"
	"github.com/1broseidon/gridsnap/internal/platform"
	"github.com/1broseidon/gridsnap/internal/platform/platformtest"
)

func TestReconciler_DropsDestroyedWindows(t *testing.T) {
	rec := platformtest.New()
	rec.AddWindow(1, "kept", platform.Bounds{Right: 100, Bottom: 100})
	rec.AddWindow(2, "closed", platform.Bounds{Right: 100, Bottom: 100})
	c := startController(t, config.DefaultConfig(), rec)

	rec.Activate(1)
	if err := c.SetTopMost(true); err != nil {
		t.Fatalf("SetTopMost: %v", err)
	}
	rec.Activate(2)
	if got := c.TrackedWindows(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("tracked = %v", got)
	}

	delete(rec.Windows, 2)
	r := NewReconciler(ReconcilerConfig{Logger: quietLogger()}, c, ProbeFromBackend(rec))
	if dropped := r.ReconcileNow(); dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
	if got := c.TrackedWindows(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("tracked after reconcile = %v", got)
	}
	if c.Snapshot().CurrentWindow != 0 {
		t.Fatal("destroyed window should no longer be current")
	}
}

func TestReconciler_ForgetCancelsPendingRefresh(t *testing.T) {
	rec := platformtest.New()
	rec.AddWindow(5, "styled", platform.Bounds{Right: 100, Bottom: 100})
	cfg := config.DefaultConfig()
	cfg.StyleRefreshDelayMS = 50
	c := startController(t, cfg, rec)
	rec.Activate(5)

	if err := c.SetStyle(platform.StyleUndecorated); err != nil {
		t.Fatalf("SetStyle: %v", err)
	}
	rec.Reset()
	c.Forget(5)

	time.Sleep(100 * time.Millisecond)
	for _, m := range rec.Methods() {
		if m == "SetWindowPos" {
			t.Fatal("refresh ran after the window was forgotten")
		}
	}
}

func TestReconciler_RunStopsOnCancel(t *testing.T) {
	rec := platformtest.New()
	c := startController(t, config.DefaultConfig(), rec)
	r := NewReconciler(ReconcilerConfig{Interval: time.Millisecond, Logger: quietLogger()}, c, ProbeFromBackend(rec))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
