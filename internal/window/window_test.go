package window

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/1broseidon/gridsnap/internal/grid"
	"github.com/1broseidon/gridsnap/internal/platform"
	"github.com/1broseidon/gridsnap/internal/platform/platformtest"
)

var fullHD = grid.Dimensions{Width: 1920, Height: 1080}

func newTestWindow(t *testing.T, b platform.Bounds, opts ...Option) (*Window, *platformtest.Recorder) {
	t.Helper()
	rec := platformtest.New()
	id := rec.AddWindow(42, "editor", b)
	w := New(rec, id, opts...)
	t.Cleanup(w.Close)
	return w, rec
}

func TestScreenDimensionRoundTrip(t *testing.T) {
	w, _ := newTestWindow(t, platform.Bounds{})
	if _, ok := w.ScreenDimension(); ok {
		t.Fatal("new window should not have screen dimensions")
	}

	w.SetScreenDimension(fullHD)
	got, ok := w.ScreenDimension()
	if !ok || got != fullHD {
		t.Fatalf("ScreenDimension() = %+v, %v; want %+v, true", got, ok, fullHD)
	}
}

func TestClipWithoutDimensionsMakesNoNativeCalls(t *testing.T) {
	w, rec := newTestWindow(t, platform.Bounds{Left: 10, Top: 10, Right: 110, Bottom: 110})

	clips := map[string]func() error{
		"top-left":     w.ClipTopLeft,
		"mid-top":      w.ClipMidTop,
		"top-right":    w.ClipTopRight,
		"mid-left":     w.ClipMidLeft,
		"mid":          w.ClipMid,
		"mid-right":    w.ClipMidRight,
		"bottom-left":  w.ClipBottomLeft,
		"mid-bottom":   w.ClipMidBottom,
		"bottom-right": w.ClipBottomRight,
	}
	for name, clip := range clips {
		err := clip()
		if !errors.Is(err, ErrScreenDimensionsNotSet) {
			t.Fatalf("%s: expected ErrScreenDimensionsNotSet, got %v", name, err)
		}
	}
	if calls := rec.Calls(); len(calls) != 0 {
		t.Fatalf("expected no native calls, got %v", rec.Methods())
	}
}

func TestClipWithZeroDimensionsFailsWithoutNativeCalls(t *testing.T) {
	w, rec := newTestWindow(t, platform.Bounds{Left: 10, Top: 10, Right: 110, Bottom: 110})
	w.SetScreenDimension(grid.Dimensions{})

	err := w.ClipTopLeft()
	if !errors.Is(err, ErrInvalidScreenDimensions) {
		t.Fatalf("expected ErrInvalidScreenDimensions, got %v", err)
	}
	if calls := rec.Calls(); len(calls) != 0 {
		t.Fatalf("expected no native calls, got %v", rec.Methods())
	}
}

func TestClipUnknownCellIsRejected(t *testing.T) {
	w, rec := newTestWindow(t, platform.Bounds{Left: 10, Top: 10, Right: 110, Bottom: 110})
	w.SetScreenDimension(fullHD)

	if err := w.Clip(grid.Cell(42)); err == nil {
		t.Fatal("expected error for an unknown cell")
	}
	if calls := rec.Calls(); len(calls) != 0 {
		t.Fatalf("expected no native calls, got %v", rec.Methods())
	}
}

func TestMoveRestoresBeforePositioning(t *testing.T) {
	w, rec := newTestWindow(t, platform.Bounds{Left: 0, Top: 0, Right: 100, Bottom: 100})

	target := grid.Rect{Left: 5, Top: 6, Width: 300, Height: 200}
	if err := w.Move(target); err != nil {
		t.Fatalf("Move: %v", err)
	}

	calls := rec.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %v", rec.Methods())
	}
	if calls[0].Method != "SetWindowState" || calls[0].State != platform.StateRestore {
		t.Fatalf("first call = %+v, want restore", calls[0])
	}
	want := platform.Rect{X: 5, Y: 6, Width: 300, Height: 200}
	if calls[1].Method != "SetWindowPos" || calls[1].Rect != want || calls[1].ZOrder != platform.ZOrderNone {
		t.Fatalf("second call = %+v, want SetWindowPos %+v", calls[1], want)
	}
}

func TestClipTopLeft_FullHD(t *testing.T) {
	w, rec := newTestWindow(t, platform.Bounds{Left: 0, Top: 100, Right: 800, Bottom: 700})
	w.SetScreenDimension(fullHD)

	if err := w.ClipTopLeft(); err != nil {
		t.Fatalf("ClipTopLeft: %v", err)
	}

	calls := rec.Calls()
	last := calls[len(calls)-1]
	want := platform.Rect{X: -7, Y: 0, Width: 661, Height: 360}
	if last.Method != "SetWindowPos" || last.Rect != want {
		t.Fatalf("last call = %+v, want SetWindowPos %+v", last, want)
	}
}

func TestClipUsesMonitorOfCurrentPosition(t *testing.T) {
	w, rec := newTestWindow(t, platform.Bounds{Left: 2000, Top: 0, Right: 2500, Bottom: 400})
	w.SetScreenDimension(fullHD)

	if err := w.ClipBottomRight(); err != nil {
		t.Fatalf("ClipBottomRight: %v", err)
	}

	calls := rec.Calls()
	last := calls[len(calls)-1]
	want := platform.Rect{X: 1920 + 1266, Y: 713, Width: 661, Height: 333}
	if last.Rect != want {
		t.Fatalf("moved to %+v, want %+v", last.Rect, want)
	}
}

func TestClipMid_TogglesMaximizeOnlyWhenAlreadyInPlace(t *testing.T) {
	mid := grid.Default().Target(grid.Mid, fullHD, 0)
	w, rec := newTestWindow(t, platform.Bounds{Left: 0, Top: 0, Right: 500, Bottom: 500})
	w.SetScreenDimension(fullHD)

	if err := w.ClipMid(); err != nil {
		t.Fatalf("first ClipMid: %v", err)
	}
	for _, c := range rec.Calls() {
		if c.Method == "SetWindowState" && c.State == platform.StateMaximize {
			t.Fatal("first ClipMid must move, not maximize")
		}
	}

	b, _ := w.Bounds()
	if b.Left != mid.Left || b.Top != mid.Top || b.Width() != mid.Width || b.Height() != mid.Height {
		t.Fatalf("window at %+v after ClipMid, want %+v", b, mid)
	}

	rec.Reset()
	if err := w.ClipMid(); err != nil {
		t.Fatalf("second ClipMid: %v", err)
	}
	calls := rec.Calls()
	last := calls[len(calls)-1]
	if last.Method != "SetWindowState" || last.State != platform.StateMaximize {
		t.Fatalf("second ClipMid last call = %+v, want maximize", last)
	}
	for _, c := range calls {
		if c.Method == "SetWindowPos" {
			t.Fatalf("second ClipMid must not move, got %v", rec.Methods())
		}
	}
}

func TestClipMid_OffByOneStillMoves(t *testing.T) {
	mid := grid.Default().Target(grid.Mid, fullHD, 0)
	w, rec := newTestWindow(t, platform.Bounds{
		Left:   mid.Left,
		Top:    mid.Top,
		Right:  mid.Left + mid.Width + 1,
		Bottom: mid.Top + mid.Height,
	})
	w.SetScreenDimension(fullHD)

	if err := w.ClipMid(); err != nil {
		t.Fatalf("ClipMid: %v", err)
	}
	calls := rec.Calls()
	if last := calls[len(calls)-1]; last.Method != "SetWindowPos" {
		t.Fatalf("expected move, got %v", rec.Methods())
	}
}

func TestSetTopMostPreservesSize(t *testing.T) {
	w, rec := newTestWindow(t, platform.Bounds{Left: 30, Top: 40, Right: 830, Bottom: 640})

	if err := w.SetTopMost(true, 0); err != nil {
		t.Fatalf("SetTopMost(true): %v", err)
	}
	if err := w.SetTopMost(false, 0); err != nil {
		t.Fatalf("SetTopMost(false): %v", err)
	}

	var pos []platformtest.Call
	for _, c := range rec.Calls() {
		if c.Method == "SetWindowPos" {
			pos = append(pos, c)
		}
	}
	if len(pos) != 2 {
		t.Fatalf("expected 2 SetWindowPos calls, got %v", rec.Methods())
	}
	want := platform.Rect{X: 30, Y: 40, Width: 800, Height: 600}
	if pos[0].ZOrder != platform.ZOrderTopMost || pos[0].Rect != want {
		t.Fatalf("topmost call = %+v", pos[0])
	}
	if pos[1].ZOrder != platform.ZOrderNotTopMost || pos[1].Rect != want {
		t.Fatalf("not-topmost call = %+v", pos[1])
	}
}

func TestSetStyleSchedulesRefresh(t *testing.T) {
	w, rec := newTestWindow(t, platform.Bounds{Left: 1, Top: 2, Right: 101, Bottom: 202}, WithRefreshDelay(time.Millisecond))

	if err := w.SetStyle(platform.StyleUndecorated); err != nil {
		t.Fatalf("SetStyle: %v", err)
	}
	style, err := w.Style()
	if err != nil || style != platform.StyleUndecorated {
		t.Fatalf("Style() = %d, %v", style, err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		var refresh *platformtest.Call
		for _, c := range rec.Calls() {
			if c.Method == "SetWindowPos" {
				c := c
				refresh = &c
			}
		}
		if refresh != nil {
			want := platform.Rect{X: 1, Y: 2, Width: 100, Height: 200}
			if refresh.Rect != want || refresh.Flags&platform.PosShowWindow == 0 {
				t.Fatalf("refresh call = %+v", *refresh)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("style refresh never ran")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if w.RefreshPending() {
		t.Fatal("refresh should no longer be pending")
	}
}

func TestCloseCancelsPendingRefresh(t *testing.T) {
	w, rec := newTestWindow(t, platform.Bounds{Right: 100, Bottom: 100}, WithRefreshDelay(50*time.Millisecond))

	if err := w.SetStyle(platform.StyleDecorated); err != nil {
		t.Fatalf("SetStyle: %v", err)
	}
	if !w.RefreshPending() {
		t.Fatal("expected a pending refresh")
	}
	w.Close()
	if w.RefreshPending() {
		t.Fatal("Close should cancel the pending refresh")
	}

	time.Sleep(120 * time.Millisecond)
	for _, c := range rec.Calls() {
		if c.Method == "SetWindowPos" {
			t.Fatalf("refresh ran after Close: %v", rec.Methods())
		}
	}
}

func TestNativeErrorsPassThrough(t *testing.T) {
	w, rec := newTestWindow(t, platform.Bounds{})
	w.SetScreenDimension(fullHD)
	boom := fmt.Errorf("BadWindow")
	rec.Err = boom

	if err := w.ClipTopLeft(); err != boom {
		t.Fatalf("ClipTopLeft error = %v, want the backend error unchanged", err)
	}
	if _, err := w.Title(); err != boom {
		t.Fatalf("Title error = %v, want the backend error unchanged", err)
	}
	if err := w.SetStyle(0); err != boom {
		t.Fatalf("SetStyle error = %v, want the backend error unchanged", err)
	}
	if w.RefreshPending() {
		t.Fatal("failed SetStyle must not schedule a refresh")
	}
}

func TestStateWrappers(t *testing.T) {
	w, rec := newTestWindow(t, platform.Bounds{})
	ops := []struct {
		fn   func() error
		want platform.WindowState
	}{
		{w.Show, platform.StateShow},
		{w.Hide, platform.StateHide},
		{w.Minimize, platform.StateMinimize},
		{w.Restore, platform.StateRestore},
		{w.Maximize, platform.StateMaximize},
	}
	for _, op := range ops {
		if err := op.fn(); err != nil {
			t.Fatalf("%s: %v", op.want, err)
		}
	}
	calls := rec.Calls()
	if len(calls) != len(ops) {
		t.Fatalf("expected %d calls, got %v", len(ops), rec.Methods())
	}
	for i, op := range ops {
		if calls[i].State != op.want {
			t.Fatalf("call %d state = %s, want %s", i, calls[i].State, op.want)
		}
	}
}

func TestSetPositionKeepsSize(t *testing.T) {
	w, rec := newTestWindow(t, platform.Bounds{Left: 0, Top: 0, Right: 640, Bottom: 480})
	if err := w.SetPosition(100, 50); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	calls := rec.Calls()
	last := calls[len(calls)-1]
	want := platform.Rect{X: 100, Y: 50, Width: 640, Height: 480}
	if last.Rect != want {
		t.Fatalf("SetPosition moved to %+v, want %+v", last.Rect, want)
	}
}
