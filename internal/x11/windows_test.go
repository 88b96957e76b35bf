package x11

import (
	"errors"
	"testing"
)

func TestExtentsClientSize(t *testing.T) {
	tests := []struct {
		name    string
		extents Extents
		w, h    int
		wantW   int
		wantH   int
	}{
		{
			name:  "no decorations",
			w:     640,
			h:     367,
			wantW: 640,
			wantH: 367,
		},
		{
			name:    "border and title bar",
			extents: Extents{Left: 1, Right: 1, Top: 30, Bottom: 1},
			w:       640,
			h:       367,
			wantW:   638,
			wantH:   335,
		},
		{
			name:    "frame smaller than decorations",
			extents: Extents{Left: 10, Right: 10, Top: 10, Bottom: 10},
			w:       5,
			h:       5,
			wantW:   1,
			wantH:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.extents.ClientSize(tt.w, tt.h)
			if w != tt.wantW || h != tt.wantH {
				t.Fatalf("ClientSize(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

// A frame placed with the converted client size reads back as the requested
// frame, which is what the mid-cell maximize toggle compares against.
func TestExtentsClientSizeRoundTripsFrame(t *testing.T) {
	e := Extents{Left: 1, Right: 1, Top: 30, Bottom: 1}
	cw, ch := e.ClientSize(640, 367)
	if got := cw + e.Left + e.Right; got != 640 {
		t.Fatalf("frame width = %d, want 640", got)
	}
	if got := ch + e.Top + e.Bottom; got != 367 {
		t.Fatalf("frame height = %d, want 367", got)
	}
}

func TestMoveResizeFallback(t *testing.T) {
	errEWMH := errors.New("no window manager")
	errConfigure := errors.New("bad window")
	ok := func() error { return nil }

	fallbackRan := false
	if err := moveResize(7, ok, func() error { fallbackRan = true; return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fallbackRan {
		t.Fatal("fallback should not run when the request succeeds")
	}

	if err := moveResize(7, func() error { return errEWMH }, ok); err != nil {
		t.Fatalf("fallback success should clear the error, got %v", err)
	}

	err := moveResize(7, func() error { return errEWMH }, func() error { return errConfigure })
	if !errors.Is(err, errEWMH) {
		t.Fatalf("expected the request error to pass through, got %v", err)
	}
}
