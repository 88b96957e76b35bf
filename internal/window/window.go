// Package window wraps a single top-level window and moves it around the
// screen grid.
//
// A Window refers to a window owned by the window system. Every geometry
// read goes to the backend; nothing but the screen dimensions is cached.
package window

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/1broseidon/gridsnap/internal/grid"
	"github.com/1broseidon/gridsnap/internal/platform"
)

// ErrScreenDimensionsNotSet is returned by clip operations on a Window whose
// screen dimensions were never set. No native call is made in that case.
var ErrScreenDimensionsNotSet = errors.New("screen dimensions not set, call SetScreenDimension first")

// ErrInvalidScreenDimensions is returned by clip operations when the stored
// screen dimensions are not both positive.
var ErrInvalidScreenDimensions = errors.New("screen dimensions must be positive")

// DefaultRefreshDelay is how long SetStyle waits before re-showing the window.
const DefaultRefreshDelay = 10 * time.Millisecond

// Window is a handle to one window.
type Window struct {
	id      platform.WindowID
	backend platform.Backend
	calc    grid.Calculator
	delay   time.Duration
	logger  *slog.Logger

	dims    grid.Dimensions
	hasDims bool

	mu      sync.Mutex
	refresh *time.Timer
	closed  bool
}

// Option configures a Window.
type Option func(*Window)

// WithCalculator replaces the default grid calculator.
func WithCalculator(c grid.Calculator) Option {
	return func(w *Window) { w.calc = c }
}

// WithRefreshDelay sets the delay between a style change and the redraw.
func WithRefreshDelay(d time.Duration) Option {
	return func(w *Window) {
		if d >= 0 {
			w.delay = d
		}
	}
}

// WithLogger sets the logger used by the deferred style refresh.
func WithLogger(l *slog.Logger) Option {
	return func(w *Window) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a handle for id. The screen dimensions start unset.
func New(backend platform.Backend, id platform.WindowID, opts ...Option) *Window {
	w := &Window{
		id:      id,
		backend: backend,
		calc:    grid.Default(),
		delay:   DefaultRefreshDelay,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Window) ID() platform.WindowID { return w.id }

// SetScreenDimension stores the size of the screen the grid is computed for.
func (w *Window) SetScreenDimension(d grid.Dimensions) {
	w.dims = d
	w.hasDims = true
}

// ScreenDimension returns the stored dimensions and whether they were set.
func (w *Window) ScreenDimension() (grid.Dimensions, bool) {
	return w.dims, w.hasDims
}

func (w *Window) checkDim() error {
	if !w.hasDims {
		return errors.WithStack(ErrScreenDimensionsNotSet)
	}
	if !w.dims.Valid() {
		return errors.Wrapf(ErrInvalidScreenDimensions, "got %dx%d", w.dims.Width, w.dims.Height)
	}
	return nil
}

func (w *Window) Bounds() (platform.Bounds, error) {
	return w.backend.WindowBounds(w.id)
}

func (w *Window) Width() (int, error) {
	b, err := w.Bounds()
	if err != nil {
		return 0, err
	}
	return b.Width(), nil
}

func (w *Window) Height() (int, error) {
	b, err := w.Bounds()
	if err != nil {
		return 0, err
	}
	return b.Height(), nil
}

func (w *Window) Title() (string, error) {
	return w.backend.WindowTitle(w.id)
}

func (w *Window) Style() (int, error) {
	return w.backend.WindowLong(w.id, platform.IndexStyle)
}

// Move restores the window, then places it at r.
func (w *Window) Move(r grid.Rect) error {
	if err := w.Restore(); err != nil {
		return err
	}
	return w.backend.SetWindowPos(w.id, platform.ZOrderNone, r.Left, r.Top, r.Width, r.Height, 0)
}

// SetPosition moves the window to left/top keeping its current size.
func (w *Window) SetPosition(left, top int) error {
	b, err := w.Bounds()
	if err != nil {
		return err
	}
	return w.backend.SetWindowPos(w.id, platform.ZOrderNone, left, top, b.Width(), b.Height(), 0)
}

// Target returns the rectangle cell would move the window to, along with the
// window's current bounds.
func (w *Window) Target(cell grid.Cell) (grid.Rect, platform.Bounds, error) {
	if !cell.Valid() {
		return grid.Rect{}, platform.Bounds{}, errors.Errorf("unknown grid cell %d", int(cell))
	}
	if err := w.checkDim(); err != nil {
		return grid.Rect{}, platform.Bounds{}, err
	}
	b, err := w.Bounds()
	if err != nil {
		return grid.Rect{}, platform.Bounds{}, err
	}
	return w.calc.Target(cell, w.dims, b.Left), b, nil
}

// Clip moves the window into cell. Clipping into Mid when the window already
// occupies exactly the mid cell maximizes it instead.
func (w *Window) Clip(cell grid.Cell) error {
	target, current, err := w.Target(cell)
	if err != nil {
		return err
	}
	if cell == grid.Mid {
		now := grid.Rect{
			Left:   current.Left,
			Top:    current.Top,
			Width:  current.Width(),
			Height: current.Height(),
		}
		if now == target {
			return w.Maximize()
		}
	}
	return w.Move(target)
}

func (w *Window) ClipTopLeft() error     { return w.Clip(grid.TopLeft) }
func (w *Window) ClipMidTop() error      { return w.Clip(grid.MidTop) }
func (w *Window) ClipTopRight() error    { return w.Clip(grid.TopRight) }
func (w *Window) ClipMidLeft() error     { return w.Clip(grid.MidLeft) }
func (w *Window) ClipMid() error         { return w.Clip(grid.Mid) }
func (w *Window) ClipMidRight() error    { return w.Clip(grid.MidRight) }
func (w *Window) ClipBottomLeft() error  { return w.Clip(grid.BottomLeft) }
func (w *Window) ClipMidBottom() error   { return w.Clip(grid.MidBottom) }
func (w *Window) ClipBottomRight() error { return w.Clip(grid.BottomRight) }

func (w *Window) SetState(state platform.WindowState) error {
	return w.backend.SetWindowState(w.id, state)
}

func (w *Window) Show() error     { return w.SetState(platform.StateShow) }
func (w *Window) Hide() error     { return w.SetState(platform.StateHide) }
func (w *Window) Minimize() error { return w.SetState(platform.StateMinimize) }
func (w *Window) Restore() error  { return w.SetState(platform.StateRestore) }
func (w *Window) Maximize() error { return w.SetState(platform.StateMaximize) }

// SetTopMost keeps the window above (toggle=true) or releases it, leaving
// its geometry unchanged.
func (w *Window) SetTopMost(toggle bool, flags platform.PosFlags) error {
	b, err := w.Bounds()
	if err != nil {
		return err
	}
	z := platform.ZOrderNotTopMost
	if toggle {
		z = platform.ZOrderTopMost
	}
	return w.backend.SetWindowPos(w.id, z, b.Left, b.Top, b.Width(), b.Height(), flags)
}

// SetStyle applies style and schedules a redraw at the pre-change bounds.
// The redraw runs after the refresh delay and is not waited for; a later
// SetStyle or Close cancels a redraw that has not run yet.
func (w *Window) SetStyle(style int) error {
	b, err := w.Bounds()
	if err != nil {
		return err
	}
	if err := w.backend.SetWindowLong(w.id, platform.IndexStyle, style); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	if w.refresh != nil {
		w.refresh.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		if w.closed || w.refresh != t {
			w.mu.Unlock()
			return
		}
		w.refresh = nil
		w.mu.Unlock()

		err := w.backend.SetWindowPos(w.id, platform.ZOrderNone, b.Left, b.Top, b.Width(), b.Height(), platform.PosShowWindow)
		if err != nil {
			w.logger.Warn("style refresh failed", "window", w.id, "error", err)
		}
	})
	w.refresh = t
	return nil
}

// RefreshPending reports whether a style redraw is scheduled.
func (w *Window) RefreshPending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.refresh != nil
}

// Close cancels any pending style redraw. The window itself is untouched.
func (w *Window) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.refresh != nil {
		w.refresh.Stop()
		w.refresh = nil
	}
}
