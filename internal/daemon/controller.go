package daemon

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/1broseidon/gridsnap/internal/activation"
	"github.com/1broseidon/gridsnap/internal/config"
	"github.com/1broseidon/gridsnap/internal/grid"
	"github.com/1broseidon/gridsnap/internal/platform"
	"github.com/1broseidon/gridsnap/internal/window"
)

// Controller tracks the focused window and applies grid operations to it.
type Controller struct {
	backend  platform.Backend
	registry *activation.Registry
	logger   *slog.Logger

	mu          sync.Mutex
	cfg         *config.Config
	dims        grid.Dimensions
	current     *window.Window
	topMost     map[platform.WindowID]bool
	activations int
	sub         activation.Subscription
}

// NewController creates a controller. Call Start to begin tracking focus.
func NewController(cfg *config.Config, backend platform.Backend, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		backend: backend,
		logger:  logger,
		cfg:     cfg,
		topMost: make(map[platform.WindowID]bool),
	}
	c.registry = activation.NewRegistry(backend, c.windowOptions(cfg)...)
	return c
}

// Registry exposes the activation registry for additional listeners.
func (c *Controller) Registry() *activation.Registry {
	return c.registry
}

// Start resolves the screen size, subscribes to activations and attaches the
// registry to the backend's event source.
func (c *Controller) Start() error {
	dims, err := c.resolveDimensions(c.cfg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.dims = dims
	c.mu.Unlock()
	c.logger.Info("screen dimensions resolved", "width", dims.Width, "height", dims.Height)

	if displays, err := c.backend.Displays(); err == nil {
		for _, warning := range monitorLayoutWarnings(displays, dims) {
			c.logger.Warn("grid may misplace windows", "reason", warning)
		}
	}

	c.sub = c.registry.Register(c.onActivate)
	if err := c.registry.Listen(c.backend); err != nil {
		c.registry.Unregister(c.sub)
		return fmt.Errorf("failed to watch window activation: %w", err)
	}
	return nil
}

// Close cancels pending work on the tracked window and stops listening.
func (c *Controller) Close() {
	c.registry.Unregister(c.sub)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.Close()
		c.current = nil
	}
}

func (c *Controller) windowOptions(cfg *config.Config) []window.Option {
	return []window.Option{
		window.WithCalculator(cfg.Calculator()),
		window.WithRefreshDelay(cfg.StyleRefreshDelay()),
		window.WithLogger(c.logger),
	}
}

func (c *Controller) resolveDimensions(cfg *config.Config) (grid.Dimensions, error) {
	if dims, ok := cfg.ScreenDimensions(); ok {
		return dims, nil
	}
	display, err := c.backend.PrimaryDisplay()
	if err != nil {
		return grid.Dimensions{}, fmt.Errorf("failed to detect screen size: %w", err)
	}
	dims := grid.Dimensions{Width: display.Bounds.Width, Height: display.Bounds.Height}
	if !dims.Valid() {
		return grid.Dimensions{}, fmt.Errorf("primary display %q reports invalid size %dx%d", display.Name, dims.Width, dims.Height)
	}
	return dims, nil
}

func (c *Controller) onActivate(w *window.Window) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w.SetScreenDimension(c.dims)
	if c.current != nil {
		c.current.Close()
	}
	c.current = w
	c.activations++
	c.logger.Debug("window activated", "window", w.ID())
}

// target returns the tracked window, falling back to the backend's active
// window when no activation has been seen yet.
func (c *Controller) target() (*window.Window, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		return c.current, nil
	}

	id, err := c.backend.ActiveWindow()
	if err != nil {
		return nil, err
	}
	w := window.New(c.backend, id, c.windowOptions(c.cfg)...)
	w.SetScreenDimension(c.dims)
	c.current = w
	return w, nil
}

func (c *Controller) Clip(cell grid.Cell) error {
	w, err := c.target()
	if err != nil {
		return err
	}
	if err := w.Clip(cell); err != nil {
		return fmt.Errorf("clip %s: %w", cell, err)
	}
	c.logger.Debug("window clipped", "window", w.ID(), "cell", cell.String())
	return nil
}

func (c *Controller) SetState(state platform.WindowState) error {
	w, err := c.target()
	if err != nil {
		return err
	}
	return w.SetState(state)
}

func (c *Controller) SetTopMost(enabled bool) error {
	w, err := c.target()
	if err != nil {
		return err
	}
	if err := w.SetTopMost(enabled, 0); err != nil {
		return err
	}
	c.mu.Lock()
	c.topMost[w.ID()] = enabled
	c.mu.Unlock()
	return nil
}

// ToggleTopMost flips always-on-top as last set through this controller.
func (c *Controller) ToggleTopMost() error {
	w, err := c.target()
	if err != nil {
		return err
	}
	c.mu.Lock()
	enabled := !c.topMost[w.ID()]
	c.mu.Unlock()
	return c.SetTopMost(enabled)
}

func (c *Controller) SetStyle(style int) error {
	w, err := c.target()
	if err != nil {
		return err
	}
	return w.SetStyle(style)
}

// ActiveWindow describes the tracked window.
func (c *Controller) ActiveWindow() (platform.Window, error) {
	w, err := c.target()
	if err != nil {
		return platform.Window{}, err
	}
	bounds, err := w.Bounds()
	if err != nil {
		return platform.Window{}, err
	}
	title, err := w.Title()
	if err != nil {
		return platform.Window{}, err
	}
	return platform.Window{ID: w.ID(), Title: title, Bounds: bounds}, nil
}

func (c *Controller) ListWindows() ([]platform.Window, error) {
	return c.backend.ListWindows()
}

func (c *Controller) Displays() ([]platform.Display, error) {
	return c.backend.Displays()
}

// Snapshot is a point-in-time view of the controller.
type Snapshot struct {
	Screen        grid.Dimensions
	CurrentWindow platform.WindowID
	Activations   int
	Listeners     int
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		Screen:      c.dims,
		Activations: c.activations,
		Listeners:   c.registry.Len(),
	}
	if c.current != nil {
		s.CurrentWindow = c.current.ID()
	}
	return s
}

// TrackedWindows returns every window the controller holds state for, in
// ascending order.
func (c *Controller) TrackedWindows() []platform.WindowID {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[platform.WindowID]bool, len(c.topMost)+1)
	if c.current != nil {
		seen[c.current.ID()] = true
	}
	for id := range c.topMost {
		seen[id] = true
	}
	ids := make([]platform.WindowID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Forget drops all state for id, cancelling its pending style refresh.
func (c *Controller) Forget(id platform.WindowID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.topMost, id)
	if c.current != nil && c.current.ID() == id {
		c.current.Close()
		c.current = nil
	}
}

// UpdateConfig applies a reloaded config. The tracked window is rebuilt so
// the new grid corrections take effect immediately.
func (c *Controller) UpdateConfig(cfg *config.Config) error {
	dims, err := c.resolveDimensions(cfg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	c.dims = dims
	opts := c.windowOptions(cfg)
	c.registry.SetWindowOptions(opts...)
	if c.current != nil {
		id := c.current.ID()
		c.current.Close()
		c.current = window.New(c.backend, id, opts...)
		c.current.SetScreenDimension(dims)
	}
	return nil
}

// monitorLayoutWarnings reports monitor arrangements the grid offset math
// cannot handle: it assumes same-width monitors laid out left to right.
func monitorLayoutWarnings(displays []platform.Display, dims grid.Dimensions) []string {
	var warnings []string
	for i, d := range displays {
		b := d.Bounds
		if b.Width != dims.Width {
			warnings = append(warnings, fmt.Sprintf("monitor %s is %dpx wide, grid assumes %dpx", d.Name, b.Width, dims.Width))
		}
		if i > 0 && b.Y != displays[0].Bounds.Y {
			warnings = append(warnings, fmt.Sprintf("monitor %s is not on the same row as %s", d.Name, displays[0].Name))
		}
		if b.X != i*dims.Width {
			warnings = append(warnings, fmt.Sprintf("monitor %s starts at x=%d, grid expects x=%d", d.Name, b.X, i*dims.Width))
		}
	}
	return warnings
}
