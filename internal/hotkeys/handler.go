package hotkeys

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/1broseidon/gridsnap/internal/grid"
	"github.com/1broseidon/gridsnap/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Clipper is the set of window operations hotkeys can trigger.
type Clipper interface {
	Clip(cell grid.Cell) error
	ToggleTopMost() error
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	clipper Clipper
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, clipper Clipper) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok {
		return nil, fmt.Errorf("backend %T does not support global hotkeys", backend)
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:      xu,
		root:    accessor.RootWindow(),
		clipper: clipper,
	}, nil
}

// RegisterBindings grabs one key sequence per cell. A sequence that cannot
// be grabbed is logged and skipped; the count of registered bindings is
// returned.
func (h *Handler) RegisterBindings(bindings map[grid.Cell]string) int {
	cells := make([]grid.Cell, 0, len(bindings))
	for cell := range bindings {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })

	registered := 0
	for _, cell := range cells {
		seq := bindings[cell]
		if err := h.RegisterCell(cell, seq); err != nil {
			log.Printf("Warning: Failed to register %s hotkey %q: %v", cell, seq, err)
			continue
		}
		registered++
	}
	return registered
}

// RegisterCell binds keySequence to clipping the focused window into cell.
func (h *Handler) RegisterCell(cell grid.Cell, keySequence string) error {
	return h.RegisterFunc(keySequence, func() {
		if err := h.clipper.Clip(cell); err != nil {
			log.Printf("Clip %s failed: %v", cell, err)
		}
	})
}

// RegisterTopMost binds keySequence to toggling always-on-top.
func (h *Handler) RegisterTopMost(keySequence string) error {
	if err := h.RegisterFunc(keySequence, func() {
		if err := h.clipper.ToggleTopMost(); err != nil {
			log.Printf("Toggle topmost failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to register topmost hotkey: %w", err)
	}
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// configureIgnoreMods makes grabs fire regardless of CapsLock, NumLock and
// ScrollLock. NumLock matters here: the default bindings live on the keypad.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	unique[0] = struct{}{}

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}
	for _, mask := range lockCombinations(base) {
		unique[mask] = struct{}{}
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}
	xevent.IgnoreMods = ignore
}

// lockCombinations returns the OR of every non-empty subset of masks.
func lockCombinations(masks []uint16) []uint16 {
	out := make([]uint16, 0, (1<<len(masks))-1)
	for subset := 1; subset < (1 << len(masks)); subset++ {
		var mask uint16
		for bit := range masks {
			if subset&(1<<bit) != 0 {
				mask |= masks[bit]
			}
		}
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
