// Package platformtest provides an in-memory platform.Backend for tests.
package platformtest

import (
	"fmt"
	"sync"

	"github.com/1broseidon/gridsnap/internal/platform"
)

// Call is one recorded native call.
type Call struct {
	Method string
	ID     platform.WindowID
	ZOrder platform.ZOrder
	Rect   platform.Rect
	Flags  platform.PosFlags
	State  platform.WindowState
	Index  platform.LongIndex
	Value  int
}

// Recorder implements platform.Backend over a map of windows and records
// every call. SetWindowPos updates the stored bounds, so later reads observe
// the move.
type Recorder struct {
	mu sync.Mutex

	Windows  map[platform.WindowID]*platform.Window
	Styles   map[platform.WindowID]int
	Active   platform.WindowID
	Monitors []platform.Display

	// Err, when set, is returned by every call that can fail.
	Err error

	calls     []Call
	listeners []func(platform.WindowID)
}

var _ platform.Backend = (*Recorder)(nil)

// New creates an empty recorder with a single 1920x1080 display.
func New() *Recorder {
	return &Recorder{
		Windows: make(map[platform.WindowID]*platform.Window),
		Styles:  make(map[platform.WindowID]int),
		Monitors: []platform.Display{{
			ID:     0,
			Name:   "fake-0",
			Bounds: platform.Rect{Width: 1920, Height: 1080},
			Usable: platform.Rect{Width: 1920, Height: 1080},
		}},
	}
}

// AddWindow registers a window with the given bounds and returns its ID.
func (r *Recorder) AddWindow(id platform.WindowID, title string, b platform.Bounds) platform.WindowID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Windows[id] = &platform.Window{ID: id, Title: title, Bounds: b}
	r.Styles[id] = platform.StyleDecorated
	return id
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Methods returns the method names of the recorded calls, in order.
func (r *Recorder) Methods() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Method
	}
	return out
}

// Reset forgets recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Activate fires the activation listeners as the window system would.
func (r *Recorder) Activate(id platform.WindowID) {
	r.mu.Lock()
	r.Active = id
	listeners := append([]func(platform.WindowID){}, r.listeners...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(id)
	}
}

func (r *Recorder) record(c Call) {
	r.calls = append(r.calls, c)
}

func (r *Recorder) lookup(id platform.WindowID) (*platform.Window, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	w, ok := r.Windows[id]
	if !ok {
		return nil, fmt.Errorf("bad window %d", id)
	}
	return w, nil
}

func (r *Recorder) Displays() ([]platform.Display, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Method: "Displays"})
	if r.Err != nil {
		return nil, r.Err
	}
	return append([]platform.Display(nil), r.Monitors...), nil
}

func (r *Recorder) PrimaryDisplay() (platform.Display, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Method: "PrimaryDisplay"})
	if r.Err != nil {
		return platform.Display{}, r.Err
	}
	if len(r.Monitors) == 0 {
		return platform.Display{}, fmt.Errorf("no monitors found")
	}
	return r.Monitors[0], nil
}

func (r *Recorder) ActiveWindow() (platform.WindowID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Method: "ActiveWindow"})
	if r.Err != nil {
		return 0, r.Err
	}
	if r.Active == 0 {
		return 0, fmt.Errorf("no active window")
	}
	return r.Active, nil
}

func (r *Recorder) ListWindows() ([]platform.Window, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Method: "ListWindows"})
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]platform.Window, 0, len(r.Windows))
	for _, w := range r.Windows {
		out = append(out, *w)
	}
	return out, nil
}

func (r *Recorder) WindowBounds(id platform.WindowID) (platform.Bounds, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Method: "WindowBounds", ID: id})
	w, err := r.lookup(id)
	if err != nil {
		return platform.Bounds{}, err
	}
	return w.Bounds, nil
}

func (r *Recorder) SetWindowPos(id platform.WindowID, z platform.ZOrder, left, top, width, height int, flags platform.PosFlags) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{
		Method: "SetWindowPos",
		ID:     id,
		ZOrder: z,
		Rect:   platform.Rect{X: left, Y: top, Width: width, Height: height},
		Flags:  flags,
	})
	w, err := r.lookup(id)
	if err != nil {
		return err
	}
	w.Bounds = platform.Bounds{Left: left, Top: top, Right: left + width, Bottom: top + height}
	return nil
}

func (r *Recorder) WindowTitle(id platform.WindowID) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Method: "WindowTitle", ID: id})
	w, err := r.lookup(id)
	if err != nil {
		return "", err
	}
	return w.Title, nil
}

func (r *Recorder) WindowLong(id platform.WindowID, index platform.LongIndex) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Method: "WindowLong", ID: id, Index: index})
	if _, err := r.lookup(id); err != nil {
		return 0, err
	}
	return r.Styles[id], nil
}

func (r *Recorder) SetWindowLong(id platform.WindowID, index platform.LongIndex, value int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Method: "SetWindowLong", ID: id, Index: index, Value: value})
	if _, err := r.lookup(id); err != nil {
		return err
	}
	r.Styles[id] = value
	return nil
}

func (r *Recorder) SetWindowState(id platform.WindowID, state platform.WindowState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Method: "SetWindowState", ID: id, State: state})
	_, err := r.lookup(id)
	return err
}

func (r *Recorder) OnActivate(fn func(platform.WindowID)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
	return nil
}
