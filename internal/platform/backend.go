package platform

import (
	"fmt"
	"strings"
)

// WindowID is a platform-neutral window identifier. The window system owns
// the window; a WindowID only refers to it.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Bounds is a window's outer rectangle as edges.
type Bounds struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

func (b Bounds) Width() int  { return b.Right - b.Left }
func (b Bounds) Height() int { return b.Bottom - b.Top }

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID     WindowID
	PID    int
	AppID  string
	Title  string
	Bounds Bounds
}

// WindowState is a show-state transition.
type WindowState int

const (
	StateShow WindowState = iota
	StateHide
	StateMinimize
	StateRestore
	StateMaximize
)

var stateNames = map[WindowState]string{
	StateShow:     "show",
	StateHide:     "hide",
	StateMinimize: "minimize",
	StateRestore:  "restore",
	StateMaximize: "maximize",
}

func (s WindowState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ParseWindowState maps a state name to its WindowState.
func ParseWindowState(name string) (WindowState, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	for state, n := range stateNames {
		if n == norm {
			return state, nil
		}
	}
	return 0, fmt.Errorf("unknown window state %q (want show, hide, minimize, restore or maximize)", name)
}

// ZOrder selects a stacking change for SetWindowPos.
type ZOrder int

const (
	ZOrderNone ZOrder = iota
	ZOrderTopMost
	ZOrderNotTopMost
)

// LongIndex selects a per-window integer attribute.
type LongIndex int

const (
	IndexStyle LongIndex = iota
)

// PosFlags modify SetWindowPos.
type PosFlags uint32

const (
	// PosShowWindow maps the window after positioning it.
	PosShowWindow PosFlags = 1 << iota
)

// Style values understood by every backend. Backends may accept more bits.
const (
	StyleUndecorated = 0
	StyleDecorated   = 1
)

// Backend is the native window-system boundary. Failures are reported as-is;
// callers decide what to do with a window that has disappeared.
type Backend interface {
	Displays() ([]Display, error)
	PrimaryDisplay() (Display, error)
	ActiveWindow() (WindowID, error)
	ListWindows() ([]Window, error)

	WindowBounds(id WindowID) (Bounds, error)
	SetWindowPos(id WindowID, z ZOrder, left, top, width, height int, flags PosFlags) error
	WindowTitle(id WindowID) (string, error)
	WindowLong(id WindowID, index LongIndex) (int, error)
	SetWindowLong(id WindowID, index LongIndex, value int) error
	SetWindowState(id WindowID, state WindowState) error

	// OnActivate registers fn to be called with each newly focused window.
	OnActivate(fn func(WindowID)) error
}
