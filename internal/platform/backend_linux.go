//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/1broseidon/gridsnap/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/motif"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
//
// IndexStyle maps to the Motif decoration bits: StyleUndecorated removes
// every decoration, StyleDecorated restores the window manager default.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection. An empty display
// uses $DISPLAY.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, err
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Quit stops EventLoop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}
	return displays, nil
}

func (b *LinuxBackend) PrimaryDisplay() (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}

	m, err := conn.GetPrimaryMonitor()
	if err != nil {
		return Display{}, err
	}
	return displayFromMonitor(*m), nil
}

func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(wid), nil
}

// ListWindows enumerates normal client windows, skipping hidden ones.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := conn.ClientWindows()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(clients))
	for _, windowID := range clients {
		if !conn.IsNormalWindow(windowID) || b.isHidden(windowID) {
			continue
		}

		bounds, err := b.WindowBounds(WindowID(windowID))
		if err != nil {
			continue
		}

		pid := 0
		if p, err := ewmh.WmPidGet(conn.XUtil, windowID); err == nil {
			pid = int(p)
		}
		title, _ := conn.Title(windowID)

		windows = append(windows, Window{
			ID:     WindowID(windowID),
			PID:    pid,
			AppID:  conn.AppID(windowID),
			Title:  title,
			Bounds: bounds,
		})
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].ID < windows[j].ID
	})
	return windows, nil
}

func (b *LinuxBackend) WindowBounds(id WindowID) (Bounds, error) {
	conn, err := b.connection()
	if err != nil {
		return Bounds{}, err
	}

	x, y, w, h, err := conn.FrameGeometry(xproto.Window(id))
	if err != nil {
		return Bounds{}, err
	}
	return Bounds{Left: x, Top: y, Right: x + w, Bottom: y + h}, nil
}

func (b *LinuxBackend) SetWindowPos(id WindowID, z ZOrder, left, top, width, height int, flags PosFlags) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	win := xproto.Window(id)

	switch z {
	case ZOrderTopMost:
		if err := conn.SetAbove(win, true); err != nil {
			return err
		}
	case ZOrderNotTopMost:
		if err := conn.SetAbove(win, false); err != nil {
			return err
		}
	}

	if err := conn.MoveResizeWindow(win, left, top, width, height); err != nil {
		return err
	}

	if flags&PosShowWindow != 0 {
		return conn.MapWindow(win)
	}
	return nil
}

func (b *LinuxBackend) WindowTitle(id WindowID) (string, error) {
	conn, err := b.connection()
	if err != nil {
		return "", err
	}
	return conn.Title(xproto.Window(id))
}

func (b *LinuxBackend) WindowLong(id WindowID, index LongIndex) (int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	if index != IndexStyle {
		return 0, fmt.Errorf("unsupported window attribute index %d", index)
	}

	decor, err := conn.Decorations(xproto.Window(id))
	if err != nil {
		return 0, err
	}
	if decor == motif.DecorationNone {
		return StyleUndecorated, nil
	}
	return StyleDecorated, nil
}

func (b *LinuxBackend) SetWindowLong(id WindowID, index LongIndex, value int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if index != IndexStyle {
		return fmt.Errorf("unsupported window attribute index %d", index)
	}

	decor := uint(motif.DecorationAll)
	if value == StyleUndecorated {
		decor = motif.DecorationNone
	}
	return conn.SetDecorations(xproto.Window(id), decor)
}

func (b *LinuxBackend) SetWindowState(id WindowID, state WindowState) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	win := xproto.Window(id)

	switch state {
	case StateShow:
		return conn.MapWindow(win)
	case StateHide:
		return conn.UnmapWindow(win)
	case StateMinimize:
		return conn.Iconify(win)
	case StateRestore:
		return conn.Restore(win)
	case StateMaximize:
		return conn.Maximize(win)
	default:
		return fmt.Errorf("unsupported window state %s", state)
	}
}

// OnActivate watches _NET_ACTIVE_WINDOW. Callbacks run on the event loop.
func (b *LinuxBackend) OnActivate(fn func(WindowID)) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WatchActiveWindow(func(win xproto.Window) {
		fn(WindowID(win))
	})
}

func (b *LinuxBackend) isHidden(windowID xproto.Window) bool {
	states, err := ewmh.WmStateGet(b.conn.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	bounds := Rect{
		X:      m.X,
		Y:      m.Y,
		Width:  m.Width,
		Height: m.Height,
	}
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: bounds,
		Usable: bounds,
	}
}
