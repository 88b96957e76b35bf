package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	stateAbove          = "_NET_WM_STATE_ABOVE"
	stateMaximizedHorz  = "_NET_WM_STATE_MAXIMIZED_HORZ"
	stateMaximizedVert  = "_NET_WM_STATE_MAXIMIZED_VERT"
	stateHidden         = "_NET_WM_STATE_HIDDEN"
	iconicState         = 3
	pagerSourceIndicate = 2
)

// FrameGeometry returns the window's outer rectangle (decorations included)
// in root coordinates.
func (c *Connection) FrameGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xwindow.New(c.XUtil, windowID).DecorGeometry()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get geometry of window %d: %w", windowID, err)
	}
	return geom.X(), geom.Y(), geom.Width(), geom.Height(), nil
}

// Extents are the decoration sizes the window manager reports in
// _NET_FRAME_EXTENTS.
type Extents struct {
	Left, Right, Top, Bottom int
}

// FrameExtents returns the window's decoration sizes, or zero extents when
// the window manager does not publish them.
func (c *Connection) FrameExtents(windowID xproto.Window) Extents {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		return Extents{}
	}
	return Extents{
		Left:   int(extents.Left),
		Right:  int(extents.Right),
		Top:    int(extents.Top),
		Bottom: int(extents.Bottom),
	}
}

// ClientSize converts an outer frame size to the client size a moveresize
// request expects. The result is never smaller than 1x1.
func (e Extents) ClientSize(frameWidth, frameHeight int) (width, height int) {
	width = frameWidth - e.Left - e.Right
	height = frameHeight - e.Top - e.Bottom
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

// MoveResizeWindow places the window's outer frame at the given geometry,
// matching what FrameGeometry reads back.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	cw, ch := c.FrameExtents(windowID).ClientSize(width, height)

	return moveResize(windowID,
		// Use EWMH MoveResize for better WM compatibility
		func() error { return ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, cw, ch) },
		// Fallback to direct window manipulation
		func() error {
			mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
			values := []uint32{uint32(int32(x)), uint32(int32(y)), uint32(cw), uint32(ch)}
			return xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, mask, values).Check()
		},
	)
}

// moveResize runs fallback only when request fails, and reports an error
// only when both fail.
func moveResize(windowID xproto.Window, request, fallback func() error) error {
	err := request()
	if err == nil {
		return nil
	}
	if ferr := fallback(); ferr != nil {
		return fmt.Errorf("failed to move window %d: %w (configure fallback: %v)", windowID, err, ferr)
	}
	return nil
}

// SetAbove adds or removes _NET_WM_STATE_ABOVE.
func (c *Connection) SetAbove(windowID xproto.Window, above bool) error {
	action := ewmh.StateRemove
	if above {
		action = ewmh.StateAdd
	}
	if err := ewmh.WmStateReq(c.XUtil, windowID, action, stateAbove); err != nil {
		return fmt.Errorf("failed to change above state of window %d: %w", windowID, err)
	}
	return nil
}

// MapWindow shows a window.
func (c *Connection) MapWindow(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// UnmapWindow hides a window.
func (c *Connection) UnmapWindow(windowID xproto.Window) error {
	return xproto.UnmapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// Iconify asks the window manager to minimize a window via WM_CHANGE_STATE.
func (c *Connection) Iconify(windowID xproto.Window) error {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len("WM_CHANGE_STATE")), "WM_CHANGE_STATE").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern WM_CHANGE_STATE: %w", err)
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   reply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{iconicState, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// Maximize sets both maximized states.
func (c *Connection) Maximize(windowID xproto.Window) error {
	for _, state := range []string{stateMaximizedVert, stateMaximizedHorz} {
		if err := ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateAdd, state); err != nil {
			return fmt.Errorf("failed to maximize window %d: %w", windowID, err)
		}
	}
	return nil
}

// Restore undoes maximize and minimize so that a following move takes effect.
func (c *Connection) Restore(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		// Windows without _NET_WM_STATE are neither maximized nor hidden.
		states = nil
	}

	hidden := false
	for _, state := range states {
		switch state {
		case stateMaximizedHorz, stateMaximizedVert:
			if err := ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, state); err != nil {
				return fmt.Errorf("failed to unmaximize window %d: %w", windowID, err)
			}
		case stateHidden:
			hidden = true
		}
	}

	if !hidden {
		if st, err := icccm.WmStateGet(c.XUtil, windowID); err == nil && st.State == iconicState {
			hidden = true
		}
	}
	if hidden {
		if err := c.MapWindow(windowID); err != nil {
			return fmt.Errorf("failed to deiconify window %d: %w", windowID, err)
		}
		return c.Activate(windowID)
	}
	return nil
}

// Activate raises and focuses a window using _NET_ACTIVE_WINDOW.
// The client message is built by hand: the xgbutil ewmh request helpers
// panic on this library version.
func (c *Connection) Activate(windowID xproto.Window) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("_NET_ACTIVE_WINDOW")), "_NET_ACTIVE_WINDOW").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern _NET_ACTIVE_WINDOW: %w", err)
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{pagerSourceIndicate, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// Decorations returns the Motif decoration bits of a window. Windows without
// _MOTIF_WM_HINTS are fully decorated.
func (c *Connection) Decorations(windowID xproto.Window) (uint, error) {
	hints, err := motif.WmHintsGet(c.XUtil, windowID)
	if err != nil || hints.Flags&motif.HintDecorations == 0 {
		return motif.DecorationAll, nil
	}
	return hints.Decoration, nil
}

// SetDecorations replaces the Motif decoration bits, keeping other hints.
func (c *Connection) SetDecorations(windowID xproto.Window, decoration uint) error {
	hints, err := motif.WmHintsGet(c.XUtil, windowID)
	if err != nil {
		hints = &motif.Hints{}
	}
	hints.Flags |= motif.HintDecorations
	hints.Decoration = decoration
	if err := motif.WmHintsSet(c.XUtil, windowID, hints); err != nil {
		return fmt.Errorf("failed to set decorations of window %d: %w", windowID, err)
	}
	return nil
}

// Title returns _NET_WM_NAME, falling back to WM_NAME.
func (c *Connection) Title(windowID xproto.Window) (string, error) {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title, nil
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err != nil {
		return "", fmt.Errorf("failed to get title of window %d: %w", windowID, err)
	}
	return strings.TrimSpace(title), nil
}

// AppID returns the WM_CLASS class of a window, or "".
func (c *Connection) AppID(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}

// ClientWindows returns the EWMH client list.
func (c *Connection) ClientWindows() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	return clients, nil
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get active window: %w", err)
	}
	if win == 0 {
		return 0, fmt.Errorf("no active window")
	}
	return win, nil
}
