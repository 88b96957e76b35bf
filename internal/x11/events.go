package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WatchActiveWindow calls fn on the event loop goroutine whenever
// _NET_ACTIVE_WINDOW on the root window changes to a different, non-zero
// window.
func (c *Connection) WatchActiveWindow(fn func(xproto.Window)) error {
	activeAtom, err := xprop.Atm(c.XUtil, "_NET_ACTIVE_WINDOW")
	if err != nil {
		return fmt.Errorf("failed to intern _NET_ACTIVE_WINDOW: %w", err)
	}

	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange); err != nil {
		return fmt.Errorf("failed to listen for root property changes: %w", err)
	}

	var last xproto.Window
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		if ev.Atom != activeAtom {
			return
		}
		win, err := c.GetActiveWindow()
		if err != nil || win == last {
			return
		}
		last = win
		fn(win)
	}).Connect(c.XUtil, c.Root)

	return nil
}
