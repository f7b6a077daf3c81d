package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// stickyDesktop is the _NET_WM_DESKTOP value for windows shown on every
// virtual desktop.
const stickyDesktop = 0xFFFFFFFF

// CurrentDesktop returns the 0-based index of the visible virtual desktop.
func (c *Connection) CurrentDesktop() (int, error) {
	d, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get current desktop: %w", err)
	}
	return int(d), nil
}

// WindowDesktop returns the desktop win lives on, or -1 when it is sticky.
func (c *Connection) WindowDesktop(win xproto.Window) (int, error) {
	d, err := ewmh.WmDesktopGet(c.XUtil, win)
	if err != nil {
		return 0, fmt.Errorf("failed to get window desktop: %w", err)
	}
	if d == stickyDesktop {
		return -1, nil
	}
	return int(d), nil
}

// Activate raises and focuses win through _NET_ACTIVE_WINDOW, which also
// maps it when minimized.
func (c *Connection) Activate(win xproto.Window) error {
	const sourcePager = 2
	return c.sendRootMessage(win, "_NET_ACTIVE_WINDOW", sourcePager)
}

// sendRootMessage sends a 32-bit client message about win to the root
// window. The message is built by hand because the xgbutil ewmh request
// helpers panic on this library version (uint vs int type assertion).
func (c *Connection) sendRootMessage(win xproto.Window, atomName string, data ...uint32) error {
	atom, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(atomName)), atomName).Reply()
	if err != nil {
		return fmt.Errorf("failed to intern %s: %w", atomName, err)
	}

	payload := make([]uint32, 5)
	copy(payload, data)
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   atom.Atom,
		Data:   xproto.ClientMessageDataUnionData32New(payload),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
