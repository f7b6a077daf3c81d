// Package x11 talks to the X server: displays, work areas, virtual desktops
// and the client stack the overview is built from.
package x11

import (
	"fmt"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/deskgrid/internal/geom"
)

// Connection holds the X connection and the root window of its default screen.
type Connection struct {
	XUtil   *xgbutil.XUtil
	Root    xproto.Window
	Display string
}

// NewConnection connects to $DISPLAY. The keyboard mapping is loaded so the
// hotkey grabs can resolve key names.
func NewConnection() (*Connection, error) {
	display := os.Getenv("DISPLAY")
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		if display == "" {
			return nil, fmt.Errorf("DISPLAY is not set: %w", err)
		}
		return nil, fmt.Errorf("display %s: %w", display, err)
	}

	keybind.Initialize(xu)

	return &Connection{
		XUtil:   xu,
		Root:    xu.RootWin(),
		Display: display,
	}, nil
}

// RootBounds returns the size of the whole X screen, which is the coordinate
// space struts are expressed in.
func (c *Connection) RootBounds() (geom.Rect, error) {
	g, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return geom.Rect{}, fmt.Errorf("root geometry: %w", err)
	}
	return geom.XYWH(0, 0, int(g.Width), int(g.Height)), nil
}

// EventLoop dispatches X events. It blocks for the life of the daemon.
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Close disconnects from the X server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
