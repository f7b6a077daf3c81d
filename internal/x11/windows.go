package x11

import (
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/deskgrid/internal/geom"
)

// Client is a snapshot of one managed top-level window.
type Client struct {
	ID         xproto.Window
	PID        int
	Class      string
	Title      string
	Bounds     geom.Rect
	Desktop    int // -1 when sticky or unknown
	Normal     bool
	Hidden     bool
	Fullscreen bool
}

// Stack returns managed clients front to back.
// _NET_CLIENT_LIST_STACKING is bottom to top; when the window manager does
// not publish it, _NET_CLIENT_LIST is used as is.
func (c *Connection) Stack() ([]xproto.Window, error) {
	stacking, err := ewmh.ClientListStackingGet(c.XUtil)
	if err != nil || len(stacking) == 0 {
		clients, listErr := ewmh.ClientListGet(c.XUtil)
		if listErr != nil {
			return nil, fmt.Errorf("failed to get client list: %w", listErr)
		}
		return clients, nil
	}

	out := slices.Clone(stacking)
	slices.Reverse(out)
	return out, nil
}

// Client reads everything the overview needs about win. ok is false when the
// window vanished or has no geometry.
func (c *Connection) Client(win xproto.Window) (Client, bool) {
	bounds, ok := c.frameBounds(win)
	if !ok {
		return Client{}, false
	}

	cl := Client{ID: win, Bounds: bounds, Desktop: -1, Normal: true}

	if types, err := ewmh.WmWindowTypeGet(c.XUtil, win); err == nil {
		cl.Normal = isNormalType(types)
	}
	if states, err := ewmh.WmStateGet(c.XUtil, win); err == nil {
		cl.Hidden = slices.Contains(states, "_NET_WM_STATE_HIDDEN")
		cl.Fullscreen = slices.Contains(states, "_NET_WM_STATE_FULLSCREEN")
	}
	if d, err := c.WindowDesktop(win); err == nil {
		cl.Desktop = d
	}
	if pid, err := ewmh.WmPidGet(c.XUtil, win); err == nil {
		cl.PID = int(pid)
	}
	if class, err := icccm.WmClassGet(c.XUtil, win); err == nil {
		cl.Class = strings.TrimSpace(class.Class)
	}
	cl.Title = c.title(win)
	return cl, true
}

// Place moves and resizes win. A maximized window ignores geometry requests
// on most window managers, so the maximized state is dropped first.
func (c *Connection) Place(win xproto.Window, r geom.Rect) error {
	if states, err := ewmh.WmStateGet(c.XUtil, win); err == nil {
		for _, s := range maximizedStates(states) {
			ewmh.WmStateReq(c.XUtil, win, ewmh.StateRemove, s)
		}
	}

	if err := ewmh.MoveresizeWindow(c.XUtil, win, r.Left, r.Top, r.Width(), r.Height()); err != nil {
		xwindow.New(c.XUtil, win).MoveResize(r.Left, r.Top, r.Width(), r.Height())
	}
	return nil
}

// Iconify asks the window manager to minimize win (ICCCM WM_CHANGE_STATE).
func (c *Connection) Iconify(win xproto.Window) error {
	const iconicState = 3
	return c.sendRootMessage(win, "WM_CHANGE_STATE", iconicState)
}

func (c *Connection) frameBounds(win xproto.Window) (geom.Rect, bool) {
	g, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return geom.Rect{}, false
	}
	tr, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return geom.Rect{}, false
	}
	return geom.XYWH(int(tr.DstX), int(tr.DstY), int(g.Width), int(g.Height)), true
}

// title prefers the UTF-8 _NET_WM_NAME over the legacy WM_NAME.
func (c *Connection) title(win xproto.Window) string {
	if t, err := ewmh.WmNameGet(c.XUtil, win); err == nil {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}
	if t, err := icccm.WmNameGet(c.XUtil, win); err == nil {
		return strings.TrimSpace(t)
	}
	return ""
}

// isNormalType reports whether a window with these _NET_WM_WINDOW_TYPE values
// belongs in the overview. Untyped windows count as normal.
func isNormalType(types []string) bool {
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return len(types) == 0
}

func maximizedStates(states []string) []string {
	var out []string
	for _, s := range states {
		if s == "_NET_WM_STATE_MAXIMIZED_HORZ" || s == "_NET_WM_STATE_MAXIMIZED_VERT" {
			out = append(out, s)
		}
	}
	return out
}
