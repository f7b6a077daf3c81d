package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/deskgrid/internal/geom"
)

// Monitor is one enabled RandR CRTC. Usable equals Bounds unless the monitor
// came from ActiveMonitor, which subtracts docks and panels.
type Monitor struct {
	ID     int
	Name   string
	Bounds geom.Rect
	Usable geom.Rect
}

// Monitors lists the enabled CRTCs in RandR order.
func (c *Connection) Monitors() ([]Monitor, error) {
	xc := c.XUtil.Conn()
	if err := randr.Init(xc); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(xc, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(xc, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("crtc-%d", i)
		if out, err := randr.GetOutputInfo(xc, info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		bounds := geom.XYWH(int(info.X), int(info.Y), int(info.Width), int(info.Height))
		monitors = append(monitors, Monitor{ID: i, Name: name, Bounds: bounds, Usable: bounds})
	}

	return monitors, nil
}

// ActiveMonitor picks the monitor holding the focused window, then the one
// under the pointer, then the first one, and fills in its usable area.
func (c *Connection) ActiveMonitor() (Monitor, error) {
	monitors, err := c.Monitors()
	if err != nil {
		return Monitor{}, err
	}
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("no monitors found")
	}

	active := monitors[0]
	if x, y, ok := c.focusCenter(); ok {
		if m, found := monitorAt(monitors, x, y); found {
			active = m
		}
	} else if x, y, ok := c.pointer(); ok {
		if m, found := monitorAt(monitors, x, y); found {
			active = m
		}
	}

	active.Usable = c.usableArea(active.Bounds)
	return active, nil
}

// usableArea removes dock struts from bounds. Window managers that do not
// expose docks as clients still publish _NET_WORKAREA, which is used instead.
func (c *Connection) usableArea(bounds geom.Rect) geom.Rect {
	if root, err := c.RootBounds(); err == nil {
		if usable, ok := insetByStruts(bounds, root, c.dockStruts(root)); ok {
			return usable
		}
	}

	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return bounds
	}
	idx := 0
	if cur, err := c.CurrentDesktop(); err == nil && cur >= 0 && cur < len(workArea) {
		idx = cur
	}
	wa := workArea[idx]
	return clipToWorkarea(bounds, geom.XYWH(wa.X, wa.Y, int(wa.Width), int(wa.Height)))
}

func (c *Connection) dockStruts(root geom.Rect) []ewmh.WmStrutPartial {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil
	}

	var struts []ewmh.WmStrutPartial
	for _, win := range clients {
		if !c.isDock(win) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			struts = append(struts, *sp)
			continue
		}
		// Older docks only set _NET_WM_STRUT.
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			struts = append(struts, fullLengthStrut(s, root))
		}
	}
	return struts
}

func (c *Connection) isDock(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

func (c *Connection) focusCenter() (int, int, bool) {
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil || win == 0 {
		return 0, 0, false
	}
	g, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return 0, 0, false
	}
	tr, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, false
	}
	return int(tr.DstX) + int(g.Width)/2, int(tr.DstY) + int(g.Height)/2, true
}

func (c *Connection) pointer() (int, int, bool) {
	p, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, false
	}
	return int(p.RootX), int(p.RootY), true
}

func monitorAt(monitors []Monitor, x, y int) (Monitor, bool) {
	for _, m := range monitors {
		b := m.Bounds
		if x >= b.Left && x < b.Right && y >= b.Top && y < b.Bottom {
			return m, true
		}
	}
	return Monitor{}, false
}

// insetByStruts shrinks bounds by the deepest strut touching each edge.
// Strut ranges are inclusive and measured from the root window edges. The
// result never collapses below 1x1. ok is false when no strut overlaps.
func insetByStruts(bounds, root geom.Rect, struts []ewmh.WmStrutPartial) (geom.Rect, bool) {
	var left, top, right, bottom int
	for _, sp := range struts {
		if sp.Top > 0 {
			area := geom.Rect{Left: int(sp.TopStartX), Top: root.Top, Right: int(sp.TopEndX) + 1, Bottom: root.Top + int(sp.Top)}
			top = max(top, bounds.Intersect(area).Height())
		}
		if sp.Bottom > 0 {
			area := geom.Rect{Left: int(sp.BottomStartX), Top: root.Bottom - int(sp.Bottom), Right: int(sp.BottomEndX) + 1, Bottom: root.Bottom}
			bottom = max(bottom, bounds.Intersect(area).Height())
		}
		if sp.Left > 0 {
			area := geom.Rect{Left: root.Left, Top: int(sp.LeftStartY), Right: root.Left + int(sp.Left), Bottom: int(sp.LeftEndY) + 1}
			left = max(left, bounds.Intersect(area).Width())
		}
		if sp.Right > 0 {
			area := geom.Rect{Left: root.Right - int(sp.Right), Top: int(sp.RightStartY), Right: root.Right, Bottom: int(sp.RightEndY) + 1}
			right = max(right, bounds.Intersect(area).Width())
		}
	}
	if left == 0 && top == 0 && right == 0 && bottom == 0 {
		return bounds, false
	}

	out := bounds.Inset(left, top, right, bottom)
	out.Right = max(out.Right, out.Left+1)
	out.Bottom = max(out.Bottom, out.Top+1)
	return out, true
}

func fullLengthStrut(s *ewmh.WmStrut, root geom.Rect) ewmh.WmStrutPartial {
	lastX := uint(max(root.Width()-1, 0))
	lastY := uint(max(root.Height()-1, 0))
	return ewmh.WmStrutPartial{
		Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
		LeftEndY: lastY, RightEndY: lastY,
		TopEndX: lastX, BottomEndX: lastX,
	}
}

// clipToWorkarea keeps bounds unchanged when the work area lies elsewhere.
func clipToWorkarea(bounds, workArea geom.Rect) geom.Rect {
	if clipped := bounds.Intersect(workArea); !clipped.Empty() {
		return clipped
	}
	return bounds
}
