//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/deskgrid/internal/geom"
	"github.com/1broseidon/deskgrid/internal/x11"
)

// LinuxBackend implements Backend on an X11 connection.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend wraps an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a fresh connection to $DISPLAY.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop runs the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// XUtil exposes the xgbutil connection to the hotkey handler.
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

// Displays returns all active displays with Usable equal to Bounds.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.Monitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}
	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})
	return displays, nil
}

// ActiveDisplay returns the currently active display. Its usable area
// excludes panels and docks.
func (b *LinuxBackend) ActiveDisplay() (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}

	active, err := conn.ActiveMonitor()
	if err != nil {
		return Display{}, err
	}
	return displayFromMonitor(active), nil
}

// ListWindowsOnDisplay lists normal windows of the current virtual desktop
// whose centers are inside the display bounds, front to back.
func (b *LinuxBackend) ListWindowsOnDisplay(displayID int) ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	displays, err := b.Displays()
	if err != nil {
		return nil, err
	}
	idx := sort.Search(len(displays), func(i int) bool { return displays[i].ID >= displayID })
	if idx == len(displays) || displays[idx].ID != displayID {
		return nil, fmt.Errorf("display with id %d not found", displayID)
	}
	target := displays[idx]

	stack, err := conn.Stack()
	if err != nil {
		return nil, err
	}

	desktop := -1
	if d, err := conn.CurrentDesktop(); err == nil {
		desktop = d
	}

	windows := make([]Window, 0, len(stack))
	for _, id := range stack {
		cl, ok := conn.Client(id)
		if !ok || !belongsOn(cl, target, desktop) {
			continue
		}
		windows = append(windows, Window{
			ID:        WindowID(cl.ID),
			PID:       cl.PID,
			Class:     cl.Class,
			Title:     cl.Title,
			Bounds:    cl.Bounds,
			Minimized: cl.Hidden,
		})
	}
	return windows, nil
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds geom.Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Place(xproto.Window(windowID), bounds)
}

// Minimize asks the window manager to iconify a window.
func (b *LinuxBackend) Minimize(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Iconify(xproto.Window(windowID))
}

// Activate raises a window and maps it if it was minimized.
func (b *LinuxBackend) Activate(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Activate(xproto.Window(windowID))
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{ID: m.ID, Name: m.Name, Bounds: m.Bounds, Usable: m.Usable}
}

// belongsOn filters the client stack down to overview candidates. A desktop
// of -1 disables the virtual desktop check. Fullscreen windows are skipped.
func belongsOn(cl x11.Client, d Display, desktop int) bool {
	if !cl.Normal || cl.Fullscreen {
		return false
	}
	if desktop >= 0 && cl.Desktop >= 0 && cl.Desktop != desktop {
		return false
	}
	cx := cl.Bounds.Left + cl.Bounds.Width()/2
	cy := cl.Bounds.Top + cl.Bounds.Height()/2
	b := d.Bounds
	return cx >= b.Left && cx < b.Right && cy >= b.Top && cy < b.Bottom
}
