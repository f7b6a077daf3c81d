package platform

import "github.com/1broseidon/deskgrid/internal/geom"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds geom.Rect
	Usable geom.Rect
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID        WindowID
	PID       int
	Class     string
	Title     string
	Bounds    geom.Rect
	Minimized bool
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Displays() ([]Display, error)
	ActiveDisplay() (Display, error)
	// ListWindowsOnDisplay returns the windows on a display ordered front to
	// back. Minimized windows are included and flagged.
	ListWindowsOnDisplay(displayID int) ([]Window, error)
	MoveResize(windowID WindowID, bounds geom.Rect) error
	Minimize(windowID WindowID) error
	Activate(windowID WindowID) error
}
