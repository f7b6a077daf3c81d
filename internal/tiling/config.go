package tiling

import "github.com/1broseidon/deskgrid/internal/geom"

// LayoutConfig describes the desktop area and the spacing rules for one
// layout pass. It is a plain value; callers build a fresh one per pass.
type LayoutConfig struct {
	DesktopBounds geom.Rect

	TopBottomMarginOneRow    int
	TopMarginMultiRows       int
	BottomMarginMultiRows    int
	LeftRightMarginOneRow    int
	LeftRightMarginMultiRows int

	HorizontalPaddingBetweenTasks int
	VerticalPaddingBetweenTasks   int

	// MinTaskWidth is the narrowest a task may be drawn before it stops being
	// legible. 0 disables the constraint.
	MinTaskWidth int
	// MaxRows caps the number of rows. 0 or less means unlimited.
	MaxRows int
}

// OriginalTaskBounds is a window's natural, unconstrained geometry.
type OriginalTaskBounds struct {
	TaskID int
	Bounds geom.Rect
}

// TaskPosition is a window as seen by the occlusion resolver. Slices of
// TaskPosition are ordered front to back.
type TaskPosition struct {
	TaskID    int
	Bounds    geom.Rect
	Minimized bool
}
