package mcp

import "github.com/1broseidon/deskgrid/internal/geom"

// TaskInput is one window's natural geometry.
type TaskInput struct {
	ID     int       `json:"id" jsonschema:"required,Task id, unique within the request"`
	Bounds geom.Rect `json:"bounds" jsonschema:"required,Natural window bounds (left, top, right, bottom; right and bottom exclusive)"`
}

// LayoutInput is an inline set of spacing rules used instead of a named profile.
type LayoutInput struct {
	TopBottomMarginOneRow    int `json:"top_bottom_margin_one_row,omitempty" jsonschema:"Top and bottom margin when all tasks fit on one row"`
	TopMarginMultiRows       int `json:"top_margin_multi_rows,omitempty" jsonschema:"Top margin with more than one row"`
	BottomMarginMultiRows    int `json:"bottom_margin_multi_rows,omitempty" jsonschema:"Bottom margin with more than one row"`
	LeftRightMarginOneRow    int `json:"left_right_margin_one_row,omitempty" jsonschema:"Left and right margin with one row"`
	LeftRightMarginMultiRows int `json:"left_right_margin_multi_rows,omitempty" jsonschema:"Left and right margin with more than one row"`
	HorizontalPadding        int `json:"horizontal_padding,omitempty" jsonschema:"Gap between neighbouring tasks in a row"`
	VerticalPadding          int `json:"vertical_padding,omitempty" jsonschema:"Gap between rows"`
	MinTaskWidth             int `json:"min_task_width,omitempty" jsonschema:"Narrowest width a task may be drawn at (0 disables)"`
	MaxRows                  int `json:"max_rows,omitempty" jsonschema:"Row limit (0 = unlimited)"`
}

// OrganizeInput is the input for the organize_windows tool.
type OrganizeInput struct {
	Desktop geom.Rect    `json:"desktop" jsonschema:"required,Usable desktop bounds"`
	Tasks   []TaskInput  `json:"tasks" jsonschema:"required,Windows to lay out"`
	Profile string       `json:"profile,omitempty" jsonschema:"Named layout profile (default: the configured default profile)"`
	Layout  *LayoutInput `json:"layout,omitempty" jsonschema:"Inline spacing rules; mutually exclusive with profile"`
}

// PlacementOutput is the outcome for one task. Bounds is nil when the task
// is hidden.
type PlacementOutput struct {
	ID     int        `json:"id"`
	Hidden bool       `json:"hidden"`
	Bounds *geom.Rect `json:"bounds,omitempty"`
}

// LayoutOutput is the output for organize_windows and dismiss_window.
type LayoutOutput struct {
	Profile  string            `json:"profile"`
	Path     string            `json:"path"`
	Rendered int               `json:"rendered"`
	Hidden   int               `json:"hidden"`
	Results  []PlacementOutput `json:"results"`
}

// DismissInput is the input for the dismiss_window tool.
type DismissInput struct {
	Desktop   geom.Rect         `json:"desktop" jsonschema:"required,Usable desktop bounds"`
	Tasks     []TaskInput       `json:"tasks" jsonschema:"required,Every window of the overview, including the dismissed one"`
	Previous  []PlacementOutput `json:"previous,omitempty" jsonschema:"Layout currently shown, as returned by organize_windows. Without it the remaining windows are organized from scratch."`
	Dismissed int               `json:"dismissed" jsonschema:"required,Id of the window that closed"`
	Profile   string            `json:"profile,omitempty" jsonschema:"Named layout profile (default: the configured default profile)"`
	Layout    *LayoutInput      `json:"layout,omitempty" jsonschema:"Inline spacing rules; mutually exclusive with profile"`
}

// StackEntryInput is one window of a front-to-back stack.
type StackEntryInput struct {
	ID        int       `json:"id" jsonschema:"required,Window id"`
	Bounds    geom.Rect `json:"bounds" jsonschema:"required,Window bounds"`
	Minimized bool      `json:"minimized,omitempty" jsonschema:"Minimized windows neither cover nor get reported"`
}

// ObscuredInput is the input for the find_obscured_windows tool.
type ObscuredInput struct {
	Stack []StackEntryInput `json:"stack" jsonschema:"required,Windows ordered front to back"`
}

// ObscuredOutput is the output for the find_obscured_windows tool.
type ObscuredOutput struct {
	Obscured []int `json:"obscured"`
}

// ArrangeDesktopInput is the input for the arrange_desktop tool.
type ArrangeDesktopInput struct {
	Action  string `json:"action,omitempty" jsonschema:"One of arrange, restore, toggle (default: arrange)"`
	Profile string `json:"profile,omitempty" jsonschema:"Switch the daemon to this profile before arranging"`
}

// ArrangeDesktopOutput is the output for the arrange_desktop tool.
type ArrangeDesktopOutput struct {
	Action  string `json:"action"`
	Profile string `json:"profile,omitempty"`
}

// DesktopStatusInput is the input for the desktop_status tool.
type DesktopStatusInput struct{}

// OverviewOutput describes one overview the daemon is showing.
type OverviewOutput struct {
	DisplayID  int    `json:"display_id"`
	Profile    string `json:"profile"`
	Rendered   int    `json:"rendered"`
	Hidden     int    `json:"hidden"`
	LastPath   string `json:"last_path"`
	ArrangedAt string `json:"arranged_at"` // RFC 3339
}

// DesktopStatusOutput is the output for the desktop_status tool.
type DesktopStatusOutput struct {
	ActiveProfile string           `json:"active_profile"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Overviews     []OverviewOutput `json:"overviews"`
}
