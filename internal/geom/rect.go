// Package geom provides integer rectangle and region primitives shared by the
// layout engine and the window-system backends.
package geom

import "fmt"

// Rect is an axis-aligned rectangle in screen coordinates. Right and Bottom
// are exclusive.
type Rect struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

// XYWH builds a Rect from an origin and a size.
func XYWH(x, y, width, height int) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Offset returns r translated by dx, dy.
func (r Rect) Offset(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Inset shrinks r by the given amounts on each side. Negative values grow it.
func (r Rect) Inset(left, top, right, bottom int) Rect {
	return Rect{Left: r.Left + left, Top: r.Top + top, Right: r.Right - right, Bottom: r.Bottom - bottom}
}

// Contains reports whether o lies entirely inside r. An empty o is never
// contained.
func (r Rect) Contains(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return o.Left >= r.Left && o.Top >= r.Top && o.Right <= r.Right && o.Bottom <= r.Bottom
}

// Intersect returns the overlap of r and o, or the zero Rect when they do
// not overlap.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		Left:   max(r.Left, o.Left),
		Top:    max(r.Top, o.Top),
		Right:  min(r.Right, o.Right),
		Bottom: min(r.Bottom, o.Bottom),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Intersects reports whether r and o share any area.
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersect(o).Empty()
}

// Union returns the smallest rectangle covering both r and o. Empty operands
// are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		Left:   min(r.Left, o.Left),
		Top:    min(r.Top, o.Top),
		Right:  max(r.Right, o.Right),
		Bottom: max(r.Bottom, o.Bottom),
	}
}

// Bounds returns the union of all rects.
func Bounds(rects []Rect) Rect {
	var out Rect
	for _, r := range rects {
		out = out.Union(r)
	}
	return out
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d, %d, %d, %d)", r.Left, r.Top, r.Right, r.Bottom)
}
