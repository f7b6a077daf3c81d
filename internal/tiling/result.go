package tiling

import (
	"sort"

	"github.com/1broseidon/deskgrid/internal/geom"
)

// LayoutResult is the outcome for one task: either Rendered or Hidden.
type LayoutResult interface {
	ID() int
	layoutResult()
}

// Rendered places a task at Bounds.
type Rendered struct {
	TaskID int
	Bounds geom.Rect
}

// Hidden marks a task that could not be placed under the current constraints.
type Hidden struct {
	TaskID int
}

func (r Rendered) ID() int { return r.TaskID }
func (h Hidden) ID() int   { return h.TaskID }

func (Rendered) layoutResult() {}
func (Hidden) layoutResult()   {}

// TaskIDSet is a set of task ids.
type TaskIDSet map[int]struct{}

// Has reports whether id is in the set.
func (s TaskIDSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (s TaskIDSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Equal reports whether both sets hold the same ids.
func (s TaskIDSet) Equal(o TaskIDSet) bool {
	if len(s) != len(o) {
		return false
	}
	for id := range s {
		if !o.Has(id) {
			return false
		}
	}
	return true
}

// RenderedIDs returns the ids of every Rendered entry.
func RenderedIDs(results []LayoutResult) TaskIDSet {
	out := make(TaskIDSet, len(results))
	for _, r := range results {
		if _, ok := r.(Rendered); ok {
			out[r.ID()] = struct{}{}
		}
	}
	return out
}

// BoundsOf returns the bounds of the Rendered entry for id.
func BoundsOf(results []LayoutResult, id int) (geom.Rect, bool) {
	for _, r := range results {
		if rendered, ok := r.(Rendered); ok && rendered.TaskID == id {
			return rendered.Bounds, true
		}
	}
	return geom.Rect{}, false
}

func allHidden(tasks []OriginalTaskBounds) []LayoutResult {
	out := make([]LayoutResult, len(tasks))
	for i, t := range tasks {
		out[i] = Hidden{TaskID: t.TaskID}
	}
	return out
}
