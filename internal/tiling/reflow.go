package tiling

import (
	"sort"

	"github.com/1broseidon/deskgrid/internal/geom"
)

// Path names the way a layout was produced.
type Path string

const (
	// PathFull is a from-scratch Organize.
	PathFull Path = "full"
	// PathFresh is a dismissal that needed a from-scratch Organize.
	PathFresh Path = "fresh"
	// PathReflow is a dismissal absorbed by rebalancing the previous layout.
	PathReflow Path = "reflow"
	// PathHiddenDismiss is a dismissal of a task that was not on screen.
	PathHiddenDismiss Path = "hidden_dismiss"
)

// OrganizeIncremental updates a previous layout after one task is dismissed.
//
// all holds every task still present, hint is the layout produced before the
// dismissal. When the dismissed task was Hidden the hint is reused as is.
// When it was Rendered and a fresh Organize would render exactly the same
// survivors, the hint is rebalanced in place so the remaining windows move as
// little as possible. Every other case falls back to a fresh Organize.
func OrganizeIncremental(all []OriginalTaskBounds, cfg LayoutConfig, hint []LayoutResult, dismissedTaskID *int) []LayoutResult {
	out, _ := Reorganize(all, cfg, hint, dismissedTaskID)
	return out
}

// Reorganize is OrganizeIncremental that also reports which path produced
// the result.
func Reorganize(all []OriginalTaskBounds, cfg LayoutConfig, hint []LayoutResult, dismissedTaskID *int) ([]LayoutResult, Path) {
	if dismissedTaskID == nil {
		return Organize(all, cfg), PathFull
	}
	dismissed := *dismissedTaskID

	remaining := make([]OriginalTaskBounds, 0, len(all))
	for _, t := range all {
		if t.TaskID != dismissed {
			remaining = append(remaining, t)
		}
	}

	if hint == nil {
		return Organize(remaining, cfg), PathFresh
	}

	idx := -1
	for i, r := range hint {
		if r.ID() == dismissed {
			idx = i
			break
		}
	}
	if idx < 0 {
		logger().Debug("dismissed task not in previous layout", "task", dismissed)
		return Organize(remaining, cfg), PathFresh
	}

	rest := make([]LayoutResult, 0, len(hint)-1)
	rest = append(rest, hint[:idx]...)
	rest = append(rest, hint[idx+1:]...)

	if _, ok := hint[idx].(Hidden); ok {
		return rest, PathHiddenDismiss
	}

	fresh := Organize(remaining, cfg)
	if !RenderedIDs(fresh).Equal(RenderedIDs(rest)) {
		logger().Debug("dismissal changes rendered set, laying out again", "task", dismissed)
		return fresh, PathFresh
	}
	return rebalance(hint, idx, cfg), PathReflow
}

// row is a run of rendered entries whose vertical extents overlap.
type row struct {
	members []int
	extent  geom.Rect
}

// groupRows clusters the rendered entries of results into rows, top to
// bottom. Member indices refer to results.
func groupRows(results []LayoutResult) []row {
	var rendered []int
	for i, r := range results {
		if _, ok := r.(Rendered); ok {
			rendered = append(rendered, i)
		}
	}

	bounds := func(i int) geom.Rect { return results[i].(Rendered).Bounds }
	sort.SliceStable(rendered, func(a, b int) bool {
		ra, rb := bounds(rendered[a]), bounds(rendered[b])
		if ra.Top != rb.Top {
			return ra.Top < rb.Top
		}
		return ra.Left < rb.Left
	})

	var rows []row
	for _, i := range rendered {
		b := bounds(i)
		if n := len(rows); n > 0 && b.Top < rows[n-1].extent.Bottom {
			rows[n-1].members = append(rows[n-1].members, i)
			rows[n-1].extent = rows[n-1].extent.Union(b)
			continue
		}
		rows = append(rows, row{members: []int{i}, extent: b})
	}
	return rows
}

// rebalance removes hint[dismissed]. If its row keeps other entries, they
// move together so their union is centered in the span the row had before;
// gaps between them stay. Otherwise the surviving rows are restacked and the
// block is centered in the area the previous layout occupied.
func rebalance(hint []LayoutResult, dismissed int, cfg LayoutConfig) []LayoutResult {
	vpad := cfg.VerticalPaddingBetweenTasks

	rows := groupRows(hint)
	moved := make(map[int]geom.Rect)
	boundsOf := func(i int) geom.Rect { return hint[i].(Rendered).Bounds }

	var full geom.Rect
	affected := -1
	for ri, r := range rows {
		full = full.Union(r.extent)
		for _, m := range r.members {
			if m == dismissed {
				affected = ri
			}
		}
	}

	var survivors []int
	if affected >= 0 {
		for _, m := range rows[affected].members {
			if m != dismissed {
				survivors = append(survivors, m)
			}
		}
	}

	if len(survivors) > 0 {
		// The survivors keep their spacing and shift as one group.
		extent := rows[affected].extent
		var span geom.Rect
		for _, m := range survivors {
			span = span.Union(boundsOf(m))
		}
		dx := extent.Left + (extent.Width()-span.Width())/2 - span.Left
		for _, m := range survivors {
			moved[m] = boundsOf(m).Offset(dx, 0)
		}
	} else {
		var kept []row
		for ri, r := range rows {
			if ri != affected {
				kept = append(kept, r)
			}
		}

		if len(kept) > 0 {
			total := vpad * (len(kept) - 1)
			left, right := kept[0].extent.Left, kept[0].extent.Right
			for _, r := range kept {
				total += r.extent.Height()
				left = min(left, r.extent.Left)
				right = max(right, r.extent.Right)
			}

			dx := full.Left + (full.Width()-(right-left))/2 - left
			y := full.Top + (full.Height()-total)/2
			for _, r := range kept {
				dy := y - r.extent.Top
				for _, m := range r.members {
					moved[m] = boundsOf(m).Offset(dx, dy)
				}
				y += r.extent.Height() + vpad
			}
		}
	}

	out := make([]LayoutResult, 0, len(hint)-1)
	for i, r := range hint {
		if i == dismissed {
			continue
		}
		if b, ok := moved[i]; ok {
			out = append(out, Rendered{TaskID: r.ID(), Bounds: b})
			continue
		}
		out = append(out, r)
	}
	return out
}
