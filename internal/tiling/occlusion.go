package tiling

import "github.com/1broseidon/deskgrid/internal/geom"

// FindObscuredTaskIDs returns the ids of windows completely covered by
// windows in front of them. positions must be ordered front to back.
// Minimized windows neither occlude nor get reported. Coverage is tested
// conservatively: a window is only reported when a single occluding area
// contains it.
func FindObscuredTaskIDs(positions []TaskPosition) TaskIDSet {
	obscured := make(TaskIDSet)
	var covered geom.Region

	for _, p := range positions {
		if p.Minimized {
			continue
		}
		if covered.Intersect(p.Bounds).QuickContains(p.Bounds) {
			obscured[p.TaskID] = struct{}{}
			continue
		}
		covered.Union(p.Bounds)
	}
	return obscured
}
