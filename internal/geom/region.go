package geom

// Region is a union of rectangles. It keeps the rectangles as added rather
// than normalizing them into disjoint bands, so containment queries are
// answered conservatively.
type Region struct {
	rects []Rect
}

// IsEmpty reports whether the region covers no area.
func (g *Region) IsEmpty() bool {
	return g == nil || len(g.rects) == 0
}

// Rects returns a copy of the rectangles making up the region.
func (g *Region) Rects() []Rect {
	if g == nil {
		return nil
	}
	out := make([]Rect, len(g.rects))
	copy(out, g.rects)
	return out
}

// Union adds r to the region. Rectangles already covered by a single member
// are dropped, and members covered by r are replaced.
func (g *Region) Union(r Rect) {
	if r.Empty() {
		return
	}
	for _, existing := range g.rects {
		if existing.Contains(r) {
			return
		}
	}
	kept := g.rects[:0]
	for _, existing := range g.rects {
		if !r.Contains(existing) {
			kept = append(kept, existing)
		}
	}
	g.rects = append(kept, r)
}

// Intersect returns a new region clipped to r.
func (g *Region) Intersect(r Rect) *Region {
	out := &Region{}
	if g == nil {
		return out
	}
	for _, existing := range g.rects {
		if clipped := existing.Intersect(r); !clipped.Empty() {
			out.rects = append(out.rects, clipped)
		}
	}
	return out
}

// QuickContains reports whether r is inside the region. It only answers true
// when a single member rectangle covers r, so a region that covers r only
// through several pieces reports false.
func (g *Region) QuickContains(r Rect) bool {
	if g == nil || r.Empty() {
		return false
	}
	for _, existing := range g.rects {
		if existing.Contains(r) {
			return true
		}
	}
	return false
}

// Bounds returns the bounding box of the region.
func (g *Region) Bounds() Rect {
	if g == nil {
		return Rect{}
	}
	return Bounds(g.rects)
}
