package geom

import "testing"

func TestRegion_QuickContainsSingleMember(t *testing.T) {
	var g Region
	g.Union(XYWH(0, 0, 300, 300))

	if !g.QuickContains(XYWH(0, 0, 200, 200)) {
		t.Fatalf("expected 200x200 to be contained in 300x300")
	}
	if g.QuickContains(XYWH(250, 250, 100, 100)) {
		t.Fatalf("overhanging rect must not be contained")
	}
}

func TestRegion_QuickContainsUnderReportsSplitCoverage(t *testing.T) {
	var g Region
	g.Union(XYWH(0, 0, 50, 100))
	g.Union(XYWH(50, 0, 50, 100))

	// Fully covered, but only by two pieces.
	if g.QuickContains(XYWH(0, 0, 100, 100)) {
		t.Fatalf("expected conservative false for coverage split across members")
	}
	if !g.QuickContains(XYWH(10, 10, 20, 20)) {
		t.Fatalf("expected rect inside the first member to be contained")
	}
}

func TestRegion_UnionDropsCoveredMembers(t *testing.T) {
	var g Region
	g.Union(XYWH(10, 10, 10, 10))
	g.Union(XYWH(40, 40, 10, 10))
	g.Union(XYWH(0, 0, 30, 30))
	g.Union(XYWH(5, 5, 5, 5))
	g.Union(Rect{})

	rects := g.Rects()
	if len(rects) != 2 {
		t.Fatalf("expected 2 members after absorbing covered rects, got %d: %v", len(rects), rects)
	}
	if got, want := g.Bounds(), (Rect{Left: 0, Top: 0, Right: 50, Bottom: 50}); got != want {
		t.Fatalf("Bounds = %v, want %v", got, want)
	}
}

func TestRegion_IntersectClipsMembers(t *testing.T) {
	var g Region
	g.Union(XYWH(0, 0, 100, 100))
	g.Union(XYWH(200, 0, 100, 100))

	clipped := g.Intersect(XYWH(50, 50, 100, 100))
	rects := clipped.Rects()
	if len(rects) != 1 {
		t.Fatalf("expected 1 clipped member, got %v", rects)
	}
	if want := (Rect{Left: 50, Top: 50, Right: 100, Bottom: 100}); rects[0] != want {
		t.Fatalf("clipped = %v, want %v", rects[0], want)
	}

	var empty *Region
	if !empty.IsEmpty() || empty.QuickContains(XYWH(0, 0, 1, 1)) {
		t.Fatalf("nil region should be empty and contain nothing")
	}
}
