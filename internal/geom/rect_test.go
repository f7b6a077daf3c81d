package geom

import "testing"

func TestRect_SizeAndEmpty(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Right: 110, Bottom: 70}
	if r.Width() != 100 || r.Height() != 50 {
		t.Fatalf("expected 100x50, got %dx%d", r.Width(), r.Height())
	}
	if r.Empty() {
		t.Fatalf("expected %v to be non-empty", r)
	}
	if !(Rect{Left: 5, Top: 5, Right: 5, Bottom: 10}).Empty() {
		t.Fatalf("zero-width rect should be empty")
	}
	if !(Rect{Left: 5, Top: 10, Right: 6, Bottom: 2}).Empty() {
		t.Fatalf("inverted rect should be empty")
	}
}

func TestRect_IntersectAndUnion(t *testing.T) {
	a := XYWH(0, 0, 100, 100)
	b := XYWH(50, 50, 100, 100)

	if got, want := a.Intersect(b), (Rect{Left: 50, Top: 50, Right: 100, Bottom: 100}); got != want {
		t.Fatalf("Intersect = %v, want %v", got, want)
	}
	if got, want := a.Union(b), (Rect{Left: 0, Top: 0, Right: 150, Bottom: 150}); got != want {
		t.Fatalf("Union = %v, want %v", got, want)
	}

	c := XYWH(200, 200, 10, 10)
	if got := a.Intersect(c); got != (Rect{}) {
		t.Fatalf("disjoint Intersect = %v, want zero rect", got)
	}
	if a.Intersects(c) {
		t.Fatalf("expected %v and %v not to intersect", a, c)
	}
	if got := (Rect{}).Union(c); got != c {
		t.Fatalf("empty Union = %v, want %v", got, c)
	}
}

func TestRect_ContainsRejectsEmpty(t *testing.T) {
	outer := XYWH(0, 0, 100, 100)
	if !outer.Contains(XYWH(10, 10, 20, 20)) {
		t.Fatalf("expected inner rect to be contained")
	}
	if !outer.Contains(outer) {
		t.Fatalf("rect should contain itself")
	}
	if outer.Contains(Rect{}) {
		t.Fatalf("empty rect must not be reported as contained")
	}
	if outer.Contains(XYWH(90, 90, 20, 20)) {
		t.Fatalf("overhanging rect must not be contained")
	}
}

func TestRect_InsetAndOffset(t *testing.T) {
	r := XYWH(0, 0, 100, 100).Inset(10, 20, -5, 0)
	if want := (Rect{Left: 10, Top: 20, Right: 105, Bottom: 100}); r != want {
		t.Fatalf("Inset = %v, want %v", r, want)
	}
	if got, want := r.Offset(-10, 5), (Rect{Left: 0, Top: 25, Right: 95, Bottom: 105}); got != want {
		t.Fatalf("Offset = %v, want %v", got, want)
	}
}

func TestBounds(t *testing.T) {
	got := Bounds([]Rect{XYWH(10, 10, 10, 10), {}, XYWH(0, 30, 5, 5)})
	if want := (Rect{Left: 0, Top: 10, Right: 20, Bottom: 35}); got != want {
		t.Fatalf("Bounds = %v, want %v", got, want)
	}
}
