package tiling

import (
	"math"
	"reflect"
	"testing"

	"github.com/1broseidon/deskgrid/internal/geom"
)

func task(id, w, h int) OriginalTaskBounds {
	return OriginalTaskBounds{TaskID: id, Bounds: geom.XYWH(0, 0, w, h)}
}

func desktopConfig() LayoutConfig {
	return LayoutConfig{
		DesktopBounds:                 geom.Rect{Right: 1920, Bottom: 1080},
		TopBottomMarginOneRow:         60,
		TopMarginMultiRows:            40,
		BottomMarginMultiRows:         80,
		LeftRightMarginOneRow:         40,
		LeftRightMarginMultiRows:      40,
		HorizontalPaddingBetweenTasks: 16,
		VerticalPaddingBetweenTasks:   16,
		MinTaskWidth:                  120,
	}
}

func TestOrganize_EmptyTaskList(t *testing.T) {
	got := Organize(nil, desktopConfig())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestOrganize_EmptyDesktopHidesEverything(t *testing.T) {
	cfg := desktopConfig()
	cfg.DesktopBounds = geom.Rect{Left: 10, Top: 10, Right: 10, Bottom: 500}

	got := Organize([]OriginalTaskBounds{task(1, 800, 600), task(2, 640, 480)}, cfg)
	for _, r := range got {
		if _, ok := r.(Hidden); !ok {
			t.Fatalf("expected every task hidden, got %#v", r)
		}
	}
}

func TestOrganize_SingleTaskFillsAndCenters(t *testing.T) {
	cfg := LayoutConfig{DesktopBounds: geom.Rect{Right: 1000, Bottom: 1000}}

	got := Organize([]OriginalTaskBounds{task(7, 200, 100)}, cfg)
	b, ok := BoundsOf(got, 7)
	if !ok {
		t.Fatalf("expected task 7 rendered, got %#v", got)
	}
	want := geom.Rect{Left: 0, Top: 250, Right: 1000, Bottom: 750}
	if b != want {
		t.Fatalf("expected %v, got %v", want, b)
	}
}

func TestOrganize_MaxRowsHidesOverflow(t *testing.T) {
	cfg := LayoutConfig{
		DesktopBounds:                 geom.Rect{Right: 1000, Bottom: 550},
		LeftRightMarginOneRow:         20,
		LeftRightMarginMultiRows:      20,
		HorizontalPaddingBetweenTasks: 10,
		VerticalPaddingBetweenTasks:   10,
		MinTaskWidth:                  50,
		MaxRows:                       1,
	}
	tasks := []OriginalTaskBounds{task(1, 200, 100), task(2, 200, 100), task(3, 200, 100)}

	got := Organize(tasks, cfg)
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	r, ok := got[0].(Rendered)
	if !ok {
		t.Fatalf("expected first task rendered, got %#v", got[0])
	}
	want := geom.Rect{Left: 25, Top: 37, Right: 975, Bottom: 512}
	if r.Bounds != want {
		t.Fatalf("expected %v, got %v", want, r.Bounds)
	}
	for _, res := range got[1:] {
		if _, ok := res.(Hidden); !ok {
			t.Fatalf("expected task %d hidden, got %#v", res.ID(), res)
		}
	}
}

func TestOrganize_DegenerateTaskIsSquare(t *testing.T) {
	cfg := LayoutConfig{DesktopBounds: geom.Rect{Right: 1000, Bottom: 1000}}

	got := Organize([]OriginalTaskBounds{{TaskID: 1}}, cfg)
	b, ok := BoundsOf(got, 1)
	if !ok {
		t.Fatalf("expected degenerate task rendered, got %#v", got)
	}
	if b.Width() != b.Height() {
		t.Fatalf("expected a square, got %v", b)
	}
}

func TestOrganize_Properties(t *testing.T) {
	tasks := []OriginalTaskBounds{
		task(1, 800, 600),
		task(2, 1280, 720),
		task(3, 640, 480),
		task(4, 500, 900),
		task(5, 1024, 768),
		task(6, 300, 300),
	}
	cfg := desktopConfig()

	first := Organize(tasks, cfg)
	second := Organize(tasks, cfg)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results for identical input")
	}

	if len(first) != len(tasks) {
		t.Fatalf("expected %d results, got %d", len(tasks), len(first))
	}

	var rendered []geom.Rect
	for i, res := range first {
		if res.ID() != tasks[i].TaskID {
			t.Fatalf("result %d: expected id %d, got %d", i, tasks[i].TaskID, res.ID())
		}
		r, ok := res.(Rendered)
		if !ok {
			t.Fatalf("expected every task rendered on a large desktop, task %d hidden", res.ID())
		}

		want := float64(tasks[i].Bounds.Width()) / float64(tasks[i].Bounds.Height())
		got := float64(r.Bounds.Width()) / float64(r.Bounds.Height())
		if math.Abs(got-want) > 0.1 {
			t.Fatalf("task %d: aspect ratio %.3f drifted from %.3f", r.TaskID, got, want)
		}
		if !cfg.DesktopBounds.Contains(r.Bounds) {
			t.Fatalf("task %d: %v escapes desktop %v", r.TaskID, r.Bounds, cfg.DesktopBounds)
		}
		if r.Bounds.Width() < cfg.MinTaskWidth {
			t.Fatalf("task %d: width %d below minimum %d", r.TaskID, r.Bounds.Width(), cfg.MinTaskWidth)
		}
		rendered = append(rendered, r.Bounds)
	}

	for i := range rendered {
		for j := i + 1; j < len(rendered); j++ {
			if rendered[i].Intersects(rendered[j]) {
				t.Fatalf("tasks overlap: %v and %v", rendered[i], rendered[j])
			}
		}
	}
}

func TestOrganize_UniformRowHeight(t *testing.T) {
	tasks := []OriginalTaskBounds{task(1, 800, 600), task(2, 1280, 720), task(3, 400, 800)}
	got := Organize(tasks, desktopConfig())

	height := -1
	for _, res := range got {
		r, ok := res.(Rendered)
		if !ok {
			t.Fatalf("expected task %d rendered", res.ID())
		}
		if height >= 0 && r.Bounds.Height() != height {
			t.Fatalf("expected uniform height %d, got %d", height, r.Bounds.Height())
		}
		height = r.Bounds.Height()
	}
}

func TestOrganize_WrapsIntoRows(t *testing.T) {
	cfg := LayoutConfig{
		DesktopBounds:                 geom.Rect{Right: 1000, Bottom: 1000},
		HorizontalPaddingBetweenTasks: 10,
		VerticalPaddingBetweenTasks:   10,
	}
	var tasks []OriginalTaskBounds
	for id := 1; id <= 4; id++ {
		tasks = append(tasks, task(id, 100, 100))
	}

	got := Organize(tasks, cfg)
	tops := map[int]bool{}
	for _, res := range got {
		r, ok := res.(Rendered)
		if !ok {
			t.Fatalf("expected task %d rendered", res.ID())
		}
		tops[r.Bounds.Top] = true
	}
	if len(tops) != 2 {
		t.Fatalf("expected a 2x2 grid, got rows at %v", tops)
	}
}

func TestOrganize_MinWidthHidesTasksThatWouldShrinkTooFar(t *testing.T) {
	cfg := LayoutConfig{
		DesktopBounds:                 geom.Rect{Right: 400, Bottom: 300},
		HorizontalPaddingBetweenTasks: 10,
		VerticalPaddingBetweenTasks:   10,
		MinTaskWidth:                  150,
	}
	var tasks []OriginalTaskBounds
	for id := 1; id <= 10; id++ {
		tasks = append(tasks, task(id, 400, 300))
	}

	got := Organize(tasks, cfg)
	rendered := RenderedIDs(got)
	if len(rendered) == 0 || len(rendered) == len(tasks) {
		t.Fatalf("expected a strict prefix rendered, got %v", rendered.Sorted())
	}
	for i, res := range got {
		_, isRendered := res.(Rendered)
		if isRendered != (i < len(rendered)) {
			t.Fatalf("expected rendered tasks to form a prefix, task %d out of order", res.ID())
		}
		if r, ok := res.(Rendered); ok && r.Bounds.Width() < cfg.MinTaskWidth {
			t.Fatalf("task %d width %d below minimum", r.TaskID, r.Bounds.Width())
		}
	}
}

func TestOrganize_ZeroPaddingOddLeftoverDoesNotOverlap(t *testing.T) {
	cfg := LayoutConfig{DesktopBounds: geom.Rect{Right: 1001, Bottom: 777}}
	tasks := []OriginalTaskBounds{task(1, 300, 200), task(2, 300, 200), task(3, 300, 200)}

	got := Organize(tasks, cfg)
	var rects []geom.Rect
	for _, res := range got {
		r, ok := res.(Rendered)
		if !ok {
			t.Fatalf("expected task %d rendered, got %#v", res.ID(), res)
		}
		rects = append(rects, r.Bounds)
	}

	for i := range rects {
		if rects[i].Width() != rects[0].Width() || rects[i].Height() != rects[0].Height() {
			t.Fatalf("expected equal sizes, got %v and %v", rects[0], rects[i])
		}
		for j := i + 1; j < len(rects); j++ {
			if !rects[i].Intersect(rects[j]).Empty() {
				t.Fatalf("tasks %d and %d overlap: %v and %v", i+1, j+1, rects[i], rects[j])
			}
		}
	}
}

func TestCenterIn_SharedOffset(t *testing.T) {
	rects := []geom.Rect{
		{Left: 0, Top: 0, Right: 10, Bottom: 10},
		{Left: 10, Top: 0, Right: 20, Bottom: 10},
	}
	got := centerIn(rects, geom.Rect{Right: 25, Bottom: 15})

	want := []geom.Rect{
		{Left: 2, Top: 2, Right: 12, Bottom: 12},
		{Left: 12, Top: 2, Right: 22, Bottom: 12},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
