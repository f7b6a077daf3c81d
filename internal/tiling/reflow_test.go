package tiling

import (
	"reflect"
	"testing"

	"github.com/1broseidon/deskgrid/internal/geom"
)

func intPtr(v int) *int { return &v }

func columnHint() []LayoutResult {
	return []LayoutResult{
		Rendered{TaskID: 1, Bounds: geom.Rect{Left: 100, Top: 0, Right: 400, Bottom: 200}},
		Rendered{TaskID: 2, Bounds: geom.Rect{Left: 100, Top: 210, Right: 400, Bottom: 410}},
		Rendered{TaskID: 3, Bounds: geom.Rect{Left: 100, Top: 420, Right: 400, Bottom: 620}},
	}
}

func reflowConfig() LayoutConfig {
	return LayoutConfig{
		DesktopBounds:                 geom.Rect{Right: 1000, Bottom: 1000},
		HorizontalPaddingBetweenTasks: 10,
		VerticalPaddingBetweenTasks:   10,
	}
}

func TestOrganizeIncremental_ColumnRecentersRegardlessOfDismissed(t *testing.T) {
	all := []OriginalTaskBounds{task(1, 300, 200), task(2, 300, 200), task(3, 300, 200)}

	for _, dismissed := range []int{1, 2, 3} {
		var remaining []OriginalTaskBounds
		for _, tk := range all {
			if tk.TaskID != dismissed {
				remaining = append(remaining, tk)
			}
		}

		got := OrganizeIncremental(remaining, reflowConfig(), columnHint(), intPtr(dismissed))
		if len(got) != 2 {
			t.Fatalf("dismiss %d: expected 2 results, got %d", dismissed, len(got))
		}

		first, ok := got[0].(Rendered)
		if !ok {
			t.Fatalf("dismiss %d: expected first entry rendered", dismissed)
		}
		second, ok := got[1].(Rendered)
		if !ok {
			t.Fatalf("dismiss %d: expected second entry rendered", dismissed)
		}
		if first.Bounds.Top != 105 || first.Bounds.Bottom != 305 {
			t.Fatalf("dismiss %d: expected first at top 105 bottom 305, got %v", dismissed, first.Bounds)
		}
		if second.Bounds.Top != 315 || second.Bounds.Bottom != 515 {
			t.Fatalf("dismiss %d: expected second at top 315 bottom 515, got %v", dismissed, second.Bounds)
		}
		if first.Bounds.Left != 100 || second.Bounds.Left != 100 {
			t.Fatalf("dismiss %d: expected horizontal position kept, got %v and %v", dismissed, first.Bounds, second.Bounds)
		}
	}
}

func TestOrganizeIncremental_RowMovesTogether(t *testing.T) {
	hint := []LayoutResult{
		Rendered{TaskID: 1, Bounds: geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}},
		Rendered{TaskID: 2, Bounds: geom.Rect{Left: 110, Top: 0, Right: 210, Bottom: 100}},
		Rendered{TaskID: 3, Bounds: geom.Rect{Left: 220, Top: 0, Right: 320, Bottom: 100}},
	}

	tests := []struct {
		name      string
		dismissed int
		remaining []OriginalTaskBounds
		want      []LayoutResult
	}{
		{
			// The survivors already span the whole row, so nothing moves and
			// the gap stays open.
			name:      "middle",
			dismissed: 2,
			remaining: []OriginalTaskBounds{task(1, 100, 100), task(3, 100, 100)},
			want: []LayoutResult{
				Rendered{TaskID: 1, Bounds: geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}},
				Rendered{TaskID: 3, Bounds: geom.Rect{Left: 220, Top: 0, Right: 320, Bottom: 100}},
			},
		},
		{
			name:      "last",
			dismissed: 3,
			remaining: []OriginalTaskBounds{task(1, 100, 100), task(2, 100, 100)},
			want: []LayoutResult{
				Rendered{TaskID: 1, Bounds: geom.Rect{Left: 55, Top: 0, Right: 155, Bottom: 100}},
				Rendered{TaskID: 2, Bounds: geom.Rect{Left: 165, Top: 0, Right: 265, Bottom: 100}},
			},
		},
		{
			name:      "first",
			dismissed: 1,
			remaining: []OriginalTaskBounds{task(2, 100, 100), task(3, 100, 100)},
			want: []LayoutResult{
				Rendered{TaskID: 2, Bounds: geom.Rect{Left: 55, Top: 0, Right: 155, Bottom: 100}},
				Rendered{TaskID: 3, Bounds: geom.Rect{Left: 165, Top: 0, Right: 265, Bottom: 100}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrganizeIncremental(tt.remaining, reflowConfig(), hint, intPtr(tt.dismissed))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestOrganizeIncremental_RowKeepsUnevenGaps(t *testing.T) {
	hint := []LayoutResult{
		Rendered{TaskID: 1, Bounds: geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}},
		Rendered{TaskID: 2, Bounds: geom.Rect{Left: 130, Top: 0, Right: 230, Bottom: 100}},
		Rendered{TaskID: 3, Bounds: geom.Rect{Left: 300, Top: 0, Right: 400, Bottom: 100}},
	}
	remaining := []OriginalTaskBounds{task(2, 100, 100), task(3, 100, 100)}

	got := OrganizeIncremental(remaining, reflowConfig(), hint, intPtr(1))

	a, _ := BoundsOf(got, 2)
	b, _ := BoundsOf(got, 3)
	if gap := b.Left - a.Right; gap != 70 {
		t.Fatalf("expected the 70px gap to survive, got %d (%v, %v)", gap, a, b)
	}
	// Union 130..400 (270 wide) recentered in 0..400.
	if a.Left != 65 || b.Right != 335 {
		t.Fatalf("expected group at 65..335, got %v and %v", a, b)
	}
}

func TestOrganizeIncremental_GridRowSurvives(t *testing.T) {
	hint := []LayoutResult{
		Rendered{TaskID: 1, Bounds: geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}},
		Rendered{TaskID: 2, Bounds: geom.Rect{Left: 110, Top: 0, Right: 210, Bottom: 100}},
		Rendered{TaskID: 3, Bounds: geom.Rect{Left: 0, Top: 110, Right: 100, Bottom: 210}},
		Rendered{TaskID: 4, Bounds: geom.Rect{Left: 110, Top: 110, Right: 210, Bottom: 210}},
	}
	remaining := []OriginalTaskBounds{task(1, 100, 100), task(2, 100, 100), task(3, 100, 100)}

	got := OrganizeIncremental(remaining, reflowConfig(), hint, intPtr(4))
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}

	b, _ := BoundsOf(got, 3)
	want := geom.Rect{Left: 55, Top: 110, Right: 155, Bottom: 210}
	if b != want {
		t.Fatalf("expected survivor centered in its row at %v, got %v", want, b)
	}
	for _, id := range []int{1, 2} {
		before, _ := BoundsOf(hint, id)
		after, _ := BoundsOf(got, id)
		if before != after {
			t.Fatalf("task %d in an untouched row moved from %v to %v", id, before, after)
		}
	}
}

func TestOrganizeIncremental_HiddenDismissalKeepsGeometry(t *testing.T) {
	cfg := LayoutConfig{
		DesktopBounds:                 geom.Rect{Right: 1000, Bottom: 550},
		LeftRightMarginOneRow:         20,
		LeftRightMarginMultiRows:      20,
		HorizontalPaddingBetweenTasks: 10,
		VerticalPaddingBetweenTasks:   10,
		MinTaskWidth:                  50,
		MaxRows:                       1,
	}
	all := []OriginalTaskBounds{task(1, 200, 100), task(2, 200, 100), task(3, 200, 100)}
	hint := Organize(all, cfg)

	got := OrganizeIncremental([]OriginalTaskBounds{all[0], all[2]}, cfg, hint, intPtr(2))

	want := []LayoutResult{hint[0], hint[2]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestOrganizeIncremental_MembershipMatchesFreshLayout(t *testing.T) {
	cfg := desktopConfig()
	all := []OriginalTaskBounds{
		task(1, 800, 600),
		task(2, 1280, 720),
		task(3, 640, 480),
		task(4, 1024, 768),
		task(5, 500, 900),
	}
	hint := Organize(all, cfg)

	for _, dismissed := range []int{1, 3, 5} {
		var remaining []OriginalTaskBounds
		for _, tk := range all {
			if tk.TaskID != dismissed {
				remaining = append(remaining, tk)
			}
		}

		got := OrganizeIncremental(remaining, cfg, hint, intPtr(dismissed))
		fresh := Organize(remaining, cfg)
		if !RenderedIDs(got).Equal(RenderedIDs(fresh)) {
			t.Fatalf("dismiss %d: rendered %v, fresh layout renders %v",
				dismissed, RenderedIDs(got).Sorted(), RenderedIDs(fresh).Sorted())
		}
		if len(got) != len(remaining) {
			t.Fatalf("dismiss %d: expected %d results, got %d", dismissed, len(remaining), len(got))
		}
	}
}

func TestOrganizeIncremental_FallsBackToFreshLayout(t *testing.T) {
	cfg := reflowConfig()
	remaining := []OriginalTaskBounds{task(1, 300, 200), task(3, 300, 200)}
	fresh := Organize(remaining, cfg)

	cases := []struct {
		name      string
		hint      []LayoutResult
		dismissed *int
	}{
		{name: "no dismissal", hint: columnHint(), dismissed: nil},
		{name: "no hint", hint: nil, dismissed: intPtr(2)},
		{name: "dismissed not in hint", hint: columnHint()[:1], dismissed: intPtr(2)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := OrganizeIncremental(remaining, cfg, tc.hint, tc.dismissed)
			if !reflect.DeepEqual(got, fresh) {
				t.Fatalf("expected fresh layout %v, got %v", fresh, got)
			}
		})
	}
}

func TestGroupRows_OverlappingExtents(t *testing.T) {
	results := []LayoutResult{
		Rendered{TaskID: 1, Bounds: geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}},
		Hidden{TaskID: 2},
		Rendered{TaskID: 3, Bounds: geom.Rect{Left: 0, Top: 120, Right: 100, Bottom: 220}},
		Rendered{TaskID: 4, Bounds: geom.Rect{Left: 110, Top: 5, Right: 210, Bottom: 95}},
	}

	rows := groupRows(results)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !reflect.DeepEqual(rows[0].members, []int{0, 3}) {
		t.Fatalf("expected first row members [0 3], got %v", rows[0].members)
	}
	if !reflect.DeepEqual(rows[1].members, []int{2}) {
		t.Fatalf("expected second row members [2], got %v", rows[1].members)
	}
}

func TestReorganize_ReportsPath(t *testing.T) {
	cfg := reflowConfig()
	all := []OriginalTaskBounds{task(1, 300, 200), task(2, 300, 200), task(3, 300, 200)}
	remaining := []OriginalTaskBounds{all[0], all[2]}

	if _, path := Reorganize(all, cfg, nil, nil); path != PathFull {
		t.Fatalf("expected %q, got %q", PathFull, path)
	}
	if _, path := Reorganize(remaining, cfg, columnHint(), intPtr(2)); path != PathReflow {
		t.Fatalf("expected %q, got %q", PathReflow, path)
	}
	if _, path := Reorganize(remaining, cfg, nil, intPtr(2)); path != PathFresh {
		t.Fatalf("expected %q, got %q", PathFresh, path)
	}

	hint := []LayoutResult{columnHint()[0], Hidden{TaskID: 2}, columnHint()[2]}
	if _, path := Reorganize(remaining, cfg, hint, intPtr(2)); path != PathHiddenDismiss {
		t.Fatalf("expected %q, got %q", PathHiddenDismiss, path)
	}
}
