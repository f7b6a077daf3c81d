package tiling

import (
	"math"

	"github.com/1broseidon/deskgrid/internal/geom"
)

// maxSearchIterations bounds the row-height bisection. 64 halvings cover any
// int range.
const maxSearchIterations = 64

// packing is the result of laying tasks out left to right at one height.
// rects holds the placed prefix of the input; it is shorter than the input
// when a task did not fit.
type packing struct {
	rects []geom.Rect
	rows  int
}

// attempt is one way of resolving row-ness: a single row with one-row
// margins, or up to rowLimit rows with multi-row margins.
type attempt struct {
	singleRow bool
	rowLimit  int
}

// Organize lays out every task inside cfg.DesktopBounds at a uniform row
// height, preserving each task's aspect ratio. Results follow input order.
// Tasks that cannot be placed are Hidden; when no height fits every task, the
// longest prefix that fits is rendered and the rest are Hidden.
func Organize(tasks []OriginalTaskBounds, cfg LayoutConfig) []LayoutResult {
	if len(tasks) == 0 {
		return []LayoutResult{}
	}
	if cfg.DesktopBounds.Empty() {
		return allHidden(tasks)
	}

	rects, placed := arrange(tasks, cfg)

	out := make([]LayoutResult, len(tasks))
	for i, t := range tasks {
		if i < placed {
			out[i] = Rendered{TaskID: t.TaskID, Bounds: rects[i]}
		} else {
			out[i] = Hidden{TaskID: t.TaskID}
		}
	}
	return out
}

// arrange returns bounds for the first n tasks.
func arrange(tasks []OriginalTaskBounds, cfg LayoutConfig) ([]geom.Rect, int) {
	if rects, ok := arrangeAll(tasks, cfg); ok {
		return rects, len(tasks)
	}

	available := EffectiveBounds(cfg.DesktopBounds, false, len(tasks), cfg)
	height := minCandidateHeight(tasks, available, cfg.MaxRows, cfg)
	p := pack(aspectRatios(tasks), height, available, cfg.MaxRows, cfg)
	n := len(p.rects)

	logger().Debug("layout does not fit every task",
		"tasks", len(tasks), "placed", n, "min_height", height)

	if n == 0 {
		return nil, 0
	}
	if rects, ok := arrangeAll(tasks[:n], cfg); ok {
		return rects, n
	}
	return centerIn(p.rects, available), n
}

// arrangeAll tries a single row first, then multiple rows, and returns
// centered bounds for every task when one of them fits.
func arrangeAll(tasks []OriginalTaskBounds, cfg LayoutConfig) ([]geom.Rect, bool) {
	ratios := aspectRatios(tasks)
	attempts := []attempt{
		{singleRow: true, rowLimit: 1},
		{singleRow: false, rowLimit: cfg.MaxRows},
	}

	for _, a := range attempts {
		available := EffectiveBounds(cfg.DesktopBounds, a.singleRow, len(tasks), cfg)
		if available.Empty() {
			continue
		}

		height, ok := searchHeight(tasks, ratios, available, a.rowLimit, cfg)
		if !ok {
			continue
		}

		p := pack(ratios, height, available, a.rowLimit, cfg)
		logger().Debug("layout fits",
			"tasks", len(tasks), "single_row", a.singleRow, "height", height, "rows", p.rows)
		return centerIn(p.rects, available), true
	}
	return nil, false
}

// searchHeight finds the tallest row height at which every task fits.
func searchHeight(tasks []OriginalTaskBounds, ratios []float64, available geom.Rect, rowLimit int, cfg LayoutConfig) (int, bool) {
	lo := minCandidateHeight(tasks, available, rowLimit, cfg)
	hi := MaxTaskHeight(available)

	fits := func(h int) bool {
		return len(pack(ratios, h, available, rowLimit, cfg).rects) == len(ratios)
	}

	if lo > hi || !fits(lo) {
		return lo, false
	}

	for i := 0; lo < hi && i < maxSearchIterations; i++ {
		mid := lo + (hi-lo+1)/2
		if fits(mid) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, true
}

// minCandidateHeight is the lower bound of the height search: tall enough
// that no more than rowLimit rows fit, and tall enough that the narrowest
// task keeps MinTaskWidth.
func minCandidateHeight(tasks []OriginalTaskBounds, available geom.Rect, rowLimit int, cfg LayoutConfig) int {
	limited := cfg
	limited.MaxRows = rowLimit
	return max(MinTaskHeightGivenMaxRows(available, limited), RequiredHeightForMinWidth(tasks, cfg), 1)
}

// pack places tasks left to right at height h, wrapping when the next task
// plus its trailing padding would cross available.Right. It stops at the
// first task that does not fit.
func pack(ratios []float64, h int, available geom.Rect, rowLimit int, cfg LayoutConfig) packing {
	var p packing
	if h <= 0 || available.Empty() || available.Top+h > available.Bottom {
		return p
	}

	hpad := cfg.HorizontalPaddingBetweenTasks
	vpad := cfg.VerticalPaddingBetweenTasks

	x, top := available.Left, available.Top
	p.rows = 1
	for _, ratio := range ratios {
		w := widthAt(ratio, h)
		if x+w+hpad > available.Right {
			if x == available.Left {
				// Too wide even for an empty row.
				break
			}
			if rowLimit > 0 && p.rows >= rowLimit {
				break
			}
			top += h + vpad
			if top+h > available.Bottom {
				break
			}
			x = available.Left
			p.rows++
			if x+w+hpad > available.Right {
				break
			}
		}
		p.rects = append(p.rects, geom.XYWH(x, top, w, h))
		x += w + hpad
	}
	return p
}

// centerIn moves the block formed by rects so its bounding box is centered in
// available. Every rect shifts by the same offset; an odd leftover pixel goes
// to the right or bottom.
func centerIn(rects []geom.Rect, available geom.Rect) []geom.Rect {
	block := geom.Bounds(rects)
	dx := floorHalf(available.Left + available.Right - block.Left - block.Right)
	dy := floorHalf(available.Top + available.Bottom - block.Top - block.Bottom)

	out := make([]geom.Rect, len(rects))
	for i, r := range rects {
		out[i] = r.Offset(dx, dy)
	}
	return out
}

func floorHalf(v int) int {
	if v >= 0 {
		return v / 2
	}
	return -((-v + 1) / 2)
}

func aspectRatios(tasks []OriginalTaskBounds) []float64 {
	out := make([]float64, len(tasks))
	for i, t := range tasks {
		w, h := t.Bounds.Width(), t.Bounds.Height()
		if w <= 0 || h <= 0 {
			out[i] = 1
			continue
		}
		out[i] = float64(w) / float64(h)
	}
	return out
}

func widthAt(ratio float64, h int) int {
	w := int(math.Round(float64(h) * ratio))
	if w < 1 {
		return 1
	}
	return w
}
