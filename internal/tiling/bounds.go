package tiling

import "github.com/1broseidon/deskgrid/internal/geom"

// EffectiveBounds insets desktopBounds by the margins that apply to a single
// row or to several rows. The right inset is reduced by the horizontal
// padding so the packer can charge every task, including the last one in a
// row, for its trailing gap. A lone task in a single row is centered
// symmetrically instead. The result may be empty when the margins exceed the
// desktop.
func EffectiveBounds(desktopBounds geom.Rect, singleRow bool, taskCount int, cfg LayoutConfig) geom.Rect {
	var top, bottom, left int
	if singleRow {
		top = cfg.TopBottomMarginOneRow
		bottom = cfg.TopBottomMarginOneRow
		left = cfg.LeftRightMarginOneRow
	} else {
		top = cfg.TopMarginMultiRows
		bottom = cfg.BottomMarginMultiRows
		left = cfg.LeftRightMarginMultiRows
	}

	right := left - cfg.HorizontalPaddingBetweenTasks
	if singleRow && taskCount <= 1 {
		right = left
	}

	return desktopBounds.Inset(left, top, right, bottom)
}

// RequiredHeightForMinWidth returns the row height at which the narrowest
// task (relative to its height) is still MinTaskWidth wide. The quotient
// MinTaskWidth*h/w rounds up: truncating can leave a task one pixel under the
// minimum once its width is rounded back from the height. Tasks without a
// positive width and height are ignored. The result is never below the
// vertical padding.
func RequiredHeightForMinWidth(tasks []OriginalTaskBounds, cfg LayoutConfig) int {
	floor := cfg.VerticalPaddingBetweenTasks
	if cfg.MinTaskWidth <= 0 {
		return floor
	}

	required := floor
	for _, t := range tasks {
		w, h := t.Bounds.Width(), t.Bounds.Height()
		if w <= 0 || h <= 0 {
			continue
		}
		if height := (cfg.MinTaskWidth*h + w - 1) / w; height > required {
			required = height
		}
	}
	return required
}

// MinTaskHeightGivenMaxRows returns the smallest row height at which no more
// than MaxRows rows fit vertically inside available.
func MinTaskHeightGivenMaxRows(available geom.Rect, cfg LayoutConfig) int {
	vpad := cfg.VerticalPaddingBetweenTasks
	if cfg.MaxRows <= 0 {
		return vpad
	}
	return minHeightForRows(available, cfg.MaxRows, vpad)
}

func minHeightForRows(available geom.Rect, rows, vpad int) int {
	contentHeight := available.Height() - rows*vpad
	if contentHeight <= 0 {
		return vpad
	}
	return max(contentHeight/(rows+1)+1, vpad)
}

// MaxTaskHeight is the tallest a task may be drawn inside bounds.
func MaxTaskHeight(bounds geom.Rect) int {
	return bounds.Height()
}

// PlaceholderBounds returns a square of side
// min(MinTaskWidth, desktop width, desktop height) centered on the desktop.
func PlaceholderBounds(cfg LayoutConfig) geom.Rect {
	desktop := cfg.DesktopBounds
	if desktop.Empty() {
		return geom.Rect{}
	}

	side := min(cfg.MinTaskWidth, desktop.Width(), desktop.Height())
	if side <= 0 {
		return geom.Rect{}
	}

	left := desktop.Left + (desktop.Width()-side)/2
	top := desktop.Top + (desktop.Height()-side)/2
	return geom.XYWH(left, top, side, side)
}
