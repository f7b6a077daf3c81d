// Package preview draws layout results as text or as PNG snapshots.
package preview

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/1broseidon/deskgrid/internal/geom"
	"github.com/1broseidon/deskgrid/internal/tiling"
)

type boxRunes struct {
	h, v, tl, tr, bl, br rune
}

var (
	thinBox  = boxRunes{'─', '│', '┌', '┐', '└', '┘'}
	heavyBox = boxRunes{'━', '┃', '┏', '┓', '┗', '┛'}
)

// ASCII renders the Rendered entries of results on a width x height
// character canvas that maps desktop. The tile whose id equals selected is
// drawn with heavy lines; pass 0 to select nothing.
func ASCII(desktop geom.Rect, results []tiling.LayoutResult, width, height, selected int) []string {
	if desktop.Empty() || width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	// The selected tile is drawn last so its border wins where tiles touch.
	var sel *tiling.Rendered
	for _, r := range results {
		rendered, ok := r.(tiling.Rendered)
		if !ok {
			continue
		}
		if rendered.TaskID == selected {
			sel = &rendered
			continue
		}
		drawTile(canvas, desktop, rendered.Bounds, rendered.TaskID, thinBox)
	}
	if sel != nil {
		drawTile(canvas, desktop, sel.Bounds, sel.TaskID, heavyBox)
	}

	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawTile(canvas [][]rune, desktop, rect geom.Rect, id int, box boxRunes) {
	canvasH := len(canvas)
	canvasW := len(canvas[0])
	deskW, deskH := desktop.Width(), desktop.Height()

	x1 := (rect.Left - desktop.Left) * canvasW / deskW
	y1 := (rect.Top - desktop.Top) * canvasH / deskH
	x2 := (rect.Right-desktop.Left)*canvasW/deskW - 1
	y2 := (rect.Bottom-desktop.Top)*canvasH/deskH - 1

	x1 = max(x1, 1)
	y1 = max(y1, 1)
	x2 = min(x2, canvasW-2)
	y2 = min(y2, canvasH-2)

	// Need at least 2x2 for a tile
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = box.h
		canvas[y2][x] = box.h
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = box.v
		canvas[y][x2] = box.v
	}
	canvas[y1][x1] = box.tl
	canvas[y1][x2] = box.tr
	canvas[y2][x1] = box.bl
	canvas[y2][x2] = box.br

	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 && centerX > x1 && centerX < x2 {
		label := strconv.Itoa(id)
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = r
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if width < 0 || height < 0 {
		return nil
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}

// Summary describes results in one line.
func Summary(results []tiling.LayoutResult) string {
	var rects []geom.Rect
	hidden := 0
	for _, r := range results {
		switch r := r.(type) {
		case tiling.Rendered:
			rects = append(rects, r.Bounds)
		case tiling.Hidden:
			hidden++
		}
	}
	if len(rects) == 0 {
		if hidden > 0 {
			return fmt.Sprintf("no windows shown • %d hidden", hidden)
		}
		return "no windows"
	}

	minW, minH := rects[0].Width(), rects[0].Height()
	maxW, maxH := minW, minH
	for _, r := range rects[1:] {
		minW = min(minW, r.Width())
		minH = min(minH, r.Height())
		maxW = max(maxW, r.Width())
		maxH = max(maxH, r.Height())
	}

	var sizes string
	if minW == maxW && minH == maxH {
		sizes = fmt.Sprintf("%d×%d px each", minW, minH)
	} else {
		sizes = fmt.Sprintf("min %d×%d • max %d×%d", minW, minH, maxW, maxH)
	}

	out := fmt.Sprintf("%d shown • %s", len(rects), sizes)
	if hidden > 0 {
		out += fmt.Sprintf(" • %d hidden", hidden)
	}
	return out
}

// HiddenLine lists the ids of Hidden entries, or returns "" when there are
// none.
func HiddenLine(results []tiling.LayoutResult) string {
	var ids []string
	for _, r := range results {
		if _, ok := r.(tiling.Hidden); ok {
			ids = append(ids, strconv.Itoa(r.ID()))
		}
	}
	if len(ids) == 0 {
		return ""
	}
	return "hidden: " + strings.Join(ids, ", ")
}

// CanvasSize picks a canvas size for f. When f is a terminal the canvas
// fills its width and keeps the desktop's aspect ratio, assuming character
// cells twice as tall as they are wide. Otherwise the fallback is returned.
func CanvasSize(f *os.File, desktop geom.Rect, fallbackW, fallbackH int) (int, int) {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return fallbackW, fallbackH
	}
	cols, rows, err := term.GetSize(int(f.Fd()))
	if err != nil || cols < 5 || rows < 3 {
		return fallbackW, fallbackH
	}
	return FitCanvas(desktop, cols, rows-4)
}

// FitCanvas returns the largest canvas within cols x rows that keeps the
// desktop's aspect ratio.
func FitCanvas(desktop geom.Rect, cols, rows int) (int, int) {
	if desktop.Empty() || cols < 5 || rows < 3 {
		return max(cols, 0), max(rows, 0)
	}
	w := cols
	h := w * desktop.Height() / desktop.Width() / 2
	if h > rows {
		h = rows
		w = h * 2 * desktop.Width() / desktop.Height()
	}
	return max(w, 5), max(h, 3)
}
