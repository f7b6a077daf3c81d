package preview

import (
	"image"
	"io"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/1broseidon/deskgrid/internal/geom"
	"github.com/1broseidon/deskgrid/internal/tiling"
)

// Snapshot holds everything drawn into a PNG.
type Snapshot struct {
	Desktop geom.Rect
	// Tasks, when set, are drawn as dashed outlines at their natural bounds.
	Tasks   []tiling.OriginalTaskBounds
	Results []tiling.LayoutResult
	Caption string
}

var palette = [][3]float64{
	{0.35, 0.55, 0.85},
	{0.90, 0.55, 0.30},
	{0.45, 0.75, 0.45},
	{0.80, 0.40, 0.55},
	{0.60, 0.50, 0.80},
	{0.85, 0.75, 0.35},
	{0.35, 0.70, 0.75},
}

// Image renders s scaled to fit a width x height image.
func (s Snapshot) Image(width, height int) image.Image {
	return s.draw(width, height).Image()
}

// EncodePNG renders s and writes it to w.
func (s Snapshot) EncodePNG(w io.Writer, width, height int) error {
	return s.draw(width, height).EncodePNG(w)
}

// SavePNG renders s into the PNG file at path.
func (s Snapshot) SavePNG(path string, width, height int) error {
	return s.draw(width, height).SavePNG(path)
}

func (s Snapshot) draw(width, height int) *gg.Context {
	dc := gg.NewContext(width, height)
	dc.SetRGB(0.12, 0.12, 0.14)
	dc.Clear()

	if s.Desktop.Empty() {
		return dc
	}

	scale := min(float64(width)/float64(s.Desktop.Width()), float64(height)/float64(s.Desktop.Height()))
	offX := (float64(width) - scale*float64(s.Desktop.Width())) / 2
	offY := (float64(height) - scale*float64(s.Desktop.Height())) / 2
	project := func(r geom.Rect) (x, y, w, h float64) {
		return offX + scale*float64(r.Left-s.Desktop.Left),
			offY + scale*float64(r.Top-s.Desktop.Top),
			scale * float64(r.Width()),
			scale * float64(r.Height())
	}

	dc.SetRGB(0.20, 0.21, 0.24)
	dc.DrawRectangle(project(s.Desktop))
	dc.Fill()

	if len(s.Tasks) > 0 {
		dc.Push()
		dc.SetRGBA(1, 1, 1, 0.25)
		dc.SetLineWidth(1)
		dc.SetDash(4, 4)
		for _, t := range s.Tasks {
			dc.DrawRectangle(project(t.Bounds))
			dc.Stroke()
		}
		dc.Pop()
	}

	for i, r := range s.Results {
		rendered, ok := r.(tiling.Rendered)
		if !ok {
			continue
		}
		c := palette[i%len(palette)]
		x, y, w, h := project(rendered.Bounds)

		dc.SetRGBA(c[0], c[1], c[2], 0.85)
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()

		dc.SetRGB(c[0]*0.6, c[1]*0.6, c[2]*0.6)
		dc.SetLineWidth(2)
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()

		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(strconv.Itoa(rendered.TaskID), x+w/2, y+h/2, 0.5, 0.5)
	}

	caption := s.Caption
	if hidden := HiddenLine(s.Results); hidden != "" {
		if caption != "" {
			caption += "  "
		}
		caption += hidden
	}
	if caption != "" {
		dc.SetRGB(0.9, 0.9, 0.9)
		dc.DrawStringAnchored(caption, 8, float64(height)-8, 0, 0)
	}
	return dc
}
