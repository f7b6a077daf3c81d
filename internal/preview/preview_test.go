package preview

import (
	"bytes"
	"image/png"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/1broseidon/deskgrid/internal/geom"
	"github.com/1broseidon/deskgrid/internal/tiling"
)

func sampleResults() []tiling.LayoutResult {
	return []tiling.LayoutResult{
		tiling.Rendered{TaskID: 1, Bounds: geom.XYWH(0, 0, 500, 500)},
		tiling.Rendered{TaskID: 2, Bounds: geom.XYWH(500, 0, 500, 500)},
		tiling.Hidden{TaskID: 3},
	}
}

func TestASCII_DrawsTilesAndBorder(t *testing.T) {
	lines := ASCII(geom.XYWH(0, 0, 1000, 500), sampleResults(), 40, 10, 0)

	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n != 40 {
			t.Fatalf("line %d: expected 40 runes, got %d", i, n)
		}
	}
	if !strings.HasPrefix(lines[0], "╔") || !strings.HasPrefix(lines[9], "╚") {
		t.Fatalf("missing outer border:\n%s", strings.Join(lines, "\n"))
	}

	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "1") || !strings.Contains(joined, "2") {
		t.Fatalf("expected tile labels:\n%s", joined)
	}
	if strings.Contains(joined, "3") {
		t.Fatalf("hidden task drawn:\n%s", joined)
	}
	if strings.Count(joined, "┌") != 2 {
		t.Fatalf("expected two tiles:\n%s", joined)
	}
}

func TestASCII_SelectedUsesHeavyLines(t *testing.T) {
	lines := ASCII(geom.XYWH(0, 0, 1000, 500), sampleResults(), 40, 10, 2)
	joined := strings.Join(lines, "\n")

	if strings.Count(joined, "┏") != 1 || strings.Count(joined, "┌") != 1 {
		t.Fatalf("expected one heavy and one thin tile:\n%s", joined)
	}
}

func TestASCII_TooSmall(t *testing.T) {
	lines := ASCII(geom.XYWH(0, 0, 100, 100), sampleResults(), 4, 2, 0)
	if len(lines) != 2 || lines[0] != "    " {
		t.Fatalf("expected blank canvas, got %q", lines)
	}
	if got := ASCII(geom.Rect{}, sampleResults(), 10, 5, 0); strings.TrimSpace(strings.Join(got, "")) != "" {
		t.Fatalf("expected blank canvas for empty desktop, got %q", got)
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name    string
		results []tiling.LayoutResult
		want    string
	}{
		{"empty", nil, "no windows"},
		{"all hidden", []tiling.LayoutResult{tiling.Hidden{TaskID: 1}}, "no windows shown • 1 hidden"},
		{"uniform", sampleResults(), "2 shown • 500×500 px each • 1 hidden"},
		{"mixed", []tiling.LayoutResult{
			tiling.Rendered{TaskID: 1, Bounds: geom.XYWH(0, 0, 100, 50)},
			tiling.Rendered{TaskID: 2, Bounds: geom.XYWH(0, 0, 200, 50)},
		}, "2 shown • min 100×50 • max 200×50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summary(tt.results); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestHiddenLine(t *testing.T) {
	if got := HiddenLine(sampleResults()); got != "hidden: 3" {
		t.Fatalf("unexpected hidden line %q", got)
	}
	if got := HiddenLine(sampleResults()[:2]); got != "" {
		t.Fatalf("expected empty line, got %q", got)
	}
}

func TestFitCanvas(t *testing.T) {
	w, h := FitCanvas(geom.XYWH(0, 0, 1920, 1080), 100, 50)
	if w != 100 || h != 28 {
		t.Fatalf("expected 100x28, got %dx%d", w, h)
	}
	w, h = FitCanvas(geom.XYWH(0, 0, 1000, 1000), 100, 20)
	if w != 40 || h != 20 {
		t.Fatalf("expected 40x20, got %dx%d", w, h)
	}
}

func TestCanvasSize_NotATerminal(t *testing.T) {
	w, h := CanvasSize(nil, geom.XYWH(0, 0, 100, 100), 80, 24)
	if w != 80 || h != 24 {
		t.Fatalf("expected fallback, got %dx%d", w, h)
	}
}

func TestSnapshotPNG(t *testing.T) {
	snap := Snapshot{
		Desktop: geom.XYWH(0, 0, 1000, 500),
		Tasks:   []tiling.OriginalTaskBounds{{TaskID: 1, Bounds: geom.XYWH(10, 10, 200, 100)}},
		Results: sampleResults(),
		Caption: "test",
	}

	var buf bytes.Buffer
	if err := snap.EncodePNG(&buf, 320, 200); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 200 {
		t.Fatalf("unexpected size %v", b)
	}

	// The centre of tile 1 is filled, the letterbox above the desktop is not.
	tile := img.At(80, 100)
	background := img.At(160, 5)
	if tile == background {
		t.Fatalf("expected tile colour to differ from background")
	}

	path := filepath.Join(t.TempDir(), "out.png")
	if err := snap.SavePNG(path, 64, 32); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
}
