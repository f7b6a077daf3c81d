package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/geom"
	"github.com/1broseidon/deskgrid/internal/preview"
	"github.com/1broseidon/deskgrid/internal/scenario"
	"github.com/1broseidon/deskgrid/internal/tiling"
	"github.com/1broseidon/deskgrid/internal/tui"
)

const (
	defaultPNGWidth = 1280
	defaultCanvasW  = 80
	defaultCanvasH  = 22
)

type planWindow struct {
	ID     int        `json:"id"`
	Hidden bool       `json:"hidden"`
	Bounds *geom.Rect `json:"bounds,omitempty"`
}

type planOutput struct {
	Name     string       `json:"name"`
	Profile  string       `json:"profile"`
	Path     string       `json:"path"`
	Desktop  geom.Rect    `json:"desktop"`
	Windows  []planWindow `json:"windows"`
	Obscured []int        `json:"obscured,omitempty"`
}

func newPlanOutput(sc *scenario.Scenario, res *scenario.Result) planOutput {
	out := planOutput{
		Name:    sc.Title(),
		Profile: res.Profile,
		Path:    string(res.Path),
		Desktop: sc.Desktop.Rect(),
		Windows: make([]planWindow, 0, len(res.Final)),
	}
	for _, r := range res.Final {
		switch r := r.(type) {
		case tiling.Rendered:
			b := r.Bounds
			out.Windows = append(out.Windows, planWindow{ID: r.TaskID, Bounds: &b})
		case tiling.Hidden:
			out.Windows = append(out.Windows, planWindow{ID: r.TaskID, Hidden: true})
		}
	}
	if res.Obscured != nil {
		out.Obscured = res.Obscured.Sorted()
	}
	return out
}

func runPlan(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/deskgrid/config.yaml)")
	pngPath := fs.String("png", "", "Also render the layout to this PNG file")
	width := fs.Int("width", 0, "PNG width in pixels (default: 1280)")
	height := fs.Int("height", 0, "PNG height in pixels (default: keeps the desktop's aspect ratio)")
	asJSON := fs.Bool("json", false, "Print the layout as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskgrid plan [--json] [--png out.png] [--width N --height N] <scenario.yaml>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Lay out the windows of a scenario file without touching the screen.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	sc, err := scenario.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg, err := planConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	res, err := sc.Run(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *pngPath != "" {
		w, h := pngSize(sc.Desktop.Rect(), *width, *height)
		snap := preview.Snapshot{
			Desktop: sc.Desktop.Rect(),
			Tasks:   res.Tasks,
			Results: res.Final,
			Caption: fmt.Sprintf("%s • %s • %s", sc.Title(), res.Profile, preview.Summary(res.Final)),
		}
		if err := snap.SavePNG(*pngPath, w, h); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newPlanOutput(sc, res)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	desktop := sc.Desktop.Rect()
	cw, ch := defaultCanvasW, defaultCanvasH
	if f, ok := stdout.(*os.File); ok {
		cw, ch = preview.CanvasSize(f, desktop, defaultCanvasW, defaultCanvasH)
	}
	fmt.Fprintf(stdout, "%s (profile %s, %s pass)\n", sc.Title(), res.Profile, res.Path)
	for _, line := range preview.ASCII(desktop, res.Final, cw, ch, 0) {
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintln(stdout, preview.Summary(res.Final))
	if line := preview.HiddenLine(res.Final); line != "" {
		fmt.Fprintln(stdout, line)
	}
	if res.Obscured != nil {
		fmt.Fprintf(stdout, "obscured: %v\n", res.Obscured.Sorted())
	}
	if *pngPath != "" {
		fmt.Fprintf(stdout, "wrote %s\n", *pngPath)
	}
	return 0
}

// planConfig loads the config at path. Without an explicit path a missing
// or broken user config falls back to the defaults so plan works offline.
func planConfig(path string) (*config.Config, error) {
	if path != "" {
		res, err := config.LoadFromPath(path)
		if err != nil {
			return nil, err
		}
		return res.Config, nil
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		return config.DefaultConfig(), nil
	}
	return cfg, nil
}

func pngSize(desktop geom.Rect, width, height int) (int, int) {
	if width <= 0 && height <= 0 {
		width = defaultPNGWidth
	}
	if desktop.Empty() {
		return max(width, 1), max(height, 1)
	}
	if width <= 0 {
		width = height * desktop.Width() / desktop.Height()
	}
	if height <= 0 {
		height = width * desktop.Height() / desktop.Width()
	}
	return max(width, 1), max(height, 1)
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/deskgrid/config.yaml)")
	count := fs.Int("windows", 6, "Number of generated windows when no scenario is given")
	seed := fs.Uint64("seed", 0, "Seed for generated windows (default: time based)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskgrid tui [--path PATH] [--windows N] [--seed N] [scenario.yaml]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive layout playground. Without a scenario a random set of")
		fmt.Fprintln(os.Stderr, "windows on a 1920x1080 desktop is generated.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  ←/→, h/l  Select window")
		fmt.Fprintln(os.Stderr, "  d, x      Dismiss selected window (incremental update)")
		fmt.Fprintln(os.Stderr, "  a         Add a window (full layout)")
		fmt.Fprintln(os.Stderr, "  r         Re-organize from scratch")
		fmt.Fprintln(os.Stderr, "  p         Next profile")
		fmt.Fprintln(os.Stderr, "  ?         Toggle help")
		fmt.Fprintln(os.Stderr, "  q, Esc    Quit")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}

	cfg, err := planConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var sc *scenario.Scenario
	if fs.NArg() == 1 {
		sc, err = scenario.Load(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	} else {
		s := *seed
		if s == 0 {
			s = uint64(time.Now().UnixNano())
		}
		sc = scenario.Generate(*count, geom.XYWH(0, 0, 1920, 1080), s)
	}

	if err := tui.Run(sc, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
