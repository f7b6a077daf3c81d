package scenario

import (
	"fmt"
	"math/rand/v2"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/geom"
	"github.com/1broseidon/deskgrid/internal/tiling"
)

// Result is the outcome of running a scenario.
type Result struct {
	Profile string
	Config  tiling.LayoutConfig
	Tasks   []tiling.OriginalTaskBounds
	// Initial is the layout of every task.
	Initial []tiling.LayoutResult
	// Final is the layout after the dismissal, or Initial without one.
	Final []tiling.LayoutResult
	Path  tiling.Path
	// Obscured is nil when the scenario has no stack.
	Obscured tiling.TaskIDSet
}

// LayoutConfig resolves the engine configuration of the scenario. Named
// profiles are looked up in cfg, or in the builtin profiles when cfg is nil.
// With neither a profile nor an inline layout the default profile is used.
func (s *Scenario) LayoutConfig(cfg *config.Config) (tiling.LayoutConfig, string, error) {
	desktop := s.Desktop.Rect()
	if s.Layout != nil {
		return s.Layout.LayoutConfig(desktop), "inline", nil
	}

	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	name := s.Profile
	if name == "" {
		name = cfg.DefaultProfile
	}
	profile, err := cfg.GetProfile(name)
	if err != nil {
		return tiling.LayoutConfig{}, "", err
	}
	return profile.LayoutConfig(desktop), name, nil
}

// OriginalTasks converts the scenario tasks for the engine.
func (s *Scenario) OriginalTasks() []tiling.OriginalTaskBounds {
	out := make([]tiling.OriginalTaskBounds, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		out = append(out, tiling.OriginalTaskBounds{TaskID: t.ID, Bounds: t.Bounds.Rect()})
	}
	return out
}

// Positions converts the scenario stack for occlusion detection.
func (s *Scenario) Positions() []tiling.TaskPosition {
	out := make([]tiling.TaskPosition, 0, len(s.Stack))
	for _, e := range s.Stack {
		out = append(out, tiling.TaskPosition{TaskID: e.ID, Bounds: e.Bounds.Rect(), Minimized: e.Minimized})
	}
	return out
}

// Run lays out the tasks, applies the dismissal if any and resolves
// occlusion for the stack.
func (s *Scenario) Run(cfg *config.Config) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	lc, name, err := s.LayoutConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve layout: %w", err)
	}

	res := &Result{
		Profile: name,
		Config:  lc,
		Tasks:   s.OriginalTasks(),
		Path:    tiling.PathFull,
	}
	res.Initial = tiling.Organize(res.Tasks, lc)
	res.Final = res.Initial

	if s.Dismiss != nil {
		res.Final, res.Path = tiling.Reorganize(res.Tasks, lc, res.Initial, s.Dismiss)
	}
	if len(s.Stack) > 0 {
		res.Obscured = tiling.FindObscuredTaskIDs(s.Positions())
	}
	return res, nil
}

// Generate builds a scenario of n windows with pseudo-random natural sizes
// on desktop. The same seed always yields the same windows.
func Generate(n int, desktop geom.Rect, seed uint64) *Scenario {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	sc := &Scenario{Desktop: Bounds(desktop)}
	for i := 0; i < n; i++ {
		sc.Tasks = append(sc.Tasks, RandomTask(rng, i+1, desktop))
	}
	return sc
}

// RandomTask returns a window with a plausible natural size placed somewhere
// on desktop.
func RandomTask(rng *rand.Rand, id int, desktop geom.Rect) Task {
	dw, dh := max(desktop.Width(), 1), max(desktop.Height(), 1)
	w := dw/5 + rng.IntN(max(dw/2, 1))
	h := dh/5 + rng.IntN(max(dh/2, 1))
	x := desktop.Left + rng.IntN(max(dw-w, 1))
	y := desktop.Top + rng.IntN(max(dh-h, 1))
	return Task{ID: id, Bounds: Bounds(geom.XYWH(x, y, w, h))}
}
