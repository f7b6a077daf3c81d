// Package desk drives overview passes against a window-system backend: it
// lays out the windows of the active display, keeps the layout current as
// windows close, and puts everything back afterwards.
package desk

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/geom"
	"github.com/1broseidon/deskgrid/internal/platform"
	"github.com/1broseidon/deskgrid/internal/tiling"
)

// ErrNotInOverview is returned by Dismiss for a window that no overview holds.
var ErrNotInOverview = errors.New("window is not part of an active overview")

// Recorder receives one call per layout pass.
type Recorder interface {
	LayoutPass(path string, elapsed time.Duration, hidden int)
	SetOverviews(n int)
}

type nopRecorder struct{}

func (nopRecorder) LayoutPass(string, time.Duration, int) {}
func (nopRecorder) SetOverviews(int)                      {}

// Overview is the arranged state of one display.
type Overview struct {
	DisplayID  int
	Desktop    geom.Rect
	Profile    string
	Windows    map[platform.WindowID]platform.Window
	Tasks      []tiling.OriginalTaskBounds
	Layout     []tiling.LayoutResult
	Saved      map[platform.WindowID]geom.Rect
	Minimized  map[platform.WindowID]bool
	LastPath   tiling.Path
	ArrangedAt time.Time
}

// Controller owns the overview state across displays.
type Controller struct {
	mu            sync.Mutex
	backend       platform.Backend
	config        *config.Config
	activeProfile string
	overviews     map[int]*Overview
	recorder      Recorder
	now           func() time.Time
}

// NewController creates a controller using cfg's default profile.
func NewController(backend platform.Backend, cfg *config.Config) *Controller {
	return &Controller{
		backend:       backend,
		config:        cfg,
		activeProfile: cfg.DefaultProfile,
		overviews:     make(map[int]*Overview),
		recorder:      nopRecorder{},
		now:           time.Now,
	}
}

// SetRecorder installs r as the destination for per-pass measurements.
func (c *Controller) SetRecorder(r Recorder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r == nil {
		r = nopRecorder{}
	}
	c.recorder = r
}

// Arrange lays out every window on the active display.
//
// Calling Arrange while an overview is already showing recomputes it from the
// windows' saved geometry, picking up windows that opened in the meantime.
func (c *Controller) Arrange() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	log.Println("=== Starting overview ===")

	profileName := c.profileNameLocked()
	profile, err := c.config.GetProfile(profileName)
	if err != nil {
		log.Printf("Failed to get profile: %v", err)
		return err
	}

	display, err := c.backend.ActiveDisplay()
	if err != nil {
		log.Printf("Failed to get active display: %v", err)
		return err
	}
	log.Printf("Active display: %s (%dx%d at %d,%d)",
		display.Name, display.Usable.Width(), display.Usable.Height(), display.Usable.Left, display.Usable.Top)

	desktop, err := c.desktopFor(display)
	if err != nil {
		return err
	}

	prev := c.overviews[display.ID]
	windows, err := c.candidatesLocked(display.ID, prev)
	if err != nil {
		log.Printf("Failed to list windows: %v", err)
		return err
	}
	log.Printf("Found %d window(s) on display %s", len(windows), display.Name)

	if len(windows) == 0 {
		log.Println("No windows to arrange")
		return nil
	}

	ov := &Overview{
		DisplayID:  display.ID,
		Desktop:    desktop,
		Profile:    profileName,
		Windows:    make(map[platform.WindowID]platform.Window, len(windows)),
		Saved:      make(map[platform.WindowID]geom.Rect, len(windows)),
		Minimized:  make(map[platform.WindowID]bool),
		LastPath:   tiling.PathFull,
		ArrangedAt: c.now(),
	}
	ov.Tasks = make([]tiling.OriginalTaskBounds, 0, len(windows))
	for _, w := range windows {
		natural := w.Bounds
		if prev != nil {
			if saved, ok := prev.Saved[w.ID]; ok {
				natural = saved
			}
			if prev.Minimized[w.ID] {
				ov.Minimized[w.ID] = true
			}
		}
		ov.Windows[w.ID] = w
		ov.Saved[w.ID] = natural
		ov.Tasks = append(ov.Tasks, tiling.OriginalTaskBounds{TaskID: int(w.ID), Bounds: natural})
		log.Printf("  Window %d: %s (%s)", w.ID, w.Class, w.Title)
	}

	start := time.Now()
	ov.Layout = tiling.Organize(ov.Tasks, profile.LayoutConfig(desktop))
	hidden := countHidden(ov.Layout)
	c.recorder.LayoutPass(string(tiling.PathFull), time.Since(start), hidden)
	log.Printf("Layout: %d rendered, %d hidden (profile %s)", len(ov.Layout)-hidden, hidden, profileName)

	c.applyLocked(ov, nil)

	c.overviews[display.ID] = ov
	c.recorder.SetOverviews(len(c.overviews))

	log.Printf("=== Overview shown ===")
	return nil
}

// Dismiss removes a window from the overview that holds it and updates the
// layout of the windows left behind.
func (c *Controller) Dismiss(windowID platform.WindowID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ov := c.overviewOfLocked(windowID)
	if ov == nil {
		return fmt.Errorf("%w: %d", ErrNotInOverview, windowID)
	}

	profile, err := c.config.GetProfile(ov.Profile)
	if err != nil {
		return err
	}

	remaining := make([]tiling.OriginalTaskBounds, 0, len(ov.Tasks))
	for _, t := range ov.Tasks {
		if t.TaskID != int(windowID) {
			remaining = append(remaining, t)
		}
	}

	previous := ov.Layout
	dismissed := int(windowID)
	start := time.Now()
	layout, path := tiling.Reorganize(ov.Tasks, profile.LayoutConfig(ov.Desktop), previous, &dismissed)
	c.recorder.LayoutPass(string(path), time.Since(start), countHidden(layout))
	log.Printf("Window %d dismissed (%s), %d window(s) left", windowID, path, len(remaining))

	ov.Tasks = remaining
	ov.Layout = layout
	ov.LastPath = path
	delete(ov.Windows, windowID)
	delete(ov.Saved, windowID)
	delete(ov.Minimized, windowID)

	if len(remaining) == 0 {
		delete(c.overviews, ov.DisplayID)
		c.recorder.SetOverviews(len(c.overviews))
		log.Printf("Overview on display %d closed: no windows left", ov.DisplayID)
		return nil
	}

	c.applyLocked(ov, previous)
	return nil
}

// Restore moves every arranged window back to its saved geometry and ends
// all overviews.
func (c *Controller) Restore() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.overviews) == 0 {
		return nil
	}

	log.Println("=== Restoring windows ===")
	for _, id := range c.displayIDsLocked() {
		c.restoreOverviewLocked(c.overviews[id])
		delete(c.overviews, id)
	}
	c.recorder.SetOverviews(0)
	return nil
}

// Toggle arranges when no overview is showing and restores otherwise.
func (c *Controller) Toggle() error {
	c.mu.Lock()
	active := len(c.overviews) > 0
	c.mu.Unlock()

	if active {
		return c.Restore()
	}
	return c.Arrange()
}

func (c *Controller) restoreOverviewLocked(ov *Overview) {
	ids := make([]platform.WindowID, 0, len(ov.Saved))
	for id := range ov.Saved {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if ov.Minimized[id] {
			if err := c.backend.Activate(id); err != nil {
				log.Printf("Warning: Failed to unminimize window %d: %v", id, err)
			}
		}
		if err := c.backend.MoveResize(id, ov.Saved[id]); err != nil {
			log.Printf("Warning: Failed to restore window %d: %v", id, err)
		}
	}
}

// applyLocked pushes ov.Layout to the backend. With a previous layout only
// windows whose placement changed are touched.
func (c *Controller) applyLocked(ov *Overview, previous []tiling.LayoutResult) {
	for _, r := range ov.Layout {
		id := platform.WindowID(r.ID())
		switch r := r.(type) {
		case tiling.Rendered:
			if previous != nil {
				if old, ok := tiling.BoundsOf(previous, r.TaskID); ok && old == r.Bounds {
					continue
				}
			}
			if ov.Minimized[id] {
				if err := c.backend.Activate(id); err != nil {
					log.Printf("Warning: Failed to unminimize window %d: %v", id, err)
				}
				delete(ov.Minimized, id)
			}
			log.Printf("Placing window %d at (%d,%d) size %dx%d",
				id, r.Bounds.Left, r.Bounds.Top, r.Bounds.Width(), r.Bounds.Height())
			if err := c.backend.MoveResize(id, r.Bounds); err != nil {
				log.Printf("Warning: Failed to place window %d: %v", id, err)
			}
		case tiling.Hidden:
			if !c.config.MinimizeHidden || ov.Minimized[id] {
				continue
			}
			if err := c.backend.Minimize(id); err != nil {
				log.Printf("Warning: Failed to minimize window %d: %v", id, err)
				continue
			}
			ov.Minimized[id] = true
		}
	}
}

// candidatesLocked lists the windows an overview of displayID lays out:
// everything not ignored by class and not minimized by the user.
func (c *Controller) candidatesLocked(displayID int, prev *Overview) ([]platform.Window, error) {
	windows, err := c.backend.ListWindowsOnDisplay(displayID)
	if err != nil {
		return nil, err
	}

	out := make([]platform.Window, 0, len(windows))
	for _, w := range windows {
		if c.config.Ignored(w.Class) {
			continue
		}
		if w.Minimized && (prev == nil || !prev.Minimized[w.ID]) {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (c *Controller) desktopFor(display platform.Display) (geom.Rect, error) {
	usable := display.Usable
	if usable.Empty() {
		usable = display.Bounds
	}
	desktop := c.config.UsableBounds(usable)
	if desktop.Empty() {
		return geom.Rect{}, fmt.Errorf(
			"screen_padding leaves no usable space: %dx%d at %d,%d",
			desktop.Width(), desktop.Height(), desktop.Left, desktop.Top,
		)
	}
	return desktop, nil
}

func (c *Controller) overviewOfLocked(windowID platform.WindowID) *Overview {
	for _, id := range c.displayIDsLocked() {
		ov := c.overviews[id]
		if _, ok := ov.Windows[windowID]; ok {
			return ov
		}
	}
	return nil
}

func (c *Controller) displayIDsLocked() []int {
	ids := make([]int, 0, len(c.overviews))
	for id := range c.overviews {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (c *Controller) profileNameLocked() string {
	if c.activeProfile != "" {
		return c.activeProfile
	}
	return c.config.DefaultProfile
}

func countHidden(results []tiling.LayoutResult) int {
	n := 0
	for _, r := range results {
		if _, ok := r.(tiling.Hidden); ok {
			n++
		}
	}
	return n
}
