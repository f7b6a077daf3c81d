package desk

import (
	"fmt"
	"log"
	"time"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/geom"
	"github.com/1broseidon/deskgrid/internal/platform"
	"github.com/1broseidon/deskgrid/internal/tiling"
)

// PlannedWindow is one window of a Plan.
type PlannedWindow struct {
	ID      platform.WindowID `json:"id"`
	Class   string            `json:"class"`
	Title   string            `json:"title"`
	Current geom.Rect         `json:"current"`
	Target  *geom.Rect        `json:"target,omitempty"`
	Hidden  bool              `json:"hidden"`
}

// Plan is a layout computed for the active display but not applied.
type Plan struct {
	Display string          `json:"display"`
	Desktop geom.Rect       `json:"desktop"`
	Profile string          `json:"profile"`
	Windows []PlannedWindow `json:"windows"`
}

// OverviewStatus summarizes one active overview.
type OverviewStatus struct {
	DisplayID  int       `json:"display_id"`
	Profile    string    `json:"profile"`
	Rendered   int       `json:"rendered"`
	Hidden     int       `json:"hidden"`
	LastPath   string    `json:"last_path"`
	ArrangedAt time.Time `json:"arranged_at"`
}

// Status is a snapshot of the controller.
type Status struct {
	ActiveProfile string           `json:"active_profile"`
	Profiles      []string         `json:"profiles"`
	Overviews     []OverviewStatus `json:"overviews"`
}

// Plan computes the layout Arrange would apply with profileName, or with the
// active profile when profileName is empty.
func (c *Controller) Plan(profileName string) (*Plan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if profileName == "" {
		profileName = c.profileNameLocked()
	}
	profile, err := c.config.GetProfile(profileName)
	if err != nil {
		return nil, err
	}

	display, err := c.backend.ActiveDisplay()
	if err != nil {
		return nil, err
	}
	desktop, err := c.desktopFor(display)
	if err != nil {
		return nil, err
	}

	prev := c.overviews[display.ID]
	windows, err := c.candidatesLocked(display.ID, prev)
	if err != nil {
		return nil, err
	}

	tasks := make([]tiling.OriginalTaskBounds, 0, len(windows))
	for _, w := range windows {
		natural := w.Bounds
		if prev != nil {
			if saved, ok := prev.Saved[w.ID]; ok {
				natural = saved
			}
		}
		tasks = append(tasks, tiling.OriginalTaskBounds{TaskID: int(w.ID), Bounds: natural})
	}
	layout := tiling.Organize(tasks, profile.LayoutConfig(desktop))

	plan := &Plan{
		Display: display.Name,
		Desktop: desktop,
		Profile: profileName,
		Windows: make([]PlannedWindow, 0, len(windows)),
	}
	for i, w := range windows {
		pw := PlannedWindow{ID: w.ID, Class: w.Class, Title: w.Title, Current: tasks[i].Bounds}
		if bounds, ok := tiling.BoundsOf(layout, int(w.ID)); ok {
			b := bounds
			pw.Target = &b
		} else {
			pw.Hidden = true
		}
		plan.Windows = append(plan.Windows, pw)
	}
	return plan, nil
}

// Obscured returns the windows on the active display that are completely
// covered by windows in front of them, front to back.
func (c *Controller) Obscured() ([]platform.Window, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	display, err := c.backend.ActiveDisplay()
	if err != nil {
		return nil, err
	}
	windows, err := c.backend.ListWindowsOnDisplay(display.ID)
	if err != nil {
		return nil, err
	}

	positions := make([]tiling.TaskPosition, 0, len(windows))
	for _, w := range windows {
		if c.config.Ignored(w.Class) {
			continue
		}
		positions = append(positions, tiling.TaskPosition{
			TaskID:    int(w.ID),
			Bounds:    w.Bounds,
			Minimized: w.Minimized,
		})
	}

	obscured := tiling.FindObscuredTaskIDs(positions)
	out := make([]platform.Window, 0, len(obscured))
	for _, w := range windows {
		if obscured.Has(int(w.ID)) {
			out = append(out, w)
		}
	}
	return out, nil
}

// SetProfile selects the profile used by subsequent Arrange calls.
func (c *Controller) SetProfile(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.config.GetProfile(name); err != nil {
		return err
	}
	c.activeProfile = name
	log.Printf("Active profile: %s", name)
	return nil
}

// ActiveProfile returns the profile used by Arrange.
func (c *Controller) ActiveProfile() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profileNameLocked()
}

// Reload swaps in a new configuration. The active profile survives when the
// new configuration still defines it. Running overviews keep their layout.
func (c *Controller) Reload(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.config = cfg
	if _, ok := cfg.Profiles[c.activeProfile]; !ok {
		log.Printf("Profile %q no longer defined, using %q", c.activeProfile, cfg.DefaultProfile)
		c.activeProfile = cfg.DefaultProfile
	}
	return nil
}

// Status reports the active profile and every running overview.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		ActiveProfile: c.profileNameLocked(),
		Profiles:      c.config.ProfileNames(),
		Overviews:     make([]OverviewStatus, 0, len(c.overviews)),
	}
	for _, id := range c.displayIDsLocked() {
		ov := c.overviews[id]
		hidden := countHidden(ov.Layout)
		st.Overviews = append(st.Overviews, OverviewStatus{
			DisplayID:  ov.DisplayID,
			Profile:    ov.Profile,
			Rendered:   len(ov.Layout) - hidden,
			Hidden:     hidden,
			LastPath:   string(ov.LastPath),
			ArrangedAt: ov.ArrangedAt,
		})
	}
	return st
}

// Tracked returns the windows held by each active overview, keyed by display.
func (c *Controller) Tracked() map[int][]platform.WindowID {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[int][]platform.WindowID, len(c.overviews))
	for displayID, ov := range c.overviews {
		ids := make([]platform.WindowID, 0, len(ov.Tasks))
		for _, t := range ov.Tasks {
			ids = append(ids, platform.WindowID(t.TaskID))
		}
		out[displayID] = ids
	}
	return out
}

// Overview returns a copy of the overview on displayID, or nil.
func (c *Controller) Overview(displayID int) *Overview {
	c.mu.Lock()
	defer c.mu.Unlock()

	ov := c.overviews[displayID]
	if ov == nil {
		return nil
	}

	cp := *ov
	cp.Tasks = append([]tiling.OriginalTaskBounds(nil), ov.Tasks...)
	cp.Layout = append([]tiling.LayoutResult(nil), ov.Layout...)
	cp.Windows = make(map[platform.WindowID]platform.Window, len(ov.Windows))
	for id, w := range ov.Windows {
		cp.Windows[id] = w
	}
	cp.Saved = make(map[platform.WindowID]geom.Rect, len(ov.Saved))
	for id, r := range ov.Saved {
		cp.Saved[id] = r
	}
	cp.Minimized = make(map[platform.WindowID]bool, len(ov.Minimized))
	for id, m := range ov.Minimized {
		cp.Minimized[id] = m
	}
	return &cp
}
