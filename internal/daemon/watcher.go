package daemon

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/1broseidon/deskgrid/internal/platform"
)

// WindowLister returns the ids of the windows currently on a display.
type WindowLister func(displayID int) ([]platform.WindowID, error)

// Tracker exposes the windows held by active overviews.
type Tracker interface {
	Tracked() map[int][]platform.WindowID
}

// WatcherConfig holds configuration for the watcher.
type WatcherConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Watcher periodically looks for windows that vanished while an overview was
// showing and hands them to the synchronizer.
type Watcher struct {
	interval    time.Duration
	tracker     Tracker
	sync        *Synchronizer
	listWindows WindowLister
	logger      *slog.Logger
}

// NewWatcher creates a new watcher with the given configuration.
func NewWatcher(cfg WatcherConfig, tracker Tracker, sync *Synchronizer, listWindows WindowLister) *Watcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		interval:    interval,
		tracker:     tracker,
		sync:        sync,
		listWindows: listWindows,
		logger:      logger,
	}
}

// Run starts the watch loop. Blocks until context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("watcher started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check performs a single pass.
func (w *Watcher) check() {
	defer func() {
		if err := recover(); err != nil {
			w.logger.Error("watcher panic recovered", "error", err)
		}
	}()

	tracked := w.tracker.Tracked()
	if len(tracked) == 0 {
		return
	}

	displays := make([]int, 0, len(tracked))
	for id := range tracked {
		displays = append(displays, id)
	}
	sort.Ints(displays)

	for _, displayID := range displays {
		current, err := w.listWindows(displayID)
		if err != nil {
			w.logger.Error("watcher: failed to list windows", "display", displayID, "error", err)
			continue
		}

		present := make(map[platform.WindowID]bool, len(current))
		for _, id := range current {
			present[id] = true
		}

		for _, id := range tracked[displayID] {
			if present[id] {
				continue
			}
			w.logger.Info("watcher: window vanished", "window_id", id, "display", displayID)
			w.sync.HandleWindowClosed(id)
		}
	}
}

// CheckNow triggers an immediate pass.
func (w *Watcher) CheckNow() {
	w.check()
}
