package daemon

import (
	"errors"
	"log/slog"

	"github.com/1broseidon/deskgrid/internal/desk"
	"github.com/1broseidon/deskgrid/internal/platform"
)

// Dismisser removes a window from the overview that holds it.
type Dismisser interface {
	Dismiss(windowID platform.WindowID) error
}

// Synchronizer keeps overview state in line with windows that close.
type Synchronizer struct {
	desk   Dismisser
	logger *slog.Logger
}

// NewSynchronizer creates a new synchronizer.
func NewSynchronizer(d Dismisser, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{desk: d, logger: logger}
}

// HandleWindowClosed is called when a tracked window is destroyed.
func (s *Synchronizer) HandleWindowClosed(windowID platform.WindowID) {
	err := s.desk.Dismiss(windowID)
	switch {
	case err == nil:
		s.logger.Debug("window dismissed from overview", "window_id", windowID)
	case errors.Is(err, desk.ErrNotInOverview):
		// Restored or dismissed between the listing and now.
	default:
		s.logger.Warn("failed to dismiss window", "window_id", windowID, "error", err)
	}
}
