package mcp

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/geom"
	"github.com/1broseidon/deskgrid/internal/tiling"
)

func (s *Server) handleOrganize(_ context.Context, _ *mcpsdk.CallToolRequest, args OrganizeInput) (*mcpsdk.CallToolResult, LayoutOutput, error) {
	cfg, profile, err := s.layoutConfig(args.Desktop, args.Profile, args.Layout)
	if err != nil {
		return nil, LayoutOutput{}, err
	}
	tasks, err := originalTasks(args.Tasks)
	if err != nil {
		return nil, LayoutOutput{}, err
	}

	results := tiling.Organize(tasks, cfg)
	return nil, layoutOutput(profile, tiling.PathFull, results), nil
}

func (s *Server) handleDismiss(_ context.Context, _ *mcpsdk.CallToolRequest, args DismissInput) (*mcpsdk.CallToolResult, LayoutOutput, error) {
	cfg, profile, err := s.layoutConfig(args.Desktop, args.Profile, args.Layout)
	if err != nil {
		return nil, LayoutOutput{}, err
	}
	tasks, err := originalTasks(args.Tasks)
	if err != nil {
		return nil, LayoutOutput{}, err
	}

	found := false
	for _, t := range tasks {
		if t.TaskID == args.Dismissed {
			found = true
			break
		}
	}
	if !found {
		return nil, LayoutOutput{}, fmt.Errorf("dismissed window %d is not in tasks", args.Dismissed)
	}

	previous, err := layoutResults(args.Previous)
	if err != nil {
		return nil, LayoutOutput{}, err
	}

	dismissed := args.Dismissed
	results, path := tiling.Reorganize(tasks, cfg, previous, &dismissed)
	return nil, layoutOutput(profile, path, results), nil
}

func (s *Server) handleObscured(_ context.Context, _ *mcpsdk.CallToolRequest, args ObscuredInput) (*mcpsdk.CallToolResult, ObscuredOutput, error) {
	positions := make([]tiling.TaskPosition, 0, len(args.Stack))
	seen := make(map[int]struct{}, len(args.Stack))
	for _, e := range args.Stack {
		if _, dup := seen[e.ID]; dup {
			return nil, ObscuredOutput{}, fmt.Errorf("duplicate window id %d in stack", e.ID)
		}
		seen[e.ID] = struct{}{}
		positions = append(positions, tiling.TaskPosition{TaskID: e.ID, Bounds: e.Bounds, Minimized: e.Minimized})
	}

	set := tiling.FindObscuredTaskIDs(positions)
	out := ObscuredOutput{Obscured: make([]int, 0, len(set))}
	for _, e := range args.Stack {
		if set.Has(e.ID) {
			out.Obscured = append(out.Obscured, e.ID)
		}
	}
	return nil, out, nil
}

func (s *Server) handleArrangeDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangeDesktopInput) (*mcpsdk.CallToolResult, ArrangeDesktopOutput, error) {
	action := strings.ToLower(strings.TrimSpace(args.Action))
	if action == "" {
		action = "arrange"
	}

	var run func() error
	switch action {
	case "arrange":
		run = s.daemon.Arrange
	case "restore":
		run = s.daemon.Restore
	case "toggle":
		run = s.daemon.Toggle
	default:
		return nil, ArrangeDesktopOutput{}, fmt.Errorf("unknown action %q (expected arrange, restore or toggle)", args.Action)
	}

	if args.Profile != "" {
		if err := s.daemon.SetProfile(args.Profile); err != nil {
			return nil, ArrangeDesktopOutput{}, fmt.Errorf("failed to set profile: %w", err)
		}
	}
	if err := run(); err != nil {
		return nil, ArrangeDesktopOutput{}, fmt.Errorf("failed to %s: %w", action, err)
	}
	log.Printf("mcp: %s forwarded to daemon", action)

	return nil, ArrangeDesktopOutput{Action: action, Profile: args.Profile}, nil
}

func (s *Server) handleDesktopStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ DesktopStatusInput) (*mcpsdk.CallToolResult, DesktopStatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, DesktopStatusOutput{}, fmt.Errorf("daemon not reachable: %w", err)
	}

	out := DesktopStatusOutput{
		ActiveProfile: status.ActiveProfile,
		UptimeSeconds: status.UptimeSeconds,
		Overviews:     make([]OverviewOutput, 0, len(status.Overviews)),
	}
	for _, ov := range status.Overviews {
		out.Overviews = append(out.Overviews, OverviewOutput{
			DisplayID:  ov.DisplayID,
			Profile:    ov.Profile,
			Rendered:   ov.Rendered,
			Hidden:     ov.Hidden,
			LastPath:   ov.LastPath,
			ArrangedAt: ov.ArrangedAt.Format(time.RFC3339),
		})
	}
	return nil, out, nil
}

// layoutConfig resolves either a named profile or inline spacing rules.
func (s *Server) layoutConfig(desktop geom.Rect, profileName string, inline *LayoutInput) (tiling.LayoutConfig, string, error) {
	if inline != nil {
		if profileName != "" {
			return tiling.LayoutConfig{}, "", fmt.Errorf("profile and layout are mutually exclusive")
		}
		// GetProfile validates the rules the same way as a configured profile.
		probe := &config.Config{Profiles: map[string]config.Profile{"inline": inline.profile()}}
		p, err := probe.GetProfile("inline")
		if err != nil {
			return tiling.LayoutConfig{}, "", err
		}
		return p.LayoutConfig(desktop), "inline", nil
	}

	if profileName == "" {
		profileName = s.config.DefaultProfile
	}
	p, err := s.config.GetProfile(profileName)
	if err != nil {
		return tiling.LayoutConfig{}, "", err
	}
	return p.LayoutConfig(desktop), profileName, nil
}

func (l LayoutInput) profile() config.Profile {
	return config.Profile{
		Margins: config.ProfileMargins{
			TopBottomOneRow:    l.TopBottomMarginOneRow,
			TopMultiRows:       l.TopMarginMultiRows,
			BottomMultiRows:    l.BottomMarginMultiRows,
			LeftRightOneRow:    l.LeftRightMarginOneRow,
			LeftRightMultiRows: l.LeftRightMarginMultiRows,
		},
		Padding: config.ProfilePadding{
			Horizontal: l.HorizontalPadding,
			Vertical:   l.VerticalPadding,
		},
		MinTaskWidth: l.MinTaskWidth,
		MaxRows:      l.MaxRows,
	}
}

func originalTasks(in []TaskInput) ([]tiling.OriginalTaskBounds, error) {
	out := make([]tiling.OriginalTaskBounds, 0, len(in))
	seen := make(map[int]struct{}, len(in))
	for _, t := range in {
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("duplicate task id %d", t.ID)
		}
		seen[t.ID] = struct{}{}
		out = append(out, tiling.OriginalTaskBounds{TaskID: t.ID, Bounds: t.Bounds})
	}
	return out, nil
}

func layoutResults(in []PlacementOutput) ([]tiling.LayoutResult, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]tiling.LayoutResult, 0, len(in))
	for _, p := range in {
		switch {
		case p.Hidden:
			out = append(out, tiling.Hidden{TaskID: p.ID})
		case p.Bounds != nil:
			out = append(out, tiling.Rendered{TaskID: p.ID, Bounds: *p.Bounds})
		default:
			return nil, fmt.Errorf("previous result for task %d has neither bounds nor hidden", p.ID)
		}
	}
	return out, nil
}

func layoutOutput(profile string, path tiling.Path, results []tiling.LayoutResult) LayoutOutput {
	out := LayoutOutput{
		Profile: profile,
		Path:    string(path),
		Results: make([]PlacementOutput, 0, len(results)),
	}
	for _, r := range results {
		switch r := r.(type) {
		case tiling.Rendered:
			b := r.Bounds
			out.Results = append(out.Results, PlacementOutput{ID: r.TaskID, Bounds: &b})
			out.Rendered++
		case tiling.Hidden:
			out.Results = append(out.Results, PlacementOutput{ID: r.TaskID, Hidden: true})
			out.Hidden++
		}
	}
	return out
}
