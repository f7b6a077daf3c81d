package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	hotkey
//	restore_hotkey
//	display
//	xauthority
//	screen_padding.top
//	default_profile
//	ignore_classes
//	watch_interval_ms
//	minimize_hidden
//	metrics_addr
//	log_level
//	profiles.<name>.margins.top_multi_rows
//	profiles.<name>.padding.horizontal
//	profiles.<name>.min_task_width
//	profiles.<name>.max_rows
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	// Otherwise infer from category.
	if strings.HasPrefix(path, "profiles.") {
		name := profileNameFromPath(path)
		base := ""
		if name != "" {
			base = res.ProfileBases[name]
		}
		return value, Source{Kind: SourceBuiltin, Name: base}, nil
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func profileNameFromPath(path string) string {
	parts := strings.Split(path, ".")
	if len(parts) < 2 || parts[0] != "profiles" {
		return ""
	}
	return parts[1]
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")

	scalars := map[string]any{
		"hotkey":            cfg.Hotkey,
		"restore_hotkey":    cfg.RestoreHotkey,
		"display":           cfg.Display,
		"xauthority":        cfg.XAuthority,
		"default_profile":   cfg.DefaultProfile,
		"ignore_classes":    cfg.IgnoreClasses,
		"watch_interval_ms": cfg.WatchIntervalMS,
		"minimize_hidden":   cfg.MinimizeHidden,
		"metrics_addr":      cfg.MetricsAddr,
		"log_level":         cfg.LogLevel,
	}
	if v, ok := scalars[parts[0]]; ok {
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}

	switch parts[0] {
	case "screen_padding":
		if len(parts) == 1 {
			return cfg.ScreenPadding, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "top":
			return cfg.ScreenPadding.Top, nil
		case "bottom":
			return cfg.ScreenPadding.Bottom, nil
		case "left":
			return cfg.ScreenPadding.Left, nil
		case "right":
			return cfg.ScreenPadding.Right, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	case "profiles":
		if len(parts) < 2 {
			return cfg.Profiles, nil
		}
		name := parts[1]
		profile, ok := cfg.Profiles[name]
		if !ok {
			return nil, fmt.Errorf("unknown profile %q", name)
		}
		if len(parts) == 2 {
			return profile, nil
		}
		return lookupProfileValue(profile, parts[2:], path)
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}

func lookupProfileValue(profile Profile, parts []string, path string) (any, error) {
	switch parts[0] {
	case "margins":
		if len(parts) == 1 {
			return profile.Margins, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "top_bottom_one_row":
			return profile.Margins.TopBottomOneRow, nil
		case "top_multi_rows":
			return profile.Margins.TopMultiRows, nil
		case "bottom_multi_rows":
			return profile.Margins.BottomMultiRows, nil
		case "left_right_one_row":
			return profile.Margins.LeftRightOneRow, nil
		case "left_right_multi_rows":
			return profile.Margins.LeftRightMultiRows, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	case "padding":
		if len(parts) == 1 {
			return profile.Padding, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "horizontal":
			return profile.Padding.Horizontal, nil
		case "vertical":
			return profile.Padding.Vertical, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	case "min_task_width":
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return profile.MinTaskWidth, nil
	case "max_rows":
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return profile.MaxRows, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
