package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawMargins struct {
	Top    *int `yaml:"top"`
	Bottom *int `yaml:"bottom"`
	Left   *int `yaml:"left"`
	Right  *int `yaml:"right"`
}

type RawProfileMargins struct {
	TopBottomOneRow    *int `yaml:"top_bottom_one_row"`
	TopMultiRows       *int `yaml:"top_multi_rows"`
	BottomMultiRows    *int `yaml:"bottom_multi_rows"`
	LeftRightOneRow    *int `yaml:"left_right_one_row"`
	LeftRightMultiRows *int `yaml:"left_right_multi_rows"`
}

type RawProfilePadding struct {
	Horizontal *int `yaml:"horizontal"`
	Vertical   *int `yaml:"vertical"`
}

type RawProfile struct {
	Inherits     *string            `yaml:"inherits"`
	Margins      *RawProfileMargins `yaml:"margins"`
	Padding      *RawProfilePadding `yaml:"padding"`
	MinTaskWidth *int               `yaml:"min_task_width"`
	MaxRows      *int               `yaml:"max_rows"`
}

type RawConfig struct {
	Include         IncludeList           `yaml:"include"`
	Hotkey          *string               `yaml:"hotkey"`
	RestoreHotkey   *string               `yaml:"restore_hotkey"`
	Display         *string               `yaml:"display"`
	XAuthority      *string               `yaml:"xauthority"`
	ScreenPadding   *RawMargins           `yaml:"screen_padding"`
	DefaultProfile  *string               `yaml:"default_profile"`
	Profiles        map[string]RawProfile `yaml:"profiles"`
	IgnoreClasses   ClassList             `yaml:"ignore_classes"`
	WatchIntervalMS *int                  `yaml:"watch_interval_ms"`
	MinimizeHidden  *bool                 `yaml:"minimize_hidden"`
	MetricsAddr     *string               `yaml:"metrics_addr"`
	LogLevel        *string               `yaml:"log_level"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Hotkey != nil {
		out.Hotkey = overlay.Hotkey
	}
	if overlay.RestoreHotkey != nil {
		out.RestoreHotkey = overlay.RestoreHotkey
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.XAuthority != nil {
		out.XAuthority = overlay.XAuthority
	}
	if overlay.ScreenPadding != nil {
		if out.ScreenPadding == nil {
			out.ScreenPadding = &RawMargins{}
		}
		merged := mergeRawMargins(*out.ScreenPadding, *overlay.ScreenPadding)
		out.ScreenPadding = &merged
	}
	if overlay.DefaultProfile != nil {
		out.DefaultProfile = overlay.DefaultProfile
	}

	if overlay.Profiles != nil {
		profiles := make(map[string]RawProfile, len(out.Profiles)+len(overlay.Profiles))
		for name, profile := range out.Profiles {
			profiles[name] = profile
		}
		for name, profile := range overlay.Profiles {
			base, ok := profiles[name]
			if !ok {
				profiles[name] = profile
				continue
			}
			profiles[name] = mergeRawProfile(base, profile)
		}
		out.Profiles = profiles
	}

	if overlay.IgnoreClasses != nil {
		out.IgnoreClasses = overlay.IgnoreClasses
	}
	if overlay.WatchIntervalMS != nil {
		out.WatchIntervalMS = overlay.WatchIntervalMS
	}
	if overlay.MinimizeHidden != nil {
		out.MinimizeHidden = overlay.MinimizeHidden
	}
	if overlay.MetricsAddr != nil {
		out.MetricsAddr = overlay.MetricsAddr
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}

	return out
}

func mergeRawMargins(base RawMargins, overlay RawMargins) RawMargins {
	out := base
	if overlay.Top != nil {
		out.Top = overlay.Top
	}
	if overlay.Bottom != nil {
		out.Bottom = overlay.Bottom
	}
	if overlay.Left != nil {
		out.Left = overlay.Left
	}
	if overlay.Right != nil {
		out.Right = overlay.Right
	}
	return out
}

func mergeRawProfileMargins(base RawProfileMargins, overlay RawProfileMargins) RawProfileMargins {
	out := base
	if overlay.TopBottomOneRow != nil {
		out.TopBottomOneRow = overlay.TopBottomOneRow
	}
	if overlay.TopMultiRows != nil {
		out.TopMultiRows = overlay.TopMultiRows
	}
	if overlay.BottomMultiRows != nil {
		out.BottomMultiRows = overlay.BottomMultiRows
	}
	if overlay.LeftRightOneRow != nil {
		out.LeftRightOneRow = overlay.LeftRightOneRow
	}
	if overlay.LeftRightMultiRows != nil {
		out.LeftRightMultiRows = overlay.LeftRightMultiRows
	}
	return out
}

func mergeRawProfilePadding(base RawProfilePadding, overlay RawProfilePadding) RawProfilePadding {
	out := base
	if overlay.Horizontal != nil {
		out.Horizontal = overlay.Horizontal
	}
	if overlay.Vertical != nil {
		out.Vertical = overlay.Vertical
	}
	return out
}

func mergeRawProfile(base RawProfile, overlay RawProfile) RawProfile {
	out := base
	if overlay.Inherits != nil {
		out.Inherits = overlay.Inherits
	}
	if overlay.Margins != nil {
		if out.Margins == nil {
			out.Margins = &RawProfileMargins{}
		}
		merged := mergeRawProfileMargins(*out.Margins, *overlay.Margins)
		out.Margins = &merged
	}
	if overlay.Padding != nil {
		if out.Padding == nil {
			out.Padding = &RawProfilePadding{}
		}
		merged := mergeRawProfilePadding(*out.Padding, *overlay.Padding)
		out.Padding = &merged
	}
	if overlay.MinTaskWidth != nil {
		out.MinTaskWidth = overlay.MinTaskWidth
	}
	if overlay.MaxRows != nil {
		out.MaxRows = overlay.MaxRows
	}
	return out
}
