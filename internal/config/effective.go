package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw on top of DefaultConfig. The returned map
// records, per profile, which builtin profile it started from.
func BuildEffectiveConfig(raw RawConfig) (*Config, map[string]string, error) {
	cfg := DefaultConfig()

	if raw.Hotkey != nil {
		cfg.Hotkey = *raw.Hotkey
	}
	if raw.RestoreHotkey != nil {
		cfg.RestoreHotkey = *raw.RestoreHotkey
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}
	if raw.ScreenPadding != nil {
		if raw.ScreenPadding.Top != nil {
			cfg.ScreenPadding.Top = *raw.ScreenPadding.Top
		}
		if raw.ScreenPadding.Bottom != nil {
			cfg.ScreenPadding.Bottom = *raw.ScreenPadding.Bottom
		}
		if raw.ScreenPadding.Left != nil {
			cfg.ScreenPadding.Left = *raw.ScreenPadding.Left
		}
		if raw.ScreenPadding.Right != nil {
			cfg.ScreenPadding.Right = *raw.ScreenPadding.Right
		}
	}
	if raw.DefaultProfile != nil {
		cfg.DefaultProfile = strings.TrimSpace(*raw.DefaultProfile)
	}
	if raw.IgnoreClasses != nil {
		cfg.IgnoreClasses = raw.IgnoreClasses
	}
	if raw.WatchIntervalMS != nil {
		cfg.WatchIntervalMS = *raw.WatchIntervalMS
	}
	if raw.MinimizeHidden != nil {
		cfg.MinimizeHidden = *raw.MinimizeHidden
	}
	if raw.MetricsAddr != nil {
		cfg.MetricsAddr = strings.TrimSpace(*raw.MetricsAddr)
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}

	profileBases, err := applyProfiles(cfg, raw)
	if err != nil {
		return nil, nil, err
	}

	return cfg, profileBases, nil
}

func applyProfiles(cfg *Config, raw RawConfig) (map[string]string, error) {
	builtin := BuiltinProfiles()

	// Start with built-ins.
	cfg.Profiles = make(map[string]Profile, len(builtin)+len(raw.Profiles))
	for name, profile := range builtin {
		cfg.Profiles[name] = profile
	}

	profileBases := make(map[string]string)
	for name := range cfg.Profiles {
		profileBases[name] = name
	}

	// Apply user profile patches in a stable order so errors are reproducible.
	for _, name := range sortedKeys(raw.Profiles) {
		patch := raw.Profiles[name]
		baseName, base, err := selectProfileBase(name, patch, builtin)
		if err != nil {
			return nil, err
		}

		merged := mergeProfilePatch(base, patch)
		if err := validateProfile(&merged); err != nil {
			return nil, &ValidationError{Path: "profiles." + name, Err: err}
		}

		cfg.Profiles[name] = merged
		profileBases[name] = baseName
	}

	return profileBases, nil
}

func selectProfileBase(name string, patch RawProfile, builtin map[string]Profile) (string, Profile, error) {
	ref := ""
	if patch.Inherits != nil {
		ref = strings.TrimSpace(*patch.Inherits)
	}

	baseName := DefaultBuiltinProfile
	if _, ok := builtin[name]; ok {
		baseName = name
	}

	if ref != "" {
		const prefix = "builtin:"
		if !strings.HasPrefix(ref, prefix) {
			return "", Profile{}, &ValidationError{
				Path: "profiles." + name + ".inherits",
				Err:  fmt.Errorf("inherits must be %q-prefixed (builtin-only), got %q", prefix, ref),
			}
		}
		baseName = strings.TrimSpace(strings.TrimPrefix(ref, prefix))
	}

	base, ok := builtin[baseName]
	if !ok {
		return "", Profile{}, &ValidationError{
			Path: "profiles." + name + ".inherits",
			Err:  fmt.Errorf("unknown builtin profile %q", baseName),
		}
	}

	return baseName, base, nil
}

func mergeProfilePatch(base Profile, patch RawProfile) Profile {
	out := base

	if m := patch.Margins; m != nil {
		out.Margins.TopBottomOneRow = derefInt(m.TopBottomOneRow, out.Margins.TopBottomOneRow)
		out.Margins.TopMultiRows = derefInt(m.TopMultiRows, out.Margins.TopMultiRows)
		out.Margins.BottomMultiRows = derefInt(m.BottomMultiRows, out.Margins.BottomMultiRows)
		out.Margins.LeftRightOneRow = derefInt(m.LeftRightOneRow, out.Margins.LeftRightOneRow)
		out.Margins.LeftRightMultiRows = derefInt(m.LeftRightMultiRows, out.Margins.LeftRightMultiRows)
	}
	if p := patch.Padding; p != nil {
		out.Padding.Horizontal = derefInt(p.Horizontal, out.Padding.Horizontal)
		out.Padding.Vertical = derefInt(p.Vertical, out.Padding.Vertical)
	}
	out.MinTaskWidth = derefInt(patch.MinTaskWidth, out.MinTaskWidth)
	out.MaxRows = derefInt(patch.MaxRows, out.MaxRows)

	return out
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
