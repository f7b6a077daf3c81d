package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/deskgrid/internal/geom"
	"github.com/1broseidon/deskgrid/internal/tiling"
)

// Margins represents padding around a monitor edge.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// ProfileMargins are the gaps between the usable desktop edge and the
// arranged windows. One-row and multi-row layouts use different margins.
type ProfileMargins struct {
	TopBottomOneRow    int `yaml:"top_bottom_one_row"`
	TopMultiRows       int `yaml:"top_multi_rows"`
	BottomMultiRows    int `yaml:"bottom_multi_rows"`
	LeftRightOneRow    int `yaml:"left_right_one_row"`
	LeftRightMultiRows int `yaml:"left_right_multi_rows"`
}

// ProfilePadding is the spacing between neighbouring windows.
type ProfilePadding struct {
	Horizontal int `yaml:"horizontal"`
	Vertical   int `yaml:"vertical"`
}

// Profile is a named set of overview spacing rules.
type Profile struct {
	Margins      ProfileMargins `yaml:"margins"`
	Padding      ProfilePadding `yaml:"padding"`
	MinTaskWidth int            `yaml:"min_task_width"`
	MaxRows      int            `yaml:"max_rows"` // 0 = unlimited
}

// LayoutConfig builds the engine configuration for laying out windows inside
// desktop.
func (p Profile) LayoutConfig(desktop geom.Rect) tiling.LayoutConfig {
	return tiling.LayoutConfig{
		DesktopBounds:                 desktop,
		TopBottomMarginOneRow:         p.Margins.TopBottomOneRow,
		TopMarginMultiRows:            p.Margins.TopMultiRows,
		BottomMarginMultiRows:         p.Margins.BottomMultiRows,
		LeftRightMarginOneRow:         p.Margins.LeftRightOneRow,
		LeftRightMarginMultiRows:      p.Margins.LeftRightMultiRows,
		HorizontalPaddingBetweenTasks: p.Padding.Horizontal,
		VerticalPaddingBetweenTasks:   p.Padding.Vertical,
		MinTaskWidth:                  p.MinTaskWidth,
		MaxRows:                       p.MaxRows,
	}
}

const (
	DefaultWatchIntervalMS = 500
)

// Config holds the application configuration.
type Config struct {
	Hotkey          string             `yaml:"hotkey"`
	RestoreHotkey   string             `yaml:"restore_hotkey"`
	Display         string             `yaml:"display,omitempty"`
	XAuthority      string             `yaml:"xauthority,omitempty"`
	ScreenPadding   Margins            `yaml:"screen_padding"`
	DefaultProfile  string             `yaml:"default_profile"`
	Profiles        map[string]Profile `yaml:"profiles"`
	IgnoreClasses   ClassList          `yaml:"ignore_classes,omitempty"`
	WatchIntervalMS int                `yaml:"watch_interval_ms"`
	MinimizeHidden  bool               `yaml:"minimize_hidden"`
	MetricsAddr     string             `yaml:"metrics_addr,omitempty"`
	LogLevel        string             `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Hotkey:          "Mod4-grave",
		RestoreHotkey:   "Mod4-Shift-grave",
		ScreenPadding:   Margins{},
		DefaultProfile:  DefaultBuiltinProfile,
		Profiles:        BuiltinProfiles(),
		IgnoreClasses:   defaultIgnoreClasses(),
		WatchIntervalMS: DefaultWatchIntervalMS,
		LogLevel:        "info",
	}
}

// UsableBounds removes the configured screen padding from a monitor's bounds.
func (c *Config) UsableBounds(monitor geom.Rect) geom.Rect {
	if c == nil {
		return monitor
	}
	p := c.ScreenPadding
	return monitor.Inset(p.Left, p.Top, p.Right, p.Bottom)
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include/inherits structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	save := *c
	save.Profiles = profilesForSave(c.Profiles)

	data, err := yaml.Marshal(&save)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func profilesForSave(profiles map[string]Profile) map[string]Profile {
	builtin := BuiltinProfiles()
	out := make(map[string]Profile)
	for name, profile := range profiles {
		if base, ok := builtin[name]; ok && base == profile {
			continue
		}
		out[name] = profile
	}
	return out
}

// GetProfile retrieves a profile by name with validation.
func (c *Config) GetProfile(name string) (*Profile, error) {
	profile, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}

	if err := validateProfile(&profile); err != nil {
		return nil, fmt.Errorf("invalid profile %q: %w", name, err)
	}

	return &profile, nil
}

// GetDefaultProfile retrieves the default profile.
func (c *Config) GetDefaultProfile() (*Profile, error) {
	return c.GetProfile(c.DefaultProfile)
}

// ProfileNames returns every profile name in sorted order.
func (c *Config) ProfileNames() []string {
	if c == nil {
		return nil
	}
	return sortedKeys(c.Profiles)
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Hotkey == "" {
		return &ValidationError{Path: "hotkey", Err: fmt.Errorf("hotkey is required")}
	}
	if c.ScreenPadding.Top < 0 || c.ScreenPadding.Bottom < 0 || c.ScreenPadding.Left < 0 || c.ScreenPadding.Right < 0 {
		return &ValidationError{Path: "screen_padding", Err: fmt.Errorf("screen_padding values must be >= 0")}
	}
	if c.WatchIntervalMS < 0 {
		return &ValidationError{Path: "watch_interval_ms", Err: fmt.Errorf("watch_interval_ms must be >= 0")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	if len(c.Profiles) == 0 {
		return &ValidationError{Path: "profiles", Err: fmt.Errorf("profiles must not be empty")}
	}
	if c.DefaultProfile == "" {
		return &ValidationError{Path: "default_profile", Err: fmt.Errorf("default_profile is required")}
	}
	if _, ok := c.Profiles[c.DefaultProfile]; !ok {
		return &ValidationError{Path: "default_profile", Err: fmt.Errorf("default_profile %q not found in profiles", c.DefaultProfile)}
	}

	for _, name := range sortedKeys(c.Profiles) {
		profile := c.Profiles[name]
		if err := validateProfile(&profile); err != nil {
			return &ValidationError{Path: "profiles." + name, Err: err}
		}
	}

	return nil
}

// validateProfile checks if a profile is usable by the layout engine.
func validateProfile(p *Profile) error {
	m := p.Margins
	if m.TopBottomOneRow < 0 || m.TopMultiRows < 0 || m.BottomMultiRows < 0 || m.LeftRightOneRow < 0 || m.LeftRightMultiRows < 0 {
		return fmt.Errorf("margins must be >= 0")
	}
	if p.Padding.Horizontal < 0 || p.Padding.Vertical < 0 {
		return fmt.Errorf("padding must be >= 0")
	}
	if p.MinTaskWidth < 0 {
		return fmt.Errorf("min_task_width must be >= 0")
	}
	if p.MaxRows < 0 {
		return fmt.Errorf("max_rows must be >= 0 (0 = unlimited)")
	}
	return nil
}

func defaultIgnoreClasses() ClassList {
	return ClassList{
		{Class: "Plank"},
		{Class: "Conky"},
		{Class: "xfce4-panel"},
		{Class: "Xfdesktop"},
		{Class: "Polybar"},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
