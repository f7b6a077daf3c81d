package config

const (
	DefaultBuiltinProfile = "desktop"
)

// BuiltinProfiles returns the built-in profile library.
//
// These are always available to users without needing to define them in YAML.
// Users can define additional profiles in their config file, optionally
// starting from one of these with `inherits: builtin:<name>`.
func BuiltinProfiles() map[string]Profile {
	return map[string]Profile{
		"desktop": {
			Margins: ProfileMargins{
				TopBottomOneRow:    48,
				TopMultiRows:       24,
				BottomMultiRows:    48,
				LeftRightOneRow:    24,
				LeftRightMultiRows: 24,
			},
			Padding:      ProfilePadding{Horizontal: 24, Vertical: 24},
			MinTaskWidth: 240,
			MaxRows:      3,
		},
		"compact": {
			Margins: ProfileMargins{
				TopBottomOneRow:    16,
				TopMultiRows:       8,
				BottomMultiRows:    16,
				LeftRightOneRow:    8,
				LeftRightMultiRows: 8,
			},
			Padding:      ProfilePadding{Horizontal: 8, Vertical: 8},
			MinTaskWidth: 160,
			MaxRows:      4,
		},
		"spacious": {
			Margins: ProfileMargins{
				TopBottomOneRow:    96,
				TopMultiRows:       64,
				BottomMultiRows:    96,
				LeftRightOneRow:    64,
				LeftRightMultiRows: 64,
			},
			Padding:      ProfilePadding{Horizontal: 48, Vertical: 48},
			MinTaskWidth: 320,
			MaxRows:      2,
		},
		// One row across the middle of the screen, like a task switcher.
		"strip": {
			Margins: ProfileMargins{
				TopBottomOneRow:    64,
				TopMultiRows:       64,
				BottomMultiRows:    64,
				LeftRightOneRow:    32,
				LeftRightMultiRows: 32,
			},
			Padding:      ProfilePadding{Horizontal: 16, Vertical: 16},
			MinTaskWidth: 120,
			MaxRows:      1,
		},
	}
}
