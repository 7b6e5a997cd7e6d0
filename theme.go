package scribe

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	UserMsg  int // User message accent
	ToolNote int // Tool invocation label
	Error    int // Error messages
	Success  int // Success indicators
	Muted    int // Status bar, placeholders
	Accent   int // Headings, links
	Selected int // Focused sidebar entry
	Border   int // Panel borders
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:  4,
		ToolNote: 3,
		Error:    1,
		Success:  2,
		Muted:    8,
		Accent:   5,
		Selected: 6,
		Border:   8,
	}
}
