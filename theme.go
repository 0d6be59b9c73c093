package reel

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme. A negative index means no color.
type Theme struct {
	Prompt  int // Prompt input accent
	Active  int // Spinner and streaming indicator
	Error   int // Failure notices
	Success int // Completed indicator
	Muted   int // Status bar, placeholders, cancelled notice
	Accent  int // Headings, links
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Prompt:  4,
		Active:  3,
		Error:   1,
		Success: 2,
		Muted:   8,
		Accent:  5,
	}
}
