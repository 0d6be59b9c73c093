// Package goldmark renders generated scripts, which are markdown, to
// ANSI-styled terminal output using goldmark for parsing and lipgloss for
// styling.
package goldmark

import "github.com/fwojciec/reel"

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width. Source may be
// incomplete, as it is while a script is still streaming.
func Render(source string, width int, theme reel.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}
