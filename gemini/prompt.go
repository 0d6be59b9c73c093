package gemini

import (
	"fmt"
	"strings"

	"github.com/fwojciec/reel"
)

var categoryGuidance = map[reel.Category]string{
	reel.CategoryChildren: "The audience is children aged 4 to 10. Use short sentences, " +
		"gentle humour and a clear moral. Avoid anything frightening.",
	reel.CategoryInformative: "The audience wants to learn something true. Lead with a " +
		"surprising fact, keep every claim accurate and end with a practical takeaway.",
	reel.CategoryFiction: "Tell an original short story with a single protagonist, a " +
		"turning point and a satisfying ending.",
}

// SystemPrompt returns the system instruction describing the script format
// for a project category. An empty category gets the generic format only.
func SystemPrompt(category reel.Category) string {
	var b strings.Builder
	b.WriteString("You write scripts for vertical short videos of 30 to 60 seconds.\n")
	if g, ok := categoryGuidance[category]; ok {
		fmt.Fprintf(&b, "Category: %s. %s\n", category, g)
	}
	b.WriteString("\nAnswer in Markdown with exactly these sections:\n")
	b.WriteString("# <title>\n")
	b.WriteString("## Hook (<type>) followed by one opening line. <type> is one of: ")
	labels := make([]string, len(reel.HookTypes))
	for i, h := range reel.HookTypes {
		labels[i] = h.Label()
	}
	b.WriteString(strings.Join(labels, ", "))
	b.WriteString(".\n")
	b.WriteString("## Core Message with bullets for main message, problem, resolution and takeaway.\n")
	b.WriteString("## Segments with numbered '### Segment N' subsections, each holding narration, " +
		"a visual idea and an image prompt seed.\n")
	b.WriteString("## Hashtags on one line.\n")
	b.WriteString("\nDo not add any text before the title or after the hashtags.\n")
	return b.String()
}
