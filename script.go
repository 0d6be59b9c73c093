package reel

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// HookType is the opening technique of a script.
type HookType string

const (
	HookQuestion           HookType = "question"
	HookShockingFact       HookType = "shocking_fact"
	HookMistake            HookType = "mistake"
	HookRelatableStatement HookType = "relatable_statement"
	HookStoryStart         HookType = "story_start"
)

// HookTypes lists every hook type in display order.
var HookTypes = []HookType{
	HookQuestion,
	HookShockingFact,
	HookMistake,
	HookRelatableStatement,
	HookStoryStart,
}

var hookLabels = map[HookType]string{
	HookQuestion:           "Question",
	HookShockingFact:       "Shocking Fact",
	HookMistake:            "Mistake",
	HookRelatableStatement: "Relatable",
	HookStoryStart:         "Story Start",
}

// Label returns the display label, falling back to the raw value.
func (h HookType) Label() string {
	if l, ok := hookLabels[h]; ok {
		return l
	}
	return string(h)
}

// Valid reports whether h is a known hook type.
func (h HookType) Valid() bool {
	_, ok := hookLabels[h]
	return ok
}

type Hook struct {
	Text string
	Type HookType
}

type CoreMessage struct {
	MainMessage string
	Problem     string
	Resolution  string
	Takeaway    string
}

type ScriptSegment struct {
	Order           int
	Narration       string
	VisualIdea      string
	ImagePromptSeed string
}

// Script is a structured short-video script.
type Script struct {
	Title                  string
	Intent                 string
	Hook                   Hook
	Message                CoreMessage
	Segments               []ScriptSegment
	Hashtags               []string
	EstimatedTotalDuration float64 // seconds
}

// Duration returns the estimated duration rounded to whole seconds.
func (s Script) Duration() time.Duration {
	return time.Duration(math.Round(s.EstimatedTotalDuration)) * time.Second
}

// Markdown renders the script for display.
func (s Script) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title)
	fmt.Fprintf(&b, "## Hook (%s)\n\n%s\n\n", s.Hook.Type.Label(), s.Hook.Text)
	b.WriteString("## Core Message\n\n")
	fmt.Fprintf(&b, "- **Main message:** %s\n", s.Message.MainMessage)
	fmt.Fprintf(&b, "- **Problem:** %s\n", s.Message.Problem)
	fmt.Fprintf(&b, "- **Resolution:** %s\n", s.Message.Resolution)
	fmt.Fprintf(&b, "- **Takeaway:** %s\n\n", s.Message.Takeaway)
	if len(s.Segments) > 0 {
		b.WriteString("## Segments\n\n")
		for _, seg := range s.Segments {
			fmt.Fprintf(&b, "### Segment %d\n\n", seg.Order)
			fmt.Fprintf(&b, "%s\n\n", seg.Narration)
			fmt.Fprintf(&b, "- **Visual idea:** %s\n", seg.VisualIdea)
			fmt.Fprintf(&b, "- **Image prompt seed:** %s\n\n", seg.ImagePromptSeed)
		}
	}
	if len(s.Hashtags) > 0 {
		tags := make([]string, len(s.Hashtags))
		for i, t := range s.Hashtags {
			tags[i] = "#" + strings.TrimPrefix(t, "#")
		}
		fmt.Fprintf(&b, "## Hashtags\n\n%s\n\n", strings.Join(tags, " "))
	}
	fmt.Fprintf(&b, "*Intent:* %s · *Duration:* ~%ds\n", s.Intent, int(s.Duration().Seconds()))
	return b.String()
}

// Story is a generated script stored under a project.
type Story struct {
	ID     string
	Script Script
}

// ScriptRecord is a locally archived generation result. Content holds
// whatever the stream produced, including partial content of cancelled
// and failed sessions.
type ScriptRecord struct {
	ID        string
	SessionID string
	ProjectID string
	Prompt    string
	Title     string
	Content   string
	State     StreamState
	CreatedAt time.Time
}

// NewScriptRecord captures the outcome of a session started with req for
// archiving. ID is left for the archive to assign.
func NewScriptRecord(req GenerateRequest, snap Snapshot) *ScriptRecord {
	return &ScriptRecord{
		SessionID: snap.SessionID,
		ProjectID: req.ProjectID,
		Prompt:    req.Prompt,
		Title:     TitleFromContent(snap.Content),
		Content:   snap.Content,
		State:     snap.State,
		CreatedAt: time.Now().UTC(),
	}
}

// TitleFromContent returns the first markdown heading or, failing that, the
// first non-empty line of content.
func TitleFromContent(content string) string {
	var first string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if h, ok := strings.CutPrefix(line, "#"); ok {
			return strings.TrimSpace(strings.TrimLeft(h, "#"))
		}
		if first == "" {
			first = line
		}
	}
	return first
}
