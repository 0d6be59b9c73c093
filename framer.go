package reel

import "strings"

// Framer splits raw stream text into complete lines. It tracks how much raw
// text it has consumed so that text delivered cumulatively (the whole body
// so far on every notification) is never framed twice. A trailing line
// without a newline is held back until a later arrival completes it.
//
// A Framer is not safe for concurrent use.
type Framer struct {
	offset  int
	pending string
}

// Offset returns the number of raw bytes consumed so far.
func (f *Framer) Offset() int { return f.offset }

// Pending returns the held-back partial line.
func (f *Framer) Pending() string { return f.pending }

// Frame consumes the part of cumulative beyond the recorded offset and
// returns the lines it completes. A cumulative text shorter than the offset
// means the transport restarted its body; it is ignored.
func (f *Framer) Frame(cumulative string) []string {
	if len(cumulative) < f.offset {
		return nil
	}
	return f.Push(cumulative[f.offset:])
}

// Push consumes an incremental delta and returns the lines it completes.
func (f *Framer) Push(delta string) []string {
	if delta == "" {
		return nil
	}
	f.offset += len(delta)

	text := f.pending + delta
	i := strings.LastIndexByte(text, '\n')
	if i < 0 {
		f.pending = text
		return nil
	}
	f.pending = text[i+1:]
	return strings.Split(text[:i], "\n")
}

// Flush returns the held-back partial line, if any, and clears it. Called
// once the transport has delivered its whole body.
func (f *Framer) Flush() (string, bool) {
	line := f.pending
	f.pending = ""
	return line, line != ""
}
