package reel

import (
	"encoding/json"
	"strings"
)

// Wire format markers.
const (
	DataPrefix   = "data: "
	DoneSentinel = "[DONE]"
)

type deltaPayload struct {
	Content *string `json:"content"`
}

// Decode classifies a single framed line. It never fails: lines without the
// data prefix, payloads that are not JSON objects and objects without a
// non-empty content string all decode to EventIgnored.
func Decode(line string) Event {
	line = strings.TrimSpace(line)
	payload, ok := strings.CutPrefix(line, DataPrefix)
	if !ok {
		return EventIgnored{Line: line}
	}
	if payload == DoneSentinel {
		return EventTermination{}
	}
	var p deltaPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return EventIgnored{Line: line, Malformed: true}
	}
	if p.Content == nil || *p.Content == "" {
		return EventIgnored{Line: line, Malformed: true}
	}
	return EventContentDelta{Text: *p.Content}
}

// EncodeDelta formats text as one wire line, newline included. Transports
// that generate content locally use it to speak the same format as the
// backend.
func EncodeDelta(text string) string {
	b, _ := json.Marshal(deltaPayload{Content: &text})
	return DataPrefix + string(b) + "\n"
}

// EncodeDone returns the termination line, newline included.
func EncodeDone() string {
	return DataPrefix + DoneSentinel + "\n"
}
