package reel

// Event is a sealed interface representing one decoded event line.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventContentDelta carries a fragment of generated content.
type EventContentDelta struct {
	Text string
}

func (EventContentDelta) event() {}

// EventTermination signals the [DONE] sentinel. It ends the stream at the
// application level regardless of the transport state.
type EventTermination struct{}

func (EventTermination) event() {}

// EventIgnored is a line that carries no content. Malformed is set when the
// line had the data prefix but its payload could not be used.
type EventIgnored struct {
	Line      string
	Malformed bool
}

func (EventIgnored) event() {}

// Interface compliance checks.
var (
	_ Event = EventContentDelta{}
	_ Event = EventTermination{}
	_ Event = EventIgnored{}
)
