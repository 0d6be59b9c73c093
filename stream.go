package reel

// StreamState indicates the current state of a StreamSession.
type StreamState int

const (
	StreamStateIdle      StreamState = iota // Created, transport not opened yet.
	StreamStateActive                       // Transport open, receiving data.
	StreamStateCompleted                    // [DONE] seen or transport closed cleanly.
	StreamStateCancelled                    // Cancel() called while active.
	StreamStateFailed                       // Transport error before completion.
)

// String returns a lowercase name suitable for logs and status lines.
func (s StreamState) String() string {
	switch s {
	case StreamStateIdle:
		return "idle"
	case StreamStateActive:
		return "active"
	case StreamStateCompleted:
		return "completed"
	case StreamStateCancelled:
		return "cancelled"
	case StreamStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s StreamState) Terminal() bool {
	return s == StreamStateCompleted || s == StreamStateCancelled || s == StreamStateFailed
}

// ParseStreamState is the inverse of String. Unknown names map to
// StreamStateIdle and false.
func ParseStreamState(name string) (StreamState, bool) {
	for s := StreamStateIdle; s <= StreamStateFailed; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return StreamStateIdle, false
}

// Snapshot is a point-in-time copy of a StreamSession's observable fields.
// Renderers receive a Snapshot after every change and never touch the
// session's internals.
type Snapshot struct {
	SessionID string
	State     StreamState
	Content   string
	Offset    int
	Ignored   int
	Err       error
}
