package reel

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// StreamSession is one streaming generation request and the content it has
// produced. All methods are safe for concurrent use: transports deliver
// data from their own goroutine while renderers poll and callers cancel.
type StreamSession struct {
	id string

	mu        sync.Mutex
	framer    Framer
	buf       strings.Builder
	state     StreamState
	err       error
	ignored   int
	malformed int
}

// NewStreamSession returns an idle session with a fresh ID.
func NewStreamSession() *StreamSession {
	return &StreamSession{id: uuid.NewString()}
}

// ID returns the session identifier.
func (s *StreamSession) ID() string { return s.id }

// State returns the current state.
func (s *StreamSession) State() StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Content returns the content accumulated so far.
func (s *StreamSession) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// Offset returns the number of raw bytes framed so far.
func (s *StreamSession) Offset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.framer.Offset()
}

// Err returns the transport error of a failed session, nil otherwise.
func (s *StreamSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ErrorKind returns ErrorKindTransport for failed sessions.
func (s *StreamSession) ErrorKind() ErrorKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StreamStateFailed {
		return ErrorKindTransport
	}
	return ErrorKindNone
}

// Ignored returns the number of framed lines that carried no content.
func (s *StreamSession) Ignored() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ignored
}

// Malformed returns the number of data lines whose payload was unusable.
// Every malformed line is also counted by Ignored.
func (s *StreamSession) Malformed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.malformed
}

// Snapshot returns a consistent copy of the observable fields.
func (s *StreamSession) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		SessionID: s.id,
		State:     s.state,
		Content:   s.buf.String(),
		Offset:    s.framer.Offset(),
		Ignored:   s.ignored,
		Err:       s.err,
	}
}

// Append adds text to the content while the session is active. It reports
// whether the text was appended; once the session is terminal the content
// is frozen and Append is a no-op.
func (s *StreamSession) Append(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(text)
}

func (s *StreamSession) appendLocked(text string) bool {
	if s.state != StreamStateActive {
		return false
	}
	s.buf.WriteString(text)
	return true
}

// ingestResult reports what one batch of raw text did to the session.
type ingestResult struct {
	changed   bool
	malformed []string
}

// activate moves an idle session to Active.
func (s *StreamSession) activate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StreamStateIdle {
		return false
	}
	s.state = StreamStateActive
	return true
}

// ingest frames the cumulative body, decodes every completed line and
// applies it. Lines after a termination event are dropped.
func (s *StreamSession) ingest(cumulative string) ingestResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res ingestResult
	if s.state != StreamStateActive {
		return res
	}
	for _, line := range s.framer.Frame(cumulative) {
		if s.state != StreamStateActive {
			break
		}
		s.applyLocked(Decode(line), &res)
	}
	return res
}

// finish handles a clean transport close: the held-back partial line is
// decoded as if it had been terminated, then the session completes.
func (s *StreamSession) finish() ingestResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res ingestResult
	if s.state != StreamStateActive {
		return res
	}
	if line, ok := s.framer.Flush(); ok {
		s.applyLocked(Decode(line), &res)
	}
	if s.state == StreamStateActive {
		s.state = StreamStateCompleted
		res.changed = true
	}
	return res
}

func (s *StreamSession) applyLocked(evt Event, res *ingestResult) {
	switch e := evt.(type) {
	case EventContentDelta:
		if s.appendLocked(e.Text) {
			res.changed = true
		}
	case EventTermination:
		s.state = StreamStateCompleted
		res.changed = true
	case EventIgnored:
		s.ignored++
		if e.Malformed {
			s.malformed++
			res.malformed = append(res.malformed, e.Line)
		}
	}
}

// fail moves an active session to Failed, keeping its partial content.
func (s *StreamSession) fail(cause error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StreamStateActive {
		return false
	}
	s.state = StreamStateFailed
	s.err = fmt.Errorf("%w: %w", ErrTransport, cause)
	return true
}

// cancel moves an active session to Cancelled, keeping its partial content.
func (s *StreamSession) cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StreamStateActive {
		return false
	}
	s.state = StreamStateCancelled
	return true
}
