package reel

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// maxLoggedLine bounds how much of a malformed line is written to the log.
const maxLoggedLine = 120

// Controller owns the request slot for streaming generation: at most one
// session is active at a time, and it exclusively owns that session's
// transport call.
type Controller struct {
	transport Transport
	logger    zerolog.Logger
	observer  func(Snapshot)

	mu      sync.Mutex
	current *StreamSession
	call    Call

	// pubMu keeps snapshot capture and delivery in one step so observers
	// never see an older snapshot after a newer one.
	pubMu sync.Mutex
}

// ControllerOption configures a [Controller].
type ControllerOption func(*Controller)

// WithLogger sets the logger used for transitions and malformed lines.
func WithLogger(l zerolog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

// WithObserver registers fn to receive a Snapshot after every change to the
// current session. fn runs on the goroutine that caused the change; it must
// not block and must not call back into the Controller.
func WithObserver(fn func(Snapshot)) ControllerOption {
	return func(c *Controller) { c.observer = fn }
}

// NewController creates a Controller that opens requests on t.
func NewController(t Transport, opts ...ControllerOption) *Controller {
	c := &Controller{
		transport: t,
		logger:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Current returns the most recently started session, or nil.
func (c *Controller) Current() *StreamSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Start cancels the active session, if any, and opens exactly one transport
// call for a new session. The returned session is Active unless opening the
// call failed, in which case it is Failed and the error is returned too.
func (c *Controller) Start(ctx context.Context, req GenerateRequest) (*StreamSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c.logger.Debug().Stringer("request", req).Msg("stream start")

	c.mu.Lock()
	prev := c.current
	prevCancelled := c.cancelLocked()

	s := NewStreamSession()
	s.activate()
	c.current = s
	c.call = nil

	call, err := c.transport.Open(ctx, req, &sessionListener{c: c, s: s})
	if err == nil {
		c.call = call
	} else {
		s.fail(err)
	}
	c.mu.Unlock()

	if prevCancelled {
		c.logTransition(prev)
		c.publish(prev)
	}
	c.logTransition(s)
	c.publish(s)

	if err != nil {
		return s, s.Err()
	}
	return s, nil
}

// Cancel aborts the active session. It reports whether anything was
// cancelled; calling it with no active session is a no-op.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	s := c.current
	cancelled := c.cancelLocked()
	c.mu.Unlock()

	if cancelled {
		c.logTransition(s)
		c.publish(s)
	}
	return cancelled
}

func (c *Controller) cancelLocked() bool {
	if c.current == nil || !c.current.cancel() {
		return false
	}
	if c.call != nil {
		c.call.Abort()
		c.call = nil
	}
	return true
}

func (c *Controller) publish(s *StreamSession) {
	if c.observer == nil {
		return
	}
	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	c.observer(s.Snapshot())
}

func (c *Controller) logTransition(s *StreamSession) {
	snap := s.Snapshot()
	var evt *zerolog.Event
	if snap.State == StreamStateFailed {
		evt = c.logger.Warn().Err(snap.Err)
	} else {
		evt = c.logger.Debug()
	}
	evt.Str("session", snap.SessionID).
		Stringer("state", snap.State).
		Int("offset", snap.Offset).
		Int("content_len", len(snap.Content)).
		Msg("stream transition")
}

func (c *Controller) logMalformed(s *StreamSession, lines []string) {
	for _, line := range lines {
		if len(line) > maxLoggedLine {
			line = line[:maxLoggedLine] + "..."
		}
		c.logger.Debug().
			Str("session", s.ID()).
			Str("line", line).
			Stringer("kind", ErrorKindMalformedEvent).
			Msg("ignored malformed event")
	}
}

// sessionListener binds transport notifications to one session. Late
// notifications for a replaced session hit a terminal session and are
// dropped there.
type sessionListener struct {
	c *Controller
	s *StreamSession
}

func (l *sessionListener) OnData(cumulative string) {
	res := l.s.ingest(cumulative)
	l.c.logMalformed(l.s, res.malformed)
	if !res.changed {
		return
	}
	if l.s.State().Terminal() {
		l.c.logTransition(l.s)
	}
	l.c.publish(l.s)
}

func (l *sessionListener) OnComplete() {
	res := l.s.finish()
	l.c.logMalformed(l.s, res.malformed)
	if res.changed {
		l.c.logTransition(l.s)
		l.c.publish(l.s)
	}
}

func (l *sessionListener) OnError(err error) {
	if !l.s.fail(err) {
		return
	}
	l.c.logTransition(l.s)
	l.c.publish(l.s)
}

// String implements fmt.Stringer for log output.
func (r GenerateRequest) String() string {
	return fmt.Sprintf("project=%s category=%s prompt_len=%d", r.ProjectID, r.ProjectCategory, len(r.Prompt))
}
