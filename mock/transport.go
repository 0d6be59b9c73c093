// Package mock provides test doubles for reel interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/reel"
)

// Interface compliance checks.
var (
	_ reel.Transport = (*Transport)(nil)
	_ reel.Call      = (*Call)(nil)
	_ reel.Listener  = (*Listener)(nil)
)

// Transport is a test double for reel.Transport.
// Set OpenFn before calling Open.
type Transport struct {
	OpenFn func(ctx context.Context, req reel.GenerateRequest, l reel.Listener) (reel.Call, error)
}

// Open delegates to OpenFn.
func (t *Transport) Open(ctx context.Context, req reel.GenerateRequest, l reel.Listener) (reel.Call, error) {
	return t.OpenFn(ctx, req, l)
}

// Call is a test double for reel.Call. Abort is a no-op when AbortFn is nil
// because most tests only count aborts through the function they set.
type Call struct {
	AbortFn func()
}

// Abort delegates to AbortFn.
func (c *Call) Abort() {
	if c.AbortFn != nil {
		c.AbortFn()
	}
}

// Listener is a test double for reel.Listener. Nil function fields are
// no-ops so tests can observe only the notifications they care about.
type Listener struct {
	OnDataFn     func(cumulative string)
	OnCompleteFn func()
	OnErrorFn    func(err error)
}

// OnData delegates to OnDataFn.
func (l *Listener) OnData(cumulative string) {
	if l.OnDataFn != nil {
		l.OnDataFn(cumulative)
	}
}

// OnComplete delegates to OnCompleteFn.
func (l *Listener) OnComplete() {
	if l.OnCompleteFn != nil {
		l.OnCompleteFn()
	}
}

// OnError delegates to OnErrorFn.
func (l *Listener) OnError(err error) {
	if l.OnErrorFn != nil {
		l.OnErrorFn(err)
	}
}
