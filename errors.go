package reel

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrTransport indicates the underlying connection failed, was reset or
	// timed out before the stream completed.
	ErrTransport = errors.New("transport error")

	// ErrValidation indicates a request or server payload failed validation.
	ErrValidation = errors.New("validation error")

	// ErrUnauthorized indicates the backend rejected the credentials and
	// they could not be refreshed.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
)

// ErrorKind classifies anomalies observed by the streaming consumer.
// Only ErrorKindTransport is ever surfaced to callers.
type ErrorKind int

const (
	ErrorKindNone ErrorKind = iota
	ErrorKindTransport
	ErrorKindMalformedEvent
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindTransport:
		return "transport"
	case ErrorKindMalformedEvent:
		return "malformed_event"
	default:
		return "none"
	}
}
