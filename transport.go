package reel

import "context"

// GenerateRequest asks for one script to be generated for a project.
type GenerateRequest struct {
	ProjectID       string
	ProjectCategory Category
	Prompt          string
}

// Listener receives notifications for one transport call. Implementations
// of Transport deliver them sequentially and in network order.
//
// OnData carries the whole body received so far, not just the new part.
// At most one of OnComplete and OnError is delivered, and nothing is
// delivered after it.
type Listener interface {
	OnData(cumulative string)
	OnComplete()
	OnError(err error)
}

// Call is an in-flight transport request.
type Call interface {
	// Abort stops the request. Notifications already in flight may still
	// arrive and must be tolerated by the listener.
	Abort()
}

// Transport opens a streaming generation request. Open must not block on
// the network: connection and status failures are reported through
// Listener.OnError.
type Transport interface {
	Open(ctx context.Context, req GenerateRequest, l Listener) (Call, error)
}
