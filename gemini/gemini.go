// Package gemini implements [reel.Transport] directly on the Google Gemini
// API, for running without the reel backend.
//
// It wraps the google.golang.org/genai SDK. Generated text is re-encoded
// into the backend's line protocol (data: {"content":...}) so that the
// same framing and decoding pipeline consumes both transports.
package gemini

const (
	defaultModel     = "gemini-2.5-flash"
	defaultMaxTokens = 8192
)
