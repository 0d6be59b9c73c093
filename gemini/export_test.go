package gemini

import (
	"context"
	"iter"

	"google.golang.org/genai"
)

// NewWithStream builds a Transport around a fake stream function.
func NewWithStream(fn func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error], opts ...Option) *Transport {
	return newTransport(fn, opts...)
}
