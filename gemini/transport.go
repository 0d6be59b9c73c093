package gemini

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync/atomic"

	"github.com/fwojciec/reel"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// Interface compliance checks.
var (
	_ reel.Transport = (*Transport)(nil)
	_ reel.Call      = (*Call)(nil)
)

type streamFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]

// Transport implements [reel.Transport] for the Google Gemini API.
type Transport struct {
	stream      streamFunc
	model       string
	maxTokens   int
	temperature *float32
	logger      zerolog.Logger
}

// Option configures a [Transport].
type Option func(*Transport)

// WithModel sets the model ID. Default is gemini-2.5-flash.
func WithModel(model string) Option {
	return func(t *Transport) {
		if model != "" {
			t.model = model
		}
	}
}

// WithMaxTokens caps the length of a generated script.
func WithMaxTokens(n int) Option {
	return func(t *Transport) { t.maxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temp float32) Option {
	return func(t *Transport) { t.temperature = &temp }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Transport) { t.logger = l }
}

// New creates a Gemini [Transport] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Transport, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return newTransport(gc.Models.GenerateContentStream, opts...), nil
}

func newTransport(fn streamFunc, opts ...Option) *Transport {
	t := &Transport{
		stream:    fn,
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
		logger:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Open starts generation in the background and returns immediately.
func (t *Transport) Open(ctx context.Context, req reel.GenerateRequest, l reel.Listener) (reel.Call, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	callCtx, cancel := context.WithCancel(ctx)
	c := &Call{cancel: cancel, done: make(chan struct{})}
	seq := t.stream(callCtx, t.model, BuildContents(req), t.buildConfig(req))
	t.logger.Debug().Str("model", t.model).Stringer("request", req).Msg("gemini stream open")
	go c.run(seq, l)
	return c, nil
}

func (t *Transport) buildConfig(req reel.GenerateRequest) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		MaxOutputTokens: int32(t.maxTokens),
		Temperature:     t.temperature,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: SystemPrompt(req.ProjectCategory)}},
		},
	}
}

// BuildContents converts a generation request into the user turn sent to
// the model.
func BuildContents(req reel.GenerateRequest) []*genai.Content {
	return []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: strings.TrimSpace(req.Prompt)}},
	}}
}

// Call is one in-flight generation.
type Call struct {
	cancel  context.CancelFunc
	aborted atomic.Bool
	done    chan struct{}
}

// Abort cancels the generation. No notification starts after Abort.
func (c *Call) Abort() {
	c.aborted.Store(true)
	c.cancel()
}

// Done is closed when the background reader has exited.
func (c *Call) Done() <-chan struct{} { return c.done }

func (c *Call) run(seq iter.Seq2[*genai.GenerateContentResponse, error], l reel.Listener) {
	defer close(c.done)
	defer c.cancel()

	var body strings.Builder
	for resp, err := range seq {
		if c.aborted.Load() {
			return
		}
		if err != nil {
			l.OnError(fmt.Errorf("gemini: %w", err))
			return
		}
		text := responseText(resp)
		if text == "" {
			continue
		}
		body.WriteString(reel.EncodeDelta(text))
		l.OnData(body.String())
	}
	if c.aborted.Load() {
		return
	}
	body.WriteString(reel.EncodeDone())
	l.OnData(body.String())
	l.OnComplete()
}

// responseText concatenates the non-thought text parts of the first
// candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range cand.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
