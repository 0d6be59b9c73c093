package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/fwojciec/reel"
)

// readBufferSize bounds a single body read; each read becomes one OnData.
const readBufferSize = 4096

// Interface compliance checks.
var (
	_ reel.Transport = (*Transport)(nil)
	_ reel.Call      = (*Call)(nil)
)

// Transport opens streaming generation requests on the backend. It shares
// the base URL, HTTP client and token store of the [Client] it was made
// from. Streams are never refreshed or retried.
type Transport struct {
	client *Client
}

// NewTransport returns a Transport that uses c's configuration.
func NewTransport(c *Client) *Transport {
	return &Transport{client: c}
}

// Open starts the request in the background and returns immediately.
// Connection failures and non-2xx statuses reach l through OnError.
func (t *Transport) Open(ctx context.Context, req reel.GenerateRequest, l reel.Listener) (reel.Call, error) {
	payload, err := json.Marshal(convertPromptRequest(req))
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	token, err := t.client.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithCancel(ctx)
	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, t.client.baseURL+streamPath, bytes.NewReader(payload))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("backend: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", streamAccept)
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	c := &Call{cancel: cancel, done: make(chan struct{})}
	go c.run(t.client, httpReq, l)
	return c, nil
}

// Call is one in-flight streaming request.
type Call struct {
	cancel  context.CancelFunc
	aborted atomic.Bool
	done    chan struct{}
}

// Abort cancels the request. Once Abort returns no further notifications
// are delivered, except one already in progress.
func (c *Call) Abort() {
	c.aborted.Store(true)
	c.cancel()
}

// Done is closed when the background reader has exited.
func (c *Call) Done() <-chan struct{} { return c.done }

func (c *Call) run(client *Client, req *http.Request, l reel.Listener) {
	defer close(c.done)
	defer c.cancel()

	resp, err := client.httpClient.Do(req)
	if err != nil {
		if !c.aborted.Load() {
			l.OnError(fmt.Errorf("backend: %w", err))
		}
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := parseHTTPError(resp)
		client.logger.Debug().Err(err).Str("path", streamPath).Msg("stream rejected")
		if !c.aborted.Load() {
			l.OnError(err)
		}
		return
	}

	var body strings.Builder
	buf := make([]byte, readBufferSize)
	for {
		n, err := resp.Body.Read(buf)
		if c.aborted.Load() {
			return
		}
		if n > 0 {
			body.Write(buf[:n])
			l.OnData(body.String())
		}
		switch {
		case errors.Is(err, io.EOF):
			l.OnComplete()
			return
		case err != nil:
			if !c.aborted.Load() {
				l.OnError(fmt.Errorf("backend: read stream: %w", err))
			}
			return
		}
	}
}
