package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/reel"
	"github.com/fwojciec/reel/backend"
	"github.com/fwojciec/reel/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var streamRequest = reel.GenerateRequest{ProjectID: "p1", ProjectCategory: reel.CategoryFiction, Prompt: "a lighthouse"}

// recorder collects listener notifications.
type recorder struct {
	mu        sync.Mutex
	data      []string
	completed int
	errs      []error
}

func (r *recorder) listener() *mock.Listener {
	return &mock.Listener{
		OnDataFn: func(s string) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.data = append(r.data, s)
		},
		OnCompleteFn: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.completed++
		},
		OnErrorFn: func(err error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.errs = append(r.errs, err)
		},
	}
}

func (r *recorder) snapshot() ([]string, int, []error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.data...), r.completed, append([]error(nil), r.errs...)
}

func waitDone(t *testing.T, call reel.Call) {
	t.Helper()
	c, ok := call.(*backend.Call)
	require.True(t, ok)
	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("stream reader did not exit")
	}
}

func TestTransport_DeliversCumulativeBody(t *testing.T) {
	t.Parallel()

	chunks := []string{
		"data: {\"content\":\"Hel\"}\n",
		"data: {\"content\":\"lo\"}\nda",
		"ta: [DONE]\n",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/story/stream", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, c := range chunks {
			_, _ = w.Write([]byte(c))
			flusher.Flush()
		}
	}))
	defer srv.Close()

	ts := &tokenStore{tokens: reel.Tokens{Access: "tok"}}
	tr := backend.NewTransport(backend.New(ts.mock(), backend.WithBaseURL(srv.URL)))
	rec := &recorder{}

	call, err := tr.Open(context.Background(), streamRequest, rec.listener())
	require.NoError(t, err)
	waitDone(t, call)

	data, completed, errs := rec.snapshot()
	require.NotEmpty(t, data)
	assert.Equal(t, chunks[0]+chunks[1]+chunks[2], data[len(data)-1])
	for i := 1; i < len(data); i++ {
		assert.True(t, len(data[i]) > len(data[i-1]), "body must grow")
		assert.Equal(t, data[i-1], data[i][:len(data[i-1])], "body must be cumulative")
	}
	assert.Equal(t, 1, completed)
	assert.Empty(t, errs)
}

func TestTransport_NonSuccessStatusReportsError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"token expired"}`))
	}))
	defer srv.Close()

	tr := backend.NewTransport(backend.New(nil, backend.WithBaseURL(srv.URL)))
	rec := &recorder{}
	call, err := tr.Open(context.Background(), streamRequest, rec.listener())
	require.NoError(t, err)
	waitDone(t, call)

	data, completed, errs := rec.snapshot()
	assert.Empty(t, data)
	assert.Zero(t, completed)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], reel.ErrUnauthorized)
	assert.Contains(t, errs[0].Error(), "token expired")
}

func TestTransport_AbortStopsNotifications(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data: {\"content\":\"first\"}\n"))
		w.(http.Flusher).Flush()
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	tr := backend.NewTransport(backend.New(nil, backend.WithBaseURL(srv.URL)))
	rec := &recorder{}
	call, err := tr.Open(context.Background(), streamRequest, rec.listener())
	require.NoError(t, err)

	<-started
	require.Eventually(t, func() bool {
		data, _, _ := rec.snapshot()
		return len(data) == 1
	}, 5*time.Second, 10*time.Millisecond)

	call.Abort()
	call.Abort()
	waitDone(t, call)

	data, completed, errs := rec.snapshot()
	assert.Len(t, data, 1)
	assert.Zero(t, completed)
	assert.Empty(t, errs)
}

func TestTransport_WithController(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for _, line := range []string{
			"data: {\"content\":\"Hi\"}\n",
			"data: garbage\n",
			"data: {\"content\":\"!\"}\n",
			"data: [DONE]\n",
		} {
			_, _ = w.Write([]byte(line))
			flusher.Flush()
		}
	}))
	defer srv.Close()

	tr := backend.NewTransport(backend.New(nil, backend.WithBaseURL(srv.URL)))
	c := reel.NewController(tr)

	s, err := c.Start(context.Background(), streamRequest)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return s.State().Terminal() }, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, reel.StreamStateCompleted, s.State())
	assert.Equal(t, "Hi!", s.Content())
	assert.Equal(t, 1, s.Ignored())
}

func TestTransport_ConnectionFailureFailsSession(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	tr := backend.NewTransport(backend.New(nil, backend.WithBaseURL(url)))
	c := reel.NewController(tr)

	s, err := c.Start(context.Background(), streamRequest)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return s.State().Terminal() }, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, reel.StreamStateFailed, s.State())
	assert.ErrorIs(t, s.Err(), reel.ErrTransport)
	assert.Empty(t, s.Content())
}
