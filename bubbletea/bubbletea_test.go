package bubbletea_test

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/reel"
	bt "github.com/fwojciec/reel/bubbletea"
	"github.com/fwojciec/reel/mock"
	"github.com/stretchr/testify/require"
)

var testProject = reel.Project{
	ID:        "proj-1",
	Name:      "Bedtime",
	Frequency: 3,
	Category:  reel.CategoryFiction,
}

// harness wires a real controller to a transport whose listeners the test
// drives by hand.
type harness struct {
	ctrl     *reel.Controller
	notifier *bt.Notifier

	mu        sync.Mutex
	requests  []reel.GenerateRequest
	listeners []reel.Listener
	aborts    int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{notifier: bt.NewNotifier()}
	tr := &mock.Transport{
		OpenFn: func(_ context.Context, req reel.GenerateRequest, l reel.Listener) (reel.Call, error) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.requests = append(h.requests, req)
			h.listeners = append(h.listeners, l)
			return &mock.Call{AbortFn: func() {
				h.mu.Lock()
				h.aborts++
				h.mu.Unlock()
			}}, nil
		},
	}
	h.ctrl = reel.NewController(tr, reel.WithObserver(h.notifier.Observe))
	return h
}

func (h *harness) listener(t *testing.T, i int) reel.Listener {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	require.Greater(t, len(h.listeners), i, "transport opened %d times", len(h.listeners))
	return h.listeners[i]
}

func (h *harness) opened() []reel.GenerateRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]reel.GenerateRequest(nil), h.requests...)
}

func (h *harness) abortCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.aborts
}

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, h *harness, opts ...bt.Option) bt.Model {
	t.Helper()
	return initModelWithSize(t, h, 80, 24, opts...)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, h *harness, width, height int, opts ...bt.Option) bt.Model {
	t.Helper()
	m := bt.New(h.ctrl, h.notifier, testProject, reel.DefaultTheme(), opts...)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	model, _ := updateModelCmd(t, m, msg)
	return model
}

// updateModelCmd sends a message and returns the updated Model and command.
func updateModelCmd(t *testing.T, m bt.Model, msg tea.Msg) (bt.Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model, cmd
}

// typeAndSubmit types text into the input and presses Enter.
func typeAndSubmit(t *testing.T, m bt.Model, text string) (bt.Model, tea.Cmd) {
	t.Helper()
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updateModelCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

// runCmd executes cmd and any batched commands, collecting the messages
// that arrive promptly. Commands that block, such as cursor blinks and
// notifier waits, are abandoned.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, runCmd(c)...)
			}
			return out
		}
		return []tea.Msg{msg}
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}
