// Package bubbletea provides a Bubble Tea TUI that streams a generated
// script into a live, markdown-rendered view.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/reel"
)

// Controller starts and cancels generation sessions. [reel.Controller]
// implements it.
type Controller interface {
	Start(ctx context.Context, req reel.GenerateRequest) (*reel.StreamSession, error)
	Cancel() bool
}

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits and returns the final model. The context is used for graceful
// shutdown: when cancelled, the program quits.
func Run(ctx context.Context, m Model) (Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		m = fm
	}
	return m, err
}

// Notifier coalesces controller observer callbacks into wake-ups for the
// TUI. Pass Observe to [reel.WithObserver]; it never blocks. On each
// wake-up the model reads a fresh snapshot from its session, so dropped
// wake-ups never lose state.
type Notifier struct {
	ch chan struct{}
}

// NewNotifier returns a Notifier with no pending wake-up.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// Observe records that the session changed.
func (n *Notifier) Observe(reel.Snapshot) {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *Notifier) wait() tea.Cmd {
	return func() tea.Msg {
		<-n.ch
		return SnapshotMsg{}
	}
}

// SnapshotMsg tells the model that the current session changed.
type SnapshotMsg struct{}

// ArchivedMsg reports the result of archiving a finished session.
type ArchivedMsg struct {
	ID        string
	SessionID string
	Err       error
}
