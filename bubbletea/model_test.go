package bubbletea_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/fwojciec/reel"
	bt "github.com/fwojciec/reel/bubbletea"
	"github.com/fwojciec/reel/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	m := bt.New(h.ctrl, h.notifier, testProject, reel.DefaultTheme())

	assert.False(t, m.Active())
	assert.Equal(t, "Initializing...", m.View())
	assert.Equal(t, reel.StreamStateIdle, m.Snapshot().State)
}

func TestModel_Update(t *testing.T) {
	t.Parallel()

	t.Run("window size initializes viewport", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newHarness(t))

		assert.Equal(t, 80, m.Viewport.Width)
		assert.Equal(t, 20, m.Viewport.Height) // 24 - 1 - 1 - 2 = 20
		assert.Contains(t, m.View(), "Enter to generate")
	})

	t.Run("window size resize updates viewport dimensions", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newHarness(t))
		m = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

		assert.Equal(t, 120, m.Viewport.Width)
		assert.Equal(t, 36, m.Viewport.Height)
		assert.Equal(t, 120, m.Input.Width)
	})

	t.Run("ctrl+c quits when idle", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newHarness(t))
		_, cmd := updateModelCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	})

	t.Run("enter with empty input does nothing", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		m := initModel(t, h)
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("   ")})
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		assert.Empty(t, h.opened())
		assert.False(t, m.Active())
	})

	t.Run("enter starts a session for the project", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		m := initModel(t, h)
		m, _ = typeAndSubmit(t, m, "a snail who wants to fly")

		require.Len(t, h.opened(), 1)
		assert.Equal(t, reel.GenerateRequest{
			ProjectID:       testProject.ID,
			ProjectCategory: testProject.Category,
			Prompt:          "a snail who wants to fly",
		}, h.opened()[0])
		assert.True(t, m.Active())
		assert.Empty(t, m.Input.Value())
		assert.Contains(t, bt.StatusLine(m), "generating")
	})

	t.Run("snapshot message renders streamed content", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		m := initModel(t, h)
		m, _ = typeAndSubmit(t, m, "snail")

		l := h.listener(t, 0)
		l.OnData(reel.EncodeDelta("Once upon a snail"))
		m = updateModel(t, m, bt.SnapshotMsg{})

		assert.Contains(t, m.View(), "Once upon a snail")
		assert.Equal(t, "Once upon a snail", m.Snapshot().Content)
		assert.Contains(t, bt.StatusLine(m), "bytes")
	})

	t.Run("snapshot message waits for the next change", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newHarness(t))
		_, cmd := updateModelCmd(t, m, bt.SnapshotMsg{})

		assert.NotNil(t, cmd)
	})

	t.Run("completion shows done and re-enables input", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		m := initModel(t, h)
		m, _ = typeAndSubmit(t, m, "snail")

		l := h.listener(t, 0)
		l.OnData(reel.EncodeDelta("# The Snail") + reel.EncodeDone())
		m = updateModel(t, m, bt.SnapshotMsg{})

		assert.False(t, m.Active())
		assert.Equal(t, reel.StreamStateCompleted, m.Snapshot().State)
		assert.True(t, m.Input.Focused())
		assert.Contains(t, bt.StatusLine(m), "done")
	})

	t.Run("esc cancels and keeps partial content", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		m := initModel(t, h)
		m, _ = typeAndSubmit(t, m, "snail")
		h.listener(t, 0).OnData(reel.EncodeDelta("Once upon"))
		m = updateModel(t, m, bt.SnapshotMsg{})

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEsc})

		assert.Equal(t, 1, h.abortCount())
		assert.Equal(t, reel.StreamStateCancelled, m.Snapshot().State)
		assert.Equal(t, "Once upon", m.Snapshot().Content)
		assert.NoError(t, m.Snapshot().Err)
		assert.Contains(t, bt.StatusLine(m), "cancelled")
		assert.NotContains(t, bt.StatusLine(m), "failed")
		assert.Contains(t, m.View(), "Once upon")
	})

	t.Run("esc when idle does nothing", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		m := initModel(t, h)
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEsc})

		assert.Zero(t, h.abortCount())
		assert.False(t, m.Active())
	})

	t.Run("ctrl+c while active cancels without quitting", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		m := initModel(t, h)
		m, _ = typeAndSubmit(t, m, "snail")

		m, cmd := updateModelCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

		for _, msg := range runCmd(cmd) {
			assert.NotEqual(t, tea.Quit(), msg)
		}
		assert.Equal(t, 1, h.abortCount())
		assert.Equal(t, reel.StreamStateCancelled, m.Snapshot().State)
	})

	t.Run("late data after cancel is not rendered", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		m := initModel(t, h)
		m, _ = typeAndSubmit(t, m, "snail")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEsc})

		h.listener(t, 0).OnData(reel.EncodeDelta("too late"))
		m = updateModel(t, m, bt.SnapshotMsg{})

		assert.NotContains(t, m.View(), "too late")
		assert.Equal(t, reel.StreamStateCancelled, m.Snapshot().State)
	})

	t.Run("transport failure shows notice with partial script", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		m := initModel(t, h)
		m, _ = typeAndSubmit(t, m, "snail")

		l := h.listener(t, 0)
		l.OnData(reel.EncodeDelta("Once upon"))
		l.OnError(errors.New("connection reset"))
		m = updateModel(t, m, bt.SnapshotMsg{})

		assert.Equal(t, reel.StreamStateFailed, m.Snapshot().State)
		assert.ErrorIs(t, m.Snapshot().Err, reel.ErrTransport)
		assert.Contains(t, bt.StatusLine(m), "generation failed")
		assert.NotContains(t, bt.StatusLine(m), "connection reset")
		assert.Contains(t, m.View(), "Once upon")
	})

	t.Run("ctrl+r restarts with the last prompt", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		m := initModel(t, h)
		m, _ = typeAndSubmit(t, m, "snail")
		h.listener(t, 0).OnData(reel.EncodeDelta("first"))
		m = updateModel(t, m, bt.SnapshotMsg{})

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})

		requests := h.opened()
		require.Len(t, requests, 2)
		assert.Equal(t, "snail", requests[1].Prompt)
		assert.Equal(t, 1, h.abortCount())
		assert.True(t, m.Active())
		assert.Empty(t, m.Snapshot().Content)
	})

	t.Run("ctrl+r without a previous prompt does nothing", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		m := initModel(t, h)
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})

		assert.Empty(t, h.opened())
	})

	t.Run("invalid project shows validation notice", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		m := bt.New(h.ctrl, h.notifier, reel.Project{}, reel.DefaultTheme())
		m = updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
		m, _ = typeAndSubmit(t, m, "snail")

		assert.Empty(t, h.opened())
		assert.False(t, m.Active())
		assert.Contains(t, bt.StatusLine(m), "project id is required")
	})

	t.Run("enter while active is ignored", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		m := initModel(t, h)
		m, _ = typeAndSubmit(t, m, "snail")
		m, _ = typeAndSubmit(t, m, "another")

		assert.Len(t, h.opened(), 1)
	})

	t.Run("status line is truncated to the terminal width", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		m := initModelWithSize(t, h, 20, 10)
		m, _ = typeAndSubmit(t, m, "snail")

		assert.LessOrEqual(t, lipgloss.Width(bt.StatusLine(m)), 20)
	})
}

func TestModel_Archive(t *testing.T) {
	t.Parallel()

	t.Run("finished session is archived once", func(t *testing.T) {
		t.Parallel()

		var saved []*reel.ScriptRecord
		archive := &mock.ScriptArchive{
			SaveFn: func(_ context.Context, r *reel.ScriptRecord) error {
				r.ID = "0123456789abcdef"
				saved = append(saved, r)
				return nil
			},
		}
		h := newHarness(t)
		m := initModel(t, h, bt.WithArchive(archive))
		m, _ = typeAndSubmit(t, m, "snail")
		h.listener(t, 0).OnData(reel.EncodeDelta("# The Snail\n") + reel.EncodeDone())

		m, cmd := updateModelCmd(t, m, bt.SnapshotMsg{})
		var archived *bt.ArchivedMsg
		for _, msg := range runCmd(cmd) {
			if a, ok := msg.(bt.ArchivedMsg); ok {
				archived = &a
			}
		}
		require.NotNil(t, archived)
		require.Len(t, saved, 1)
		assert.Equal(t, "proj-1", saved[0].ProjectID)
		assert.Equal(t, "snail", saved[0].Prompt)
		assert.Equal(t, "The Snail", saved[0].Title)
		assert.Equal(t, reel.StreamStateCompleted, saved[0].State)
		assert.Equal(t, m.Snapshot().SessionID, saved[0].SessionID)

		m = updateModel(t, m, *archived)
		assert.Contains(t, bt.StatusLine(m), "saved 01234567")

		// A second wake-up for the same terminal session does not archive again.
		_, cmd = updateModelCmd(t, m, bt.SnapshotMsg{})
		runCmd(cmd)
		assert.Len(t, saved, 1)
	})

	t.Run("cancelled session is archived with its partial content", func(t *testing.T) {
		t.Parallel()

		var saved *reel.ScriptRecord
		archive := &mock.ScriptArchive{
			SaveFn: func(_ context.Context, r *reel.ScriptRecord) error {
				saved = r
				return nil
			},
		}
		h := newHarness(t)
		m := initModel(t, h, bt.WithArchive(archive))
		m, _ = typeAndSubmit(t, m, "snail")
		h.listener(t, 0).OnData(reel.EncodeDelta("Once upon"))

		_, cmd := updateModelCmd(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		runCmd(cmd)

		require.NotNil(t, saved)
		assert.Equal(t, reel.StreamStateCancelled, saved.State)
		assert.Equal(t, "Once upon", saved.Content)
	})

	t.Run("restart archives the replaced session", func(t *testing.T) {
		t.Parallel()

		var saved []*reel.ScriptRecord
		archive := &mock.ScriptArchive{
			SaveFn: func(_ context.Context, r *reel.ScriptRecord) error {
				r.ID = fmt.Sprintf("%016d", len(saved)+1)
				saved = append(saved, r)
				return nil
			},
		}
		h := newHarness(t)
		m := initModel(t, h, bt.WithArchive(archive))
		m, _ = typeAndSubmit(t, m, "snail")
		h.listener(t, 0).OnData(reel.EncodeDelta("partial"))

		m, cmd := updateModelCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
		for _, msg := range runCmd(cmd) {
			m = updateModel(t, m, msg)
		}
		require.Len(t, saved, 1)
		assert.Equal(t, reel.StreamStateCancelled, saved[0].State)
		assert.Equal(t, "partial", saved[0].Content)
		assert.Equal(t, "snail", saved[0].Prompt)

		h.listener(t, 1).OnData(reel.EncodeDelta("# Second\n") + reel.EncodeDone())
		m, cmd = updateModelCmd(t, m, bt.SnapshotMsg{})
		for _, msg := range runCmd(cmd) {
			m = updateModel(t, m, msg)
		}
		require.Len(t, saved, 2)
		assert.Equal(t, reel.StreamStateCompleted, saved[1].State)
		assert.NotEqual(t, saved[0].SessionID, saved[1].SessionID)
		assert.Contains(t, bt.StatusLine(m), "saved 00000000")
	})

	t.Run("saved notice ignores a replaced session", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		m := initModel(t, h)
		m, _ = typeAndSubmit(t, m, "snail")
		h.listener(t, 0).OnData(reel.EncodeDone())
		m = updateModel(t, m, bt.SnapshotMsg{})

		m = updateModel(t, m, bt.ArchivedMsg{ID: "fedcba9876543210", SessionID: "another-session"})

		assert.NotContains(t, bt.StatusLine(m), "saved")
	})

	t.Run("unarchived reports a session cancelled outside the model", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		m := initModel(t, h)
		m, _ = typeAndSubmit(t, m, "snail")
		h.listener(t, 0).OnData(reel.EncodeDelta("Once upon"))

		_, ok := m.Unarchived()
		assert.False(t, ok, "active session")

		h.ctrl.Cancel()

		rec, ok := m.Unarchived()
		require.True(t, ok)
		assert.Equal(t, reel.StreamStateCancelled, rec.State)
		assert.Equal(t, "Once upon", rec.Content)
		assert.Equal(t, "proj-1", rec.ProjectID)
		assert.Equal(t, "snail", rec.Prompt)
	})

	t.Run("unarchived is empty once the model archived the session", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		m := initModel(t, h)
		_, ok := m.Unarchived()
		assert.False(t, ok, "no session")

		m, _ = typeAndSubmit(t, m, "snail")
		h.listener(t, 0).OnData(reel.EncodeDelta("done") + reel.EncodeDone())
		m = updateModel(t, m, bt.SnapshotMsg{})

		_, ok = m.Unarchived()
		assert.False(t, ok)
	})

	t.Run("archive error is shown as a notice", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newHarness(t))
		m = updateModel(t, m, bt.ArchivedMsg{Err: errors.New("disk full")})

		assert.Contains(t, bt.StatusLine(m), "Archive failed: disk full")
	})
}

func TestRenderContent(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	m := initModel(t, h)
	assert.Empty(t, bt.RenderContent(m))

	m, _ = typeAndSubmit(t, m, "snail")
	h.listener(t, 0).OnData(reel.EncodeDelta("## Hook\n\nWhy can't snails fly?"))
	m = updateModel(t, m, bt.SnapshotMsg{})

	out := bt.RenderContent(m)
	assert.Contains(t, out, "Hook")
	assert.Contains(t, out, "Why can't snails fly?")
	assert.NotContains(t, out, "##")
}

func TestModel_Teatest(t *testing.T) {
	t.Parallel()

	t.Run("full generation cycle with streamed delivery", func(t *testing.T) {
		t.Parallel()

		notifier := bt.NewNotifier()
		tr := &mock.Transport{
			OpenFn: func(_ context.Context, _ reel.GenerateRequest, l reel.Listener) (reel.Call, error) {
				go func() {
					body := reel.EncodeDelta("Once upon a snail")
					l.OnData(body)
					l.OnData(body + reel.EncodeDone())
				}()
				return &mock.Call{}, nil
			},
		}
		ctrl := reel.NewController(tr, reel.WithObserver(notifier.Observe))
		m := bt.New(ctrl, notifier, testProject, reel.DefaultTheme())

		tm := teatest.NewTestModel(t, m,
			teatest.WithInitialTermSize(80, 24),
		)

		tm.Type("snail")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Once upon a snail")) &&
				bytes.Contains(out, []byte("done"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		final, ok := fm.(bt.Model)
		require.True(t, ok)
		assert.False(t, final.Active())
		assert.Equal(t, reel.StreamStateCompleted, final.Snapshot().State)
		assert.Equal(t, "Once upon a snail", final.Snapshot().Content)
	})
}
