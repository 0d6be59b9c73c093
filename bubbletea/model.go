package bubbletea

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/reel"
	"github.com/fwojciec/reel/goldmark"
	"github.com/mattn/go-runewidth"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the generation TUI.
type Model struct {
	// Input is the prompt input. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable script area. Exported for test access.
	Viewport viewport.Model
	// Spinner animates while a session is active. Exported for test access.
	Spinner spinner.Model

	ctrl     Controller
	notifier *Notifier
	archive  reel.ScriptArchive
	project  reel.Project
	theme    reel.Theme
	styles   Styles

	session    *reel.StreamSession
	snap       reel.Snapshot
	request    reel.GenerateRequest
	lastPrompt string
	finished   bool
	archivedID string
	notice     string
	ready      bool
}

// Option configures a [Model].
type Option func(*Model)

// WithArchive saves every finished session to a.
func WithArchive(a reel.ScriptArchive) Option {
	return func(m *Model) { m.archive = a }
}

// New creates a Model that generates scripts for project through ctrl. n
// must be registered as ctrl's observer.
func New(ctrl Controller, n *Notifier, project reel.Project, theme reel.Theme, opts ...Option) Model {
	styles := NewStyles(theme)

	ti := textinput.New()
	ti.Placeholder = "Describe the story..."
	ti.Prompt = "> "
	ti.PromptStyle = styles.Prompt
	ti.CharLimit = 0
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))

	m := Model{
		Input:    ti,
		Spinner:  sp,
		ctrl:     ctrl,
		notifier: n,
		project:  project,
		theme:    theme,
		styles:   styles,
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// Active reports whether the current session is still streaming.
func (m Model) Active() bool {
	return m.session != nil && m.session.State() == reel.StreamStateActive
}

// Snapshot returns the last snapshot the model rendered.
func (m Model) Snapshot() reel.Snapshot { return m.snap }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.notifier.wait())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SnapshotMsg:
		m, cmd := m.refresh()
		return m, tea.Batch(cmd, m.notifier.wait())

	case ArchivedMsg:
		if msg.Err != nil {
			m.notice = fmt.Sprintf("Archive failed: %v", msg.Err)
		} else if msg.SessionID == m.snap.SessionID {
			m.archivedID = msg.ID
		}
		return m, nil

	case spinner.TickMsg:
		if !m.Active() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	if !m.Active() {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := max(msg.Height-inputH-statusHeight-borderHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Viewport.SetContent(m.renderContent())
	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.Active() {
			m.ctrl.Cancel()
			return m.refresh()
		}
		return m, tea.Quit

	case tea.KeyEsc:
		if m.Active() {
			m.ctrl.Cancel()
			return m.refresh()
		}
		return m, nil

	case tea.KeyCtrlR:
		if m.lastPrompt == "" {
			return m, nil
		}
		return m.start(m.lastPrompt)

	case tea.KeyEnter:
		if m.Active() {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		m.Input.SetValue("")
		return m.start(text)
	}

	// While streaming, keys only scroll. When idle, forward non-character
	// keys to the viewport as well so arrows and paging keep working.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.Active() || msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	if !m.Active() {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// start opens a new session, replacing any active one.
func (m Model) start(prompt string) (Model, tea.Cmd) {
	req := reel.GenerateRequest{
		ProjectID:       m.project.ID,
		ProjectCategory: m.project.Category,
		Prompt:          prompt,
	}
	m.lastPrompt = prompt
	m.notice = ""

	s, err := m.ctrl.Start(context.Background(), req)
	if s == nil {
		m.notice = err.Error()
		return m, nil
	}

	// Starting cancels the previous session; it still gets archived.
	var prevCmd tea.Cmd
	if prev, ok := m.Unarchived(); ok {
		prevCmd = m.saveCmd(prev)
	}

	m.session = s
	m.request = req
	m.finished = false
	m.archivedID = ""
	m.Input.Blur()

	m, cmd := m.refresh()
	return m, tea.Batch(prevCmd, cmd, m.Spinner.Tick)
}

// Unarchived returns the record of the current session if the session is
// terminal but has not been handed to the archive yet. It reads the session
// directly, so a cancellation the model has not rendered is included.
func (m Model) Unarchived() (*reel.ScriptRecord, bool) {
	if m.session == nil || m.finished {
		return nil, false
	}
	snap := m.session.Snapshot()
	if !snap.State.Terminal() {
		return nil, false
	}
	return reel.NewScriptRecord(m.request, snap), true
}

// refresh re-reads the current session. The first time it sees a terminal
// state it re-enables input and archives the result.
func (m Model) refresh() (Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	m.snap = m.session.Snapshot()
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	if !m.snap.State.Terminal() || m.finished {
		return m, nil
	}
	m.finished = true
	return m, tea.Batch(m.Input.Focus(), m.archiveCmd())
}

func (m Model) archiveCmd() tea.Cmd {
	return m.saveCmd(reel.NewScriptRecord(m.request, m.snap))
}

func (m Model) saveCmd(rec *reel.ScriptRecord) tea.Cmd {
	if m.archive == nil {
		return nil
	}
	archive := m.archive
	return func() tea.Msg {
		err := archive.Save(context.Background(), rec)
		return ArchivedMsg{ID: rec.ID, SessionID: rec.SessionID, Err: err}
	}
}

func (m Model) renderContent() string {
	return goldmark.Render(m.snap.Content, m.Viewport.Width, m.theme)
}

// statusLine shows the session state on the left and stream counters on
// the right, truncated to the terminal width.
func (m Model) statusLine() string {
	label, style := m.statusLabel()
	if m.session != nil {
		label += fmt.Sprintf("  ·  %d bytes  ·  %d ignored", m.snap.Offset, m.snap.Ignored)
	}
	if w := m.Viewport.Width; w > 0 {
		label = runewidth.Truncate(label, w, "…")
	}
	return style.Render(label)
}

func (m Model) statusLabel() (string, lipgloss.Style) {
	if m.notice != "" {
		return m.notice, m.styles.Error
	}
	if m.session == nil {
		return "Enter to generate · Ctrl+C to quit", m.styles.Muted
	}
	switch m.snap.State {
	case reel.StreamStateActive:
		return m.Spinner.View() + " generating · Esc to cancel", m.styles.Active
	case reel.StreamStateCompleted:
		if m.archivedID != "" {
			return "✓ done · saved " + shortID(m.archivedID), m.styles.Success
		}
		return "✓ done", m.styles.Success
	case reel.StreamStateCancelled:
		return "cancelled · Ctrl+R to retry", m.styles.Muted
	case reel.StreamStateFailed:
		return "✗ generation failed, showing partial script · Ctrl+R to retry", m.styles.Error
	default:
		return m.snap.State.String(), m.styles.Muted
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
