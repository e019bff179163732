// Package tui is the terminal frontend for the session controller: a
// conversation sidebar, the active thread, and an input box. All the logic
// lives in the controller; this package is rendering and key handling.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/parley-ai/chat-console/internal/model"
	"github.com/parley-ai/chat-console/internal/session"
)

// opDoneMsg reports a completed controller operation. The controller itself
// discards stale completions; the UI only needs to re-render.
type opDoneMsg struct {
	err error
}

// Model is the bubbletea model for the chat console.
type Model struct {
	ctrl *session.Controller

	input textinput.Model
	spin  spinner.Model
	vp    viewport.Model

	width    int
	height   int
	ready    bool
	inflight int
	lastErr  error
	quitting bool
}

// New creates the UI around an existing controller.
func New(ctrl *session.Controller) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 4000
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		ctrl:  ctrl,
		input: ti,
		spin:  sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.op(m.ctrl.Initialize))
}

// op runs a controller operation off the UI loop. No cancellation: a hung
// call stays pending without blocking other user actions.
func (m Model) op(fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: fn(context.Background())}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp = viewport.New(m.threadWidth(), m.threadHeight())
		m.ready = true
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case opDoneMsg:
		if m.inflight > 0 {
			m.inflight--
		}
		switch {
		case msg.err == nil:
			m.lastErr = nil
		case errors.Is(msg.err, session.ErrSuperseded):
			// A newer operation won; its completion already rendered.
		default:
			m.lastErr = msg.err
		}
		m.refresh()
		m.vp.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		text := m.input.Value()
		m.input.Reset()
		m.ctrl.SetDraft("")
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		m.inflight++
		m.refresh()
		return m, tea.Batch(m.spin.Tick, m.op(func(ctx context.Context) error {
			return m.ctrl.Send(ctx, text)
		}))

	case "ctrl+o":
		m.ctrl.NewChat()
		m.input.Reset()
		m.lastErr = nil
		m.refresh()
		return m, nil

	case "ctrl+p", "ctrl+n":
		id, ok := m.neighborConversation(msg.String() == "ctrl+n")
		if !ok {
			return m, nil
		}
		m.inflight++
		m.refresh()
		return m, tea.Batch(m.spin.Tick, m.op(func(ctx context.Context) error {
			return m.ctrl.Select(ctx, id)
		}))

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetDraft(m.input.Value())
	return m, cmd
}

// neighborConversation picks the catalog entry before or after the active
// one. With nothing active, both directions land on the last entry, the same
// one initialize would pick.
func (m Model) neighborConversation(next bool) (model.ID, bool) {
	snap := m.ctrl.Snapshot()
	if len(snap.Catalog) == 0 {
		return "", false
	}

	active, ok := snap.ActiveID()
	if !ok {
		return snap.Catalog[len(snap.Catalog)-1].ID, true
	}

	idx := -1
	for i, conv := range snap.Catalog {
		if conv.ID == active {
			idx = i
			break
		}
	}
	if idx < 0 {
		return snap.Catalog[len(snap.Catalog)-1].ID, true
	}

	if next {
		idx++
	} else {
		idx--
	}
	if idx < 0 || idx >= len(snap.Catalog) {
		return "", false
	}
	return snap.Catalog[idx].ID, true
}

// refresh re-renders the thread pane from the controller state.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.vp.Width = m.threadWidth()
	m.vp.Height = m.threadHeight()
	m.vp.SetContent(m.renderThread(m.ctrl.Snapshot()))
}

func (m Model) threadWidth() int {
	w := m.width - sidebarWidth - 2
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) threadHeight() int {
	h := m.height - 4 // header, input, status bar
	if h < 3 {
		h = 3
	}
	return h
}
