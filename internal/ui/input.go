package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmux-floatdesk/internal/floating"
	"github.com/atomicstack/tmux-floatdesk/internal/geom"
)

type keyMap struct {
	SelectTab key.Binding
	CloseTab  key.Binding
	NewNote   key.Binding
	NewTicker key.Binding
	Filter    key.Binding
	TearOut   key.Binding
	Boundary  key.Binding
	Move      key.Binding
	Cancel    key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		SelectTab: key.NewBinding(
			key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6", "alt+7", "alt+8", "alt+9"),
			key.WithHelp("alt+1..9", "select tab"),
		),
		CloseTab:  key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close tab")),
		NewNote:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new note")),
		NewTicker: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "new ticker")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter tabs")),
		TearOut:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "tear out")),
		Boundary:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "cycle boundary mode")),
		Move: key.NewBinding(
			key.WithKeys("up", "down", "left", "right"),
			key.WithHelp("arrows", "move window"),
		),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func newFilterInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter tabs"
	ti.CharLimit = 64
	// Blink messages are not routed to the input, so keep the cursor solid.
	ti.Cursor.SetMode(cursor.CursorStatic)
	if styles.FilterPrompt != nil {
		ti.PromptStyle = *styles.FilterPrompt
	}
	return ti
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.filtering {
		return m.handleFilterKey(keyMsg)
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.Shutdown()
		return tea.Quit
	case key.Matches(keyMsg, m.keys.SelectTab):
		n := int(keyMsg.String()[len(keyMsg.String())-1] - '0')
		m.registry.SelectNumber(n)
	case key.Matches(keyMsg, m.keys.CloseTab):
		m.registry.CloseSelected()
	case key.Matches(keyMsg, m.keys.NewNote):
		m.openNote()
	case key.Matches(keyMsg, m.keys.NewTicker):
		m.openTicker()
	case key.Matches(keyMsg, m.keys.Filter):
		return m.startFilter()
	case key.Matches(keyMsg, m.keys.TearOut):
		m.tearOut(floating.ButtonPrimary, geom.Point{})
	case key.Matches(keyMsg, m.keys.Boundary):
		m.cycleBoundary()
	case key.Matches(keyMsg, m.keys.Move):
		m.nudge(keyMsg.String())
	case key.Matches(keyMsg, m.keys.Cancel):
		if w := m.registry.Existing(); w != nil {
			w.Handle(floating.Event{Kind: floating.EventCancel})
		}
		m.pointer = pointer{}
		m.clearStatus()
	}
	return nil
}

func (m *Model) startFilter() tea.Cmd {
	m.filtering = true
	m.filter.SetValue("")
	m.matches = m.registry.Filter("")
	return m.filter.Focus()
}

func (m *Model) stopFilter() {
	m.filtering = false
	m.filter.Blur()
	m.filter.SetValue("")
	m.matches = nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopFilter()
		return nil
	case tea.KeyEnter:
		if len(m.matches) > 0 {
			m.registry.SelectTab(m.matches[0])
		} else {
			m.setError(fmt.Sprintf("no tab matches %q", strings.TrimSpace(m.filter.Value())))
		}
		m.stopFilter()
		return nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.matches = m.registry.Filter(m.filter.Value())
	return cmd
}

// tearOut starts a drag-out session for the window at p.
func (m *Model) tearOut(button floating.Button, p geom.Point) {
	w := m.registry.Existing()
	if w == nil || w.Content() == nil {
		return
	}
	if !w.Handle(floating.Event{Kind: floating.EventDragStart, Button: button, Point: p}) {
		if button == floating.ButtonPrimary {
			m.setError(m.tearOutError())
		}
		return
	}
	m.setInfo("torn out to a tmux popup")
}

func (m *Model) tearOutError() string {
	switch {
	case m.tmuxErr != nil:
		return "tear out unavailable: " + m.tmuxErr.Error()
	case !m.registry.Existing().DragDropSupported():
		return "tear out disabled"
	}
	return "tear out failed"
}

func (m *Model) cycleBoundary() {
	w := m.registry.Existing()
	if w == nil {
		return
	}
	next := geom.BoundaryMode((int(w.Boundary()) + 1) % 3)
	w.SetBoundary(next)
	m.setInfo("boundary: " + next.String())
}

// nudge moves the window one cell with the keyboard, through the same
// gesture the pointer uses.
func (m *Model) nudge(dir string) {
	w := m.registry.Existing()
	if w == nil || !w.Visible() || w.State() != floating.StateIdle {
		return
	}
	var dx, dy float64
	switch dir {
	case "up":
		dy = -m.cellHeight
	case "down":
		dy = m.cellHeight
	case "left":
		dx = -m.cellWidth
	case "right":
		dx = m.cellWidth
	}
	w.Handle(floating.Event{Kind: floating.EventMoveStart})
	w.Handle(floating.Event{Kind: floating.EventMoveDelta, DX: dx, DY: dy})
	w.Handle(floating.Event{Kind: floating.EventMoveEnd})
}
