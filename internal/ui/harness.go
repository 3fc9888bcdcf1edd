package ui

import tea "github.com/charmbracelet/bubbletea"

// Harness drives the UI model programmatically for integration tests.
type Harness struct {
	model *Model
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	return &Harness{model: model}
}

// Send routes a message through the model and executes any returned commands.
// Batched commands are not run, so blocking waits on the queue or the
// backend never stall a test.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		if _, ok := msg.(tea.QuitMsg); ok {
			return
		}
		mdl, next := h.model.Update(msg)
		if updated, ok := mdl.(*Model); ok {
			h.model = updated
		}
		cmd = next
	}
}

// Key sends a key press described the way bubbles/key spells it.
func (h *Harness) Key(k string) {
	switch k {
	case "esc":
		h.Send(tea.KeyMsg{Type: tea.KeyEsc})
	case "enter":
		h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	case "ctrl+w":
		h.Send(tea.KeyMsg{Type: tea.KeyCtrlW})
	case "ctrl+c":
		h.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	case "up":
		h.Send(tea.KeyMsg{Type: tea.KeyUp})
	case "down":
		h.Send(tea.KeyMsg{Type: tea.KeyDown})
	case "left":
		h.Send(tea.KeyMsg{Type: tea.KeyLeft})
	case "right":
		h.Send(tea.KeyMsg{Type: tea.KeyRight})
	default:
		alt := false
		if len(k) > 4 && k[:4] == "alt+" {
			alt, k = true, k[4:]
		}
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k), Alt: alt})
	}
}

// Mouse sends a pointer event at screen cell (x, y).
func (h *Harness) Mouse(action tea.MouseAction, button tea.MouseButton, x, y int) {
	h.Send(tea.MouseMsg{X: x, Y: y, Action: action, Button: button})
}

// Drain runs every task waiting on the dispatch queue, as the program loop
// would.
func (h *Harness) Drain() int {
	if h.model == nil {
		return 0
	}
	return h.model.queue.Drain()
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
