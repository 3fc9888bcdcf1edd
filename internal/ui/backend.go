package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmux-floatdesk/internal/backend"
	"github.com/atomicstack/tmux-floatdesk/internal/dispatch"
	"github.com/atomicstack/tmux-floatdesk/internal/memory"
	"github.com/atomicstack/tmux-floatdesk/internal/tmux"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.dispatcher.Handle(eventMsg.event)
	if m.backend != nil && !m.quitting {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// SetMemory receives a memory reading from the backend.
func (m *Model) SetMemory(reading memory.Static) {
	ratio := memory.Ratio(reading)
	m.memory = memoryReading{current: reading.Current, limit: reading.Limit, ratio: ratio, known: true}
	if m.gauge != nil {
		m.gauge.Set(ratio)
	}
}

// SetTmux receives the result of a tmux probe.
func (m *Model) SetTmux(status tmux.Status, err error) {
	m.tmuxState = status
	m.tmuxErr = err
}

// taskMsg carries work posted to the dispatch queue from another goroutine.
type taskMsg struct {
	fn func()
}

type queueClosedMsg struct{}

func waitForTask(ctx context.Context, q *dispatch.Queue) tea.Cmd {
	return func() tea.Msg {
		fn, err := q.Next(ctx)
		if err != nil {
			return queueClosedMsg{}
		}
		return taskMsg{fn: fn}
	}
}

func (m *Model) handleTaskMsg(msg tea.Msg) tea.Cmd {
	task, ok := msg.(taskMsg)
	if !ok {
		return nil
	}
	if err := dispatch.Run(task.fn); err != nil {
		m.setError(err.Error())
	}
	if m.quitting {
		return nil
	}
	return waitForTask(m.ctx, m.queue)
}

func (m *Model) handleQueueClosedMsg(tea.Msg) tea.Cmd {
	return nil
}
