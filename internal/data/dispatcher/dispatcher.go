// Package dispatcher applies backend poll results to UI-owned state. It is
// called on the UI goroutine only.
package dispatcher

import (
	"github.com/atomicstack/tmux-floatdesk/internal/backend"
	"github.com/atomicstack/tmux-floatdesk/internal/memory"
	"github.com/atomicstack/tmux-floatdesk/internal/tmux"
)

type Result struct {
	MemoryUpdated bool
	TmuxUpdated   bool
}

// MemoryStore receives fresh memory readings.
type MemoryStore interface {
	SetMemory(reading memory.Static)
}

// TmuxStore receives probe results. A failed probe is delivered too, since
// it means drag-out has nowhere to go.
type TmuxStore interface {
	SetTmux(status tmux.Status, err error)
}

type Dispatcher struct {
	memory MemoryStore
	tmux   TmuxStore
}

func New(m MemoryStore, t TmuxStore) *Dispatcher {
	return &Dispatcher{memory: m, tmux: t}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	switch evt.Kind {
	case backend.KindMemory:
		if evt.Err != nil || d.memory == nil {
			return res
		}
		if reading, ok := evt.Data.(memory.Static); ok {
			d.memory.SetMemory(reading)
			res.MemoryUpdated = true
		}
	case backend.KindTmux:
		if d.tmux == nil {
			return res
		}
		status, _ := evt.Data.(tmux.Status)
		d.tmux.SetTmux(status, evt.Err)
		res.TmuxUpdated = true
	}
	return res
}
