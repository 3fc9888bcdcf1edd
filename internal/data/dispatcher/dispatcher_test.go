package dispatcher

import (
	"errors"
	"testing"

	"github.com/atomicstack/tmux-floatdesk/internal/backend"
	"github.com/atomicstack/tmux-floatdesk/internal/memory"
	"github.com/atomicstack/tmux-floatdesk/internal/tmux"
)

type recorder struct {
	readings []memory.Static
	statuses []tmux.Status
	errs     []error
}

func (r *recorder) SetMemory(reading memory.Static) {
	r.readings = append(r.readings, reading)
}

func (r *recorder) SetTmux(status tmux.Status, err error) {
	r.statuses = append(r.statuses, status)
	r.errs = append(r.errs, err)
}

func TestHandleMemory(t *testing.T) {
	rec := &recorder{}
	d := New(rec, rec)
	res := d.Handle(backend.Event{Kind: backend.KindMemory, Data: memory.Static{Current: 1, Limit: 2}})
	if !res.MemoryUpdated || len(rec.readings) != 1 {
		t.Fatalf("expected memory applied, got %#v", res)
	}
	res = d.Handle(backend.Event{Kind: backend.KindMemory, Err: errors.New("boom")})
	if res.MemoryUpdated || len(rec.readings) != 1 {
		t.Fatalf("expected failed reading ignored")
	}
}

func TestHandleTmuxDeliversErrors(t *testing.T) {
	rec := &recorder{}
	d := New(nil, rec)
	boom := errors.New("no server")
	res := d.Handle(backend.Event{Kind: backend.KindTmux, Err: boom})
	if !res.TmuxUpdated || len(rec.errs) != 1 || !errors.Is(rec.errs[0], boom) {
		t.Fatalf("expected probe failure delivered, got %#v", rec.errs)
	}
	d.Handle(backend.Event{Kind: backend.KindTmux, Data: tmux.Status{Clients: []string{"c"}}})
	if !rec.statuses[1].Ready() {
		t.Fatalf("expected ready status delivered")
	}
	if res := d.Handle(backend.Event{Kind: backend.KindMemory, Data: memory.Static{}}); res.MemoryUpdated {
		t.Fatalf("expected no memory store to skip update")
	}
}
