package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/atomicstack/tmux-floatdesk/internal/backend"
	"github.com/atomicstack/tmux-floatdesk/internal/content"
	"github.com/atomicstack/tmux-floatdesk/internal/desk"
	"github.com/atomicstack/tmux-floatdesk/internal/dispatch"
	"github.com/atomicstack/tmux-floatdesk/internal/floating"
	"github.com/atomicstack/tmux-floatdesk/internal/geom"
	"github.com/atomicstack/tmux-floatdesk/internal/memory"
	"github.com/atomicstack/tmux-floatdesk/internal/tabs"
	"github.com/atomicstack/tmux-floatdesk/internal/testutil"
	"github.com/atomicstack/tmux-floatdesk/internal/tmux"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// newDesk returns a harness over a 100x40 cell screen: an 800x608 canvas
// between the tab strip and the status line.
func newDesk(t *testing.T) *Harness {
	t.Helper()
	m := NewModel(Options{Width: 100, Height: 40})
	t.Cleanup(m.Shutdown)
	return NewHarness(m)
}

// newDeskWithTransport wires a recording drag transport into the window.
func newDeskWithTransport(t *testing.T) (*Harness, *testutil.RecordingTransport) {
	t.Helper()
	rec := &testutil.RecordingTransport{}
	canvas := desk.NewCanvas(0, 0)
	queue := dispatch.New(0)
	opts := tabs.DefaultOptions()
	opts.Window.Transport = rec
	opts.Window.Dispatcher = queue
	m := NewModel(Options{
		Width:    100,
		Height:   40,
		Canvas:   canvas,
		Queue:    queue,
		Registry: tabs.New(canvas, nil, opts),
	})
	t.Cleanup(m.Shutdown)
	return NewHarness(m), rec
}

func TestNewNoteOpensWindow(t *testing.T) {
	h := newDesk(t)
	h.Key("n")

	reg := h.Model().Registry()
	if reg.Len() != 1 {
		t.Fatalf("expected 1 tab, got %d", reg.Len())
	}
	if got := reg.Selected().Label(); got != "Note 1" {
		t.Fatalf("expected selected tab Note 1, got %q", got)
	}
	w := reg.Existing()
	if w == nil || !w.Visible() || !w.OnHost() {
		t.Fatalf("expected a visible mounted window, got %+v", w)
	}
	want := geom.Rect{X: 60, Y: 60, Width: 680, Height: 488}
	if w.Rect() != want {
		t.Fatalf("expected rect %v, got %v", want, w.Rect())
	}
}

func TestCanvasFollowsScreenSize(t *testing.T) {
	h := newDesk(t)
	size := h.Model().Canvas().Size()
	if size.Width != 800 || size.Height != 608 {
		t.Fatalf("expected 800x608 canvas, got %vx%v", size.Width, size.Height)
	}
}

func TestWelcomeNoteOpensOnFirstResize(t *testing.T) {
	m := NewModel(Options{Welcome: true})
	t.Cleanup(m.Shutdown)
	h := NewHarness(m)
	if m.Registry().Len() != 0 {
		t.Fatalf("expected no tabs before the first size, got %d", m.Registry().Len())
	}
	h.Send(tea.WindowSizeMsg{Width: 100, Height: 40})
	h.Send(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.Registry().Len() != 1 {
		t.Fatalf("expected exactly one welcome tab, got %d", m.Registry().Len())
	}
	if got := m.Registry().Selected().Label(); got != "Welcome" {
		t.Fatalf("expected Welcome tab, got %q", got)
	}
}

func TestOpenBeforeSizeReportsError(t *testing.T) {
	m := NewModel(Options{})
	t.Cleanup(m.Shutdown)
	h := NewHarness(m)
	h.Key("n")
	if m.Registry().Len() != 0 {
		t.Fatalf("expected no tab on an unsized desk, got %d", m.Registry().Len())
	}
	if m.errMsg != "desk not ready" {
		t.Fatalf("expected desk not ready error, got %q", m.errMsg)
	}
}

func TestQuitClosesEverything(t *testing.T) {
	h := newDesk(t)
	h.Key("n")
	h.Key("t")
	ticker, ok := h.Model().Registry().Selected().Content().(*content.Ticker)
	if !ok {
		t.Fatalf("expected ticker selected")
	}
	h.Key("q")
	if h.Model().Registry().Len() != 0 {
		t.Fatalf("expected registry emptied on quit, got %d", h.Model().Registry().Len())
	}
	if ticker.Attach() == nil {
		t.Fatalf("expected ticker disposed on quit")
	}
	if h.View() != "" {
		t.Fatalf("expected empty view after quit")
	}
}

func TestTaskPanicSurfacesAsError(t *testing.T) {
	h := newDesk(t)
	cmd := h.Model().handleTaskMsg(taskMsg{fn: func() { panic("boom") }})
	if cmd == nil {
		t.Fatalf("expected the model to keep waiting for tasks")
	}
	if !strings.Contains(h.Model().errMsg, "boom") {
		t.Fatalf("expected panic message in status, got %q", h.Model().errMsg)
	}
}

func TestDrainRunsPostedTasks(t *testing.T) {
	h := newDesk(t)
	ran := 0
	h.Model().queue.Post(func() { ran++ })
	h.Model().queue.Post(func() { ran++ })
	if n := h.Drain(); n != 2 || ran != 2 {
		t.Fatalf("expected 2 tasks run, got drained=%d ran=%d", n, ran)
	}
}

func TestBackendEventsUpdateStatus(t *testing.T) {
	gauge := content.NewGauge("mem")
	m := NewModel(Options{Width: 100, Height: 40, Gauge: gauge})
	t.Cleanup(m.Shutdown)
	h := NewHarness(m)

	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindMemory, Data: memory.Static{Current: 50, Limit: 100}}})
	if gauge.Ratio() != 0.5 {
		t.Fatalf("expected gauge at 0.5, got %v", gauge.Ratio())
	}
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindTmux, Data: tmux.Status{Sessions: 1, Clients: []string{"/dev/pts/1"}}}})
	status := ansi.Strip(m.renderStatus())
	if !strings.Contains(status, "mem 50%") || !strings.Contains(status, "tmux 1 client(s)") {
		t.Fatalf("expected memory and tmux in status, got %q", status)
	}

	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindTmux, Err: errors.New("no server")}})
	if status := ansi.Strip(m.renderStatus()); !strings.Contains(status, "tmux offline") {
		t.Fatalf("expected tmux offline in status, got %q", status)
	}
}

func TestBackendDoneDropsWatcher(t *testing.T) {
	h := newDesk(t)
	h.Send(backendDoneMsg{})
	if h.Model().backend != nil {
		t.Fatalf("expected watcher cleared")
	}
}

func TestTearOutCompletesThroughQueue(t *testing.T) {
	h, rec := newDeskWithTransport(t)
	h.Key("n")
	h.Key("d")

	reqs := rec.Requests()
	if len(reqs) != 1 || reqs[0].Label != "Note 1" {
		t.Fatalf("expected one drag request for Note 1, got %+v", reqs)
	}
	w := h.Model().Registry().Existing()
	if w.Visible() || w.State() != floating.StateDraggingOut {
		t.Fatalf("expected hidden dragging window, got visible=%v state=%s", w.Visible(), w.State())
	}
	if !rec.Finish(floating.DragResult{Dropped: true}) {
		t.Fatalf("expected an open session")
	}
	if w.State() != floating.StateDraggingOut {
		t.Fatalf("expected completion to wait for the queue")
	}
	h.Drain()
	if !w.Visible() || w.State() != floating.StateIdle {
		t.Fatalf("expected window back after drain, got visible=%v state=%s", w.Visible(), w.State())
	}
}
