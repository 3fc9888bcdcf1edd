package tabs

import (
	"errors"
	"testing"

	"github.com/atomicstack/tmux-floatdesk/internal/content"
	"github.com/atomicstack/tmux-floatdesk/internal/desk"
	"github.com/atomicstack/tmux-floatdesk/internal/memory"
)

type page struct {
	name     string
	disposed int
	detached int
}

func (p *page) Render(int, int) string { return p.name }
func (p *page) Kind() string { return p.name }
func (p *page) Dispose() { p.disposed++ }
func (p *page) Detach() { p.detached++ }

// flakyPage fails to attach while fail is set.
type flakyPage struct {
	fail     bool
	attached int
}

func (*flakyPage) Render(int, int) string { return "" }
func (f *flakyPage) Attach() error {
	if f.fail {
		return errors.New("backing store busy")
	}
	f.attached++
	return nil
}

type brokenPage struct{}

func (*brokenPage) Render(int, int) string { return "" }
func (*brokenPage) Attach() error { return errors.New("no backing store") }

func newRegistry(t *testing.T, pressure memory.Signal) (*Registry, *desk.Canvas) {
	t.Helper()
	canvas := desk.NewCanvas(1000, 800)
	return New(canvas, pressure, DefaultOptions()), canvas
}

func assertInvariants(t *testing.T, r *Registry) {
	t.Helper()
	selected := 0
	for _, tab := range r.Tabs() {
		if tab.Selected() {
			selected++
		}
	}
	if selected > 1 {
		t.Fatalf("expected at most one selected tab, got %d", selected)
	}
	w := r.Existing()
	if w == nil || w.Content() == nil {
		return
	}
	matches := 0
	for _, tab := range r.Tabs() {
		if content.Same(tab.Content(), w.Content()) {
			matches++
			if !tab.Selected() {
				t.Fatalf("expected tab with attached content to be selected")
			}
		}
	}
	if matches != 1 {
		t.Fatalf("expected attached content to belong to exactly one tab, got %d", matches)
	}
}

func TestOpenTabCreatesWindowLazily(t *testing.T) {
	r, canvas := newRegistry(t, nil)
	if r.Existing() != nil {
		t.Fatalf("expected no window before first open")
	}
	p := &page{name: "alpha"}
	tab := r.OpenTab(p)
	if tab == nil || !tab.Selected() {
		t.Fatalf("expected selected tab, got %#v", tab)
	}
	w := r.Existing()
	if w == nil || w.Content() != p || !w.Visible() {
		t.Fatalf("expected window showing content")
	}
	if !canvas.Contains(w) {
		t.Fatalf("expected window mounted on canvas")
	}
	if rect := w.Rect(); rect.Width != 700 || rect.Height != 680 || rect.X != 100 || rect.Y != 60 {
		t.Fatalf("unexpected initial placement %v", rect)
	}
}

func TestOpenTabDeferredWhenNotReady(t *testing.T) {
	canvas := desk.NewCanvas(0, 0)
	r := New(canvas, nil, DefaultOptions())
	if tab := r.OpenTab(&page{name: "alpha"}); tab != nil {
		t.Fatalf("expected no tab while canvas not ready")
	}
	if r.Len() != 0 || r.Existing() != nil {
		t.Fatalf("expected registry untouched")
	}
	if _, err := r.Window(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	canvas.Resize(800, 600)
	if tab := r.OpenTab(&page{name: "alpha"}); tab == nil {
		t.Fatalf("expected tab once canvas is ready")
	}
}

func TestSingleSelectionAndAttachment(t *testing.T) {
	r, _ := newRegistry(t, nil)
	a, b, c := &page{name: "a"}, &page{name: "b"}, &page{name: "c"}
	ta := r.OpenTab(a)
	assertInvariants(t, r)
	tb := r.OpenTab(b)
	assertInvariants(t, r)
	r.OpenTab(c)
	assertInvariants(t, r)

	r.SelectTab(ta)
	assertInvariants(t, r)
	if r.Selected() != ta || r.Existing().Content() != a {
		t.Fatalf("expected tab a selected and attached")
	}
	if c.detached == 0 {
		t.Fatalf("expected previous content detached")
	}
	r.SelectTab(tb)
	assertInvariants(t, r)
	if ta.Emphasis() != EmphasisNormal || tb.Emphasis() != EmphasisBold {
		t.Fatalf("expected emphasis to follow selection")
	}
	if tb.Label() != "b" {
		t.Fatalf("expected label b, got %q", tb.Label())
	}
}

func TestSelectTabIgnoresStaleOrSelected(t *testing.T) {
	r, _ := newRegistry(t, nil)
	a := &page{name: "a"}
	ta := r.OpenTab(a)
	r.SelectTab(&Tab{view: &page{name: "stranger"}, selected: false})
	r.SelectTab(nil)
	r.SelectTab(ta)
	if a.detached != 0 {
		t.Fatalf("expected reselecting the selected tab to be a no-op")
	}
	if r.Selected() != ta {
		t.Fatalf("expected selection unchanged")
	}
}

func TestOpenTabTwiceSelectsExisting(t *testing.T) {
	r, _ := newRegistry(t, nil)
	a := &page{name: "a"}
	ta := r.OpenTab(a)
	r.OpenTab(&page{name: "b"})
	if got := r.OpenTab(a); got != ta {
		t.Fatalf("expected existing tab returned")
	}
	if r.Len() != 2 || r.Selected() != ta {
		t.Fatalf("expected two tabs with a selected, got %d", r.Len())
	}
	assertInvariants(t, r)
}

func TestEvictionAtCapacity(t *testing.T) {
	r, _ := newRegistry(t, memory.Static{Current: 10, Limit: 100})
	pages := make([]*page, 51)
	for i := range pages {
		pages[i] = &page{name: "p"}
		r.OpenTab(pages[i])
	}
	tabs := r.Tabs()
	if len(tabs) != 50 {
		t.Fatalf("expected 50 tabs, got %d", len(tabs))
	}
	if tabs[0].Content() != pages[1] {
		t.Fatalf("expected oldest tab evicted")
	}
	last := tabs[len(tabs)-1]
	if last.Content() != pages[50] || !last.Selected() {
		t.Fatalf("expected newest tab last and selected")
	}
	if pages[0].disposed != 1 {
		t.Fatalf("expected evicted content disposed once, got %d", pages[0].disposed)
	}
	assertInvariants(t, r)
}

func TestEvictionUnderPressure(t *testing.T) {
	r, _ := newRegistry(t, memory.Static{Current: 85, Limit: 100})
	first := &page{name: "first"}
	r.OpenTab(first)
	second := &page{name: "second"}
	r.OpenTab(second)
	tabs := r.Tabs()
	if len(tabs) != 1 || tabs[0].Content() != second {
		t.Fatalf("expected only the second tab left, got %d tabs", len(tabs))
	}
	if first.disposed != 1 {
		t.Fatalf("expected first content disposed")
	}
	assertInvariants(t, r)
}

func TestCloseConvergence(t *testing.T) {
	r, canvas := newRegistry(t, nil)
	a := &page{name: "a"}
	ta := r.OpenTab(a)
	r.CloseTab(ta)
	if r.Len() != 0 || a.disposed != 1 {
		t.Fatalf("expected one removal via close, len=%d disposed=%d", r.Len(), a.disposed)
	}
	if canvas.Contains(r.Existing()) {
		t.Fatalf("expected window taken off canvas")
	}
	r.CloseTab(ta)
	if a.disposed != 1 {
		t.Fatalf("expected stale close to be a no-op")
	}

	b := &page{name: "b"}
	r.OpenTab(b)
	if !canvas.Contains(r.Existing()) {
		t.Fatalf("expected window re-mounted on next open")
	}
	r.Existing().CleanupAndClose()
	if r.Len() != 0 || b.disposed != 1 {
		t.Fatalf("expected window close to remove tab once, len=%d disposed=%d", r.Len(), b.disposed)
	}
}

func TestCloseDetachedTab(t *testing.T) {
	r, canvas := newRegistry(t, nil)
	a, b := &page{name: "a"}, &page{name: "b"}
	ta := r.OpenTab(a)
	r.OpenTab(b)
	r.CloseTab(ta)
	if r.Len() != 1 || r.Existing().Content() != b {
		t.Fatalf("expected window untouched when closing a background tab")
	}
	if !canvas.Contains(r.Existing()) {
		t.Fatalf("expected window to stay mounted")
	}
}

func TestUnselectAndRemoveForContent(t *testing.T) {
	r, _ := newRegistry(t, nil)
	a := &page{name: "a"}
	r.OpenTab(a)
	if !r.UnselectTabForContent(a) {
		t.Fatalf("expected match")
	}
	if r.Selected() != nil {
		t.Fatalf("expected nothing selected")
	}
	if r.UnselectTabForContent(&page{}) {
		t.Fatalf("expected no match for unknown content")
	}
	r.RemoveTabForContent(&page{})
	if r.Len() != 1 {
		t.Fatalf("expected unknown removal ignored")
	}
	r.RemoveTabForContent(a)
	if r.Len() != 0 {
		t.Fatalf("expected tab removed")
	}
}

func TestCloseAll(t *testing.T) {
	r, canvas := newRegistry(t, nil)
	pages := []*page{{name: "a"}, {name: "b"}, {name: "c"}}
	for _, p := range pages {
		r.OpenTab(p)
	}
	r.CloseAll()
	if r.Len() != 0 {
		t.Fatalf("expected empty registry")
	}
	for _, p := range pages {
		if p.disposed != 1 {
			t.Fatalf("expected %s disposed once, got %d", p.name, p.disposed)
		}
	}
	if canvas.Contains(r.Existing()) || r.Existing().Content() != nil {
		t.Fatalf("expected window closed and empty")
	}
}

func TestSelectNumber(t *testing.T) {
	r, _ := newRegistry(t, nil)
	var tabs []*Tab
	for _, name := range []string{"a", "b", "c"} {
		tabs = append(tabs, r.OpenTab(&page{name: name}))
	}
	r.SelectNumber(1)
	if r.Selected() != tabs[0] {
		t.Fatalf("expected first tab selected")
	}
	r.SelectNumber(9)
	if r.Selected() != tabs[2] {
		t.Fatalf("expected 9 to select the last tab")
	}
	r.SelectNumber(5)
	r.SelectNumber(0)
	r.SelectNumber(10)
	if r.Selected() != tabs[2] {
		t.Fatalf("expected out of range positions ignored")
	}
	r.CloseSelected()
	if r.Len() != 2 || r.Selected() != nil {
		t.Fatalf("expected selected tab closed, len=%d", r.Len())
	}
	r.CloseSelected()
	if r.Len() != 2 {
		t.Fatalf("expected close with no selection to be a no-op")
	}
}

func TestAttachFailureLeavesWindowEmpty(t *testing.T) {
	r, _ := newRegistry(t, nil)
	tab := r.OpenTab(&brokenPage{})
	if tab == nil || r.Existing().Content() != nil {
		t.Fatalf("expected tab recorded but window empty")
	}
	if tab.Label() != "brokenPage" {
		t.Fatalf("expected type-derived label, got %q", tab.Label())
	}
	assertInvariants(t, r)
}

func TestReselectAfterAttachFailure(t *testing.T) {
	r, _ := newRegistry(t, nil)
	flaky := &flakyPage{fail: true}
	tab := r.OpenTab(flaky)
	if tab == nil || !tab.Selected() || r.Existing().Content() != nil {
		t.Fatalf("expected selected tab over an empty window")
	}
	flaky.fail = false
	r.SelectTab(tab)
	if r.Existing().Content() != flaky {
		t.Fatalf("expected reselect to show the content, got %v", r.Existing().Content())
	}
	if flaky.attached != 1 {
		t.Fatalf("expected one successful attach, got %d", flaky.attached)
	}
	r.SelectTab(tab)
	if flaky.attached != 1 {
		t.Fatalf("expected reselecting a shown tab to be a no-op, got %d attaches", flaky.attached)
	}
	assertInvariants(t, r)
}

func TestReopenAfterAttachFailure(t *testing.T) {
	r, _ := newRegistry(t, nil)
	flaky := &flakyPage{fail: true}
	first := r.OpenTab(flaky)
	flaky.fail = false
	if again := r.OpenTab(flaky); again != first {
		t.Fatalf("expected the existing tab back")
	}
	if r.Len() != 1 || r.Existing().Content() != flaky {
		t.Fatalf("expected one tab showing its content, got %d tabs", r.Len())
	}
}

func TestCloseContent(t *testing.T) {
	r, canvas := newRegistry(t, nil)
	a, b := &page{name: "a"}, &page{name: "b"}
	r.OpenTab(a)
	r.OpenTab(b)

	r.CloseContent(a)
	if r.Len() != 1 || a.disposed != 1 {
		t.Fatalf("expected detached content closed, len=%d disposed=%d", r.Len(), a.disposed)
	}
	if !canvas.Contains(r.Existing()) {
		t.Fatalf("expected window kept while other content is shown")
	}

	r.CloseContent(b)
	if r.Len() != 0 || b.disposed != 1 {
		t.Fatalf("expected shown content closed, len=%d disposed=%d", r.Len(), b.disposed)
	}
	if canvas.Contains(r.Existing()) {
		t.Fatalf("expected window closed with its content")
	}
	r.CloseContent(&page{name: "stranger"})
	r.CloseContent(nil)
	assertInvariants(t, r)
}

func TestFilter(t *testing.T) {
	r, _ := newRegistry(t, nil)
	for _, name := range []string{"Ticker", "Notes", "Memory"} {
		r.OpenTab(&page{name: name})
	}
	got := r.Filter("tck")
	if len(got) != 1 || got[0].Label() != "Ticker" {
		t.Fatalf("expected Ticker match, got %d tabs", len(got))
	}
	if all := r.Filter("  "); len(all) != 3 {
		t.Fatalf("expected empty query to return all tabs, got %d", len(all))
	}
	if none := r.Filter("zzz"); len(none) != 0 {
		t.Fatalf("expected no matches, got %d", len(none))
	}
}
