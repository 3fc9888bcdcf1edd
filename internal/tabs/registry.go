package tabs

import (
	"errors"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/atomicstack/tmux-floatdesk/internal/content"
	"github.com/atomicstack/tmux-floatdesk/internal/floating"
	"github.com/atomicstack/tmux-floatdesk/internal/logging/events"
	"github.com/atomicstack/tmux-floatdesk/internal/memory"
)

// ErrNotReady is returned by Window when the display area has no size yet.
var ErrNotReady = errors.New("display area not ready")

const (
	DefaultCapacity          = 50
	DefaultPressureThreshold = 0.8
	DefaultPressureCapacity  = 1
	DefaultWindowWidth       = 700.0
	DefaultWindowHeight      = 700.0
)

// Options tunes eviction and the window the registry creates.
type Options struct {
	Capacity          int
	PressureThreshold float64
	PressureCapacity  int
	WindowWidth       float64
	WindowHeight      float64
	Window            floating.Options
}

func DefaultOptions() Options {
	return Options{
		Capacity:          DefaultCapacity,
		PressureThreshold: DefaultPressureThreshold,
		PressureCapacity:  DefaultPressureCapacity,
		WindowWidth:       DefaultWindowWidth,
		WindowHeight:      DefaultWindowHeight,
		Window:            floating.DefaultOptions(),
	}
}

// Registry owns the tab list and the lazily created window. Like the
// window, it belongs to the UI goroutine.
type Registry struct {
	host     floating.Host
	pressure memory.Signal
	opts     Options

	tabs   []*Tab
	window *floating.Window
}

func New(host floating.Host, pressure memory.Signal, opts Options) *Registry {
	def := DefaultOptions()
	if opts.Capacity <= 0 {
		opts.Capacity = def.Capacity
	}
	if opts.PressureThreshold <= 0 {
		opts.PressureThreshold = def.PressureThreshold
	}
	if opts.PressureCapacity <= 0 {
		opts.PressureCapacity = def.PressureCapacity
	}
	if opts.WindowWidth <= 0 {
		opts.WindowWidth = def.WindowWidth
	}
	if opts.WindowHeight <= 0 {
		opts.WindowHeight = def.WindowHeight
	}
	return &Registry{host: host, pressure: pressure, opts: opts}
}

// Tabs returns the tabs in display order.
func (r *Registry) Tabs() []*Tab {
	out := make([]*Tab, len(r.tabs))
	copy(out, r.tabs)
	return out
}

func (r *Registry) Len() int {
	return len(r.tabs)
}

// Selected returns the selected tab, or nil.
func (r *Registry) Selected() *Tab {
	for _, t := range r.tabs {
		if t.selected {
			return t
		}
	}
	return nil
}

// Window returns the floating window, creating and mounting it on first use.
func (r *Registry) Window() (*floating.Window, error) {
	if w := r.useWindow(); w != nil {
		return w, nil
	}
	return nil, ErrNotReady
}

// Existing returns the window if it has been created, without creating it.
func (r *Registry) Existing() *floating.Window {
	return r.window
}

// useWindow hands out the single window. It is created the first time the
// host has a usable size and re-mounted if a close took it off the host.
func (r *Registry) useWindow() *floating.Window {
	if r.host == nil {
		return nil
	}
	size := r.host.Size()
	if !size.Valid() {
		return nil
	}
	if r.window == nil {
		opts := r.opts.Window
		opts.OnClose = r.windowClosed
		w := floating.New(opts)
		w.DefaultPlacement(size.Width, size.Height, r.opts.WindowWidth, r.opts.WindowHeight, false)
		r.window = w
		rect := w.Rect()
		events.Window.Create(rect.X, rect.Y, rect.Width, rect.Height)
	}
	if !r.window.OnHost() {
		r.window.Mount(r.host)
	}
	return r.window
}

// OpenTab shows v in the window and appends a selected tab for it. Nothing
// happens while the display area is not ready. Opening a view that already
// has a tab selects that tab instead.
func (r *Registry) OpenTab(v content.View) *Tab {
	if v == nil {
		return nil
	}
	if existing := r.tabFor(v); existing != nil {
		r.SelectTab(existing)
		return existing
	}
	w := r.useWindow()
	if w == nil {
		events.Tab.OpenDeferred(content.KindOf(v))
		return nil
	}
	w.Show(v)
	r.evict()
	for _, t := range r.tabs {
		t.selected = false
	}
	tab := &Tab{view: v, selected: true}
	r.tabs = append(r.tabs, tab)
	events.Tab.Open(tab.Label(), len(r.tabs))
	return tab
}

// evict drops the oldest tab when the list is at capacity. Capacity shrinks
// while memory pressure is above the threshold.
func (r *Registry) evict() {
	capacity := r.opts.Capacity
	ratio := memory.Ratio(r.pressure)
	if ratio > r.opts.PressureThreshold {
		capacity = r.opts.PressureCapacity
	}
	if len(r.tabs) < capacity || len(r.tabs) == 0 {
		return
	}
	oldest := r.tabs[0]
	events.Tab.Evict(oldest.Label(), capacity, ratio)
	r.removeAt(0)
}

// SelectTab makes tab the selected one and shows its content. Unknown and
// empty tabs are ignored, as is a selected tab whose content is already on
// screen. A selected tab whose attach failed is shown again.
func (r *Registry) SelectTab(tab *Tab) {
	idx := r.indexOf(tab)
	if idx < 0 || tab.view == nil {
		return
	}
	if tab.selected && r.window != nil && content.Same(r.window.Content(), tab.view) {
		return
	}
	if r.window != nil {
		r.window.DetachContent()
	}
	if prev := r.Selected(); prev != nil {
		prev.selected = false
	}
	tab.selected = true
	if w := r.useWindow(); w != nil {
		w.Show(tab.view)
	}
	events.Tab.Select(tab.Label(), idx)
}

// CloseTab removes tab. When its content is on screen the window closes
// and the removal happens through the window's close hook.
func (r *Registry) CloseTab(tab *Tab) {
	if tab == nil {
		return
	}
	attached := r.window != nil && tab.view != nil && content.Same(r.window.Content(), tab.view)
	events.Tab.Close(tab.Label(), attached)
	if attached {
		r.window.CleanupAndClose()
		return
	}
	if idx := r.indexOf(tab); idx >= 0 {
		r.removeAt(idx)
	}
}

// CloseContent closes whichever tab hosts v.
func (r *Registry) CloseContent(v content.View) {
	if tab := r.tabFor(v); tab != nil {
		r.CloseTab(tab)
	}
}

// RemoveTabForContent drops the tab hosting v, if any.
func (r *Registry) RemoveTabForContent(v content.View) {
	for i, t := range r.tabs {
		if content.Same(t.view, v) {
			r.removeAt(i)
			return
		}
	}
}

// UnselectTabForContent clears the selection of the tab hosting v and
// reports whether one was found.
func (r *Registry) UnselectTabForContent(v content.View) bool {
	tab := r.tabFor(v)
	if tab == nil {
		return false
	}
	tab.selected = false
	return true
}

// CloseAll empties the registry and closes the window.
func (r *Registry) CloseAll() {
	removed := r.tabs
	r.tabs = nil
	if r.window != nil {
		r.window.CleanupAndClose()
	}
	for _, t := range removed {
		dispose(t.view)
	}
	events.Tab.CloseAll(len(removed))
}

// SelectNumber selects by one-based position: 1..8 pick that tab, 9 picks
// the last. Positions past the end are ignored.
func (r *Registry) SelectNumber(n int) {
	if n < 1 || n > 9 || len(r.tabs) == 0 {
		return
	}
	idx := n - 1
	if n == 9 {
		idx = len(r.tabs) - 1
	}
	if idx >= len(r.tabs) {
		return
	}
	r.SelectTab(r.tabs[idx])
}

// CloseSelected closes the selected tab, if any.
func (r *Registry) CloseSelected() {
	if tab := r.Selected(); tab != nil {
		r.CloseTab(tab)
	}
}

// Filter returns tabs whose labels fuzzily match query, best match first.
// An empty query returns every tab.
func (r *Registry) Filter(query string) []*Tab {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return r.Tabs()
	}
	labels := make([]string, len(r.tabs))
	for i, t := range r.tabs {
		labels[i] = t.Label()
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	sort.Stable(ranks)
	out := make([]*Tab, 0, len(ranks))
	for _, rank := range ranks {
		out = append(out, r.tabs[rank.OriginalIndex])
	}
	return out
}

func (r *Registry) windowClosed(v content.View) {
	r.RemoveTabForContent(v)
}

func (r *Registry) removeAt(idx int) {
	t := r.tabs[idx]
	r.tabs = append(r.tabs[:idx], r.tabs[idx+1:]...)
	dispose(t.view)
	events.Tab.Remove(t.Label(), len(r.tabs))
}

func (r *Registry) indexOf(tab *Tab) int {
	if tab == nil {
		return -1
	}
	for i, t := range r.tabs {
		if t == tab {
			return i
		}
	}
	return -1
}

func (r *Registry) tabFor(v content.View) *Tab {
	if v == nil {
		return nil
	}
	for _, t := range r.tabs {
		if content.Same(t.view, v) {
			return t
		}
	}
	return nil
}

func dispose(v content.View) {
	d, ok := v.(content.Disposer)
	if !ok {
		return
	}
	defer func() { _ = recover() }()
	d.Dispose()
}
