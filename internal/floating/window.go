// Package floating implements the single reusable floating window: its
// geometry, stack priority, visibility and the pointer interaction state
// machine (move, resize, drag-out).
//
// A Window borrows its content. Ownership stays with whoever called Show;
// DetachContent and CleanupAndClose hand the view back without disposing it.
package floating

import (
	"errors"
	"fmt"

	"github.com/atomicstack/tmux-floatdesk/internal/content"
	"github.com/atomicstack/tmux-floatdesk/internal/desk"
	"github.com/atomicstack/tmux-floatdesk/internal/geom"
	"github.com/atomicstack/tmux-floatdesk/internal/logging/events"
)

// ActivePriority is the stack priority reserved for the active window.
const ActivePriority = 10000

// Host is the display area a window is mounted on.
type Host interface {
	Size() geom.Size
	Add(desk.Surface)
	Remove(desk.Surface)
	Contains(desk.Surface) bool
	Siblings(desk.Surface) []desk.Surface
}

// Dispatcher runs fn on the goroutine that owns the window. Post never
// blocks; Send waits for room and only fails once the dispatcher is closed.
type Dispatcher interface {
	Post(fn func()) error
	Send(fn func()) error
}

type immediate struct{}

func (immediate) Post(fn func()) error {
	fn()
	return nil
}

func (immediate) Send(fn func()) error {
	fn()
	return nil
}

// Options configures a Window.
type Options struct {
	Boundary           geom.BoundaryMode
	DragDropSupported  bool
	StartAtBottomRight bool
	Transport          DragTransport
	Dispatcher         Dispatcher
	// OnClose is called with the attached view when the window closes so
	// the owner can drop its bookkeeping for it.
	OnClose func(content.View)
}

// DefaultOptions keeps the title handle reachable and allows drag-out.
func DefaultOptions() Options {
	return Options{
		Boundary:          geom.HandleAlwaysUsable,
		DragDropSupported: true,
	}
}

// Window is owned by a single goroutine; none of its methods lock.
type Window struct {
	opts  Options
	host  Host
	table map[State]map[EventKind]handlerFunc

	view     content.View
	rect     geom.Rect
	priority int
	visible  bool
	state    State
	name     string

	resizeHandle ResizeHandle
	formCascade  int
	dragSession  int
	mounted      bool
}

func New(opts Options) *Window {
	if opts.Dispatcher == nil {
		opts.Dispatcher = immediate{}
	}
	w := &Window{opts: opts, visible: true}
	w.table = w.transitions()
	return w
}

func (w *Window) Content() content.View { return w.view }
func (w *Window) Rect() geom.Rect { return w.rect }
func (w *Window) Visible() bool { return w.visible }
func (w *Window) State() State { return w.state }
func (w *Window) Name() string { return w.name }
func (w *Window) Priority() int { return w.priority }
func (w *Window) SetPriority(p int) { w.priority = p }
func (w *Window) Boundary() geom.BoundaryMode { return w.opts.Boundary }
func (w *Window) DragDropSupported() bool { return w.opts.DragDropSupported }
func (w *Window) Host() Host { return w.host }

// SetRect places the window without clamping.
func (w *Window) SetRect(r geom.Rect) {
	w.rect = r
}

// SetBoundary switches the clamp mode and re-applies it.
func (w *Window) SetBoundary(mode geom.BoundaryMode) {
	w.opts.Boundary = mode
	w.ParentResized()
}

// Mount puts the window on host. The first mount honours
// StartAtBottomRight; later mounts only re-add it.
func (w *Window) Mount(host Host) {
	if host == nil {
		return
	}
	w.host = host
	if !host.Contains(w) {
		host.Add(w)
	}
	if w.mounted {
		return
	}
	w.mounted = true
	if w.opts.StartAtBottomRight {
		size := host.Size()
		w.rect.X = size.Width - w.rect.Width
		w.rect.Y = size.Height - w.rect.Height
	}
}

// OnHost reports whether the window is currently a child of its host.
func (w *Window) OnHost() bool {
	return w.host != nil && w.host.Contains(w)
}

// Show attaches v, makes the window visible and raises it. A failing attach
// leaves the window empty.
func (w *Window) Show(v content.View) {
	defer func() {
		if r := recover(); r != nil {
			w.view = nil
			events.Window.AttachFailed(content.KindOf(v), fmt.Errorf("panic: %v", r))
		}
	}()
	w.resetInteraction()
	w.visible = true
	if v != nil && content.Same(w.view, v) {
		w.MakeActive()
		return
	}
	if w.view != nil {
		detachView(w.view)
	}
	w.view = nil
	if v == nil {
		return
	}
	if err := attachView(v); err != nil {
		events.Window.AttachFailed(content.KindOf(v), err)
		return
	}
	w.view = v
	w.MakeActive()
	events.Window.Show(w.name, content.KindOf(v))
}

// MakeActive moves the window to the top and pushes every sibling one step
// down.
func (w *Window) MakeActive() {
	w.priority = ActivePriority
	if w.host == nil {
		return
	}
	for _, s := range w.host.Siblings(w) {
		s.SetPriority(s.Priority() - 1)
	}
}

// DetachContent removes and returns the attached view. Visibility is left
// alone.
func (w *Window) DetachContent() content.View {
	v := w.view
	if v == nil {
		return nil
	}
	w.view = nil
	detachView(v)
	return v
}

// CleanupAndClose empties the window and removes it from its host. Safe to
// call repeatedly.
func (w *Window) CleanupAndClose() {
	w.resetInteraction()
	if v := w.DetachContent(); v != nil && w.opts.OnClose != nil {
		w.opts.OnClose(v)
	}
	if w.host != nil {
		w.host.Remove(w)
	}
	events.Window.Close(w.name)
}

// ParentResized re-applies the boundary policy after the host changed size.
func (w *Window) ParentResized() {
	if w.host == nil {
		return
	}
	size := w.host.Size()
	if !size.Valid() {
		return
	}
	w.rect, _ = geom.Clamp(w.rect, size, w.opts.Boundary)
}

// resetInteraction abandons any gesture in progress. An outstanding drag
// session is orphaned so its late completion is ignored.
func (w *Window) resetInteraction() {
	if w.state == StateDraggingOut {
		w.dragSession++
	}
	w.state = StateIdle
	w.resizeHandle = ResizeBoth
}

func attachView(v content.View) (err error) {
	a, ok := v.(content.Attacher)
	if !ok {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("attach panicked: %v", r)
		}
	}()
	if err := a.Attach(); err != nil {
		return errors.Join(ErrAttach, err)
	}
	return nil
}

func detachView(v content.View) {
	d, ok := v.(content.Detacher)
	if !ok {
		return
	}
	defer func() { _ = recover() }()
	d.Detach()
}

// ErrAttach wraps failures reported by a view's Attach hook.
var ErrAttach = errors.New("attach content")
