package floating

import (
	"errors"
	"fmt"

	"github.com/atomicstack/tmux-floatdesk/internal/content"
	"github.com/atomicstack/tmux-floatdesk/internal/dispatch"
	"github.com/atomicstack/tmux-floatdesk/internal/geom"
	"github.com/atomicstack/tmux-floatdesk/internal/logging/events"
	"github.com/google/uuid"
)

// ErrDragUnsupported is returned when no drag transport is configured.
var ErrDragUnsupported = errors.New("drag-out not supported")

// DragRequest describes a drag-out session to the transport.
type DragRequest struct {
	Name  string
	Label string
	Point geom.Point
	Rect  geom.Rect
	View  content.View
}

// DragResult is reported once a session ends.
type DragResult struct {
	Dropped bool
	Err     error
}

// DragTransport carries a window out of the canvas. StartDrag returns an
// error when the session could not begin; otherwise done is called exactly
// once, from any goroutine, when the session ends.
type DragTransport interface {
	StartDrag(req DragRequest, done func(DragResult)) error
}

var newWindowName = func() string {
	return "floatwin-" + uuid.NewString()
}

// beginDrag hides the window for the length of an external drag session.
// Sessions only start from the primary button, and a transport that fails
// to start leaves the window visible and idle.
func (w *Window) beginDrag(evt Event) bool {
	if !w.opts.DragDropSupported || evt.Button != ButtonPrimary {
		return false
	}
	if w.name == "" {
		w.name = newWindowName()
	}
	if w.opts.Transport == nil {
		events.Drag.StartFailed(w.name, ErrDragUnsupported)
		return false
	}

	wasVisible := w.visible
	w.dragSession++
	session := w.dragSession
	w.state = StateDraggingOut
	w.visible = false

	req := DragRequest{
		Name:  w.name,
		Label: content.KindOf(w.view),
		Point: evt.Point,
		Rect:  w.rect,
		View:  w.view,
	}
	done := func(res DragResult) {
		w.deliver(func() {
			if w.dragSession != session || w.state != StateDraggingOut {
				return
			}
			kind := EventDragComplete
			if res.Err != nil {
				kind = EventDragFailed
			}
			w.Handle(Event{Kind: kind})
		})
	}
	if err := startDrag(w.opts.Transport, req, done); err != nil {
		if w.dragSession == session {
			w.dragSession++
			w.state = StateIdle
			w.visible = wasVisible
		}
		events.Drag.StartFailed(w.name, err)
		return false
	}
	events.Drag.Start(w.name, req.Label)
	return true
}

// deliver hands a session completion to the dispatcher. The completion is
// the only thing that brings a torn out window back, so a full dispatcher
// is waited out on a separate goroutine rather than dropping it.
func (w *Window) deliver(fn func()) {
	d, name := w.opts.Dispatcher, w.name
	err := d.Post(fn)
	if err == nil {
		return
	}
	if !errors.Is(err, dispatch.ErrFull) {
		events.Drag.Undelivered(name, err)
		return
	}
	go func() {
		if err := d.Send(fn); err != nil {
			events.Drag.Undelivered(name, err)
		}
	}()
}

// endDrag closes a session. The window reappears only if it still has
// something to show.
func (w *Window) endDrag(evt Event) bool {
	w.dragSession++
	w.state = StateIdle
	if w.view != nil {
		w.visible = true
	}
	events.Drag.Complete(w.name, evt.Kind == EventDragComplete, w.visible)
	return true
}

func startDrag(t DragTransport, req DragRequest, done func(DragResult)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("drag transport panicked: %v", r)
		}
	}()
	return t.StartDrag(req, done)
}
