package floating

import (
	"fmt"
	"math"

	"github.com/atomicstack/tmux-floatdesk/internal/geom"
	"github.com/atomicstack/tmux-floatdesk/internal/logging/events"
)

// State is the window's interaction state.
type State int

const (
	StateIdle State = iota
	StateMoving
	StateResizing
	StateDraggingOut
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMoving:
		return "moving"
	case StateResizing:
		return "resizing"
	case StateDraggingOut:
		return "dragging-out"
	default:
		return "unknown"
	}
}

// EventKind names a pointer or session event fed to Handle.
type EventKind int

const (
	EventMoveStart EventKind = iota
	EventMoveDelta
	EventMoveEnd
	EventResizeStart
	EventResizeDelta
	EventResizeEnd
	EventDragStart
	EventDragComplete
	EventDragFailed
	// EventActivate is a tap on the move handle.
	EventActivate
	// EventCancel aborts whatever gesture is in progress.
	EventCancel
)

func (k EventKind) String() string {
	switch k {
	case EventMoveStart:
		return "move-start"
	case EventMoveDelta:
		return "move-delta"
	case EventMoveEnd:
		return "move-end"
	case EventResizeStart:
		return "resize-start"
	case EventResizeDelta:
		return "resize-delta"
	case EventResizeEnd:
		return "resize-end"
	case EventDragStart:
		return "drag-start"
	case EventDragComplete:
		return "drag-complete"
	case EventDragFailed:
		return "drag-failed"
	case EventActivate:
		return "activate"
	case EventCancel:
		return "cancel"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// ResizeHandle identifies which resize grip is held.
type ResizeHandle int

const (
	ResizeBoth ResizeHandle = iota
	ResizeHorizontal
	ResizeVertical
)

// Button is the pointer button that started a gesture.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// Minimum window dimensions enforced while resizing.
const (
	MinWidth  = 100.0
	MinHeight = 40.0
)

// Event is one discrete interaction increment.
type Event struct {
	Kind   EventKind
	DX     float64
	DY     float64
	Handle ResizeHandle
	Button Button
	Point  geom.Point
}

type handlerFunc func(Event) bool

func (w *Window) transitions() map[State]map[EventKind]handlerFunc {
	return map[State]map[EventKind]handlerFunc{
		StateIdle: {
			EventMoveStart:   w.beginMove,
			EventResizeStart: w.beginResize,
			EventDragStart:   w.beginDrag,
			EventActivate:    w.activate,
			EventCancel:      w.finish,
		},
		StateMoving: {
			EventMoveDelta: w.move,
			EventMoveEnd:   w.finish,
			EventActivate:  w.activate,
			EventCancel:    w.finish,
		},
		StateResizing: {
			EventResizeDelta: w.resize,
			EventResizeEnd:   w.finish,
			EventCancel:      w.finish,
		},
		StateDraggingOut: {
			EventDragComplete: w.endDrag,
			EventDragFailed:   w.endDrag,
			EventCancel:       w.endDrag,
		},
	}
}

// Handle feeds evt to the state machine. It reports whether the event was
// meaningful in the current state; unexpected events are ignored.
func (w *Window) Handle(evt Event) bool {
	handler, ok := w.table[w.state][evt.Kind]
	if !ok {
		return false
	}
	from := w.state
	handled := handler(evt)
	if from != w.state {
		events.Window.Transition(w.name, from.String(), w.state.String(), evt.Kind.String())
	}
	return handled
}

func (w *Window) beginMove(Event) bool {
	w.state = StateMoving
	return true
}

func (w *Window) beginResize(evt Event) bool {
	w.resizeHandle = evt.Handle
	w.state = StateResizing
	return true
}

func (w *Window) activate(Event) bool {
	w.MakeActive()
	return true
}

func (w *Window) finish(Event) bool {
	w.resetInteraction()
	return true
}

// move applies one pointer delta through the boundary policy. A delta the
// policy rejects entirely leaves the window where it was and the gesture
// running.
func (w *Window) move(evt Event) bool {
	candidate := w.rect.Translate(evt.DX, evt.DY)
	if w.opts.Boundary != geom.Unconstrained {
		if w.host == nil || !w.host.Size().Valid() {
			return true
		}
		candidate, _ = geom.Clamp(candidate, w.host.Size(), w.opts.Boundary)
	}
	if candidate == w.rect {
		return true
	}
	w.rect = candidate
	return true
}

// resize grows or shrinks the window along the held grip. Bad deltas are
// dropped and the last valid size is kept.
func (w *Window) resize(evt Event) bool {
	defer func() {
		if r := recover(); r != nil {
			events.Window.ResizeRejected(w.name, fmt.Sprintf("panic: %v", r))
		}
	}()
	width, height := w.rect.Width, w.rect.Height
	switch w.resizeHandle {
	case ResizeHorizontal:
		width = math.Max(MinWidth, width+evt.DX)
	case ResizeVertical:
		height = math.Max(MinHeight, height+evt.DY)
	default:
		width = math.Max(MinWidth, width+evt.DX)
		height = math.Max(MinHeight, height+evt.DY)
	}
	if !finite(width) || !finite(height) {
		events.Window.ResizeRejected(w.name, "non-finite size")
		return true
	}
	w.rect.Width = width
	w.rect.Height = height
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
