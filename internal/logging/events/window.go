package events

import "github.com/atomicstack/tmux-floatdesk/internal/logging"

type WindowTracer struct{}

type DragTracer struct{}

var (
	Window = WindowTracer{}
	Drag   = DragTracer{}
)

func (WindowTracer) Create(x, y, width, height float64) {
	logging.Trace("window.create", map[string]interface{}{"x": x, "y": y, "width": width, "height": height})
}

func (WindowTracer) Show(name, kind string) {
	logging.Trace("window.show", map[string]interface{}{"name": name, "kind": kind})
}

func (WindowTracer) AttachFailed(kind string, err error) {
	payload := map[string]interface{}{"kind": kind}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("window.attach.error", payload)
}

func (WindowTracer) Close(name string) {
	logging.Trace("window.close", map[string]interface{}{"name": name})
}

func (WindowTracer) Transition(name, from, to, event string) {
	logging.Trace("window.state", map[string]interface{}{"name": name, "from": from, "to": to, "event": event})
}

func (WindowTracer) ResizeRejected(name, reason string) {
	logging.Trace("window.resize.reject", map[string]interface{}{"name": name, "reason": reason})
}

func (DragTracer) Start(name, label string) {
	logging.Trace("drag.start", map[string]interface{}{"name": name, "label": label})
}

func (DragTracer) StartFailed(name string, err error) {
	payload := map[string]interface{}{"name": name}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("drag.start.error", payload)
}

func (DragTracer) Undelivered(name string, err error) {
	payload := map[string]interface{}{"name": name}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("drag.complete.undelivered", payload)
}

func (DragTracer) Complete(name string, dropped, visible bool) {
	logging.Trace("drag.complete", map[string]interface{}{"name": name, "dropped": dropped, "visible": visible})
}
