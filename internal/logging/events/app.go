package events

import "github.com/atomicstack/tmux-floatdesk/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Resize(width, height int) {
	logging.Trace("app.resize", map[string]interface{}{"width": width, "height": height})
}

func (AppTracer) Shutdown(tabs int) {
	logging.Trace("app.shutdown", map[string]interface{}{"tabs": tabs})
}
