package events

import "github.com/atomicstack/tmux-floatdesk/internal/logging"

type TabTracer struct{}

var Tab = TabTracer{}

func (TabTracer) Open(label string, count int) {
	logging.Trace("tab.open", map[string]interface{}{"label": label, "count": count})
}

func (TabTracer) OpenDeferred(label string) {
	logging.Trace("tab.open.deferred", map[string]interface{}{"label": label})
}

func (TabTracer) Select(label string, index int) {
	logging.Trace("tab.select", map[string]interface{}{"label": label, "index": index})
}

func (TabTracer) Close(label string, attached bool) {
	logging.Trace("tab.close", map[string]interface{}{"label": label, "attached": attached})
}

func (TabTracer) Remove(label string, remaining int) {
	logging.Trace("tab.remove", map[string]interface{}{"label": label, "remaining": remaining})
}

func (TabTracer) Evict(label string, capacity int, pressure float64) {
	logging.Trace("tab.evict", map[string]interface{}{"label": label, "capacity": capacity, "pressure": pressure})
}

func (TabTracer) CloseAll(count int) {
	logging.Trace("tab.close-all", map[string]interface{}{"count": count})
}
