package events

import "github.com/atomicstack/tmux-floatdesk/internal/logging"

type BackendTracer struct{}

type QueueTracer struct{}

var (
	Backend = BackendTracer{}
	Queue   = QueueTracer{}
)

func (BackendTracer) Memory(current, limit uint64, ratio float64) {
	logging.Trace("backend.memory", map[string]interface{}{"current": current, "limit": limit, "ratio": ratio})
}

func (BackendTracer) Error(kind string, err error) {
	if err == nil {
		return
	}
	logging.Trace("backend.error", map[string]interface{}{"kind": kind, "error": err.Error()})
}

func (QueueTracer) Dropped(reason string) {
	logging.Trace("queue.drop", map[string]interface{}{"reason": reason})
}

func (QueueTracer) TaskPanic(recovered interface{}) {
	logging.Trace("queue.panic", map[string]interface{}{"recovered": recovered})
}
