package testutil

import (
	"sync"

	"github.com/atomicstack/tmux-floatdesk/internal/floating"
)

// RecordingTransport is a drag transport that remembers every request and
// lets the test decide when and how each session ends.
type RecordingTransport struct {
	// StartErr, when set, is returned by StartDrag instead of starting.
	StartErr error

	mu       sync.Mutex
	requests []floating.DragRequest
	pending  []func(floating.DragResult)
}

func (r *RecordingTransport) StartDrag(req floating.DragRequest, done func(floating.DragResult)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.StartErr != nil {
		return r.StartErr
	}
	r.requests = append(r.requests, req)
	r.pending = append(r.pending, done)
	return nil
}

// Requests returns the sessions started so far.
func (r *RecordingTransport) Requests() []floating.DragRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]floating.DragRequest(nil), r.requests...)
}

// Finish ends the oldest open session with res. It reports false when no
// session is open.
func (r *RecordingTransport) Finish(res floating.DragResult) bool {
	r.mu.Lock()
	if len(r.pending) == 0 {
		r.mu.Unlock()
		return false
	}
	done := r.pending[0]
	r.pending = r.pending[1:]
	r.mu.Unlock()
	done(res)
	return true
}
