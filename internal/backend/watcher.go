package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/tmux-floatdesk/internal/logging"
	"github.com/atomicstack/tmux-floatdesk/internal/logging/events"
	"github.com/atomicstack/tmux-floatdesk/internal/memory"
	"github.com/atomicstack/tmux-floatdesk/internal/tmux"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindMemory Kind = iota
	KindTmux
)

func (k Kind) String() string {
	switch k {
	case KindMemory:
		return "memory"
	case KindTmux:
		return "tmux"
	}
	return "unknown"
}

// Event conveys updated data or an error from a backend poll.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// Options selects what the watcher polls.
type Options struct {
	Interval time.Duration
	// Sampler is refreshed on every memory poll; nil disables the poller.
	Sampler *memory.Sampler
	// ProbeTmux enables the tmux client probe against SocketPath.
	ProbeTmux  bool
	SocketPath string
}

var probeTmux = tmux.Probe

// Watcher polls its sources at a fixed interval and publishes events.
type Watcher struct {
	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts one poller goroutine per enabled source.
func NewWatcher(opts Options) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan Event, 16),
	}

	if opts.Sampler != nil {
		w.startMemoryPoller()
	}
	if opts.ProbeTmux {
		w.startTmuxPoller()
	}

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. Pollers exit after their current fetch completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all poller goroutines have exited and the events channel
// is closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startMemoryPoller() {
	throttle := newThrottle(250 * time.Millisecond)
	w.wg.Add(1)
	go w.poll(KindMemory, func(ctx context.Context) (interface{}, error) {
		if !throttle.wait(ctx) {
			return nil, ctx.Err()
		}
		reading, err := w.opts.Sampler.Refresh(ctx)
		if err == nil {
			events.Backend.Memory(reading.Current, reading.Limit, memory.Ratio(reading))
		}
		return reading, err
	})
}

func (w *Watcher) startTmuxPoller() {
	throttle := newThrottle(250 * time.Millisecond)
	w.wg.Add(1)
	go w.poll(KindTmux, func(ctx context.Context) (interface{}, error) {
		if !throttle.wait(ctx) {
			return nil, ctx.Err()
		}
		return probeTmux(w.opts.SocketPath)
	})
}

func (w *Watcher) poll(kind Kind, fetch func(context.Context) (interface{}, error)) {
	defer w.wg.Done()

	emit := func() bool {
		data, err := fetch(w.ctx)
		if err != nil {
			events.Backend.Error(kind.String(), err)
			log := logging.WithComponent("backend")
			log.Debug().Err(err).Str("kind", kind.String()).Msg("poll failed")
		}
		evt := Event{Kind: kind, Data: data, Err: err}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}
