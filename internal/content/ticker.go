package content

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/tmux-floatdesk/internal/dispatch"
)

// Poster hands work to the goroutine that owns UI state.
type Poster interface {
	Post(func()) error
}

// Ticker counts upwards once per interval. The counting goroutine never
// touches the counter itself; every increment is posted to the owner.
type Ticker struct {
	interval time.Duration
	poster   Poster

	count    int
	attached bool

	mu      sync.Mutex
	stop    chan struct{}
	stopped bool
}

func NewTicker(interval time.Duration, poster Poster) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	t := &Ticker{interval: interval, poster: poster, stop: make(chan struct{})}
	go t.run()
	return t
}

func (t *Ticker) run() {
	tick := time.NewTicker(t.interval)
	defer tick.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-tick.C:
			if t.poster == nil {
				continue
			}
			// A full queue only costs this tick.
			if err := t.poster.Post(t.Increment); errors.Is(err, dispatch.ErrClosed) {
				return
			}
		}
	}
}

// Increment advances the counter. Call only from the owning goroutine.
func (t *Ticker) Increment() {
	t.count++
}

func (t *Ticker) Count() int {
	return t.count
}

func (t *Ticker) Attach() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return fmt.Errorf("ticker disposed")
	}
	t.attached = true
	return nil
}

func (t *Ticker) Detach() {
	t.attached = false
}

func (t *Ticker) Attached() bool {
	return t.attached
}

// Dispose stops the background goroutine. Safe to call more than once.
func (t *Ticker) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	close(t.stop)
}

func (t *Ticker) Render(width, height int) string {
	lines := []string{
		fmt.Sprintf("ticks: %d", t.count),
		fmt.Sprintf("every %s", t.interval),
		strings.Repeat("▮", t.count%max(1, width)),
	}
	return fitLines(lines, width, height)
}
