// Package dispatch serialises work onto the UI goroutine. Producers Post
// closures from any goroutine; a single consumer runs them in order.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/atomicstack/tmux-floatdesk/internal/logging/events"
)

var (
	// ErrClosed is returned once the queue is closed. Next only returns it
	// after the remaining tasks were handed out.
	ErrClosed = errors.New("dispatch queue closed")
	// ErrFull is returned by Post when every slot is taken. The queue stays
	// usable; the caller may retry or Send.
	ErrFull = errors.New("dispatch queue full")

	errNilTask = errors.New("nil task")
)

const DefaultCapacity = 256

type Queue struct {
	tasks chan func()
	done  chan struct{}

	mu     sync.Mutex
	closed bool
}

func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{
		tasks: make(chan func(), capacity),
		done:  make(chan struct{}),
	}
}

// Post enqueues fn without blocking.
func (q *Queue) Post(fn func()) error {
	if q == nil || fn == nil {
		return errNilTask
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		events.Queue.Dropped("closed")
		return ErrClosed
	}
	select {
	case q.tasks <- fn:
		return nil
	default:
		events.Queue.Dropped("full")
		return ErrFull
	}
}

// Send enqueues fn, waiting for a free slot until the queue is closed.
func (q *Queue) Send(fn func()) error {
	if q == nil || fn == nil {
		return errNilTask
	}
	if q.isClosed() {
		return ErrClosed
	}
	select {
	case q.tasks <- fn:
		return nil
	case <-q.done:
		return ErrClosed
	}
}

func (q *Queue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Next blocks until a task is available, the context ends or the queue is
// closed and drained.
func (q *Queue) Next(ctx context.Context) (func(), error) {
	select {
	case fn := <-q.tasks:
		return fn, nil
	case <-q.done:
		select {
		case fn := <-q.tasks:
			return fn, nil
		default:
			return nil, ErrClosed
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run executes fn, converting a panic into an error.
func Run(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispatched task panicked: %v", r)
			events.Queue.TaskPanic(r)
		}
	}()
	fn()
	return nil
}

// Drain runs every task currently queued and returns how many ran.
func (q *Queue) Drain() int {
	n := 0
	for {
		select {
		case fn := <-q.tasks:
			_ = Run(fn)
			n++
		default:
			return n
		}
	}
}

// Len reports the number of pending tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Close rejects further work and wakes blocked senders. Tasks already
// queued can still be taken with Next or Drain.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}
