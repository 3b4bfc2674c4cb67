package app

import (
	"context"
	"errors"
	"sync"

	"cratetui/internal/action"
)

// ErrQueueClosed is returned by Send once the consumer is gone
var ErrQueueClosed = errors.New("action queue closed")

// Queue is an unbounded FIFO of actions with many producers and a single
// consumer. Send never blocks.
type Queue struct {
	mu     sync.Mutex
	items  []action.Action
	closed bool
	ready  chan struct{}
	done   chan struct{}
}

// NewQueue returns an open, empty queue
func NewQueue() *Queue {
	return &Queue{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Send appends a to the queue
func (q *Queue) Send(a action.Action) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.items = append(q.items, a)
	q.mu.Unlock()

	// wake the consumer if it is waiting
	select {
	case q.ready <- struct{}{}:
	default:
	}
	return nil
}

// Recv blocks until an action is available, the queue is closed, or ctx is
// done. Actions already queued are still delivered after Close.
func (q *Queue) Recv(ctx context.Context) (action.Action, error) {
	for {
		if a, ok := q.TryRecv(); ok {
			return a, nil
		}

		q.mu.Lock()
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return nil, ErrQueueClosed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.ready:
		case <-q.done:
		}
	}
}

// TryRecv pops the oldest action without waiting
func (q *Queue) TryRecv() (action.Action, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}
	a := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return a, true
}

// Len returns the number of queued actions
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close rejects further sends and wakes the consumer
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}
