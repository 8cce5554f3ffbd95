package queue

import (
	"context"
	"errors"
	"sync"

	"memedex/internal/task"
)

// ErrClosed is returned by Enqueue after Close has been called.
var ErrClosed = errors.New("queue is closed")

// Bounded is a fixed-capacity FIFO queue of ingest tasks. Enqueue never
// blocks: when the queue is full the task is rejected and counted as dropped.
type Bounded struct {
	mu      sync.Mutex
	tasks   chan *task.Task
	metrics *Metrics
	closed  bool
}

// NewBounded creates a queue holding at most capacity tasks.
func NewBounded(capacity int, metrics *Metrics) *Bounded {
	if capacity <= 0 {
		capacity = 1
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Bounded{
		tasks:   make(chan *task.Task, capacity),
		metrics: metrics,
	}
}

// Metrics returns the counter set shared with the rest of the ingest path.
func (q *Bounded) Metrics() *Metrics {
	return q.metrics
}

// Capacity returns the maximum number of queued tasks.
func (q *Bounded) Capacity() int {
	return cap(q.tasks)
}

// Len returns the current queue depth.
func (q *Bounded) Len() int {
	return len(q.tasks)
}

// Enqueue offers a task to the queue. Returns true when accepted; false when
// the queue is full, in which case the task is marked dropped and counted.
func (q *Bounded) Enqueue(t *task.Task) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false, ErrClosed
	}
	select {
	case q.tasks <- t:
		q.metrics.recordAdmitted()
		return true, nil
	default:
		_ = t.Transition(task.StatusDropped)
		q.metrics.recordDropped()
		return false, nil
	}
}

// Dequeue blocks until a task is available, the queue is drained and closed,
// or the context is cancelled. A nil task with nil error means the queue is
// closed and empty.
func (q *Bounded) Dequeue(ctx context.Context) (*task.Task, error) {
	select {
	case t, ok := <-q.tasks:
		if !ok {
			return nil, nil
		}
		return t, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops accepting new tasks. Queued tasks remain dequeueable until the
// channel drains. Safe to call more than once.
func (q *Bounded) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.tasks)
}
