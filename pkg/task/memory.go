package task

import (
	"context"
	"sync"
)

// MemoryQueue keeps tasks in process. The CLI's dry-run mode and tests use
// it in place of Redis.
type MemoryQueue struct {
	mu       sync.Mutex
	envelope envelope
	tasks    []Task
	closed   bool
}

// NewMemoryQueue returns an empty queue.
func NewMemoryQueue(options ...Option) *MemoryQueue {
	return &MemoryQueue{envelope: newEnvelope(options)}
}

// Enqueue appends a task.
func (q *MemoryQueue) Enqueue(ctx context.Context, payload map[string]any, kind Kind) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return Task{}, ErrQueueClosed
	}
	t := q.envelope.build(payload, kind)
	q.tasks = append(q.tasks, t)
	return t, nil
}

// Tasks returns a snapshot of the enqueued tasks in order.
func (q *MemoryQueue) Tasks() []Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Task(nil), q.tasks...)
}

// Len reports the number of queued tasks.
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Close rejects further enqueues.
func (q *MemoryQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}
