// Package task hands submitted payloads to the generation queue.
package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Kind names the job type a worker picks up.
type Kind string

// KindVideoGeneration is the kind used for video form submissions.
const KindVideoGeneration Kind = "video_generation"

// ErrQueueClosed is returned when enqueuing into a closed queue.
var ErrQueueClosed = errors.New("task: queue closed")

// Task is the envelope stored in the queue.
type Task struct {
	ID        uuid.UUID      `json:"id"`
	Kind      Kind           `json:"kind"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Sink accepts payloads for asynchronous processing.
type Sink interface {
	Enqueue(ctx context.Context, payload map[string]any, kind Kind) (Task, error)
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(ctx context.Context, payload map[string]any, kind Kind) (Task, error)

// Enqueue delegates to the underlying function.
func (fn SinkFunc) Enqueue(ctx context.Context, payload map[string]any, kind Kind) (Task, error) {
	return fn(ctx, payload, kind)
}

// Option customises how sinks build task envelopes.
type Option func(*envelope)

type envelope struct {
	newID func() uuid.UUID
	now   func() time.Time
}

// WithIDs overrides the task identifier generator.
func WithIDs(fn func() uuid.UUID) Option {
	return func(e *envelope) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithClock overrides the creation timestamp source.
func WithClock(fn func() time.Time) Option {
	return func(e *envelope) {
		if fn != nil {
			e.now = fn
		}
	}
}

func newEnvelope(options []Option) envelope {
	e := envelope{newID: uuid.New, now: time.Now}
	for _, opt := range options {
		if opt != nil {
			opt(&e)
		}
	}
	return e
}

func (e envelope) build(payload map[string]any, kind Kind) Task {
	copied := make(map[string]any, len(payload))
	for key, value := range payload {
		copied[key] = value
	}
	return Task{
		ID:        e.newID(),
		Kind:      kind,
		Payload:   copied,
		CreatedAt: e.now().UTC(),
	}
}
