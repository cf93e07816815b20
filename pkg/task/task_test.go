package task_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-vgenform/pkg/task"
)

var (
	fixedID   = uuid.MustParse("1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

func fixed() []task.Option {
	return []task.Option{
		task.WithIDs(func() uuid.UUID { return fixedID }),
		task.WithClock(func() time.Time { return fixedTime }),
	}
}

type fakePusher struct {
	key    string
	values []any
	err    error
}

func (f *fakePusher) LPush(_ context.Context, key string, values ...any) *redis.IntCmd {
	f.key = key
	f.values = append(f.values, values...)
	return redis.NewIntResult(int64(len(f.values)), f.err)
}

func TestMemoryQueueEnqueue(t *testing.T) {
	t.Parallel()

	q := task.NewMemoryQueue(fixed()...)
	payload := map[string]any{"model": "genmo", "prompt": "fog"}
	got, err := q.Enqueue(context.Background(), payload, task.KindVideoGeneration)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	payload["prompt"] = "mutated"

	want := task.Task{
		ID:        fixedID,
		Kind:      task.KindVideoGeneration,
		Payload:   map[string]any{"model": "genmo", "prompt": "fog"},
		CreatedAt: fixedTime,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("task mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]task.Task{want}, q.Tasks()); diff != "" {
		t.Fatalf("queued tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryQueueClosed(t *testing.T) {
	t.Parallel()

	q := task.NewMemoryQueue()
	q.Close()
	if _, err := q.Enqueue(context.Background(), nil, task.KindVideoGeneration); !errors.Is(err, task.ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
	if q.Len() != 0 {
		t.Fatalf("expected empty queue")
	}
}

func TestRedisSinkPushesEnvelope(t *testing.T) {
	t.Parallel()

	pusher := &fakePusher{}
	sink := task.NewRedisSink(pusher, task.WithQueueKey("jobs:video"), task.WithEnvelope(fixed()...))
	if _, err := sink.Enqueue(context.Background(), map[string]any{"model": "luma"}, task.KindVideoGeneration); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if pusher.key != "jobs:video" || len(pusher.values) != 1 {
		t.Fatalf("unexpected push: key=%q values=%d", pusher.key, len(pusher.values))
	}
	body, ok := pusher.values[0].([]byte)
	if !ok {
		t.Fatalf("expected []byte body, got %T", pusher.values[0])
	}
	var decoded task.Task
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := task.Task{
		ID:        fixedID,
		Kind:      task.KindVideoGeneration,
		Payload:   map[string]any{"model": "luma"},
		CreatedAt: fixedTime,
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Fatalf("envelope mismatch (-want +got):\n%s", diff)
	}
}

func TestRedisSinkWrapsErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	sink := task.NewRedisSink(&fakePusher{err: boom})
	if sink.Key() != task.DefaultQueueKey {
		t.Fatalf("expected default key, got %q", sink.Key())
	}
	if _, err := sink.Enqueue(context.Background(), nil, task.KindVideoGeneration); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}

	if _, err := task.NewRedisSink(nil).Enqueue(context.Background(), nil, task.KindVideoGeneration); err == nil {
		t.Fatalf("expected error for nil client")
	}
}
