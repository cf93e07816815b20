package task

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueKey is the Redis list workers pop video jobs from.
const DefaultQueueKey = "tasks:video_generation"

// Pusher is the subset of the Redis client RedisSink needs.
type Pusher interface {
	LPush(ctx context.Context, key string, values ...any) *redis.IntCmd
}

// RedisOption customises a RedisSink.
type RedisOption func(*RedisSink)

// WithQueueKey sets the list key. Blank keys are ignored.
func WithQueueKey(key string) RedisOption {
	return func(s *RedisSink) {
		if key = strings.TrimSpace(key); key != "" {
			s.key = key
		}
	}
}

// WithLogger attaches a logger for enqueue events.
func WithLogger(logger *slog.Logger) RedisOption {
	return func(s *RedisSink) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEnvelope applies task envelope options (IDs, clock).
func WithEnvelope(options ...Option) RedisOption {
	return func(s *RedisSink) {
		s.envelope = newEnvelope(options)
	}
}

// RedisSink pushes JSON task envelopes onto a Redis list with LPUSH.
type RedisSink struct {
	client   Pusher
	key      string
	logger   *slog.Logger
	envelope envelope
}

// NewRedisSink wraps client.
func NewRedisSink(client Pusher, options ...RedisOption) *RedisSink {
	s := &RedisSink{
		client:   client,
		key:      DefaultQueueKey,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		envelope: newEnvelope(nil),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Key returns the list key tasks are pushed to.
func (s *RedisSink) Key() string { return s.key }

// Enqueue encodes the task and pushes it to the head of the list.
func (s *RedisSink) Enqueue(ctx context.Context, payload map[string]any, kind Kind) (Task, error) {
	if s.client == nil {
		return Task{}, fmt.Errorf("task: redis client is required")
	}

	t := s.envelope.build(payload, kind)
	body, err := json.Marshal(t)
	if err != nil {
		return Task{}, fmt.Errorf("task: encode %s: %w", t.ID, err)
	}

	position, err := s.client.LPush(ctx, s.key, body).Result()
	if err != nil {
		s.logger.ErrorContext(ctx, "enqueue failed", "queue", s.key, "task_id", t.ID.String(), "error", err)
		return Task{}, fmt.Errorf("task: lpush %s: %w", s.key, err)
	}

	s.logger.InfoContext(ctx, "task enqueued",
		"queue", s.key,
		"task_id", t.ID.String(),
		"kind", string(kind),
		"position", position,
	)
	return t, nil
}

// RedisConfig holds connection settings for Connect.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// Connect opens a Redis client and pings it.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("task: ping redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}
