package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-vgenform/pkg/model"
)

// Draft is a persisted set of form values keyed by field name. File fields
// hold either a *model.FileHandle or a decoded map with the handle's keys.
type Draft map[string]any

// DraftStore loads the draft the form is seeded with. Stores are read-only:
// the form never writes back.
type DraftStore interface {
	Load(ctx context.Context) (Draft, error)
}

// DraftFunc adapts a function into a DraftStore.
type DraftFunc func(ctx context.Context) (Draft, error)

// Load delegates to the underlying function.
func (fn DraftFunc) Load(ctx context.Context) (Draft, error) {
	return fn(ctx)
}

// FileDraftStore reads a YAML or JSON draft from disk. A missing file is an
// empty draft.
type FileDraftStore struct {
	fsys fs.FS
	path string
}

// NewFileDraftStore reads path from the OS filesystem.
func NewFileDraftStore(path string) *FileDraftStore {
	return &FileDraftStore{path: path}
}

// NewFSDraftStore reads path from fsys.
func NewFSDraftStore(fsys fs.FS, path string) *FileDraftStore {
	return &FileDraftStore{fsys: fsys, path: path}
}

// Load reads and decodes the draft.
func (s *FileDraftStore) Load(ctx context.Context) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.path) == "" {
		return nil, nil
	}

	var (
		data []byte
		err  error
	)
	if s.fsys != nil {
		data, err = fs.ReadFile(s.fsys, s.path)
	} else {
		data, err = os.ReadFile(s.path)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("form: read draft %s: %w", s.path, err)
	}
	return ParseDraft(data)
}

// ParseDraft decodes a YAML or JSON document into a Draft.
func ParseDraft(data []byte) (Draft, error) {
	var draft Draft
	if err := yaml.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("form: decode draft: %w", err)
	}
	return draft, nil
}

// Getter is the subset of the Redis client RedisDraftStore needs.
type Getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisDraftStore reads a JSON draft stored under a Redis key. A missing key
// is an empty draft.
type RedisDraftStore struct {
	client Getter
	key    string
}

// NewRedisDraftStore wraps client.
func NewRedisDraftStore(client Getter, key string) *RedisDraftStore {
	return &RedisDraftStore{client: client, key: key}
}

// Load fetches and decodes the draft.
func (s *RedisDraftStore) Load(ctx context.Context) (Draft, error) {
	if s.client == nil || strings.TrimSpace(s.key) == "" {
		return nil, nil
	}
	raw, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("form: get draft %s: %w", s.key, err)
	}

	var draft Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("form: decode draft %s: %w", s.key, err)
	}
	return draft, nil
}

func draftValue(name model.FieldName, raw any) (any, error) {
	if !model.IsFileField(name) {
		return raw, nil
	}
	switch typed := raw.(type) {
	case nil, *model.FileHandle, model.FileHandle:
		return typed, nil
	case map[string]any:
		body, err := json.Marshal(typed)
		if err != nil {
			return nil, err
		}
		var handle model.FileHandle
		if err := json.Unmarshal(body, &handle); err != nil {
			return nil, err
		}
		return &handle, nil
	default:
		return nil, fmt.Errorf("unsupported file value %T", raw)
	}
}
