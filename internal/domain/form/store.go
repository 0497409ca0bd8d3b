package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Store holds the latest submitted record of each form. Writes replace the
// whole record.
type Store[R any] interface {
	Read(ctx context.Context, key string) (R, bool, error)
	Write(ctx context.Context, key string, rec R) error
}

// KV is the byte level backend behind JSONStore. Get returns ErrNotFound for
// a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// JSONStore keeps records as JSON documents in a KV backend.
type JSONStore[R any] struct {
	kv KV
}

func NewJSONStore[R any](kv KV) *JSONStore[R] {
	return &JSONStore[R]{kv: kv}
}

func (s *JSONStore[R]) Read(ctx context.Context, key string) (R, bool, error) {
	var rec R

	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return rec, false, nil
		}
		return rec, false, fmt.Errorf("read record %s: %w", key, err)
	}

	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, false, fmt.Errorf("unmarshal record %s: %w", key, err)
	}
	return rec, true, nil
}

func (s *JSONStore[R]) Write(ctx context.Context, key string, rec R) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("write record %s: %w", key, err)
	}
	return nil
}

func (s *JSONStore[R]) Delete(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete record %s: %w", key, err)
	}
	return nil
}
