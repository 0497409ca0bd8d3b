package form

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

type MockStore[R any] struct {
	mock.Mock
}

func (m *MockStore[R]) Read(ctx context.Context, key string) (R, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(R), args.Bool(1), args.Error(2)
}

func (m *MockStore[R]) Write(ctx context.Context, key string, rec R) error {
	args := m.Called(ctx, key, rec)
	return args.Error(0)
}

type MockNavigator struct {
	mock.Mock
}

func (m *MockNavigator) Navigate(ctx context.Context, route string) error {
	args := m.Called(ctx, route)
	return args.Error(0)
}

// mapKV is a minimal KV for exercising JSONStore.
type mapKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapKV() *mapKV {
	return &mapKV{data: map[string][]byte{}}
}

func (kv *mapKV) Get(_ context.Context, key string) ([]byte, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (kv *mapKV) Put(_ context.Context, key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	return nil
}

func (kv *mapKV) Delete(_ context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.data, key)
	return nil
}
