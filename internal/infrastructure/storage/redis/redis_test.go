package redis

import (
	"context"
	"testing"
	"time"

	"attendform/internal/domain/form"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T, ttl time.Duration) (*Storage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewWithClient(client, ttl)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestStorage(t *testing.T) {
	ctx := context.Background()
	s, mr := setupTestRedis(t, 0)

	_, err := s.Get(ctx, "absence:1")
	assert.ErrorIs(t, err, form.ErrNotFound)

	require.NoError(t, s.Put(ctx, "absence:1", []byte(`{"name":"kim"}`)))
	assert.True(t, mr.Exists("form:absence:1"))

	got, err := s.Get(ctx, "absence:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"kim"}`, string(got))

	require.NoError(t, s.Delete(ctx, "absence:1"))
	_, err = s.Get(ctx, "absence:1")
	assert.ErrorIs(t, err, form.ErrNotFound)
}

func TestStorage_TTL(t *testing.T) {
	ctx := context.Background()
	s, mr := setupTestRedis(t, time.Hour)

	require.NoError(t, s.Put(ctx, "change:2", []byte(`{}`)))
	assert.Equal(t, time.Hour, mr.TTL("form:change:2"))

	mr.FastForward(time.Hour + time.Second)
	_, err := s.Get(ctx, "change:2")
	assert.ErrorIs(t, err, form.ErrNotFound)
}

func TestStorage_WithJSONStore(t *testing.T) {
	ctx := context.Background()
	s, _ := setupTestRedis(t, 0)
	store := form.NewJSONStore[form.AbsenceRecord](s)

	rec := form.AbsenceRecord{Name: "홍길동", Birthday: "2005-03-15", AbsentTime: 2}
	require.NoError(t, store.Write(ctx, "absence:3", rec))

	got, ok, err := store.Read(ctx, "absence:3")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestNew_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := New(ctx, Options{Addr: addr})
	assert.Error(t, err)
}
