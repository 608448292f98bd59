package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingFlow/internal/domain"
	"github.com/m04kA/SMC-BookingFlow/pkg/ptr"
)

type memoryStore struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failing bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.failing {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if m.failing {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}
	m.data[key] = string(value.([]byte))
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestCache_BusinessRoundTrip(t *testing.T) {
	store := newMemoryStore()
	c := NewCache(store, "test", time.Minute)
	ctx := context.Background()

	_, err := c.GetBusiness(ctx, "trattoria")
	assert.ErrorIs(t, err, ErrCacheMiss)

	business := &domain.Business{Slug: "trattoria", Name: "Trattoria", Type: "restaurant", MaxPartySize: ptr.Ptr(12)}
	require.NoError(t, c.SetBusiness(ctx, "trattoria", business))
	assert.Equal(t, time.Minute, store.ttls["test:catalog:business:trattoria"])

	got, err := c.GetBusiness(ctx, "trattoria")
	require.NoError(t, err)
	assert.Equal(t, business, got)
}

func TestCache_ServicesAndInvalidate(t *testing.T) {
	c := NewCache(newMemoryStore(), "", time.Minute)
	ctx := context.Background()

	services := []domain.Service{{ID: "1", Name: "Corte", DurationMinutes: 45, Price: 35}}
	require.NoError(t, c.SetServices(ctx, "bella", services))

	got, err := c.GetServices(ctx, "bella")
	require.NoError(t, err)
	assert.Equal(t, services, got)

	require.NoError(t, c.Invalidate(ctx, "bella"))
	_, err = c.GetServices(ctx, "bella")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_StoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.failing = true
	c := NewCache(store, "test", time.Minute)

	_, err := c.GetServices(context.Background(), "bella")
	assert.ErrorIs(t, err, ErrCache)
	assert.ErrorIs(t, c.SetServices(context.Background(), "bella", nil), ErrCache)
}
