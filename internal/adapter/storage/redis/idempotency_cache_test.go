package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewIdempotencyCache(client)
	ctx := context.Background()

	key := uuid.New().String() + ":req-001"
	value := []byte(`{"status":"success","amount_cents":2500}`)

	// Get before set => nil
	result, err := cache.Get(ctx, key)
	assert.NoError(t, err)
	assert.Nil(t, result)

	// Set
	err = cache.Set(ctx, key, value, 24*time.Hour)
	require.NoError(t, err)

	// Get after set
	result, err = cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, value, result)
}

func TestIdempotencyCache_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewIdempotencyCache(client)
	ctx := context.Background()

	key := uuid.New().String() + ":req-002"
	value := []byte(`{"status":"success"}`)

	err := cache.Set(ctx, key, value, 1*time.Second)
	require.NoError(t, err)

	// Fast-forward time in miniredis
	s.FastForward(2 * time.Second)

	result, err := cache.Get(ctx, key)
	assert.NoError(t, err)
	assert.Nil(t, result, "expired key should return nil")
}

func TestIdempotencyCache_KeysAreVendorScoped(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewIdempotencyCache(client)
	ctx := context.Background()

	vendorA := uuid.New().String() + ":req-001"
	vendorB := uuid.New().String() + ":req-001"

	err := cache.Set(ctx, vendorA, []byte(`{"vendor":"a"}`), time.Hour)
	require.NoError(t, err)

	result, err := cache.Get(ctx, vendorB)
	assert.NoError(t, err)
	assert.Nil(t, result, "same client key under a different vendor must not collide")
}
