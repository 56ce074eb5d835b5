package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: addr}), "place-order-test")
	if err := c.Ping(context.Background()); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGenerateKey(t *testing.T) {
	c := NewRedisCache("localhost:0", "place-order")
	defer c.Close()

	assert.Equal(t, "place-order:response:abc-123", c.GenerateKey("response", "abc-123"))
}

func TestSetGet(t *testing.T) {
	c := getRedisCache(t)
	ctx := context.Background()
	key := c.GenerateKey("response", "set-get")

	require.NoError(t, c.Set(ctx, key, `{"message":"Order placed."}`, time.Minute))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"message":"Order placed."}`, got)
}

func TestGet_MissingKey(t *testing.T) {
	c := getRedisCache(t)

	got, err := c.Get(context.Background(), c.GenerateKey("response", "never-set"))
	require.NoError(t, err)
	assert.Empty(t, got)
}
