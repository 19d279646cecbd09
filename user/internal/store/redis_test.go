package store

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	c := context.Background()
	redisContainer, err := testRedis.Run(
		c,
		"redis:7.4.2-alpine3.21",
		testRedis.WithLogLevel(testRedis.LogLevelVerbose),
	)
	testcontainers.CleanupContainer(t, redisContainer)
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}

	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}

	redisClient := redis.NewClient(redisOpt)
	t.Cleanup(func() { redisClient.Close() })
	return redisClient
}

func TestRedisTokenStore(t *testing.T) {
	cache := setupRedis(t)

	t.Run("given empty key should use default key", func(t *testing.T) {
		store := NewRedisTokenStore(cache, "", 0)
		assert.Equal(t, DefaultTokenKey, store.key)
	})

	t.Run("given token should save load and delete", func(t *testing.T) {
		exerciseTokenStore(t, NewRedisTokenStore(cache, "test:token", 0))
	})

	t.Run("given ttl should expire token key", func(t *testing.T) {
		store := NewRedisTokenStore(cache, "test:token:ttl", time.Minute)
		require.NoError(t, store.Save(context.Background(), "t"))

		ttl, err := cache.TTL(context.Background(), "test:token:ttl").Result()

		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})
}
