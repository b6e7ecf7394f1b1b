package middleware_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplanner/middleware"
)

// openTestRedis skips the test unless TEST_REDIS_URL is set.
func openTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set; skipping integration test")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func testKey(t *testing.T, client *redis.Client) string {
	key := "ratelimit:test:" + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), key) })
	return key
}

func TestRedisLimiter_rejectionsDoNotFillWindow(t *testing.T) {
	client := openTestRedis(t)
	limiter := middleware.NewRedisLimiter(client)
	ctx := context.Background()
	key := testKey(t, client)

	var got []bool
	for range 6 {
		ok, err := limiter.Allow(ctx, key, 3, time.Minute)
		require.NoError(t, err)
		got = append(got, ok)
	}

	assert.Equal(t, []bool{true, true, true, false, false, false}, got)
	n, err := client.ZCard(ctx, key).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestRedisLimiter_capacityReturnsAfterWindow(t *testing.T) {
	client := openTestRedis(t)
	limiter := middleware.NewRedisLimiter(client)
	ctx := context.Background()
	key := testKey(t, client)
	window := 300 * time.Millisecond

	ok, err := limiter.Allow(ctx, key, 1, window)
	require.NoError(t, err)
	require.True(t, ok)

	// Keep knocking while over the limit; none of these should push the window out.
	for range 3 {
		ok, err = limiter.Allow(ctx, key, 1, window)
		require.NoError(t, err)
		require.False(t, ok)
		time.Sleep(50 * time.Millisecond)
	}

	time.Sleep(window)
	ok, err = limiter.Allow(ctx, key, 1, window)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_setsExpiry(t *testing.T) {
	client := openTestRedis(t)
	limiter := middleware.NewRedisLimiter(client)
	ctx := context.Background()
	key := testKey(t, client)

	_, err := limiter.Allow(ctx, key, 5, time.Minute)
	require.NoError(t, err)

	ttl, err := client.PTTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Minute)
	assert.LessOrEqual(t, ttl, 2*time.Minute)
}
