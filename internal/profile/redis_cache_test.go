package profile

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a reachable Redis; set GIVEAWAY_TEST_REDIS_ADDR to run.
func TestRedisCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("GIVEAWAY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GIVEAWAY_TEST_REDIS_ADDR not set")
	}

	cache, err := NewRedisCache(RedisOptions{Addr: addr}, "giveaway-test-"+time.Now().Format("150405.000"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	ctx := context.Background()

	_, err = cache.Get(ctx, "naru_sam68")
	require.ErrorIs(t, err, ErrCacheMiss)

	want := &Profile{ID: 1, Username: "NARU_SAM68", AvatarURL: "https://cdn/a.png"}
	require.NoError(t, cache.Set(ctx, "naru_sam68", want, time.Minute))

	got, err := cache.Get(ctx, "naru_sam68")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRedisCacheBuildKey(t *testing.T) {
	c := &RedisCache{prefix: "giveaway"}
	assert.Equal(t, "giveaway:profile:naru_sam68", c.BuildKey("naru_sam68"))
}
