package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickai/server/internal/model"
	"github.com/quickai/server/internal/port/outbound"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestFeedCache(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	cache := NewFeedCache(client)

	_, err := cache.GetPublished(ctx)
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)

	creations := []*model.Creation{{
		ID:      uuid.New(),
		UserID:  "u1",
		Prompt:  "a cat",
		Content: "https://cdn/x.png",
		Type:    model.CreationTypeImage,
		Publish: true,
		Likes:   []model.CreationLike{{UserID: "u2"}},
	}}
	require.NoError(t, cache.SetPublished(ctx, creations, time.Minute))

	got, err := cache.GetPublished(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, creations[0].ID, got[0].ID)
	assert.Equal(t, []string{"u2"}, got[0].LikeUserIDs())

	t.Run("expires after ttl", func(t *testing.T) {
		require.NoError(t, cache.SetPublished(ctx, creations, time.Second))
		mr.FastForward(2 * time.Second)
		_, err := cache.GetPublished(ctx)
		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	})

	t.Run("zero ttl skips caching", func(t *testing.T) {
		require.NoError(t, cache.InvalidatePublished(ctx))
		require.NoError(t, cache.SetPublished(ctx, creations, 0))
		assert.False(t, mr.Exists(publishedFeedKey))
	})

	t.Run("invalidate", func(t *testing.T) {
		require.NoError(t, cache.SetPublished(ctx, creations, time.Minute))
		require.NoError(t, cache.InvalidatePublished(ctx))
		_, err := cache.GetPublished(ctx)
		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	})

	t.Run("corrupt entry is dropped", func(t *testing.T) {
		require.NoError(t, mr.Set(publishedFeedKey, "{not json"))
		_, err := cache.GetPublished(ctx)
		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
		assert.False(t, mr.Exists(publishedFeedKey))
	})
}

func TestFeedCache_ConnectionError(t *testing.T) {
	mr, client := newTestClient(t)
	mr.Close()

	_, err := NewFeedCache(client).GetPublished(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, outbound.ErrCacheMiss)
}

func TestRateLimiter(t *testing.T) {
	ctx := context.Background()
	_, client := newTestClient(t)
	limiter := NewRateLimiter(client)

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "user:u1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, err := limiter.Allow(ctx, "user:u1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	remaining, err := limiter.GetRemaining(ctx, "user:u1", 3, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	allowed, err = limiter.Allow(ctx, "user:u2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	remaining, err = limiter.GetRemaining(ctx, "user:u2", 3, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}
