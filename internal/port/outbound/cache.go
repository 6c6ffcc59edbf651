package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/quickai/server/internal/model"
)

var ErrCacheMiss = errors.New("cache miss")

// FeedCachePort caches the published creation feed.
type FeedCachePort interface {
	// GetPublished returns the cached feed or ErrCacheMiss.
	GetPublished(ctx context.Context) ([]*model.Creation, error)

	// SetPublished stores the feed for ttl.
	SetPublished(ctx context.Context, creations []*model.Creation, ttl time.Duration) error

	// InvalidatePublished drops the cached feed.
	InvalidatePublished(ctx context.Context) error
}

// RateLimiterPort limits request rates per key.
type RateLimiterPort interface {
	// Allow checks if a request is allowed and records it.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// GetRemaining returns remaining requests in the current window.
	GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}
