package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quickai/server/internal/model"
	"github.com/quickai/server/internal/port/outbound"
)

const publishedFeedKey = "quickai:feed:published"

// feedCache implements outbound.FeedCachePort.
type feedCache struct {
	client redis.UniversalClient
}

// NewFeedCache creates a new published feed cache adapter.
func NewFeedCache(client redis.UniversalClient) outbound.FeedCachePort {
	return &feedCache{client: client}
}

func (c *feedCache) GetPublished(ctx context.Context) ([]*model.Creation, error) {
	data, err := c.client.Get(ctx, publishedFeedKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, outbound.ErrCacheMiss
		}
		return nil, err
	}

	var out []*model.Creation
	if err := json.Unmarshal(data, &out); err != nil {
		// Drop undecodable entries instead of serving them.
		_ = c.client.Del(ctx, publishedFeedKey).Err()
		return nil, outbound.ErrCacheMiss
	}
	return out, nil
}

func (c *feedCache) SetPublished(ctx context.Context, creations []*model.Creation, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(creations)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, publishedFeedKey, data, ttl).Err()
}

func (c *feedCache) InvalidatePublished(ctx context.Context) error {
	return c.client.Del(ctx, publishedFeedKey).Err()
}

// Compile-time check
var _ outbound.FeedCachePort = (*feedCache)(nil)
