package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/quickai/server/internal/port/outbound"
)

const rateLimitKeyPrefix = "quickai:ratelimit:"

// rateLimiter implements outbound.RateLimiterPort with a sliding window
// kept in a sorted set per key.
type rateLimiter struct {
	client redis.UniversalClient
}

// NewRateLimiter creates a new rate limiter adapter.
func NewRateLimiter(client redis.UniversalClient) outbound.RateLimiterPort {
	return &rateLimiter{client: client}
}

// Allow records the request and admits it when the window holds at most
// limit entries. A rejected request is removed again so it does not count.
func (r *rateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := rateLimitKeyPrefix + key
	now := time.Now().UnixNano()
	windowStart := now - window.Nanoseconds()
	member := fmt.Sprintf("%d-%s", now, uuid.NewString())

	var countCmd *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, fullKey, "0", fmt.Sprintf("%d", windowStart))
		pipe.ZAdd(ctx, fullKey, redis.Z{Score: float64(now), Member: member})
		countCmd = pipe.ZCard(ctx, fullKey)
		pipe.Expire(ctx, fullKey, window)
		return nil
	})
	if err != nil {
		return false, err
	}

	if countCmd.Val() > int64(limit) {
		if err := r.client.ZRem(ctx, fullKey, member).Err(); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func (r *rateLimiter) GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	fullKey := rateLimitKeyPrefix + key
	windowStart := time.Now().UnixNano() - window.Nanoseconds()

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, fullKey, "0", fmt.Sprintf("%d", windowStart))
	countCmd := pipe.ZCard(ctx, fullKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	remaining := limit - int(countCmd.Val())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Compile-time check
var _ outbound.RateLimiterPort = (*rateLimiter)(nil)
