package entitlement

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/quickai/server/internal/port/outbound"
)

// Committer persists consumed free usage after a successful generation.
type Committer struct {
	identity outbound.IdentityPort
	counter  outbound.UsageCounterPort
	ceiling  int64
	logger   *zap.Logger
}

// NewCommitter creates a committer. When the identity store also
// implements outbound.UsageCounterPort, increments are applied atomically
// and refused once the stored counter reaches ceiling.
func NewCommitter(identity outbound.IdentityPort, ceiling int64, logger *zap.Logger) *Committer {
	c := &Committer{
		identity: identity,
		ceiling:  ceiling,
		logger:   logger,
	}
	if counter, ok := identity.(outbound.UsageCounterPort); ok {
		c.counter = counter
	}
	return c
}

// Commit records cost units of free usage and returns the counter value
// after the commit. Premium consumption is never metered.
func (c *Committer) Commit(ctx context.Context, userID string, isPremium bool, priorFreeUsage, cost int64) (int64, error) {
	if isPremium || cost <= 0 {
		return priorFreeUsage, nil
	}

	if c.counter != nil {
		usage, applied, err := c.counter.IncrementUsage(ctx, userID, cost, c.ceiling)
		if err != nil {
			return priorFreeUsage, fmt.Errorf("increment free usage: %w", err)
		}
		if !applied {
			return usage, fmt.Errorf("%w: user %s at %d", ErrUsageCeiling, userID, usage)
		}
		return usage, nil
	}

	// Blind write of the counter key only; concurrent requests of the same
	// user may lose increments here.
	next := priorFreeUsage + cost
	if err := c.identity.SetMetadata(ctx, userID, map[string]any{MetadataKeyFreeUsage: next}); err != nil {
		return priorFreeUsage, fmt.Errorf("write free usage: %w", err)
	}
	c.logger.Debug("free usage committed", zap.String("user_id", userID), zap.Int64("free_usage", next))
	return next, nil
}
