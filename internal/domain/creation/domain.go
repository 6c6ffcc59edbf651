package creation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quickai/server/internal/model"
	"github.com/quickai/server/internal/port/inbound"
	"github.com/quickai/server/internal/port/outbound"
	"github.com/quickai/server/internal/shared/metrics"
)

const feedCacheName = "published_feed"

// Config holds creation ledger settings.
type Config struct {
	FeedCacheTTL time.Duration
}

// Domain is the creation ledger: append-only generation records plus the
// per-user like toggle.
type Domain struct {
	db      outbound.CreationDatabasePort
	feed    outbound.FeedCachePort
	cfg     Config
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewCreationDomain creates a new creation ledger. feed may be nil.
func NewCreationDomain(
	db outbound.CreationDatabasePort,
	feed outbound.FeedCachePort,
	cfg Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Domain {
	return &Domain{
		db:      db,
		feed:    feed,
		cfg:     cfg,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Append records a generation result.
func (d *Domain) Append(ctx context.Context, in inbound.CreationAppendInput) (*model.Creation, error) {
	if strings.TrimSpace(in.UserID) == "" || !in.Type.Valid() {
		return nil, ErrInvalidInput
	}

	c := &model.Creation{
		ID:        uuid.New(),
		UserID:    in.UserID,
		Prompt:    in.Prompt,
		Content:   in.Content,
		Type:      in.Type,
		Publish:   in.Publish,
		Likes:     []model.CreationLike{},
		CreatedAt: d.now().UTC(),
	}
	if err := d.db.Create(ctx, c); err != nil {
		d.logger.Error("append creation failed",
			zap.String("user_id", in.UserID),
			zap.String("type", string(in.Type)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if c.Publish {
		d.invalidateFeed(ctx)
	}
	return c, nil
}

// ToggleLike flips userID's membership in the creation's like set and
// reports whether the user now likes it.
func (d *Domain) ToggleLike(ctx context.Context, creationID, userID string) (bool, error) {
	id, err := uuid.Parse(strings.TrimSpace(creationID))
	if err != nil {
		return false, ErrCreationNotFound
	}
	if strings.TrimSpace(userID) == "" {
		return false, ErrInvalidInput
	}

	liked, err := d.db.ToggleLike(ctx, id, userID)
	if err != nil {
		if errors.Is(err, outbound.ErrRecordNotFound) {
			return false, ErrCreationNotFound
		}
		return false, fmt.Errorf("toggle like: %w", err)
	}

	d.metrics.RecordLikeToggle(liked)
	d.invalidateFeed(ctx)
	return liked, nil
}

// Get returns one creation.
func (d *Domain) Get(ctx context.Context, creationID string) (*model.Creation, error) {
	id, err := uuid.Parse(strings.TrimSpace(creationID))
	if err != nil {
		return nil, ErrCreationNotFound
	}
	c, err := d.db.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get creation: %w", err)
	}
	if c == nil {
		return nil, ErrCreationNotFound
	}
	return c, nil
}

// ListOwn lists the user's creations, newest first.
func (d *Domain) ListOwn(ctx context.Context, userID string) ([]*model.Creation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	out, err := d.db.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list own creations: %w", err)
	}
	return out, nil
}

// ListPublished lists published creations, newest first. The feed is
// served from cache when one is configured.
func (d *Domain) ListPublished(ctx context.Context) ([]*model.Creation, error) {
	if d.feed != nil {
		cached, err := d.feed.GetPublished(ctx)
		switch {
		case err == nil:
			d.metrics.RecordCacheHit(feedCacheName)
			return cached, nil
		case errors.Is(err, outbound.ErrCacheMiss):
			d.metrics.RecordCacheMiss(feedCacheName)
		default:
			d.logger.Warn("read published feed cache", zap.Error(err))
		}
	}

	out, err := d.db.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published creations: %w", err)
	}

	if d.feed != nil {
		if err := d.feed.SetPublished(ctx, out, d.cfg.FeedCacheTTL); err != nil {
			d.logger.Warn("write published feed cache", zap.Error(err))
		}
	}
	return out, nil
}

func (d *Domain) invalidateFeed(ctx context.Context) {
	if d.feed == nil {
		return
	}
	if err := d.feed.InvalidatePublished(ctx); err != nil {
		d.logger.Warn("invalidate published feed cache", zap.Error(err))
	}
}

// Compile-time check
var _ inbound.CreationDomain = (*Domain)(nil)
