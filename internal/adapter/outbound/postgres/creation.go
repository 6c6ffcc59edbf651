package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quickai/server/internal/model"
	"github.com/quickai/server/internal/port/outbound"
)

// creationAdapter implements outbound.CreationDatabasePort.
type creationAdapter struct {
	db *gorm.DB
}

// NewCreationAdapter creates a new creation database adapter.
func NewCreationAdapter(db *gorm.DB) outbound.CreationDatabasePort {
	return &creationAdapter{db: db}
}

func preloadLikes(db *gorm.DB) *gorm.DB {
	return db.Preload("Likes", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC")
	})
}

func (a *creationAdapter) Create(ctx context.Context, c *model.Creation) error {
	// Likes are never written through the creation row.
	return a.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (a *creationAdapter) GetByID(ctx context.Context, id uuid.UUID) (*model.Creation, error) {
	var c model.Creation
	err := preloadLikes(a.db.WithContext(ctx)).First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ToggleLike removes the (creation, user) row if present, otherwise inserts
// it. Each user only ever touches their own row, so concurrent toggles by
// different users cannot overwrite each other.
func (a *creationAdapter) ToggleLike(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	var liked bool
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Creation{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return outbound.ErrRecordNotFound
		}

		res := tx.Where("creation_id = ? AND user_id = ?", id, userID).Delete(&model.CreationLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}

		like := &model.CreationLike{CreationID: id, UserID: userID, CreatedAt: time.Now().UTC()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
			return err
		}
		liked = true
		return nil
	})
	return liked, err
}

func (a *creationAdapter) ListByUser(ctx context.Context, userID string) ([]*model.Creation, error) {
	var out []*model.Creation
	err := preloadLikes(a.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (a *creationAdapter) ListPublished(ctx context.Context) ([]*model.Creation, error) {
	var out []*model.Creation
	err := preloadLikes(a.db.WithContext(ctx)).
		Where("publish = ?", true).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// Compile-time check
var _ outbound.CreationDatabasePort = (*creationAdapter)(nil)
