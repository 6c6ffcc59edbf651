package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quickai/server/internal/model"
	"github.com/quickai/server/internal/port/outbound"
)

const (
	defaultPlan       = "free"
	freeUsageKey      = "free_usage"
	freeUsageColumn   = "free_usage"
	accountUserColumn = "user_id = ?"
)

// accountAdapter implements outbound.AccountDatabasePort.
type accountAdapter struct {
	db *gorm.DB
}

// NewAccountAdapter creates a new account database adapter.
func NewAccountAdapter(db *gorm.DB) outbound.AccountDatabasePort {
	return &accountAdapter{db: db}
}

func ensureAccount(tx *gorm.DB, userID string) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.UserAccount{UserID: userID, Plan: defaultPlan, Metadata: datatypes.JSONMap{}}).
		Error
}

func (a *accountAdapter) Get(ctx context.Context, userID string) (*model.UserAccount, error) {
	var acc model.UserAccount
	err := a.db.WithContext(ctx).First(&acc, accountUserColumn, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &acc, nil
}

func (a *accountAdapter) SetPlan(ctx context.Context, userID, plan string) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureAccount(tx, userID); err != nil {
			return err
		}
		return tx.Model(&model.UserAccount{}).
			Where(accountUserColumn, userID).
			Update("plan", plan).Error
	})
}

// MergeMetadata writes the counter column directly so it never races with
// writes to other metadata keys.
func (a *accountAdapter) MergeMetadata(ctx context.Context, userID string, values map[string]any) error {
	rest := make(map[string]any, len(values))
	var usage *int64
	for k, v := range values {
		if k != freeUsageKey {
			rest[k] = v
			continue
		}
		n, err := toInt64(v)
		if err != nil {
			return err
		}
		usage = &n
	}

	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureAccount(tx, userID); err != nil {
			return err
		}
		if usage != nil {
			if err := tx.Model(&model.UserAccount{}).
				Where(accountUserColumn, userID).
				UpdateColumn(freeUsageColumn, *usage).Error; err != nil {
				return err
			}
		}
		if len(rest) == 0 {
			return nil
		}

		var acc model.UserAccount
		if err := tx.First(&acc, accountUserColumn, userID).Error; err != nil {
			return err
		}
		merged := datatypes.JSONMap{}
		for k, v := range acc.Metadata {
			merged[k] = v
		}
		for k, v := range rest {
			merged[k] = v
		}
		return tx.Model(&model.UserAccount{}).
			Where(accountUserColumn, userID).
			Update("metadata", merged).Error
	})
}

// IncrementUsage applies the increment as one conditional UPDATE.
func (a *accountAdapter) IncrementUsage(ctx context.Context, userID string, delta, ceiling int64) (int64, bool, error) {
	var (
		usage   int64
		applied bool
	)
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureAccount(tx, userID); err != nil {
			return err
		}

		res := tx.Model(&model.UserAccount{}).
			Where("user_id = ? AND COALESCE(free_usage, 0) < ?", userID, ceiling).
			UpdateColumn(freeUsageColumn, gorm.Expr("COALESCE(free_usage, 0) + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		applied = res.RowsAffected == 1

		var acc model.UserAccount
		if err := tx.Select(freeUsageColumn).First(&acc, accountUserColumn, userID).Error; err != nil {
			return err
		}
		if acc.FreeUsage != nil {
			usage = *acc.FreeUsage
		}
		return nil
	})
	return usage, applied, err
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("free usage must be an integer, got %v", n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("free usage must be an integer, got %T", v)
	}
}

// Compile-time check
var _ outbound.AccountDatabasePort = (*accountAdapter)(nil)
