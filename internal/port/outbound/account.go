package outbound

import (
	"context"

	"github.com/quickai/server/internal/model"
)

// AccountDatabasePort defines persistence of locally managed user accounts.
type AccountDatabasePort interface {
	// Get gets an account. Returns nil, nil when missing.
	Get(ctx context.Context, userID string) (*model.UserAccount, error)

	// SetPlan creates the account if needed and sets its plan.
	SetPlan(ctx context.Context, userID, plan string) error

	// MergeMetadata creates the account if needed and writes the given
	// metadata keys. The free usage key is stored in its own column.
	MergeMetadata(ctx context.Context, userID string, values map[string]any) error

	// IncrementUsage adds delta to the free usage counter if it is below
	// ceiling. Returns the stored value and whether the update applied.
	IncrementUsage(ctx context.Context, userID string, delta, ceiling int64) (int64, bool, error)
}
