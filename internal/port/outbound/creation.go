package outbound

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/quickai/server/internal/model"
)

// ErrRecordNotFound is returned by mutations whose target row does not exist.
var ErrRecordNotFound = errors.New("record not found")

// CreationDatabasePort defines creation persistence operations.
type CreationDatabasePort interface {
	// Create inserts a creation.
	Create(ctx context.Context, creation *model.Creation) error

	// GetByID gets a creation with its likes. Returns nil, nil when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Creation, error)

	// ToggleLike flips the user's membership in the creation's like set as a
	// single storage-level mutation and reports the resulting membership.
	// Returns ErrRecordNotFound when the creation does not exist.
	ToggleLike(ctx context.Context, id uuid.UUID, userID string) (bool, error)

	// ListByUser lists a user's creations, newest first.
	ListByUser(ctx context.Context, userID string) ([]*model.Creation, error)

	// ListPublished lists published creations, newest first.
	ListPublished(ctx context.Context) ([]*model.Creation, error)
}
