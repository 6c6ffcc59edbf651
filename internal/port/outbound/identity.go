package outbound

import (
	"context"
	"errors"
)

// ErrInvalidCredential is returned when a session credential is missing,
// malformed, expired or rejected by the identity provider.
var ErrInvalidCredential = errors.New("invalid credential")

// IdentityPort is the external identity provider: it verifies session
// credentials and owns per-user plan and metadata.
type IdentityPort interface {
	// VerifyCredential returns the stable user id behind a session token.
	VerifyCredential(ctx context.Context, token string) (string, error)

	// HasEntitlement reports whether the user currently holds the plan.
	HasEntitlement(ctx context.Context, userID, plan string) (bool, error)

	// GetMetadata returns the user's metadata. Missing users yield an empty map.
	GetMetadata(ctx context.Context, userID string) (map[string]any, error)

	// SetMetadata writes the given keys, leaving other keys untouched.
	SetMetadata(ctx context.Context, userID string, values map[string]any) error
}

// UsageCounterPort is implemented by metadata stores that can apply a
// usage increment atomically.
type UsageCounterPort interface {
	// IncrementUsage adds delta to the user's free usage counter only if
	// the stored value is below ceiling. It returns the stored value after
	// the call and whether the increment was applied.
	IncrementUsage(ctx context.Context, userID string, delta, ceiling int64) (int64, bool, error)
}
