package entitlement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/quickai/server/internal/port/outbound"
)

// Snapshot is the per-request view of a user's entitlement.
type Snapshot struct {
	UserID    string
	IsPremium bool
	FreeUsage int64
}

// Resolver turns a session credential into an entitlement snapshot.
type Resolver struct {
	identity    outbound.IdentityPort
	premiumPlan string
	logger      *zap.Logger
}

// NewResolver creates a resolver. premiumPlan is the plan name checked
// for the premium entitlement.
func NewResolver(identity outbound.IdentityPort, premiumPlan string, logger *zap.Logger) *Resolver {
	if premiumPlan == "" {
		premiumPlan = "premium"
	}
	return &Resolver{
		identity:    identity,
		premiumPlan: premiumPlan,
		logger:      logger,
	}
}

// Authenticate verifies the credential and returns the user id.
func (r *Resolver) Authenticate(ctx context.Context, credential string) (string, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", ErrAuthentication
	}
	userID, err := r.identity.VerifyCredential(ctx, credential)
	if err != nil {
		if !errors.Is(err, outbound.ErrInvalidCredential) {
			r.logger.Warn("credential verification failed", zap.Error(err))
		}
		return "", fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	if userID == "" {
		return "", ErrAuthentication
	}
	return userID, nil
}

// Snapshot reads the entitlement of an authenticated user. A free user
// without a stored counter gets one initialized to zero.
func (r *Resolver) Snapshot(ctx context.Context, userID string) (*Snapshot, error) {
	isPremium, err := r.identity.HasEntitlement(ctx, userID, r.premiumPlan)
	if err != nil {
		return nil, fmt.Errorf("check entitlement: %w", err)
	}

	meta, err := r.identity.GetMetadata(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get metadata: %w", err)
	}

	usage, found, err := usageFromMetadata(meta)
	if err != nil {
		return nil, err
	}

	if !found && !isPremium {
		if err := r.identity.SetMetadata(ctx, userID, map[string]any{MetadataKeyFreeUsage: int64(0)}); err != nil {
			return nil, fmt.Errorf("initialize free usage: %w", err)
		}
		r.logger.Debug("free usage initialized", zap.String("user_id", userID))
	}

	return &Snapshot{
		UserID:    userID,
		IsPremium: isPremium,
		FreeUsage: usage,
	}, nil
}

// Resolve authenticates the credential and returns the snapshot.
func (r *Resolver) Resolve(ctx context.Context, credential string) (*Snapshot, error) {
	userID, err := r.Authenticate(ctx, credential)
	if err != nil {
		return nil, err
	}
	return r.Snapshot(ctx, userID)
}
