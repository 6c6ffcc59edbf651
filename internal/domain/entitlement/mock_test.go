package entitlement

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// --- Mock implementations ---

type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) VerifyCredential(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockIdentity) HasEntitlement(ctx context.Context, userID, plan string) (bool, error) {
	args := m.Called(ctx, userID, plan)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdentity) GetMetadata(ctx context.Context, userID string) (map[string]any, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockIdentity) SetMetadata(ctx context.Context, userID string, values map[string]any) error {
	args := m.Called(ctx, userID, values)
	return args.Error(0)
}

// MockCountingIdentity also supports atomic usage increments.
type MockCountingIdentity struct {
	MockIdentity
}

func (m *MockCountingIdentity) IncrementUsage(ctx context.Context, userID string, delta, ceiling int64) (int64, bool, error) {
	args := m.Called(ctx, userID, delta, ceiling)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}
