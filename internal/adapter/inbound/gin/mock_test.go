package gin

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/quickai/server/internal/model"
	"github.com/quickai/server/internal/port/inbound"
)

// --- Mock implementations ---

type MockGenerationDomain struct {
	mock.Mock
}

func (m *MockGenerationDomain) Generate(ctx context.Context, credential string, in *inbound.GenerationInput) (*inbound.GenerationOutput, error) {
	args := m.Called(ctx, credential, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.GenerationOutput), args.Error(1)
}

func (m *MockGenerationDomain) Usage(ctx context.Context, userID string) (*inbound.UsageOutput, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.UsageOutput), args.Error(1)
}

type MockCreationDomain struct {
	mock.Mock
}

func (m *MockCreationDomain) Append(ctx context.Context, in inbound.CreationAppendInput) (*model.Creation, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Creation), args.Error(1)
}

func (m *MockCreationDomain) ToggleLike(ctx context.Context, creationID, userID string) (bool, error) {
	args := m.Called(ctx, creationID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCreationDomain) Get(ctx context.Context, creationID string) (*model.Creation, error) {
	args := m.Called(ctx, creationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Creation), args.Error(1)
}

func (m *MockCreationDomain) ListOwn(ctx context.Context, userID string) ([]*model.Creation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Creation), args.Error(1)
}

func (m *MockCreationDomain) ListPublished(ctx context.Context) ([]*model.Creation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Creation), args.Error(1)
}
