package creation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/quickai/server/internal/model"
	"github.com/quickai/server/internal/port/outbound"
)

// --- Mock implementations ---

type MockCreationDB struct {
	mock.Mock
}

func (m *MockCreationDB) Create(ctx context.Context, c *model.Creation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCreationDB) GetByID(ctx context.Context, id uuid.UUID) (*model.Creation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Creation), args.Error(1)
}

func (m *MockCreationDB) ToggleLike(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCreationDB) ListByUser(ctx context.Context, userID string) ([]*model.Creation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Creation), args.Error(1)
}

func (m *MockCreationDB) ListPublished(ctx context.Context) ([]*model.Creation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Creation), args.Error(1)
}

type MockFeedCache struct {
	mock.Mock
}

func (m *MockFeedCache) GetPublished(ctx context.Context) ([]*model.Creation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Creation), args.Error(1)
}

func (m *MockFeedCache) SetPublished(ctx context.Context, creations []*model.Creation, ttl time.Duration) error {
	args := m.Called(ctx, creations, ttl)
	return args.Error(0)
}

func (m *MockFeedCache) InvalidatePublished(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// likeSetDB keeps like sets in memory for toggle sequences.
type likeSetDB struct {
	MockCreationDB
	mu    sync.Mutex
	likes map[uuid.UUID]map[string]bool
}

func newLikeSetDB(ids ...uuid.UUID) *likeSetDB {
	db := &likeSetDB{likes: make(map[uuid.UUID]map[string]bool)}
	for _, id := range ids {
		db.likes[id] = make(map[string]bool)
	}
	return db
}

func (f *likeSetDB) ToggleLike(_ context.Context, id uuid.UUID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.likes[id]
	if !ok {
		return false, outbound.ErrRecordNotFound
	}
	if set[userID] {
		delete(set, userID)
		return false, nil
	}
	set[userID] = true
	return true, nil
}
