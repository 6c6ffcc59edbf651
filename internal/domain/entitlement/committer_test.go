package entitlement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCommitter_Premium(t *testing.T) {
	ctx := context.Background()
	identity := new(MockCountingIdentity)
	c := NewCommitter(identity, 10, zap.NewNop())

	for i := 0; i < 3; i++ {
		usage, err := c.Commit(ctx, "u1", true, 4, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(4), usage)
	}

	identity.AssertNotCalled(t, "IncrementUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	identity.AssertNotCalled(t, "SetMetadata", mock.Anything, mock.Anything, mock.Anything)
	identity.AssertNotCalled(t, "GetMetadata", mock.Anything, mock.Anything)
}

func TestCommitter_BlindWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("writes prior plus cost", func(t *testing.T) {
		identity := new(MockIdentity)
		identity.On("SetMetadata", ctx, "u1", map[string]any{MetadataKeyFreeUsage: int64(6)}).Return(nil)
		c := NewCommitter(identity, 10, zap.NewNop())

		usage, err := c.Commit(ctx, "u1", false, 3, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(6), usage)
		identity.AssertExpectations(t)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		identity := new(MockIdentity)
		identity.On("SetMetadata", ctx, "u1", mock.Anything).Return(errors.New("unavailable"))
		c := NewCommitter(identity, 10, zap.NewNop())

		usage, err := c.Commit(ctx, "u1", false, 3, 1)
		assert.Error(t, err)
		assert.Equal(t, int64(3), usage)
	})
}

func TestCommitter_AtomicIncrement(t *testing.T) {
	ctx := context.Background()

	t.Run("applied", func(t *testing.T) {
		identity := new(MockCountingIdentity)
		identity.On("IncrementUsage", ctx, "u1", int64(1), int64(10)).Return(int64(5), true, nil)
		c := NewCommitter(identity, 10, zap.NewNop())

		usage, err := c.Commit(ctx, "u1", false, 4, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(5), usage)
		identity.AssertNotCalled(t, "SetMetadata", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("refused at ceiling", func(t *testing.T) {
		identity := new(MockCountingIdentity)
		identity.On("IncrementUsage", ctx, "u1", int64(1), int64(10)).Return(int64(10), false, nil)
		c := NewCommitter(identity, 10, zap.NewNop())

		usage, err := c.Commit(ctx, "u1", false, 9, 1)
		assert.ErrorIs(t, err, ErrUsageCeiling)
		assert.Equal(t, int64(10), usage)
	})

	t.Run("zero cost is a no-op", func(t *testing.T) {
		identity := new(MockCountingIdentity)
		c := NewCommitter(identity, 10, zap.NewNop())

		usage, err := c.Commit(ctx, "u1", false, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), usage)
		identity.AssertNotCalled(t, "IncrementUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
