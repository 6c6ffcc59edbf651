package entitlement

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quickai/server/internal/port/outbound"
)

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("empty credential", func(t *testing.T) {
		identity := new(MockIdentity)
		r := NewResolver(identity, "premium", zap.NewNop())

		_, err := r.Resolve(ctx, "  ")
		assert.ErrorIs(t, err, ErrAuthentication)
		identity.AssertNotCalled(t, "VerifyCredential", mock.Anything, mock.Anything)
	})

	t.Run("rejected credential", func(t *testing.T) {
		identity := new(MockIdentity)
		identity.On("VerifyCredential", ctx, "bad").Return("", outbound.ErrInvalidCredential)
		r := NewResolver(identity, "premium", zap.NewNop())

		_, err := r.Resolve(ctx, "bad")
		assert.ErrorIs(t, err, ErrAuthentication)
		identity.AssertNotCalled(t, "GetMetadata", mock.Anything, mock.Anything)
	})

	t.Run("free user without counter is normalized to zero", func(t *testing.T) {
		identity := new(MockIdentity)
		identity.On("VerifyCredential", ctx, "tok").Return("u1", nil)
		identity.On("HasEntitlement", ctx, "u1", "premium").Return(false, nil)
		identity.On("GetMetadata", ctx, "u1").Return(map[string]any{}, nil)
		identity.On("SetMetadata", ctx, "u1", map[string]any{MetadataKeyFreeUsage: int64(0)}).Return(nil)
		r := NewResolver(identity, "premium", zap.NewNop())

		snap, err := r.Resolve(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, &Snapshot{UserID: "u1", IsPremium: false, FreeUsage: 0}, snap)
		identity.AssertExpectations(t)
	})

	t.Run("premium user without counter is not normalized", func(t *testing.T) {
		identity := new(MockIdentity)
		identity.On("VerifyCredential", ctx, "tok").Return("u2", nil)
		identity.On("HasEntitlement", ctx, "u2", "gold").Return(true, nil)
		identity.On("GetMetadata", ctx, "u2").Return(map[string]any{}, nil)
		r := NewResolver(identity, "gold", zap.NewNop())

		snap, err := r.Resolve(ctx, "tok")
		require.NoError(t, err)
		assert.True(t, snap.IsPremium)
		identity.AssertNotCalled(t, "SetMetadata", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("existing counter is read as is", func(t *testing.T) {
		identity := new(MockIdentity)
		identity.On("VerifyCredential", ctx, "tok").Return("u3", nil)
		identity.On("HasEntitlement", ctx, "u3", "premium").Return(false, nil)
		identity.On("GetMetadata", ctx, "u3").Return(map[string]any{"free_usage": float64(7), "theme": "dark"}, nil)
		r := NewResolver(identity, "", zap.NewNop())

		snap, err := r.Resolve(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, int64(7), snap.FreeUsage)
		identity.AssertNotCalled(t, "SetMetadata", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("provider failure is not an authentication error", func(t *testing.T) {
		identity := new(MockIdentity)
		identity.On("VerifyCredential", ctx, "tok").Return("u4", nil)
		identity.On("HasEntitlement", ctx, "u4", "premium").Return(false, errors.New("unavailable"))
		r := NewResolver(identity, "premium", zap.NewNop())

		_, err := r.Resolve(ctx, "tok")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrAuthentication)
	})
}

func TestUsageFromMetadata(t *testing.T) {
	tests := []struct {
		name    string
		meta    map[string]any
		want    int64
		found   bool
		wantErr bool
	}{
		{"missing", map[string]any{}, 0, false, false},
		{"nil value", map[string]any{"free_usage": nil}, 0, false, false},
		{"int64", map[string]any{"free_usage": int64(4)}, 4, true, false},
		{"int", map[string]any{"free_usage": 2}, 2, true, false},
		{"float64", map[string]any{"free_usage": float64(9)}, 9, true, false},
		{"json number", map[string]any{"free_usage": json.Number("3")}, 3, true, false},
		{"string", map[string]any{"free_usage": "5"}, 5, true, false},
		{"fraction", map[string]any{"free_usage": 1.5}, 0, true, true},
		{"negative", map[string]any{"free_usage": -1}, 0, true, true},
		{"garbage", map[string]any{"free_usage": "ten"}, 0, true, true},
		{"wrong type", map[string]any{"free_usage": []string{"1"}}, 0, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := usageFromMetadata(tt.meta)
			assert.Equal(t, tt.found, found)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidUsage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
