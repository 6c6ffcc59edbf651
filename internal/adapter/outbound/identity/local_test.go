package identity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quickai/server/internal/adapter/outbound/postgres"
	"github.com/quickai/server/internal/model"
	"github.com/quickai/server/internal/port/outbound"
)

func newLocalProvider(t *testing.T) *LocalProvider {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.All()...))

	return NewLocalProvider(LocalConfig{Secret: "test-secret", Issuer: "quickai"}, postgres.NewAccountAdapter(db))
}

func TestLocalProvider_VerifyCredential(t *testing.T) {
	ctx := context.Background()
	p := newLocalProvider(t)

	token, err := p.IssueToken("u1", time.Hour)
	require.NoError(t, err)

	userID, err := p.VerifyCredential(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	t.Run("expired", func(t *testing.T) {
		expired, err := p.IssueToken("u1", -time.Minute)
		require.NoError(t, err)
		_, err = p.VerifyCredential(ctx, expired)
		assert.ErrorIs(t, err, outbound.ErrInvalidCredential)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewLocalProvider(LocalConfig{Secret: "other", Issuer: "quickai"}, nil)
		forged, err := other.IssueToken("u1", time.Hour)
		require.NoError(t, err)
		_, err = p.VerifyCredential(ctx, forged)
		assert.ErrorIs(t, err, outbound.ErrInvalidCredential)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewLocalProvider(LocalConfig{Secret: "test-secret", Issuer: "elsewhere"}, nil)
		foreign, err := other.IssueToken("u1", time.Hour)
		require.NoError(t, err)
		_, err = p.VerifyCredential(ctx, foreign)
		assert.ErrorIs(t, err, outbound.ErrInvalidCredential)
	})

	t.Run("unsigned", func(t *testing.T) {
		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = p.VerifyCredential(ctx, none)
		assert.ErrorIs(t, err, outbound.ErrInvalidCredential)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := p.VerifyCredential(ctx, "not-a-token")
		assert.ErrorIs(t, err, outbound.ErrInvalidCredential)
	})
}

func TestLocalProvider_EntitlementAndMetadata(t *testing.T) {
	ctx := context.Background()
	p := newLocalProvider(t)

	premium, err := p.HasEntitlement(ctx, "u1", "premium")
	require.NoError(t, err)
	assert.False(t, premium)

	meta, err := p.GetMetadata(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, meta)

	require.NoError(t, p.SetMetadata(ctx, "u1", map[string]any{"free_usage": int64(0)}))
	meta, err = p.GetMetadata(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), meta["free_usage"])

	usage, applied, err := p.IncrementUsage(ctx, "u1", 1, 10)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, int64(1), usage)

	require.NoError(t, p.SetPlan(ctx, "u1", "premium"))
	premium, err = p.HasEntitlement(ctx, "u1", "premium")
	require.NoError(t, err)
	assert.True(t, premium)

	_, _, err = p.IncrementUsage(ctx, "u1", 0, 10)
	assert.Error(t, err)
}
