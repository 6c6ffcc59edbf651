package postgres

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountAdapter_PlanAndMetadata(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountAdapter(newTestDB(t))

	acc, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, acc)

	require.NoError(t, repo.MergeMetadata(ctx, "u1", map[string]any{"theme": "dark"}))
	require.NoError(t, repo.MergeMetadata(ctx, "u1", map[string]any{"free_usage": int64(0), "lang": "en"}))

	acc, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "free", acc.Plan)
	require.NotNil(t, acc.FreeUsage)
	assert.Equal(t, int64(0), *acc.FreeUsage)
	assert.Equal(t, "dark", acc.Metadata["theme"])
	assert.Equal(t, "en", acc.Metadata["lang"])
	assert.NotContains(t, acc.Metadata, "free_usage")

	require.NoError(t, repo.SetPlan(ctx, "u1", "premium"))
	acc, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "premium", acc.Plan)
	assert.Equal(t, "dark", acc.Metadata["theme"])

	assert.Error(t, repo.MergeMetadata(ctx, "u1", map[string]any{"free_usage": "lots"}))
}

func TestAccountAdapter_IncrementUsage(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountAdapter(newTestDB(t))

	usage, applied, err := repo.IncrementUsage(ctx, "u1", 1, 3)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, int64(1), usage)

	usage, applied, err = repo.IncrementUsage(ctx, "u1", 2, 3)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, int64(3), usage)

	usage, applied, err = repo.IncrementUsage(ctx, "u1", 1, 3)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, int64(3), usage)
}

func TestAccountAdapter_ConcurrentIncrementStopsAtCeiling(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountAdapter(newTestDB(t))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := repo.IncrementUsage(ctx, "u1", 1, 10)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, applied)
	acc, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), *acc.FreeUsage)
}
