package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
)

func TestSuggestedValueRepository_FindOrCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSuggestedValueRepository(db)
	ctx := context.Background()
	product := mustCreateProduct(t, db, "webshop")

	t.Run("creates a missing value", func(t *testing.T) {
		value, err := tracking.NewSuggestedValue(product.ID, "homepage")
		require.NoError(t, err)

		created, err := repo.FindOrCreate(ctx, value)
		require.NoError(t, err)
		assert.Equal(t, value.ID, created.ID)
		assert.False(t, created.IsContextual)
	})

	t.Run("returns the existing row for a duplicate value", func(t *testing.T) {
		duplicate, err := tracking.NewSuggestedValue(product.ID, "homepage")
		require.NoError(t, err)

		existing, err := repo.FindOrCreate(ctx, duplicate)
		require.NoError(t, err)
		assert.NotEqual(t, duplicate.ID, existing.ID)

		var count int64
		require.NoError(t, db.Model(&tracking.SuggestedValue{}).Where("product_id = ?", product.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("derives the contextual flag from the prefix", func(t *testing.T) {
		value, err := tracking.NewSuggestedValue(product.ID, "$page-name")
		require.NoError(t, err)

		created, err := repo.FindOrCreate(ctx, value)
		require.NoError(t, err)
		assert.True(t, created.IsContextual)
	})
}

func TestSuggestedValueRepository_FindByValue(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSuggestedValueRepository(db)
	ctx := context.Background()
	product := mustCreateProduct(t, db, "webshop")

	value, err := tracking.NewSuggestedValue(product.ID, "checkout")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, value))

	t.Run("matches exact text", func(t *testing.T) {
		found, err := repo.FindByValue(ctx, product.ID, "checkout")
		require.NoError(t, err)
		assert.Equal(t, value.ID, found.ID)
	})

	t.Run("misses a different product", func(t *testing.T) {
		other := mustCreateProduct(t, db, "mobile-app")
		_, err := repo.FindByValue(ctx, other.ID, "checkout")
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestSuggestedValueRepository_DeleteForProduct(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSuggestedValueRepository(db)
	ctx := context.Background()
	product := mustCreateProduct(t, db, "webshop")
	other := mustCreateProduct(t, db, "mobile-app")

	for _, text := range []string{"a", "b"} {
		value, err := tracking.NewSuggestedValue(product.ID, text)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, value))
	}
	kept, err := tracking.NewSuggestedValue(other.ID, "a")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, kept))

	require.NoError(t, repo.DeleteForProduct(ctx, product.ID))

	values, err := repo.FindAllForProduct(ctx, product.ID, shared.Filter{})
	require.NoError(t, err)
	assert.Empty(t, values)

	remaining, err := repo.FindAllForProduct(ctx, other.ID, shared.Filter{})
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
