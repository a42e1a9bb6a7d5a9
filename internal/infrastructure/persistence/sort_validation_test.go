package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"DESC returns DESC", "DESC", "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE events;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		defaultField string
		expected     string
	}{
		{"empty string returns default", "", "created_at", "created_at"},
		{"valid field returns field", "name", "created_at", "name"},
		{"unknown field returns default", "password", "created_at", "created_at"},
		{"subquery returns default", "(SELECT 1)", "created_at", "created_at"},
		{"stacked statement returns default", "name; DROP TABLE products;--", "created_at", "created_at"},
		{"whitespace only returns default", "   ", "created_at", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, ProductSortFields, tt.defaultField))
		})
	}
}

func TestApplyFilter_OrderByWhitelist(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	for _, name := range []string{"beta", "alpha", "gamma"} {
		product, err := tracking.NewProduct(name, "")
		require.NoError(t, err)
		require.NoError(t, db.Create(product).Error)
	}

	t.Run("whitelisted field orders the listing", func(t *testing.T) {
		products, err := repo.FindAll(ctx, shared.Filter{OrderBy: "name", OrderDir: "desc"})
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "gamma", products[0].Name)
		assert.Equal(t, "alpha", products[2].Name)
	})

	t.Run("hostile order_by falls back to the default order", func(t *testing.T) {
		products, err := repo.FindAll(ctx, shared.Filter{
			OrderBy:  "(SELECT name FROM products LIMIT 1); DROP TABLE products;--",
			OrderDir: "asc",
		})
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "alpha", products[0].Name)

		// the table survived the attempt
		var count int64
		require.NoError(t, db.Model(&tracking.Product{}).Count(&count).Error)
		assert.Equal(t, int64(3), count)
	})

	t.Run("unknown column falls back to the default order", func(t *testing.T) {
		products, err := repo.FindAll(ctx, shared.Filter{OrderBy: "secret_column"})
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "alpha", products[0].Name)
	})
}
