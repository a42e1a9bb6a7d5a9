package tracking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
)

func TestProductService_Create(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewProductService(env.repos, env.uow, env.log)
	ctx := context.Background()

	t.Run("creates a product", func(t *testing.T) {
		resp, err := svc.Create(ctx, CreateProductRequest{Name: "webshop", Description: "Web storefront"})
		require.NoError(t, err)
		assert.Equal(t, "webshop", resp.Name)
		assert.Equal(t, "Web storefront", resp.Description)
	})

	t.Run("rejects a duplicate name", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateProductRequest{Name: "webshop"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRODUCT_EXISTS", domainErr.Code)
	})
}

func TestProductService_Update(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewProductService(env.repos, env.uow, env.log)
	ctx := context.Background()

	product := env.createProduct(t, "webshop")
	env.createProduct(t, "mobile-app")

	t.Run("renames a product", func(t *testing.T) {
		resp, err := svc.Update(ctx, product.ID, UpdateProductRequest{Name: "storefront", Description: "renamed"})
		require.NoError(t, err)
		assert.Equal(t, "storefront", resp.Name)
	})

	t.Run("rejects a name another product holds", func(t *testing.T) {
		_, err := svc.Update(ctx, product.ID, UpdateProductRequest{Name: "mobile-app"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRODUCT_EXISTS", domainErr.Code)
	})

	t.Run("keeping the current name is not a collision", func(t *testing.T) {
		resp, err := svc.Update(ctx, product.ID, UpdateProductRequest{Name: "storefront", Description: "same name"})
		require.NoError(t, err)
		assert.Equal(t, "same name", resp.Description)
	})
}

func TestProductService_List(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewProductService(env.repos, env.uow, env.log)
	ctx := context.Background()

	env.createProduct(t, "alpha")
	env.createProduct(t, "beta")
	env.createProduct(t, "gamma")

	result, err := svc.List(ctx, shared.Filter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "alpha", result.Items[0].Name)
	assert.Equal(t, "beta", result.Items[1].Name)
}

func TestProductService_Delete(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewProductService(env.repos, env.uow, env.log)
	ctx := context.Background()

	product := env.createProduct(t, "webshop")
	page := env.createPage(t, product.ID, "Home")
	property := env.createProperty(t, product.ID, "page-name")
	value := env.createValue(t, product.ID, "homepage")
	env.associate(t, property.ID, value.ID)
	require.NoError(t, env.db.Create(tracking.NewCommonProperty(product.ID, property.ID, value.ID)).Error)
	event := env.createEvent(t, page, "page_view", `{"page-name":"homepage"}`)
	require.NoError(t, env.db.Create(tracking.NewEventHistory(event.ID, "name", "old", "page_view", "alex")).Error)

	survivor := env.createProduct(t, "mobile-app")
	survivorPage := env.createPage(t, survivor.ID, "Start")
	survivorEvent := env.createEvent(t, survivorPage, "app_open", "")

	require.NoError(t, svc.Delete(ctx, product.ID))

	t.Run("everything scoped to the product is gone", func(t *testing.T) {
		for _, model := range []any{
			&tracking.Page{}, &tracking.Event{}, &tracking.Property{},
			&tracking.SuggestedValue{}, &tracking.CommonProperty{},
		} {
			var count int64
			require.NoError(t, env.db.Model(model).Where("product_id = ?", product.ID).Count(&count).Error)
			assert.Equal(t, int64(0), count)
		}

		var count int64
		require.NoError(t, env.db.Model(&tracking.EventHistory{}).Where("event_id = ?", event.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)

		require.NoError(t, env.db.Model(&tracking.PropertyValue{}).Where("property_id = ?", property.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)

		_, err := env.repos.Products.FindByID(ctx, product.ID)
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("other products are untouched", func(t *testing.T) {
		_, err := env.repos.Products.FindByID(ctx, survivor.ID)
		require.NoError(t, err)
		assert.Equal(t, "{}", env.reloadEvent(t, survivorEvent.ID).Properties)
	})

	t.Run("deleting twice reports not found", func(t *testing.T) {
		assert.Equal(t, shared.ErrNotFound, svc.Delete(ctx, product.ID))
	})
}
