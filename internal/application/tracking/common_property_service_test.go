package tracking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
)

func TestCommonPropertyService_Set(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewCommonPropertyService(env.repos, env.log)
	ctx := context.Background()

	product := env.createProduct(t, "webshop")
	property := env.createProperty(t, product.ID, "currency")
	eur := env.createValue(t, product.ID, "EUR")
	usd := env.createValue(t, product.ID, "USD")

	t.Run("creates a default", func(t *testing.T) {
		resp, err := svc.Set(ctx, product.ID, property.ID, eur.ID)
		require.NoError(t, err)
		assert.Equal(t, property.ID, resp.PropertyID)
		assert.Equal(t, eur.ID, resp.SuggestedValueID)
	})

	t.Run("setting again repoints the same row", func(t *testing.T) {
		resp, err := svc.Set(ctx, product.ID, property.ID, usd.ID)
		require.NoError(t, err)
		assert.Equal(t, usd.ID, resp.SuggestedValueID)

		var count int64
		require.NoError(t, env.db.Model(&tracking.CommonProperty{}).Where("property_id = ?", property.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rejects a value from another product", func(t *testing.T) {
		other := env.createProduct(t, "mobile-app")
		foreign := env.createValue(t, other.ID, "GBP")

		_, err := svc.Set(ctx, product.ID, property.ID, foreign.ID)
		assert.Equal(t, shared.ErrCrossProduct, err)
	})

	t.Run("rejects a property from another product", func(t *testing.T) {
		other := env.createProduct(t, "desktop-app")
		_, err := svc.Set(ctx, other.ID, property.ID, eur.ID)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestCommonPropertyService_Delete(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewCommonPropertyService(env.repos, env.log)
	ctx := context.Background()

	product := env.createProduct(t, "webshop")
	page := env.createPage(t, product.ID, "Home")
	property := env.createProperty(t, product.ID, "currency")
	eur := env.createValue(t, product.ID, "EUR")
	common := tracking.NewCommonProperty(product.ID, property.ID, eur.ID)
	require.NoError(t, env.db.Create(common).Error)

	event := env.createEvent(t, page, "purchase", `{"currency":"EUR"}`)

	require.NoError(t, svc.Delete(ctx, product.ID, common.ID))

	t.Run("payloads keep their data", func(t *testing.T) {
		assert.Equal(t, `{"currency":"EUR"}`, env.reloadEvent(t, event.ID).Properties)
	})

	t.Run("deleting twice reports not found", func(t *testing.T) {
		assert.Equal(t, shared.ErrNotFound, svc.Delete(ctx, product.ID, common.ID))
	})
}
