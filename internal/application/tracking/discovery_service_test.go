package tracking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackplan/backend/internal/domain/tracking"
)

func TestDiscoveryService_Discover(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewDiscoveryService(env.uow, env.log)
	ctx := context.Background()
	product := env.createProduct(t, "webshop")

	payload, err := tracking.DecodePayload(`{"page-name":"homepage","item-count":3,"logged-in":true,"source":"$referrer"}`)
	require.NoError(t, err)

	require.NoError(t, svc.Discover(ctx, product.ID, payload))

	t.Run("registers every key as a property with an inferred type", func(t *testing.T) {
		var properties []tracking.Property
		require.NoError(t, env.db.Where("product_id = ?", product.ID).Find(&properties).Error)
		require.Len(t, properties, 4)

		byName := make(map[string]tracking.Property, len(properties))
		for _, p := range properties {
			byName[p.Name] = p
		}
		assert.Equal(t, tracking.PropertyTypeString, byName["page-name"].Type)
		assert.Equal(t, tracking.PropertyTypeNumber, byName["item-count"].Type)
		assert.Equal(t, tracking.PropertyTypeBoolean, byName["logged-in"].Type)
		assert.Equal(t, tracking.PropertyTypeString, byName["source"].Type)
	})

	t.Run("registers every value in its string form", func(t *testing.T) {
		var values []tracking.SuggestedValue
		require.NoError(t, env.db.Where("product_id = ?", product.ID).Find(&values).Error)
		require.Len(t, values, 4)

		byText := make(map[string]tracking.SuggestedValue, len(values))
		for _, v := range values {
			byText[v.Value] = v
		}
		assert.Contains(t, byText, "homepage")
		assert.Contains(t, byText, "3")
		assert.Contains(t, byText, "true")
		assert.True(t, byText["$referrer"].IsContextual)
		assert.False(t, byText["homepage"].IsContextual)
	})

	t.Run("associates each key with its value", func(t *testing.T) {
		var count int64
		require.NoError(t, env.db.Model(&tracking.PropertyValue{}).Count(&count).Error)
		assert.Equal(t, int64(4), count)
	})

	t.Run("re-discovering the same payload is a no-op", func(t *testing.T) {
		require.NoError(t, svc.Discover(ctx, product.ID, payload))

		var properties, values, associations int64
		require.NoError(t, env.db.Model(&tracking.Property{}).Count(&properties).Error)
		require.NoError(t, env.db.Model(&tracking.SuggestedValue{}).Count(&values).Error)
		require.NoError(t, env.db.Model(&tracking.PropertyValue{}).Count(&associations).Error)
		assert.Equal(t, int64(4), properties)
		assert.Equal(t, int64(4), values)
		assert.Equal(t, int64(4), associations)
	})
}

func TestDiscoveryService_Discover_EmptyValue(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewDiscoveryService(env.uow, env.log)
	ctx := context.Background()
	product := env.createProduct(t, "webshop")

	payload, err := tracking.DecodePayload(`{"page-name":"","source":"direct"}`)
	require.NoError(t, err)

	// An empty value cannot become a catalog row, but the key itself and
	// the other pairs are still registered.
	require.NoError(t, svc.Discover(ctx, product.ID, payload))

	var properties []tracking.Property
	require.NoError(t, env.db.Where("product_id = ?", product.ID).Find(&properties).Error)
	assert.Len(t, properties, 2)

	var values []tracking.SuggestedValue
	require.NoError(t, env.db.Where("product_id = ?", product.ID).Find(&values).Error)
	require.Len(t, values, 1)
	assert.Equal(t, "direct", values[0].Value)
}

func TestDiscoveryService_Discover_ExistingRows(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewDiscoveryService(env.uow, env.log)
	ctx := context.Background()
	product := env.createProduct(t, "webshop")

	existing := env.createProperty(t, product.ID, "page-name")

	payload, err := tracking.DecodePayload(`{"page-name":"homepage"}`)
	require.NoError(t, err)
	require.NoError(t, svc.Discover(ctx, product.ID, payload))

	var properties []tracking.Property
	require.NoError(t, env.db.Where("product_id = ?", product.ID).Find(&properties).Error)
	require.Len(t, properties, 1)
	assert.Equal(t, existing.ID, properties[0].ID)

	var association tracking.PropertyValue
	require.NoError(t, env.db.First(&association, "property_id = ?", existing.ID).Error)
}
