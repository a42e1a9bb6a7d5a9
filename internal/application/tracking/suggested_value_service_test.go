package tracking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
)

func TestSuggestedValueService_Create(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewSuggestedValueService(env.repos, env.uow, env.log)
	ctx := context.Background()
	product := env.createProduct(t, "webshop")

	t.Run("creates a value", func(t *testing.T) {
		resp, err := svc.Create(ctx, product.ID, CreateSuggestedValueRequest{Value: "homepage"})
		require.NoError(t, err)
		assert.Equal(t, "homepage", resp.Value)
		assert.False(t, resp.IsContextual)
	})

	t.Run("derives the contextual flag from the prefix", func(t *testing.T) {
		resp, err := svc.Create(ctx, product.ID, CreateSuggestedValueRequest{Value: "$page-name"})
		require.NoError(t, err)
		assert.True(t, resp.IsContextual)
	})

	t.Run("request can override the derived flag", func(t *testing.T) {
		contextual := true
		resp, err := svc.Create(ctx, product.ID, CreateSuggestedValueRequest{Value: "session-id", IsContextual: &contextual})
		require.NoError(t, err)
		assert.True(t, resp.IsContextual)
	})

	t.Run("rejects a duplicate text", func(t *testing.T) {
		_, err := svc.Create(ctx, product.ID, CreateSuggestedValueRequest{Value: "homepage"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALUE_EXISTS", domainErr.Code)
	})
}

func TestSuggestedValueService_SetContextual(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewSuggestedValueService(env.repos, env.uow, env.log)
	ctx := context.Background()

	product := env.createProduct(t, "webshop")
	value := env.createValue(t, product.ID, "homepage")
	require.False(t, value.IsContextual)

	resp, err := svc.SetContextual(ctx, product.ID, value.ID, true)
	require.NoError(t, err)
	assert.True(t, resp.IsContextual)

	t.Run("persists the override", func(t *testing.T) {
		var reloaded tracking.SuggestedValue
		require.NoError(t, env.db.First(&reloaded, "id = ?", value.ID).Error)
		assert.True(t, reloaded.IsContextual)
	})

	t.Run("rejects the wrong product", func(t *testing.T) {
		other := env.createProduct(t, "mobile-app")
		_, err := svc.SetContextual(ctx, other.ID, value.ID, false)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestSuggestedValueService_Delete(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewSuggestedValueService(env.repos, env.uow, env.log)
	ctx := context.Background()

	product := env.createProduct(t, "webshop")
	page := env.createPage(t, product.ID, "Home")
	property := env.createProperty(t, product.ID, "page-name")
	value := env.createValue(t, product.ID, "homepage")
	env.associate(t, property.ID, value.ID)
	require.NoError(t, env.db.Create(tracking.NewCommonProperty(product.ID, property.ID, value.ID)).Error)

	exact := env.createEvent(t, page, "page_view", `{"page-name":"homepage","count":3}`)
	substring := env.createEvent(t, page, "banner_click", `{"page-name":"homepage/banner"}`)
	untouched := env.createEvent(t, page, "search", `{"query":"shoes"}`)

	affected, err := svc.Delete(ctx, product.ID, value.ID, "alex")
	require.NoError(t, err)
	assert.Equal(t, 2, affected)

	t.Run("an exact match drops the whole pair", func(t *testing.T) {
		assert.Equal(t, `{"count":3}`, env.reloadEvent(t, exact.ID).Properties)
	})

	t.Run("a substring match removes the occurrences", func(t *testing.T) {
		assert.Equal(t, `{"page-name":"/banner"}`, env.reloadEvent(t, substring.ID).Properties)
	})

	t.Run("unrelated events stay untouched", func(t *testing.T) {
		assert.Equal(t, `{"query":"shoes"}`, env.reloadEvent(t, untouched.ID).Properties)
		assert.Empty(t, env.histories(t, untouched.ID))
	})

	t.Run("records an audit row per stripped event", func(t *testing.T) {
		rows := env.histories(t, exact.ID)
		require.Len(t, rows, 1)
		assert.Equal(t, `{"page-name":"homepage","count":3}`, rows[0].OldValue)
		assert.Equal(t, `{"count":3}`, rows[0].NewValue)
		assert.Equal(t, "alex", rows[0].Author)
	})

	t.Run("removes the row, its associations and defaults", func(t *testing.T) {
		var count int64
		require.NoError(t, env.db.Model(&tracking.SuggestedValue{}).Where("id = ?", value.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)

		require.NoError(t, env.db.Model(&tracking.PropertyValue{}).Where("suggested_value_id = ?", value.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)

		require.NoError(t, env.db.Model(&tracking.CommonProperty{}).Where("suggested_value_id = ?", value.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("the property survives", func(t *testing.T) {
		var count int64
		require.NoError(t, env.db.Model(&tracking.Property{}).Where("id = ?", property.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}
