package tracking

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
)

func newEventService(env *testEnv) *EventService {
	discovery := NewDiscoveryService(env.uow, env.log)
	return NewEventService(env.repos, env.uow, discovery, env.log)
}

func TestEventService_Create(t *testing.T) {
	env := setupTestEnv(t)
	svc := newEventService(env)
	ctx := context.Background()

	product := env.createProduct(t, "webshop")
	page := env.createPage(t, product.ID, "Home")

	t.Run("creates the event and registers its payload", func(t *testing.T) {
		resp, err := svc.Create(ctx, product.ID, page.ID, CreateEventRequest{
			Name:       "page_view",
			Properties: json.RawMessage(`{"page-name":"homepage","count":3}`),
			Author:     "alex",
		})
		require.NoError(t, err)
		assert.Equal(t, "page_view", resp.Name)
		assert.Equal(t, "to_implement", resp.Status)
		assert.JSONEq(t, `{"page-name":"homepage","count":3}`, string(resp.Properties))

		// The payload's pairs landed in the catalog atomically.
		var properties int64
		require.NoError(t, env.db.Model(&tracking.Property{}).Where("product_id = ?", product.ID).Count(&properties).Error)
		assert.Equal(t, int64(2), properties)
	})

	t.Run("rejects a malformed payload without side effects", func(t *testing.T) {
		_, err := svc.Create(ctx, product.ID, page.ID, CreateEventRequest{
			Name:       "broken",
			Properties: json.RawMessage(`[1,2,3]`),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PAYLOAD", domainErr.Code)

		var count int64
		require.NoError(t, env.db.Model(&tracking.Event{}).Where("name = ?", "broken").Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("rejects a page of another product", func(t *testing.T) {
		other := env.createProduct(t, "mobile-app")
		_, err := svc.Create(ctx, other.ID, page.ID, CreateEventRequest{Name: "page_view"})
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("an empty payload is allowed", func(t *testing.T) {
		resp, err := svc.Create(ctx, product.ID, page.ID, CreateEventRequest{Name: "bare"})
		require.NoError(t, err)
		assert.Equal(t, "{}", string(resp.Properties))
	})
}

func TestEventService_Update(t *testing.T) {
	env := setupTestEnv(t)
	svc := newEventService(env)
	ctx := context.Background()

	product := env.createProduct(t, "webshop")
	page := env.createPage(t, product.ID, "Home")

	t.Run("records an audit row per changed field", func(t *testing.T) {
		event := env.createEvent(t, page, "page_view", `{"page-name":"homepage"}`)

		name := "screen_view"
		status := "validated"
		_, err := svc.Update(ctx, product.ID, event.ID, UpdateEventRequest{
			Name:   &name,
			Status: &status,
			Author: "alex",
		})
		require.NoError(t, err)

		rows := env.histories(t, event.ID)
		require.Len(t, rows, 2)
		fields := []string{rows[0].Field, rows[1].Field}
		assert.ElementsMatch(t, []string{"name", "status"}, fields)
		for _, row := range rows {
			assert.Equal(t, "alex", row.Author)
		}

		reloaded := env.reloadEvent(t, event.ID)
		assert.Equal(t, "screen_view", reloaded.Name)
		assert.Equal(t, tracking.EventStatusValidated, reloaded.Status)
	})

	t.Run("unchanged fields produce no audit rows", func(t *testing.T) {
		event := env.createEvent(t, page, "click", `{}`)

		same := "click"
		_, err := svc.Update(ctx, product.ID, event.ID, UpdateEventRequest{Name: &same, Author: "alex"})
		require.NoError(t, err)
		assert.Empty(t, env.histories(t, event.ID))
	})

	t.Run("a payload change runs discovery and records history", func(t *testing.T) {
		event := env.createEvent(t, page, "purchase", `{}`)

		_, err := svc.Update(ctx, product.ID, event.ID, UpdateEventRequest{
			Properties: json.RawMessage(`{"currency":"EUR"}`),
			Author:     "alex",
		})
		require.NoError(t, err)

		rows := env.histories(t, event.ID)
		require.Len(t, rows, 1)
		assert.Equal(t, "properties", rows[0].Field)
		assert.Equal(t, "{}", rows[0].OldValue)
		assert.Equal(t, `{"currency":"EUR"}`, rows[0].NewValue)

		var count int64
		require.NoError(t, env.db.Model(&tracking.Property{}).Where("product_id = ? AND name = ?", product.ID, "currency").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		event := env.createEvent(t, page, "scroll", `{}`)

		bad := "done"
		_, err := svc.Update(ctx, product.ID, event.ID, UpdateEventRequest{Status: &bad, Author: "alex"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATUS", domainErr.Code)
	})
}

func TestEventService_Delete(t *testing.T) {
	env := setupTestEnv(t)
	svc := newEventService(env)
	ctx := context.Background()

	product := env.createProduct(t, "webshop")
	page := env.createPage(t, product.ID, "Home")
	event := env.createEvent(t, page, "page_view", `{"page-name":"homepage"}`)
	require.NoError(t, env.db.Create(tracking.NewEventHistory(event.ID, "name", "a", "b", "alex")).Error)

	require.NoError(t, svc.Delete(ctx, product.ID, event.ID))

	var events, histories int64
	require.NoError(t, env.db.Model(&tracking.Event{}).Where("id = ?", event.ID).Count(&events).Error)
	require.NoError(t, env.db.Model(&tracking.EventHistory{}).Where("event_id = ?", event.ID).Count(&histories).Error)
	assert.Equal(t, int64(0), events)
	assert.Equal(t, int64(0), histories)
}
