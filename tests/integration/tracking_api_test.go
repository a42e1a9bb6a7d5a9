package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	trackingapp "github.com/trackplan/backend/internal/application/tracking"
	"github.com/trackplan/backend/internal/infrastructure/persistence"
	"github.com/trackplan/backend/internal/interfaces/http/dto"
	"github.com/trackplan/backend/internal/interfaces/http/handler"
	"github.com/trackplan/backend/internal/interfaces/http/middleware"
	"github.com/trackplan/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// TestServer wraps the test database and HTTP engine for API testing
type TestServer struct {
	DB     *TestDB
	Engine *gin.Engine
}

// NewTestServer wires the full stack the way cmd/server does, minus the
// network listener.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	testDB := NewTestDB(t)
	log := zap.NewNop()

	repos := persistence.NewRepositories(testDB.DB)
	uow := persistence.NewGormUnitOfWork(testDB.DB)

	discoveryService := trackingapp.NewDiscoveryService(uow, log)
	productService := trackingapp.NewProductService(repos, uow, log)
	pageService := trackingapp.NewPageService(repos, uow, log)
	eventService := trackingapp.NewEventService(repos, uow, discoveryService, log)
	propertyService := trackingapp.NewPropertyService(repos, uow, log)
	suggestedValueService := trackingapp.NewSuggestedValueService(repos, uow, log)
	commonPropertyService := trackingapp.NewCommonPropertyService(repos, log)
	renameService := trackingapp.NewRenameService(uow, log)
	mergeService := trackingapp.NewMergeService(uow, log)
	impactService := trackingapp.NewImpactService(repos, log)
	conflictService := trackingapp.NewConflictService(repos, log)

	productHandler := handler.NewProductHandler(productService)
	pageHandler := handler.NewPageHandler(pageService)
	eventHandler := handler.NewEventHandler(eventService, conflictService)
	propertyHandler := handler.NewPropertyHandler(propertyService, renameService, impactService)
	suggestedValueHandler := handler.NewSuggestedValueHandler(suggestedValueService, renameService, mergeService, impactService)
	commonPropertyHandler := handler.NewCommonPropertyHandler(commonPropertyService)

	engine := gin.New()
	engine.Use(middleware.RequestID())

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	trackingRoutes := router.NewDomainGroup("tracking", "")
	trackingRoutes.POST("/products", productHandler.Create)
	trackingRoutes.GET("/products", productHandler.List)
	trackingRoutes.GET("/products/:id", productHandler.GetByID)
	trackingRoutes.PUT("/products/:id", productHandler.Update)
	trackingRoutes.DELETE("/products/:id", productHandler.Delete)
	trackingRoutes.POST("/products/:id/pages", pageHandler.Create)
	trackingRoutes.GET("/products/:id/pages", pageHandler.List)
	trackingRoutes.POST("/products/:id/pages/:pageId/events", eventHandler.Create)
	trackingRoutes.GET("/products/:id/events/:eventId", eventHandler.GetByID)
	trackingRoutes.GET("/products/:id/events/:eventId/history", eventHandler.History)
	trackingRoutes.GET("/products/:id/events/:eventId/conflicts", eventHandler.Conflicts)
	trackingRoutes.GET("/products/:id/properties", propertyHandler.List)
	trackingRoutes.POST("/products/:id/properties/:propertyId/rename", propertyHandler.Rename)
	trackingRoutes.GET("/products/:id/suggested-values", suggestedValueHandler.List)
	trackingRoutes.POST("/products/:id/suggested-values/:valueId/merge", suggestedValueHandler.Merge)
	trackingRoutes.PUT("/products/:id/common-properties", commonPropertyHandler.Set)

	r.Register(trackingRoutes)
	r.Setup()

	return &TestServer{DB: testDB, Engine: engine}
}

// Request makes an HTTP request against the in-process engine
func (ts *TestServer) Request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Author", "integration")

	rec := httptest.NewRecorder()
	ts.Engine.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals the response envelope and its data field
func decode(t *testing.T, rec *httptest.ResponseRecorder, target any) dto.Response {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *dto.ErrorInfo  `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	if target != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, target))
	}
	return dto.Response{Success: envelope.Success, Error: envelope.Error}
}

func TestProductAPI_Lifecycle(t *testing.T) {
	ts := NewTestServer(t)

	var product trackingapp.ProductResponse
	rec := ts.Request(t, http.MethodPost, "/products", gin.H{"name": "webshop", "description": "Web storefront"})
	require.Equal(t, http.StatusCreated, rec.Code)
	decode(t, rec, &product)
	assert.Equal(t, "webshop", product.Name)

	t.Run("duplicate name conflicts", func(t *testing.T) {
		rec := ts.Request(t, http.MethodPost, "/products", gin.H{"name": "webshop"})
		require.Equal(t, http.StatusConflict, rec.Code)
		resp := decode(t, rec, nil)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeAlreadyExists, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
	})

	t.Run("update and fetch", func(t *testing.T) {
		rec := ts.Request(t, http.MethodPut, fmt.Sprintf("/products/%s", product.ID), gin.H{"name": "storefront"})
		require.Equal(t, http.StatusOK, rec.Code)

		var fetched trackingapp.ProductResponse
		rec = ts.Request(t, http.MethodGet, fmt.Sprintf("/products/%s", product.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		decode(t, rec, &fetched)
		assert.Equal(t, "storefront", fetched.Name)
	})

	t.Run("delete then fetch is 404", func(t *testing.T) {
		rec := ts.Request(t, http.MethodDelete, fmt.Sprintf("/products/%s", product.ID), nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = ts.Request(t, http.MethodGet, fmt.Sprintf("/products/%s", product.ID), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		rec := ts.Request(t, http.MethodGet, "/products/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestEventAPI_DiscoveryAndRename(t *testing.T) {
	ts := NewTestServer(t)

	var product trackingapp.ProductResponse
	decode(t, ts.Request(t, http.MethodPost, "/products", gin.H{"name": "webshop"}), &product)

	var page trackingapp.PageResponse
	rec := ts.Request(t, http.MethodPost, fmt.Sprintf("/products/%s/pages", product.ID), gin.H{"name": "Home"})
	require.Equal(t, http.StatusCreated, rec.Code)
	decode(t, rec, &page)

	var event trackingapp.EventResponse
	rec = ts.Request(t, http.MethodPost, fmt.Sprintf("/products/%s/pages/%s/events", product.ID, page.ID), gin.H{
		"name":       "page_view",
		"properties": gin.H{"page-name": "homepage", "count": 3},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	decode(t, rec, &event)
	assert.Equal(t, "to_implement", event.Status)

	t.Run("payload keys are registered in the catalog", func(t *testing.T) {
		var properties []trackingapp.PropertyResponse
		rec := ts.Request(t, http.MethodGet, fmt.Sprintf("/products/%s/properties", product.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		decode(t, rec, &properties)
		require.Len(t, properties, 2)

		names := []string{properties[0].Name, properties[1].Name}
		assert.ElementsMatch(t, []string{"page-name", "count"}, names)
	})

	t.Run("payload values are registered as suggested values", func(t *testing.T) {
		var values []trackingapp.SuggestedValueResponse
		rec := ts.Request(t, http.MethodGet, fmt.Sprintf("/products/%s/suggested-values", product.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		decode(t, rec, &values)

		texts := make([]string, 0, len(values))
		for _, v := range values {
			texts = append(texts, v.Value)
		}
		assert.ElementsMatch(t, []string{"homepage", "3"}, texts)
	})

	t.Run("renaming a property rewrites the payload", func(t *testing.T) {
		var properties []trackingapp.PropertyResponse
		decode(t, ts.Request(t, http.MethodGet, fmt.Sprintf("/products/%s/properties", product.ID), nil), &properties)
		var pageNameID string
		for _, p := range properties {
			if p.Name == "page-name" {
				pageNameID = p.ID.String()
			}
		}
		require.NotEmpty(t, pageNameID)

		rec := ts.Request(t, http.MethodPost,
			fmt.Sprintf("/products/%s/properties/%s/rename", product.ID, pageNameID),
			gin.H{"name": "screen-name"})
		require.Equal(t, http.StatusOK, rec.Code)

		var renamed handler.RenamePropertyResponse
		decode(t, rec, &renamed)
		assert.Equal(t, 1, renamed.AffectedEvents)

		var fetched trackingapp.EventResponse
		decode(t, ts.Request(t, http.MethodGet, fmt.Sprintf("/products/%s/events/%s", product.ID, event.ID), nil), &fetched)
		assert.JSONEq(t, `{"screen-name":"homepage","count":3}`, string(fetched.Properties))
	})

	t.Run("the rename is audited", func(t *testing.T) {
		var history []trackingapp.EventHistoryResponse
		rec := ts.Request(t, http.MethodGet, fmt.Sprintf("/products/%s/events/%s/history", product.ID, event.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		decode(t, rec, &history)
		require.Len(t, history, 1)
		assert.Equal(t, "integration", history[0].Author)
	})

	t.Run("conflicts surface drift from the configured default", func(t *testing.T) {
		var values []trackingapp.SuggestedValueResponse
		decode(t, ts.Request(t, http.MethodGet, fmt.Sprintf("/products/%s/suggested-values", product.ID), nil), &values)
		var properties []trackingapp.PropertyResponse
		decode(t, ts.Request(t, http.MethodGet, fmt.Sprintf("/products/%s/properties", product.ID), nil), &properties)

		var countID, threeID string
		for _, p := range properties {
			if p.Name == "count" {
				countID = p.ID.String()
			}
		}
		for _, v := range values {
			if v.Value == "3" {
				threeID = v.ID.String()
			}
		}
		require.NotEmpty(t, countID)
		require.NotEmpty(t, threeID)

		rec := ts.Request(t, http.MethodPut, fmt.Sprintf("/products/%s/common-properties", product.ID), gin.H{
			"property_id":        countID,
			"suggested_value_id": threeID,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		// payload carries count=3, matching the default: no conflicts
		var conflicts []trackingapp.PayloadConflict
		rec = ts.Request(t, http.MethodGet, fmt.Sprintf("/products/%s/events/%s/conflicts", product.ID, event.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		decode(t, rec, &conflicts)
		assert.Empty(t, conflicts)
	})
}

func TestSuggestedValueAPI_Merge(t *testing.T) {
	ts := NewTestServer(t)

	var product trackingapp.ProductResponse
	decode(t, ts.Request(t, http.MethodPost, "/products", gin.H{"name": "webshop"}), &product)
	var page trackingapp.PageResponse
	decode(t, ts.Request(t, http.MethodPost, fmt.Sprintf("/products/%s/pages", product.ID), gin.H{"name": "Home"}), &page)

	decode(t, ts.Request(t, http.MethodPost, fmt.Sprintf("/products/%s/pages/%s/events", product.ID, page.ID), gin.H{
		"name": "view_a", "properties": gin.H{"page-name": "home page"},
	}), nil)
	decode(t, ts.Request(t, http.MethodPost, fmt.Sprintf("/products/%s/pages/%s/events", product.ID, page.ID), gin.H{
		"name": "view_b", "properties": gin.H{"page-name": "homepage"},
	}), nil)

	var values []trackingapp.SuggestedValueResponse
	decode(t, ts.Request(t, http.MethodGet, fmt.Sprintf("/products/%s/suggested-values", product.ID), nil), &values)
	var sourceID, targetID string
	for _, v := range values {
		switch v.Value {
		case "home page":
			sourceID = v.ID.String()
		case "homepage":
			targetID = v.ID.String()
		}
	}
	require.NotEmpty(t, sourceID)
	require.NotEmpty(t, targetID)

	var result trackingapp.MergeResult
	rec := ts.Request(t, http.MethodPost,
		fmt.Sprintf("/products/%s/suggested-values/%s/merge", product.ID, sourceID),
		gin.H{"target_id": targetID})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &result)
	assert.Equal(t, 1, result.AffectedEvents)

	t.Run("the source value is gone", func(t *testing.T) {
		var remaining []trackingapp.SuggestedValueResponse
		decode(t, ts.Request(t, http.MethodGet, fmt.Sprintf("/products/%s/suggested-values", product.ID), nil), &remaining)
		for _, v := range remaining {
			assert.NotEqual(t, "home page", v.Value)
		}
	})

	t.Run("self merge is rejected", func(t *testing.T) {
		rec := ts.Request(t, http.MethodPost,
			fmt.Sprintf("/products/%s/suggested-values/%s/merge", product.ID, targetID),
			gin.H{"target_id": targetID})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode(t, rec, nil)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
	})
}
