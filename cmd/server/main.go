package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	trackingapp "github.com/trackplan/backend/internal/application/tracking"
	"github.com/trackplan/backend/internal/infrastructure/config"
	"github.com/trackplan/backend/internal/infrastructure/logger"
	"github.com/trackplan/backend/internal/infrastructure/persistence"
	"github.com/trackplan/backend/internal/infrastructure/telemetry"
	"github.com/trackplan/backend/internal/interfaces/http/handler"
	"github.com/trackplan/backend/internal/interfaces/http/middleware"
	"github.com/trackplan/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			Trackplan Backend API
//	@version		1.0
//	@description	Tracking plan documentation backend with a synchronized property and value catalog

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting trackplan backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize OpenTelemetry (no-op provider when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register database query tracing (no-op unless telemetry and
	// db_trace_enabled are both on)
	dbTracingCfg := telemetry.DefaultDBTracingConfig()
	dbTracingCfg.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing := telemetry.NewDBTracingPlugin(dbTracingCfg, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Initialize repositories and the transactional unit of work
	repos := persistence.NewRepositories(db.DB)
	uow := persistence.NewGormUnitOfWork(db.DB)

	// Initialize application services
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

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	pageHandler := handler.NewPageHandler(pageService)
	eventHandler := handler.NewEventHandler(eventService, conflictService)
	propertyHandler := handler.NewPropertyHandler(propertyService, renameService, impactService)
	suggestedValueHandler := handler.NewSuggestedValueHandler(suggestedValueService, renameService, mergeService, impactService)
	commonPropertyHandler := handler.NewCommonPropertyHandler(commonPropertyService)

	// Set gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies configuration", zap.Error(err))
		}
	}

	// Middleware order matters:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - OpenTelemetry spans (pass-through when disabled)
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingAttributeInjector())
	}

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	trackingRoutes := router.NewDomainGroup("tracking", "")

	// Product routes
	trackingRoutes.POST("/products", productHandler.Create)
	trackingRoutes.GET("/products", productHandler.List)
	trackingRoutes.GET("/products/:id", productHandler.GetByID)
	trackingRoutes.PUT("/products/:id", productHandler.Update)
	trackingRoutes.DELETE("/products/:id", productHandler.Delete)

	// Page routes
	trackingRoutes.POST("/products/:id/pages", pageHandler.Create)
	trackingRoutes.GET("/products/:id/pages", pageHandler.List)
	trackingRoutes.GET("/products/:id/pages/:pageId", pageHandler.GetByID)
	trackingRoutes.PUT("/products/:id/pages/:pageId", pageHandler.Update)
	trackingRoutes.DELETE("/products/:id/pages/:pageId", pageHandler.Delete)

	// Event routes
	trackingRoutes.POST("/products/:id/pages/:pageId/events", eventHandler.Create)
	trackingRoutes.GET("/products/:id/pages/:pageId/events", eventHandler.List)
	trackingRoutes.GET("/products/:id/events/:eventId", eventHandler.GetByID)
	trackingRoutes.PUT("/products/:id/events/:eventId", eventHandler.Update)
	trackingRoutes.DELETE("/products/:id/events/:eventId", eventHandler.Delete)
	trackingRoutes.GET("/products/:id/events/:eventId/history", eventHandler.History)
	trackingRoutes.GET("/products/:id/events/:eventId/conflicts", eventHandler.Conflicts)

	// Property catalog routes
	trackingRoutes.POST("/products/:id/properties", propertyHandler.Create)
	trackingRoutes.GET("/products/:id/properties", propertyHandler.List)
	trackingRoutes.GET("/products/:id/properties/:propertyId", propertyHandler.GetByID)
	trackingRoutes.PUT("/products/:id/properties/:propertyId", propertyHandler.Update)
	trackingRoutes.DELETE("/products/:id/properties/:propertyId", propertyHandler.Delete)
	trackingRoutes.POST("/products/:id/properties/:propertyId/rename", propertyHandler.Rename)
	trackingRoutes.GET("/products/:id/properties/:propertyId/values", propertyHandler.Values)
	trackingRoutes.GET("/products/:id/properties/:propertyId/impact", propertyHandler.Impact)

	// Suggested value catalog routes
	trackingRoutes.POST("/products/:id/suggested-values", suggestedValueHandler.Create)
	trackingRoutes.GET("/products/:id/suggested-values", suggestedValueHandler.List)
	trackingRoutes.GET("/products/:id/suggested-values/:valueId", suggestedValueHandler.GetByID)
	trackingRoutes.DELETE("/products/:id/suggested-values/:valueId", suggestedValueHandler.Delete)
	trackingRoutes.POST("/products/:id/suggested-values/:valueId/rename", suggestedValueHandler.Rename)
	trackingRoutes.POST("/products/:id/suggested-values/:valueId/merge", suggestedValueHandler.Merge)
	trackingRoutes.PUT("/products/:id/suggested-values/:valueId/contextual", suggestedValueHandler.SetContextual)
	trackingRoutes.GET("/products/:id/suggested-values/:valueId/impact", suggestedValueHandler.Impact)

	// Common property routes
	trackingRoutes.PUT("/products/:id/common-properties", commonPropertyHandler.Set)
	trackingRoutes.GET("/products/:id/common-properties", commonPropertyHandler.List)
	trackingRoutes.DELETE("/products/:id/common-properties/:commonId", commonPropertyHandler.Delete)

	r.Register(trackingRoutes)
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
