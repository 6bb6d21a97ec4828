package main

import (
	"context"
	"net/http"

	"insights-service/internal/analytics"
	"insights-service/internal/handler"
	"insights-service/internal/ingest"
	mid "insights-service/internal/middleware"
	"insights-service/internal/model"
	"insights-service/internal/scheduler"
	"insights-service/internal/shopify"
	"insights-service/pkg/config"
	"insights-service/pkg/database"
	"insights-service/pkg/jwtutil"
	"insights-service/pkg/logger"
	"insights-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting insights-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	err = database.InitDB(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	db := database.GetDB()

	// Build the sync pipeline: client factory -> orchestrator -> scheduler
	clients := func(tenant *model.Tenant) *shopify.Client {
		return shopify.NewClient(
			tenant.ShopURL,
			tenant.AccessToken,
			appConfig.Shopify.APIVersion,
			appConfig.Shopify.HTTPTimeout,
			log,
		)
	}
	syncService := ingest.NewService(db, clients, appConfig.Shopify.PageSize, log)

	syncScheduler := scheduler.New(db, syncService, appConfig.Sync.Interval, log)
	if appConfig.Sync.Enabled {
		syncScheduler.Start(context.Background())
	} else {
		log.Info("Scheduled sync disabled by configuration")
	}

	// Handlers
	syncHandler := handler.NewSyncHandler(db, syncService)
	webhookHandler := handler.NewWebhookHandler(db)
	analyticsHandler := handler.NewAnalyticsHandler(analytics.NewService(db))

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.NewHealthCheck(syncScheduler))

	// Tenant API routes
	tenantAPI := e.Group("/api/tenants")
	tenantAPI.GET("", handler.ListTenants)
	tenantAPI.GET("/:id", handler.GetTenant)
	tenantAPI.POST("", handler.CreateTenant)
	tenantAPI.PUT("/:id", handler.UpdateTenant)
	tenantAPI.POST("/login", handler.Login)

	// Ingestion API routes
	ingestionAPI := e.Group("/api/ingestion")
	ingestionAPI.POST("/sync", syncHandler.TriggerSync)
	ingestionAPI.GET("/products", syncHandler.ListProducts)
	ingestionAPI.GET("/customers", syncHandler.ListCustomers)
	ingestionAPI.GET("/orders", syncHandler.ListOrders)

	// Webhook routes
	webhookAPI := e.Group("/api/webhooks")
	webhookAPI.POST("/shopify/orders/create", webhookHandler.OrderCreated)
	webhookAPI.POST("/shopify/products/update", webhookHandler.ProductUpdated)

	// Analytics routes - Apply auth middleware to validate JWT and extract tenant ID
	metricsAPI := e.Group("/api/metrics", mid.AuthMiddleware)
	metricsAPI.GET("/overview", analyticsHandler.Overview)
	metricsAPI.GET("/orders-by-date", analyticsHandler.OrdersByDate)
	metricsAPI.GET("/top-customers", analyticsHandler.TopCustomers)
	metricsAPI.GET("/products", analyticsHandler.ProductStats)
	metricsAPI.GET("/top-products", analyticsHandler.TopProducts)
	metricsAPI.GET("/product-breakdown", analyticsHandler.ProductBreakdown)
	metricsAPI.GET("/inventory-alerts", analyticsHandler.InventoryAlerts)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server error", zap.Error(err))
	}
}
