// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"ventapos/internal/domain/catalog/product"
	"ventapos/internal/domain/inventory"
	"ventapos/internal/domain/pos"
	"ventapos/internal/domain/pricing"
	"ventapos/internal/domain/reports"
	"ventapos/internal/domain/sales"
	"ventapos/internal/infrastructure/http/v1/handlers"
	"ventapos/internal/infrastructure/http/v1/middleware"
	"ventapos/internal/infrastructure/storage/postgres"
	"ventapos/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	Products *product.Service
	Ledger   *inventory.Ledger
	Prices   *pricing.Service
	Sales    *sales.Service
	Engine   *pos.Engine
	Reports  *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()
	productHandler := handlers.NewProductHandler(base, cfg.Products)
	stockHandler := handlers.NewStockHandler(base, cfg.Ledger)
	priceHandler := handlers.NewPriceHandler(base, cfg.Prices)
	posHandler := handlers.NewPOSHandler(base, cfg.Engine)
	salesHandler := handlers.NewSalesHandler(base, cfg.Sales)
	reportsHandler := handlers.NewReportsHandler(base, cfg.Reports)

	// API v1
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.POST("", productHandler.Create)
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.GET("/barcode/:barcode", productHandler.GetByBarcode)
			products.GET("/:id/prices", priceHandler.ListByProduct)
			products.GET("/:id/prices/active", priceHandler.GetActive)
		}

		stock := v1.Group("/stock")
		{
			stock.GET("", stockHandler.List)
			stock.GET("/movements", stockHandler.Movements)
			stock.GET("/:productId", stockHandler.Get)
			stock.POST("/:productId/ensure", stockHandler.Ensure)
			stock.POST("/:productId/increase", stockHandler.Increase)
			stock.POST("/:productId/decrease", stockHandler.Decrease)
			stock.PUT("/:productId/policy", stockHandler.UpdatePolicy)
		}

		prices := v1.Group("/prices")
		{
			prices.POST("", priceHandler.Create)
			prices.POST("/:id/activate", priceHandler.Activate)
			prices.DELETE("/:id", priceHandler.Delete)
		}

		v1.POST("/pos/checkout", posHandler.Checkout)

		salesGroup := v1.Group("/sales")
		{
			salesGroup.GET("", salesHandler.List)
			salesGroup.GET("/:id", salesHandler.Get)
		}

		reportsGroup := v1.Group("/reports")
		{
			reportsGroup.GET("/summary", reportsHandler.Summary)
			reportsGroup.GET("/daily-sales", reportsHandler.DailySales)
			reportsGroup.GET("/top-products", reportsHandler.TopProducts)
			reportsGroup.GET("/low-stock", reportsHandler.LowStock)
		}
	}

	return router
}
