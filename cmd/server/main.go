package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/CoralRocker/Team73-Project3/config"
	"github.com/CoralRocker/Team73-Project3/internal/database"
	"github.com/CoralRocker/Team73-Project3/internal/gateway/handlers"
	"github.com/CoralRocker/Team73-Project3/internal/gateway/middleware"
	"github.com/CoralRocker/Team73-Project3/internal/storefront"
	"github.com/CoralRocker/Team73-Project3/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	zlog, err := logger.New()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.NewConnection(cfg.DB.DSN)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("database migration failed", zap.Error(err))
	}

	redisClient, err := config.NewRedisClient(cfg.Redis)
	if err != nil {
		zlog.Fatal("redis connection failed", zap.Error(err))
	}

	catalog := storefront.NewCatalog(db, zlog)
	carts := storefront.NewCarts(db, zlog)
	pricing := storefront.NewPricing(db)
	settlement := storefront.NewSettlement(db, zlog)
	analytics := storefront.NewAnalytics(db)

	catalogHandler := handlers.NewCatalogHandler(catalog, redisClient, cfg.Cache.TTL, zlog)
	orderHandler := handlers.NewOrderHandler(carts, pricing, settlement, redisClient, zlog)
	reportHandler := handlers.NewReportHandler(analytics, redisClient, cfg.Cache.TTL, zlog)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(cfg.HTTP.RateLimit))

	registerRoutes(r, catalogHandler, orderHandler, reportHandler)
	r.GET("/health", healthCheckHandler(db, redisClient))

	addr := ":" + cfg.HTTP.Port
	zlog.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}

func registerRoutes(r *gin.Engine, catalog *handlers.CatalogHandler, orders *handlers.OrderHandler, reports *handlers.ReportHandler) {
	api := r.Group("/api/v1")
	{
		inventory := api.Group("/inventory")
		{
			inventory.POST("", catalog.CreateInventoryItem)
			inventory.GET("", catalog.ListInventory)
			inventory.GET("/:id", catalog.GetInventoryItem)
		}

		menu := api.Group("/menu")
		{
			menu.POST("", catalog.CreateMenuItem)
			menu.GET("", catalog.ListMenu)
			menu.GET("/search", catalog.SearchMenu)
			menu.GET("/variants/:name", catalog.SizeVariants)
			menu.GET("/:id", catalog.GetMenuItem)
			menu.POST("/:id/ingredients", catalog.AddIngredient)
		}

		customizations := api.Group("/customizations")
		{
			customizations.POST("", catalog.CreateCustomization)
			customizations.GET("", catalog.ListCustomizations)
			customizations.GET("/:id", catalog.GetCustomization)
		}

		ordersGroup := api.Group("/orders")
		{
			ordersGroup.POST("", orders.CreateOrder)
			ordersGroup.GET("/:id", orders.GetOrder)
			ordersGroup.POST("/:id/checkout", orders.Checkout)
		}

		items := api.Group("/order-items")
		{
			items.POST("", orders.CreateOrderItem)
			items.PUT("/:id", orders.ReassignOrderItem)
			items.POST("/:id/attach", orders.AttachOrderItem)
			items.POST("/:id/customizations", orders.AddCustomization)
			items.DELETE("/:id", orders.RemoveOrderItem)
			items.GET("/:id/price", orders.ItemPrice)
			items.GET("/:id/restock-cost", orders.ItemRestockCost)
		}

		reportsGroup := api.Group("/reports")
		{
			reportsGroup.GET("/finance", reports.Finance)
			reportsGroup.GET("/usage", reports.Usage)
			reportsGroup.GET("/sales", reports.Sales)
			reportsGroup.GET("/excess", reports.ExcessStock)
			reportsGroup.GET("/restock", reports.Restock)
			reportsGroup.GET("/pairs", reports.FrequentPairs)
		}
	}
}

func healthCheckHandler(db *gorm.DB, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		status := "healthy"
		httpStatus := http.StatusOK
		checks := map[string]string{
			"database": "ok",
			"redis":    "ok",
		}

		if sqlDB, err := db.DB(); err != nil {
			checks["database"] = err.Error()
		} else if err := sqlDB.PingContext(ctx); err != nil {
			checks["database"] = err.Error()
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
		}

		for _, v := range checks {
			if v != "ok" {
				status = "degraded"
				httpStatus = http.StatusServiceUnavailable
			}
		}

		c.JSON(httpStatus, gin.H{
			"status":    status,
			"checks":    checks,
			"timestamp": time.Now(),
		})
	}
}
