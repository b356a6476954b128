package http

import (
	"github.com/gin-gonic/gin"
	"github.com/pantrytrack/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		receipts := v1.Group("/receipts")
		{
			receipts.POST("/parse", handler.ParseReceipt)
			receipts.POST("/match", handler.MatchReceipt)
			receipts.POST("/scan", handler.ScanReceipt)
		}

		inventory := v1.Group("/inventory")
		{
			inventory.POST("/cache/invalidate", handler.InvalidateInventoryCache)
		}
	}

	return router
}
