package http

import (
	"github.com/gin-gonic/gin"

	"github.com/shelfsync/backend/config"
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
	router.Use(RequestLoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		sellers := v1.Group("/sellers")
		{
			sellers.GET("/:sellerID/merge-candidates", handler.GetMergeCandidates)
		}

		candidates := v1.Group("/merge-candidates")
		{
			candidates.POST("/score-pair", handler.ScorePair)
		}
	}

	return router
}
