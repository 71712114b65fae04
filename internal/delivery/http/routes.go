package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/unitprice/backend/config"
	"github.com/unitprice/backend/internal/infrastructure/limiter"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, limits *limiter.Store, logger zerolog.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	if limits != nil {
		v1.Use(RateLimitMiddleware(limits))
	}
	{
		unitPrice := v1.Group("/unitprice")
		{
			unitPrice.POST("/evaluate", handler.EvaluateProduct)
			unitPrice.POST("/rank", handler.RankProducts)
		}
	}

	return router
}
