package routes

import (
	"net/http"

	"github.com/3Dimaging-ucl/openvocab/internal/config"
	"github.com/3Dimaging-ucl/openvocab/internal/controllers"
	"github.com/3Dimaging-ucl/openvocab/internal/encoder"
	"github.com/3Dimaging-ucl/openvocab/internal/loaders"
	"github.com/gin-gonic/gin"
)

// SetupHealthRoutes configures health check endpoints
func SetupHealthRoutes(router *gin.Engine, db *loaders.PostgresClient) {
	healthController := controllers.NewHealthController(db)

	// Root endpoint
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Health check endpoints
	router.GET("/health", healthController.HealthCheck)
	router.GET("/health/live", healthController.Liveness)
	router.GET("/health/ready", healthController.Readiness)
}

// SetupSystemRoutes configures system/model info endpoints
func SetupSystemRoutes(router *gin.Engine, cfg *config.Config, enc encoder.DualEncoder) {
	systemController := controllers.NewSystemController(cfg, enc)

	router.GET("/api/v1/status", systemController.Status)
	router.GET("/api/v1/info", systemController.Info)
}
