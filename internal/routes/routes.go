package routes

import (
	"github.com/3Dimaging-ucl/openvocab/internal/api/classify"
	"github.com/3Dimaging-ucl/openvocab/internal/config"
	"github.com/3Dimaging-ucl/openvocab/internal/encoder"
	"github.com/3Dimaging-ucl/openvocab/internal/loaders"
	"github.com/3Dimaging-ucl/openvocab/internal/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, db *loaders.PostgresClient, cfg *config.Config, enc encoder.DualEncoder) {
	// Apply global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RequestID())

	// Setup route groups
	SetupHealthRoutes(router, db)
	SetupSystemRoutes(router, cfg, enc)
	classify.RegisterRoutes(router, db, cfg, enc)
	Setup404Handler(router)
}
