package classify

import (
	"github.com/gin-gonic/gin"

	"github.com/3Dimaging-ucl/openvocab/internal/config"
	"github.com/3Dimaging-ucl/openvocab/internal/encoder"
	"github.com/3Dimaging-ucl/openvocab/internal/loaders"
)

func RegisterRoutes(router *gin.Engine, db *loaders.PostgresClient, cfg *config.Config, enc encoder.DualEncoder) {
	svc := NewService(db, cfg, enc)
	ctrl := NewController(svc)
	router.POST("/classify", ctrl.Classify)
	router.GET("/classifications", ctrl.ListRuns)
	router.GET("/classifications/:id", ctrl.GetRun)
}
