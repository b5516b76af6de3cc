package controllers

import (
	"net/http"
	"time"

	"github.com/3Dimaging-ucl/openvocab/internal/config"
	"github.com/3Dimaging-ucl/openvocab/internal/encoder"
	"github.com/gin-gonic/gin"
)

type SystemController struct {
	cfg *config.Config
	enc encoder.DualEncoder
}

func NewSystemController(cfg *config.Config, enc encoder.DualEncoder) *SystemController {
	return &SystemController{cfg: cfg, enc: enc}
}

// Status godoc
// @Summary Get system status
// @Description Get current system status information
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/status [get]
func (s *SystemController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     s.cfg.ServiceName,
		"version":     "1.0.0",
		"environment": s.cfg.Environment,
		"hostname":    s.cfg.Hostname,
		"timestamp":   time.Now().UTC(),
	})
}

// Info godoc
// @Summary Get model information
// @Description Get the loaded dual-encoder model and its provider
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/info [get]
func (s *SystemController) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":    s.cfg.ServiceName,
		"provider":   s.cfg.Provider,
		"model":      s.enc.Model(),
		"device":     s.cfg.Device,
		"dimensions": s.enc.Dimensions(),
		"timestamp":  time.Now().UTC(),
	})
}
