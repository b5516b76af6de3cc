package classify

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/3Dimaging-ucl/openvocab/internal/classifier"
	"github.com/3Dimaging-ucl/openvocab/internal/encoder"
	"github.com/3Dimaging-ucl/openvocab/internal/imaging"
	"github.com/3Dimaging-ucl/openvocab/internal/utils"
)

type Controller struct {
	svc *Service
}

func NewController(svc *Service) *Controller {
	return &Controller{svc: svc}
}

func (c *Controller) Classify(ctx *gin.Context) {
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Zlog.Warn("invalid /classify payload", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":     "bad_request",
			"message":   err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	rec, result, err := c.svc.Classify(ctx.Request.Context(), &req)
	if err != nil {
		utils.Zlog.Warn("classification failed", zap.Error(err))
		ctx.JSON(statusForError(err), gin.H{
			"error":     "classification_error",
			"message":   err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	res := Response{
		ID:      rec.ID,
		Model:   rec.Model,
		Scores:  result.Scores,
		Best:    result.Best,
		Success: true,
	}
	if idVal, exists := ctx.Get("request_id"); exists {
		if rid, ok := idVal.(string); ok {
			res.RequestID = rid
		}
	}
	ctx.JSON(http.StatusOK, res)
}

func (c *Controller) GetRun(ctx *gin.Context) {
	rec, err := c.svc.GetRun(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error":     "not_found",
			"message":   err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"run":     toSummary(rec),
		"success": true,
	})
}

func (c *Controller) ListRuns(ctx *gin.Context) {
	limit := 20
	if l := ctx.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := c.svc.ListRuns(ctx.Request.Context(), limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":     "list_error",
			"message":   err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	res := ListResponse{Runs: make([]RunSummary, 0, len(records)), Success: true}
	for _, rec := range records {
		res.Runs = append(res.Runs, toSummary(rec))
	}
	res.Count = len(res.Runs)
	ctx.JSON(http.StatusOK, res)
}

// statusForError maps pipeline error kinds onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, classifier.ErrNoPrompts), errors.Is(err, imaging.ErrDecode):
		return http.StatusBadRequest
	case errors.Is(err, utils.ErrFetch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, encoder.ErrModelLoad):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
