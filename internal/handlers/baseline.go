package handlers

import (
	"net/http"

	"hrv-go/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BaselineHandler struct {
	log         *zap.Logger
	baselineSvc *services.BaselineService
}

func NewBaselineHandler(log *zap.Logger, baselineSvc *services.BaselineService) *BaselineHandler {
	return &BaselineHandler{log: log, baselineSvc: baselineSvc}
}

// GetBaseline returns the current rolling 7-day baseline.
func (h *BaselineHandler) GetBaseline(c *gin.Context) {
	baseline, err := h.baselineSvc.Current()
	if err != nil {
		h.log.Error("Failed to compute baseline", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute baseline"})
		return
	}
	c.JSON(http.StatusOK, baseline)
}
