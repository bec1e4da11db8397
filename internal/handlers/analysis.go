package handlers

import (
	"errors"
	"net/http"
	"time"

	"hrv-go/internal/config"
	"hrv-go/internal/hrv"
	"hrv-go/internal/models"
	"hrv-go/internal/repository"
	"hrv-go/internal/services"
	"hrv-go/internal/sleep"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// liveBeat is one live-streamed beat in the request payload.
type liveBeat struct {
	DurationMs  uint16 `json:"durationMs"`
	WallClockMs int64  `json:"wallClockMs"`
}

// analyzeRequest carries both capture snapshots of a completed session.
type analyzeRequest struct {
	SessionID    string            `json:"sessionId"`
	RecordedAt   time.Time         `json:"recordedAt"`
	DeviceBuffer []uint16          `json:"deviceBuffer"`
	LiveStream   []liveBeat        `json:"liveStream"`
	Sleep        *sleep.Boundaries `json:"sleep"`
	Method       string            `json:"method"`
	CustomStart  int               `json:"customStart"`
	CustomEnd    int               `json:"customEnd"`
}

type AnalysisHandler struct {
	log         *zap.Logger
	baselineSvc *services.BaselineService
}

func NewAnalysisHandler(log *zap.Logger, baselineSvc *services.BaselineService) *AnalysisHandler {
	return &AnalysisHandler{log: log, baselineSvc: baselineSvc}
}

// AnalyzeSession fuses the two capture snapshots, runs the full pipeline,
// archives the result and feeds the baseline store.
func (h *AnalysisHandler) AnalyzeSession(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind session payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	if req.RecordedAt.IsZero() {
		req.RecordedAt = time.Now().UTC()
	}

	fused, err := h.fuseSources(req)
	if err != nil {
		h.log.Warn("Session has no usable capture source",
			zap.String("session_id", req.SessionID))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "session failed - insufficient data"})
		return
	}

	provider := sleep.StaticProvider{}
	if req.Sleep != nil {
		provider = sleep.StaticProvider{Bounds: *req.Sleep, Available: true}
	}
	analyzer := hrv.NewAnalyzer(h.log, config.Conf.Analysis, provider)

	baseline, err := h.baselineSvc.Current()
	if err != nil {
		h.log.Error("Failed to load baseline", zap.Error(err))
		baseline = models.Baseline{}
	}

	result, err := analyzer.Analyze(fused.Sequence, &baseline,
		hrv.ParseSelectionMethod(req.Method), req.CustomStart, req.CustomEnd)
	if err != nil {
		switch {
		case errors.Is(err, hrv.ErrInsufficientData), errors.Is(err, hrv.ErrNoValidWindow):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "session failed - insufficient data"})
		default:
			h.log.Error("Analysis failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
		}
		return
	}
	result.SourceDescription = fused.Description

	if err := repository.SaveSessionResult(models.NewSessionResult(result)); err != nil {
		h.log.Error("Failed to archive session result", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save result"})
		return
	}

	if result.TimeDomain != nil {
		if _, err := h.baselineSvc.AcceptSession(result); err != nil {
			// Baseline bookkeeping must not fail the session.
			h.log.Error("Failed to update baseline", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, result)
}

func (h *AnalysisHandler) fuseSources(req analyzeRequest) (*hrv.FusionResult, error) {
	var durable, live *models.BeatSequence

	if len(req.DeviceBuffer) > 0 {
		seq := models.NewBeatSequence(req.SessionID, req.RecordedAt, req.DeviceBuffer)
		durable = &seq
	}
	if len(req.LiveStream) > 0 {
		beats := make([]models.BeatInterval, len(req.LiveStream))
		var cum int64
		for i, b := range req.LiveStream {
			beats[i] = models.BeatInterval{
				CumulativeStartMs: cum,
				DurationMs:        b.DurationMs,
				WallClockMs:       b.WallClockMs,
			}
			cum += int64(b.DurationMs)
		}
		seq := models.NewBeatSequenceFromIntervals(req.SessionID, req.RecordedAt, beats)
		live = &seq
	}

	return hrv.Fuse(durable, live)
}
