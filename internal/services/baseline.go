package services

import (
	"sync"
	"time"

	"hrv-go/internal/hrv"
	"hrv-go/internal/models"
	"hrv-go/internal/repository"

	"go.uber.org/zap"
)

// BaselineService is the single writer of the rolling baseline. One update
// runs per accepted session; concurrent reads are safe.
type BaselineService struct {
	log *zap.Logger
	mu  sync.Mutex
}

func NewBaselineService(log *zap.Logger) *BaselineService {
	return &BaselineService{log: log}
}

// AcceptSession records the session's daily summary and recomputes the
// rolling baseline. Sessions without time-domain metrics are not accepted.
func (s *BaselineService) AcceptSession(result *models.MetricResult) (models.Baseline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	td := result.TimeDomain
	if td == nil {
		return models.Baseline{}, hrv.ErrInsufficientData
	}

	point := models.BaselinePoint{
		Date:    hrv.SessionDate(result.RecordedAt),
		RMSSDMs: td.RMSSDMs,
		SDNNMs:  td.SDNNMs,
		MeanHR:  td.MeanHR,
	}
	if f := result.Frequency; f != nil {
		point.HFPower = f.HFPower
		point.LFPower = f.LFPower
		point.LFHFRatio = f.LFHFRatio
	}
	if d := result.DFA; d != nil {
		point.DFAAlpha1 = d.Alpha1
	}
	if a := result.Autonomic; a != nil {
		point.StressIndex = a.StressIndex
		point.ReadinessScore = a.ReadinessScore
	}

	if err := repository.UpsertBaselinePoint(point); err != nil {
		s.log.Error("Failed to record baseline point", zap.Error(err))
		return models.Baseline{}, err
	}

	baseline, err := repository.GetBaseline(time.Now().UTC())
	if err != nil {
		s.log.Error("Failed to recompute baseline", zap.Error(err))
		return models.Baseline{}, err
	}
	s.log.Info("Baseline updated",
		zap.Int("samples", baseline.SampleCount),
		zap.Bool("valid", baseline.Valid))
	return baseline, nil
}

// Current reads the rolling baseline without writing.
func (s *BaselineService) Current() (models.Baseline, error) {
	return repository.GetBaseline(time.Now().UTC())
}
