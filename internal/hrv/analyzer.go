package hrv

import (
	"sync"
	"time"

	"hrv-go/internal/config"
	"hrv-go/internal/models"
	"hrv-go/internal/sleep"

	"go.uber.org/zap"
)

// Analyzer runs the full pipeline over a completed beat sequence: artifact
// classification, correction, window search, and metric computation. It has
// no mutable state of its own; collaborators are injected.
type Analyzer struct {
	log        *zap.Logger
	correction CorrectionMethod
	geometry   WindowOptions
	boundaries sleep.BoundaryProvider
}

// NewAnalyzer builds an analyzer from the analysis config section.
func NewAnalyzer(log *zap.Logger, cfg config.AnalysisConfig, boundaries sleep.BoundaryProvider) *Analyzer {
	if boundaries == nil {
		boundaries = sleep.NoneProvider{}
	}
	return &Analyzer{
		log:        log,
		correction: ParseCorrectionMethod(cfg.CorrectionMethod),
		geometry: WindowOptions{
			TargetBeats: cfg.TargetWindowBeats,
			StrideBeats: cfg.WindowStrideBeats,
			MinBandMs:   int64(cfg.MinBandMinutes) * 60 * 1000,
		},
		boundaries: boundaries,
	}
}

// AnalyzeSession analyzes a fused sequence with the default organized-window
// selection. The baseline may be nil.
func (a *Analyzer) AnalyzeSession(seq models.BeatSequence, baseline *models.Baseline) (*models.MetricResult, error) {
	return a.Analyze(seq, baseline, a.geometry.Method, 0, 0)
}

// Analyze runs the pipeline with an explicit selection method. CustomStart
// and customEnd apply only to SelectCustom.
func (a *Analyzer) Analyze(seq models.BeatSequence, baseline *models.Baseline, method SelectionMethod, customStart, customEnd int) (*models.MetricResult, error) {
	if seq.Count() < MinSessionBeats {
		a.log.Warn("Session below minimum beat count",
			zap.String("session_id", seq.SessionID),
			zap.Int("beats", seq.Count()))
		return nil, ErrInsufficientData
	}

	rawFlags := ClassifyArtifacts(seq)
	artifactPct := artifactPercent(rawFlags)

	values, flags := Correct(seq.Durations(), rawFlags, a.correction)

	opts := a.geometry
	opts.Method = method
	opts.CustomStart, opts.CustomEnd = customStart, customEnd
	if b, ok := a.boundaries.Boundaries(seq.SessionID); ok {
		opts.HasSleepBounds = true
		opts.SleepStartMs = b.SleepStartMs
		opts.SleepEndMs = b.SleepEndMs
	}

	search, searchErr := SelectWindow(values, flags, opts)
	if searchErr != nil && search == nil {
		// Band could not host any window; the session has no usable shape.
		a.log.Warn("No valid analysis window",
			zap.String("session_id", seq.SessionID),
			zap.Float64("artifact_pct", artifactPct))
		return nil, searchErr
	}

	// Metric range: the selected window when one exists, otherwise the
	// whole corrected sequence.
	start, end := 0, len(values)
	classification := models.WindowInsufficient
	var selected *models.AnalysisWindow
	if search.Selected != nil {
		selected = search.Selected
		start, end = selected.StartIndex, selected.EndIndex
		classification = selected.Classification
	} else if best := bestSurvivor(search.Candidates); best != nil {
		classification = best.Classification
	}

	clean := cleanValues(values[start:end], flags[start:end])
	result := &models.MetricResult{
		SessionID:       seq.SessionID,
		RecordedAt:      seq.StartedAt,
		ArtifactPercent: artifactPct,
		CleanBeatCount:  len(clean),
		WindowStart:     start,
		WindowEnd:       end,
		Window:          selected,
		Classification:  classification,
		PeakRMSSDMs:     search.PeakRMSSDMs,
		HasPeakRMSSD:    search.HasPeak,
	}

	result.TimeDomain = ComputeTimeDomain(clean)
	if result.TimeDomain == nil {
		// Nothing downstream can be computed either.
		return result, nil
	}

	// Frequency-domain and DFA are independent over the same immutable
	// slice; compute them concurrently.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		result.Frequency = ComputeFrequencyDomain(clean)
	}()
	go func() {
		defer wg.Done()
		result.DFA = ComputeDFA(clean)
	}()
	result.Nonlinear = ComputeNonlinear(clean)
	wg.Wait()

	result.Autonomic = ComputeStress(clean, result.TimeDomain, result.Nonlinear, result.DFA, baseline)

	a.log.Info("Session analyzed",
		zap.String("session_id", seq.SessionID),
		zap.String("classification", classification.String()),
		zap.Float64("artifact_pct", artifactPct),
		zap.Int("clean_beats", len(clean)),
		zap.Bool("recovery_window", selected != nil))

	// No organized window (searchErr) is a reportable outcome, not a
	// failure: the result still carries peak capacity.
	return result, nil
}

// bestSurvivor picks the highest-RMSSD candidate that was not insufficient,
// used for the session-level classification when no window was selected.
func bestSurvivor(cands []models.AnalysisWindow) *models.AnalysisWindow {
	var best *models.AnalysisWindow
	for i := range cands {
		if cands[i].Classification == models.WindowInsufficient {
			continue
		}
		if best == nil || cands[i].RMSSDMs > best.RMSSDMs {
			best = &cands[i]
		}
	}
	return best
}

// ValidateIntervals is the defensive bound check for callers handing raw
// data directly to metric computation, outside the classifier's own
// handling. Returns ErrMalformedInterval on the first out-of-range value.
func ValidateIntervals(values []float64) error {
	for _, v := range values {
		if v < models.MinimumRRIntervalMs || v > models.MaximumRRIntervalMs {
			return ErrMalformedInterval
		}
	}
	return nil
}

// SessionDate truncates a session start to its calendar day, the key the
// baseline store aggregates on.
func SessionDate(startedAt time.Time) time.Time {
	return startedAt.UTC().Truncate(24 * time.Hour)
}
