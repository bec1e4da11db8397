package hrv

import (
	"hrv-go/internal/models"
)

// SelectionMethod picks how the representative window is chosen.
type SelectionMethod int

const (
	// SelectOrganized picks the highest-RMSSD window among organized
	// windows only; absence of any organized window is a valid outcome.
	SelectOrganized SelectionMethod = iota
	// SelectPeakRMSSD, SelectPeakSDNN and SelectPeakTotalPower bypass the
	// organization filter and pick the extremum within the band.
	SelectPeakRMSSD
	SelectPeakSDNN
	SelectPeakTotalPower
	// SelectCustom analyzes a caller-supplied index range.
	SelectCustom
)

// ParseSelectionMethod maps an API label to its method; unknown labels use
// the organized default.
func ParseSelectionMethod(s string) SelectionMethod {
	switch s {
	case "peak_rmssd":
		return SelectPeakRMSSD
	case "peak_sdnn":
		return SelectPeakSDNN
	case "peak_total_power":
		return SelectPeakTotalPower
	case "custom":
		return SelectCustom
	default:
		return SelectOrganized
	}
}

// Window search geometry defaults.
const (
	defaultTargetWindowBeats = 400
	defaultWindowStride      = 40
	minScaledWindowBeats     = 200
	absoluteFloorBeats       = 60
	minCleanBeatsPerWindow   = 60

	// Band placement: 30%-70% of actual sleep duration.
	bandLowFraction  = 0.30
	bandHighFraction = 0.70

	// defaultMinBandMs: the band itself must span at least 90 minutes for
	// placement to be meaningful; shorter recordings yield no window.
	defaultMinBandMs = int64(90 * 60 * 1000)

	// spikeRejectFactor drops a window whose instability is more than 50%
	// above both neighbors.
	spikeRejectFactor = 1.5

	// Classification thresholds.
	organizedAlpha1Low  = 0.75
	organizedAlpha1High = 1.00
	organizedMaxLFHF    = 1.5
	organizedMaxHRCV    = 0.08
	flexibleAlpha1Low   = 0.60

	// stabilityWeight in the consolidation score rmssd / (1 + w*hrCV).
	stabilityWeight = 10.0
)

// WindowOptions control the search. Zero values take the defaults above.
type WindowOptions struct {
	// Sleep boundaries in ms relative to recording start; when absent the
	// full recording span is the sleep period.
	SleepStartMs, SleepEndMs int64
	HasSleepBounds           bool

	Method                 SelectionMethod
	CustomStart, CustomEnd int // for SelectCustom, beat indices

	TargetBeats int
	StrideBeats int
	MinBandMs   int64
}

// WindowSearchResult carries the selected window (nil when no organized
// window exists), every surviving candidate, and the peak-capacity RMSSD
// across all survivors regardless of organization.
type WindowSearchResult struct {
	Selected    *models.AnalysisWindow
	Candidates  []models.AnalysisWindow
	PeakRMSSDMs float64
	HasPeak     bool
}

type candidate struct {
	win        models.AnalysisWindow
	sdnn       float64
	totalPower float64
}

// SelectWindow searches the 30-70% band of the sleep period for the best
// representative window. Values and flags are the (possibly corrected)
// interval series; the beat timeline is rebuilt from the values themselves.
// Returns ErrNoValidWindow when the band cannot host the minimum adaptive
// window, or when the organized method finds no organized window (the
// result still carries peak capacity in the latter case).
func SelectWindow(values []float64, flags []models.ArtifactFlag, opts WindowOptions) (*WindowSearchResult, error) {
	if len(values) != len(flags) {
		panic("hrv: values and flags length mismatch")
	}
	applyWindowDefaults(&opts)

	if opts.Method == SelectCustom {
		return selectCustom(values, flags, opts)
	}

	startIdx, endIdx, ok := searchBand(values, opts)
	if !ok {
		return nil, ErrNoValidWindow
	}

	available := endIdx - startIdx
	windowBeats, ok := adaptiveWindowSize(available, opts.TargetBeats)
	if !ok {
		return nil, ErrNoValidWindow
	}

	cands := buildCandidates(values, flags, startIdx, endIdx, windowBeats, opts.StrideBeats)
	cands = rejectTemporalSpikes(cands)
	if len(cands) == 0 {
		return nil, ErrNoValidWindow
	}

	result := &WindowSearchResult{}
	for _, c := range cands {
		result.Candidates = append(result.Candidates, c.win)
		if c.win.Classification == models.WindowInsufficient {
			continue
		}
		if !result.HasPeak || c.win.RMSSDMs > result.PeakRMSSDMs {
			result.PeakRMSSDMs = c.win.RMSSDMs
			result.HasPeak = true
		}
	}

	switch opts.Method {
	case SelectPeakRMSSD:
		result.Selected = pickExtremum(cands, func(c candidate) float64 { return c.win.RMSSDMs })
	case SelectPeakSDNN:
		result.Selected = pickExtremum(cands, func(c candidate) float64 { return c.sdnn })
	case SelectPeakTotalPower:
		result.Selected = pickExtremum(cands, func(c candidate) float64 { return c.totalPower })
	default:
		result.Selected = pickOrganized(cands)
		if result.Selected == nil {
			return result, ErrNoValidWindow
		}
	}
	if result.Selected == nil {
		return result, ErrNoValidWindow
	}
	return result, nil
}

func applyWindowDefaults(opts *WindowOptions) {
	if opts.TargetBeats <= 0 {
		opts.TargetBeats = defaultTargetWindowBeats
	}
	if opts.StrideBeats <= 0 {
		opts.StrideBeats = defaultWindowStride
	}
	if opts.MinBandMs <= 0 {
		opts.MinBandMs = defaultMinBandMs
	}
}

// searchBand maps the 30-70% span of the sleep period onto beat indices.
func searchBand(values []float64, opts WindowOptions) (startIdx, endIdx int, ok bool) {
	// Cumulative timeline from the interval values.
	times := make([]int64, len(values)+1)
	for i, v := range values {
		times[i+1] = times[i] + int64(v)
	}
	total := times[len(values)]

	sleepStart, sleepEnd := int64(0), total
	if opts.HasSleepBounds {
		sleepStart, sleepEnd = opts.SleepStartMs, opts.SleepEndMs
	}
	sleepDur := sleepEnd - sleepStart
	if sleepDur <= 0 {
		return 0, 0, false
	}

	bandStartMs := sleepStart + int64(float64(sleepDur)*bandLowFraction)
	bandEndMs := sleepStart + int64(float64(sleepDur)*bandHighFraction)
	if bandEndMs-bandStartMs < opts.MinBandMs {
		return 0, 0, false
	}

	startIdx = indexAtOrAfter(times, bandStartMs)
	endIdx = indexAtOrAfter(times, bandEndMs)
	if endIdx > len(values) {
		endIdx = len(values)
	}
	if endIdx-startIdx < absoluteFloorBeats {
		return 0, 0, false
	}
	return startIdx, endIdx, true
}

// indexAtOrAfter finds the first beat whose start time is at or past t.
func indexAtOrAfter(times []int64, t int64) int {
	lo, hi := 0, len(times)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if times[mid] < t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// adaptiveWindowSize targets 400 beats, scaling down to half the available
// beats (minimum 200) when the band is smaller, and to 60% of available
// with an absolute floor of 60 below that.
func adaptiveWindowSize(available, target int) (int, bool) {
	if available >= target {
		return target, true
	}
	half := available / 2
	if half >= minScaledWindowBeats {
		return half, true
	}
	scaled := int(float64(available) * 0.6)
	if scaled < absoluteFloorBeats {
		scaled = absoluteFloorBeats
	}
	if scaled > available {
		return 0, false
	}
	return scaled, true
}

func buildCandidates(values []float64, flags []models.ArtifactFlag, startIdx, endIdx, windowBeats, stride int) []candidate {
	var cands []candidate
	for s := startIdx; s+windowBeats <= endIdx; s += stride {
		e := s + windowBeats
		cands = append(cands, evaluateWindow(values, flags, s, e))
	}
	return cands
}

// evaluateWindow computes the quality fields and terminal classification of
// one candidate window.
func evaluateWindow(values []float64, flags []models.ArtifactFlag, s, e int) candidate {
	clean := cleanValues(values[s:e], flags[s:e])
	win := models.AnalysisWindow{StartIndex: s, EndIndex: e, CleanBeats: len(clean)}

	if len(clean) < minCleanBeatsPerWindow {
		win.Classification = models.WindowInsufficient
		return candidate{win: win}
	}

	c := candidate{}
	if td := ComputeTimeDomain(clean); td != nil {
		win.MeanHR = td.MeanHR
		if td.MeanHR > 0 {
			win.HRCoeffVar = td.SDHR / td.MeanHR
		}
		win.RMSSDMs = td.RMSSDMs
		c.sdnn = td.SDNNMs
	}
	if dfa := ComputeDFA(clean); dfa != nil {
		win.DFAAlpha1 = dfa.Alpha1
		win.HasDFAAlpha1 = true
	}
	if freq := ComputeFrequencyDomain(clean); freq != nil {
		win.LFHFRatio = freq.LFHFRatio
		win.HasLFHF = freq.HFPower > 0
		c.totalPower = freq.TotalPower
	}

	win.Classification = classifyWindow(win)
	win.RecoveryScore = win.RMSSDMs / (1 + stabilityWeight*win.HRCoeffVar)
	c.win = win
	return c
}

func classifyWindow(w models.AnalysisWindow) models.WindowClassification {
	if !w.HasDFAAlpha1 {
		// Fallback disorganization signal when alpha1 is unavailable.
		if w.HRCoeffVar >= organizedMaxHRCV {
			return models.WindowHighVariability
		}
		return models.WindowFlexibleUnconsolidated
	}

	if w.DFAAlpha1 >= organizedAlpha1Low && w.DFAAlpha1 <= organizedAlpha1High &&
		(!w.HasLFHF || w.LFHFRatio < organizedMaxLFHF) &&
		w.HRCoeffVar < organizedMaxHRCV {
		return models.WindowOrganizedRecovery
	}
	if w.DFAAlpha1 >= flexibleAlpha1Low && w.DFAAlpha1 < organizedAlpha1Low {
		return models.WindowFlexibleUnconsolidated
	}
	return models.WindowHighVariability
}

// rejectTemporalSpikes drops windows whose instability is more than 50%
// above both neighbors. Edge windows have only one neighbor and are never
// rejected; no baseline-relative or magnitude cap applies.
func rejectTemporalSpikes(cands []candidate) []candidate {
	if len(cands) < 3 {
		return cands
	}
	out := make([]candidate, 0, len(cands))
	for i, c := range cands {
		if i > 0 && i < len(cands)-1 {
			prev, next := cands[i-1].win.HRCoeffVar, cands[i+1].win.HRCoeffVar
			cur := c.win.HRCoeffVar
			if prev > 0 && next > 0 && cur > prev*spikeRejectFactor && cur > next*spikeRejectFactor {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func pickOrganized(cands []candidate) *models.AnalysisWindow {
	var best *models.AnalysisWindow
	for i := range cands {
		w := cands[i].win
		if w.Classification != models.WindowOrganizedRecovery {
			continue
		}
		if best == nil || w.RMSSDMs > best.RMSSDMs {
			win := w
			best = &win
		}
	}
	return best
}

func pickExtremum(cands []candidate, metric func(candidate) float64) *models.AnalysisWindow {
	var best *models.AnalysisWindow
	var bestVal float64
	for i := range cands {
		if cands[i].win.Classification == models.WindowInsufficient {
			continue
		}
		v := metric(cands[i])
		if best == nil || v > bestVal {
			win := cands[i].win
			best = &win
			bestVal = v
		}
	}
	return best
}

// selectCustom evaluates the caller-supplied index range as-is.
func selectCustom(values []float64, flags []models.ArtifactFlag, opts WindowOptions) (*WindowSearchResult, error) {
	s, e := opts.CustomStart, opts.CustomEnd
	if s < 0 || e > len(values) || e-s < absoluteFloorBeats {
		return nil, ErrNoValidWindow
	}
	c := evaluateWindow(values, flags, s, e)
	if c.win.Classification == models.WindowInsufficient {
		return nil, ErrNoValidWindow
	}
	win := c.win
	return &WindowSearchResult{
		Selected:    &win,
		Candidates:  []models.AnalysisWindow{win},
		PeakRMSSDMs: win.RMSSDMs,
		HasPeak:     true,
	}, nil
}
