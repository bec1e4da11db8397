package hrv

import (
	"math"

	"hrv-go/internal/models"
)

// baevskyBinMs is the histogram bin width for the Baevsky stress index.
const baevskyBinMs = 50.0

// Fixed physiological reference distributions for the PNS/SNS z-scores,
// resting adult population values.
const (
	refMeanRRMs, refMeanRRSD   = 900.0, 130.0
	refRMSSDMs, refRMSSDSD     = 42.0, 15.0
	refSD1Ms, refSD1SD         = 30.0, 11.0
	refMeanHR, refMeanHRSD     = 70.0, 10.0
	refStressIdx, refStressSD  = 10.0, 5.0
	refSD2Ms, refSD2SD         = 50.0, 18.0
	zClamp                     = 3.0
	readinessBase              = 5.0
	readinessMin, readinessMax = 1.0, 10.0
)

// ComputeStress derives the Baevsky stress index, autonomic balance indices
// and the readiness score. The baseline may be nil or invalid, in which case
// readiness falls back to absolute RMSSD thresholds.
func ComputeStress(rr []float64, td *models.TimeDomainMetrics, nl *models.NonlinearMetrics, dfa *models.DFAMetrics, baseline *models.Baseline) *models.AutonomicMetrics {
	if td == nil || nl == nil || len(rr) == 0 {
		return nil
	}

	si := baevskyStressIndex(rr)

	pns := (zScore(td.MeanRRMs, refMeanRRMs, refMeanRRSD) +
		zScore(td.RMSSDMs, refRMSSDMs, refRMSSDSD) +
		zScore(nl.SD1Ms, refSD1Ms, refSD1SD)) / 3

	// SD2 enters inverted: lower long-term variability raises the
	// sympathetic score.
	sns := (zScore(td.MeanHR, refMeanHR, refMeanHRSD) +
		zScore(si, refStressIdx, refStressSD) +
		-zScore(nl.SD2Ms, refSD2Ms, refSD2SD)) / 3

	return &models.AutonomicMetrics{
		StressIndex:    si,
		PNSIndex:       pns,
		SNSIndex:       sns,
		ReadinessScore: readinessScore(td.RMSSDMs, dfa, baseline),
	}
}

// baevskyStressIndex is AMo / (2 * Mo * MxDMn) with a 50 ms histogram, Mo
// and MxDMn in seconds, AMo in percent.
func baevskyStressIndex(rr []float64) float64 {
	bins := make(map[int]int)
	modalBin, modalCount := 0, 0
	minRR, maxRR := math.Inf(1), math.Inf(-1)
	for _, v := range rr {
		b := int(v / baevskyBinMs)
		bins[b]++
		if bins[b] > modalCount {
			modalCount = bins[b]
			modalBin = b
		}
		if v < minRR {
			minRR = v
		}
		if v > maxRR {
			maxRR = v
		}
	}

	amo := float64(modalCount) / float64(len(rr)) * 100
	mo := (float64(modalBin)*baevskyBinMs + baevskyBinMs/2) / 1000.0
	mxdmn := (maxRR - minRR) / 1000.0
	if mxdmn <= 0 {
		mxdmn = baevskyBinMs / 1000.0 // degenerate uniform series
	}
	return amo / (2 * mo * mxdmn)
}

func zScore(value, refMean, refSD float64) float64 {
	z := (value - refMean) / refSD
	if z > zClamp {
		return zClamp
	}
	if z < -zClamp {
		return -zClamp
	}
	return z
}

// readinessScore starts at 5.0 and moves on RMSSD agreement with the
// personal baseline (absolute thresholds when no baseline exists) and on
// DFA alpha1 placement, clamped to [1, 10].
func readinessScore(rmssd float64, dfa *models.DFAMetrics, baseline *models.Baseline) float64 {
	score := readinessBase

	if baseline != nil && baseline.Valid && baseline.MeanRMSSDMs > 0 {
		dev := math.Abs(rmssd-baseline.MeanRMSSDMs) / baseline.MeanRMSSDMs
		switch {
		case dev <= 0.15:
			score += 2.0
		case dev <= 0.30:
			score += 1.0
		case dev >= 0.40:
			score -= 2.0
		}
	} else {
		switch {
		case rmssd >= 50:
			score += 2.0
		case rmssd >= 30:
			score += 1.0
		case rmssd < 20:
			score -= 2.0
		}
	}

	if dfa != nil {
		switch {
		case dfa.Alpha1 >= 0.75 && dfa.Alpha1 <= 1.0:
			score += 2.0
		case dfa.Alpha1 >= 0.5 && dfa.Alpha1 <= 1.25:
			score += 0.5
		default:
			score -= 1.0
		}
	}

	return math.Min(readinessMax, math.Max(readinessMin, score))
}
