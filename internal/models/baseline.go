package models

import "time"

// BaselineHistoryCap bounds the stored per-day history the rolling baseline
// is recomputed from.
const BaselineHistoryCap = 90

// BaselineWindowDays is the rolling window the baseline summarizes.
const BaselineWindowDays = 7

// BaselineMinSamples is the minimum number of points inside the window for
// the baseline to be considered valid.
const BaselineMinSamples = 3

// BaselinePoint is one accepted session's summary, one row per day.
type BaselinePoint struct {
	ID             int       `gorm:"primaryKey"`
	Date           time.Time `gorm:"uniqueIndex"`
	RMSSDMs        float64   `gorm:"column:rmssd_ms"`
	SDNNMs         float64   `gorm:"column:sdnn_ms"`
	MeanHR         float64   `gorm:"column:mean_hr"`
	HFPower        float64   `gorm:"column:hf_power"`
	LFPower        float64   `gorm:"column:lf_power"`
	LFHFRatio      float64   `gorm:"column:lf_hf_ratio"`
	DFAAlpha1      float64   `gorm:"column:dfa_alpha1"`
	StressIndex    float64   `gorm:"column:stress_index"`
	ReadinessScore float64   `gorm:"column:readiness_score"`
	CreatedAt      time.Time
}

// Baseline is the rolling 7-day personal summary the readiness score is
// measured against. Valid only when backed by at least 3 samples.
type Baseline struct {
	MeanRMSSDMs     float64 `json:"meanRmssdMs"`
	MeanSDNNMs      float64 `json:"meanSdnnMs"`
	MeanHR          float64 `json:"meanHR"`
	MeanHFPower     float64 `json:"meanHfPower"`
	MeanLFPower     float64 `json:"meanLfPower"`
	MeanLFHFRatio   float64 `json:"meanLfHfRatio"`
	MeanDFAAlpha1   float64 `json:"meanDfaAlpha1"`
	MeanStressIndex float64 `json:"meanStressIndex"`
	MeanReadiness   float64 `json:"meanReadiness"`
	SampleCount     int     `json:"sampleCount"`
	Valid           bool    `json:"valid"`
}

// ComputeBaseline derives the rolling baseline from stored history. Only
// points within the window ending at asOf contribute; fewer than the minimum
// sample count yields an invalid baseline.
func ComputeBaseline(points []BaselinePoint, asOf time.Time) Baseline {
	cutoff := asOf.AddDate(0, 0, -BaselineWindowDays)

	var b Baseline
	for _, p := range points {
		if p.Date.Before(cutoff) || p.Date.After(asOf) {
			continue
		}
		b.MeanRMSSDMs += p.RMSSDMs
		b.MeanSDNNMs += p.SDNNMs
		b.MeanHR += p.MeanHR
		b.MeanHFPower += p.HFPower
		b.MeanLFPower += p.LFPower
		b.MeanLFHFRatio += p.LFHFRatio
		b.MeanDFAAlpha1 += p.DFAAlpha1
		b.MeanStressIndex += p.StressIndex
		b.MeanReadiness += p.ReadinessScore
		b.SampleCount++
	}

	if b.SampleCount < BaselineMinSamples {
		return Baseline{SampleCount: b.SampleCount}
	}

	n := float64(b.SampleCount)
	b.MeanRMSSDMs /= n
	b.MeanSDNNMs /= n
	b.MeanHR /= n
	b.MeanHFPower /= n
	b.MeanLFPower /= n
	b.MeanLFHFRatio /= n
	b.MeanDFAAlpha1 /= n
	b.MeanStressIndex /= n
	b.MeanReadiness /= n
	b.Valid = true
	return b
}
