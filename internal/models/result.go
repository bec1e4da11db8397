package models

import "time"

// TimeDomainMetrics are the standard time-domain HRV statistics. Present
// only when the window held at least 10 clean beats.
type TimeDomainMetrics struct {
	MeanRRMs        float64 `json:"meanRRMs"`
	SDNNMs          float64 `json:"sdnnMs"`
	RMSSDMs         float64 `json:"rmssdMs"`
	SDSDMs          float64 `json:"sdsdMs"`
	PNN50Pct        float64 `json:"pnn50Pct"`
	MeanHR          float64 `json:"meanHR"`
	SDHR            float64 `json:"sdHR"`
	MinHR           float64 `json:"minHR"`
	MaxHR           float64 `json:"maxHR"`
	TriangularIndex float64 `json:"triangularIndex"`
	BeatCount       int     `json:"beatCount"`
}

// FrequencyDomainMetrics hold Welch band powers in ms². VLF is emitted only
// for usable windows of at least ten minutes.
type FrequencyDomainMetrics struct {
	VLFPower     float64 `json:"vlfPower,omitempty"`
	HasVLF       bool    `json:"hasVLF"`
	LFPower      float64 `json:"lfPower"`
	HFPower      float64 `json:"hfPower"`
	TotalPower   float64 `json:"totalPower"`
	LFHFRatio    float64 `json:"lfHfRatio"`
	LFNormalized float64 `json:"lfNormalized"`
	HFNormalized float64 `json:"hfNormalized"`
}

// NonlinearMetrics hold Poincaré geometry and sample entropy.
type NonlinearMetrics struct {
	SD1Ms         float64 `json:"sd1Ms"`
	SD2Ms         float64 `json:"sd2Ms"`
	SD1SD2Ratio   float64 `json:"sd1Sd2Ratio"`
	SampleEntropy float64 `json:"sampleEntropy"`
}

// DFAMetrics hold detrended fluctuation scaling exponents. Alpha1 requires
// 64 clean beats; Alpha2 additionally requires 256.
type DFAMetrics struct {
	Alpha1    float64 `json:"alpha1"`
	Alpha1R2  float64 `json:"alpha1R2"`
	Alpha2    float64 `json:"alpha2,omitempty"`
	Alpha2R2  float64 `json:"alpha2R2,omitempty"`
	HasAlpha2 bool    `json:"hasAlpha2"`
}

// AutonomicMetrics are the stress-scorer outputs.
type AutonomicMetrics struct {
	StressIndex    float64 `json:"stressIndex"`
	PNSIndex       float64 `json:"pnsIndex"`
	SNSIndex       float64 `json:"snsIndex"`
	ReadinessScore float64 `json:"readinessScore"`
}

// MetricResult is the immutable aggregate a completed analysis produces.
// Optional blocks are nil when the data could not support them; that is a
// normal operating condition, not an error.
type MetricResult struct {
	SessionID  string    `json:"sessionId"`
	RecordedAt time.Time `json:"recordedAt"`

	TimeDomain *TimeDomainMetrics      `json:"timeDomain,omitempty"`
	Frequency  *FrequencyDomainMetrics `json:"frequency,omitempty"`
	Nonlinear  *NonlinearMetrics       `json:"nonlinear,omitempty"`
	DFA        *DFAMetrics             `json:"dfa,omitempty"`
	Autonomic  *AutonomicMetrics       `json:"autonomic,omitempty"`

	// Provenance.
	ArtifactPercent float64 `json:"artifactPercent"`
	CleanBeatCount  int     `json:"cleanBeatCount"`
	WindowStart     int     `json:"windowStart"`
	WindowEnd       int     `json:"windowEnd"`

	Window         *AnalysisWindow      `json:"window,omitempty"` // selected recovery window, nil when none organized
	Classification WindowClassification `json:"classification"`
	PeakRMSSDMs    float64              `json:"peakRmssdMs"` // peak capacity across all surviving windows
	HasPeakRMSSD   bool                 `json:"hasPeakRmssd"`

	SourceDescription string `json:"sourceDescription"`
}
