package models

import "time"

// SessionResult is the flattened, persisted form of a MetricResult, handed
// to the archive layer. Optional metric blocks persist as nullable columns.
type SessionResult struct {
	ID         int    `gorm:"primaryKey"`
	SessionID  string `gorm:"uniqueIndex"`
	RecordedAt time.Time

	MeanRRMs *float64
	SDNNMs   *float64
	RMSSDMs  *float64
	PNN50Pct *float64
	MeanHR   *float64

	VLFPower  *float64
	LFPower   *float64
	HFPower   *float64
	LFHFRatio *float64

	SD1Ms         *float64
	SD2Ms         *float64
	SampleEntropy *float64

	DFAAlpha1 *float64
	DFAAlpha2 *float64

	StressIndex    *float64
	PNSIndex       *float64
	SNSIndex       *float64
	ReadinessScore *float64

	ArtifactPercent float64
	CleanBeatCount  int
	WindowStart     int
	WindowEnd       int
	Classification  string
	PeakRMSSDMs     *float64

	SourceDescription string
	CreatedAt         time.Time
}

// NewSessionResult flattens a MetricResult into its storable row.
func NewSessionResult(r *MetricResult) SessionResult {
	row := SessionResult{
		SessionID:         r.SessionID,
		RecordedAt:        r.RecordedAt,
		ArtifactPercent:   r.ArtifactPercent,
		CleanBeatCount:    r.CleanBeatCount,
		WindowStart:       r.WindowStart,
		WindowEnd:         r.WindowEnd,
		Classification:    r.Classification.String(),
		SourceDescription: r.SourceDescription,
	}
	if td := r.TimeDomain; td != nil {
		row.MeanRRMs = &td.MeanRRMs
		row.SDNNMs = &td.SDNNMs
		row.RMSSDMs = &td.RMSSDMs
		row.PNN50Pct = &td.PNN50Pct
		row.MeanHR = &td.MeanHR
	}
	if f := r.Frequency; f != nil {
		if f.HasVLF {
			row.VLFPower = &f.VLFPower
		}
		row.LFPower = &f.LFPower
		row.HFPower = &f.HFPower
		row.LFHFRatio = &f.LFHFRatio
	}
	if nl := r.Nonlinear; nl != nil {
		row.SD1Ms = &nl.SD1Ms
		row.SD2Ms = &nl.SD2Ms
		row.SampleEntropy = &nl.SampleEntropy
	}
	if d := r.DFA; d != nil {
		row.DFAAlpha1 = &d.Alpha1
		if d.HasAlpha2 {
			row.DFAAlpha2 = &d.Alpha2
		}
	}
	if a := r.Autonomic; a != nil {
		row.StressIndex = &a.StressIndex
		row.PNSIndex = &a.PNSIndex
		row.SNSIndex = &a.SNSIndex
		row.ReadinessScore = &a.ReadinessScore
	}
	if r.HasPeakRMSSD {
		row.PeakRMSSDMs = &r.PeakRMSSDMs
	}
	return row
}
