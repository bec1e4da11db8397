package models

// WindowClassification is the terminal state of a candidate window.
type WindowClassification int

const (
	WindowInsufficient WindowClassification = iota
	WindowOrganizedRecovery
	WindowFlexibleUnconsolidated
	WindowHighVariability
)

func (c WindowClassification) String() string {
	switch c {
	case WindowOrganizedRecovery:
		return "organized_recovery"
	case WindowFlexibleUnconsolidated:
		return "flexible_unconsolidated"
	case WindowHighVariability:
		return "high_variability"
	default:
		return "insufficient"
	}
}

// AnalysisWindow is one candidate (or selected) sub-range of the beat
// sequence, [StartIndex, EndIndex), with the quality fields the selector
// derived for it. Windows are built once and never mutated.
type AnalysisWindow struct {
	StartIndex int
	EndIndex   int

	MeanHR         float64
	HRCoeffVar     float64 // coefficient of variation of HR, fraction
	DFAAlpha1      float64
	HasDFAAlpha1   bool
	LFHFRatio      float64
	HasLFHF        bool
	RMSSDMs        float64
	CleanBeats     int
	Classification WindowClassification
	RecoveryScore  float64 // consolidation score: rmssd / (1 + 10*hrCV)
}

// Len returns the window width in beats.
func (w AnalysisWindow) Len() int {
	return w.EndIndex - w.StartIndex
}
