package hrv

import (
	"math"

	"hrv-go/internal/models"
)

const (
	// medianWindowBeats is the width of the centered rolling-median window
	// used as the local expected interval.
	medianWindowBeats = 50

	extraThreshold   = 0.50 // rr below half the local median is an extra beat
	ectopicThreshold = 0.30 // rr more than 30% below the local median
	ectopicMinDev    = 0.20 // and deviating by more than 20%
	missedThreshold  = 0.50 // rr more than 50% above the local median
)

// ClassifyArtifacts labels every beat interval clean or artifact with a
// sub-type and confidence. The flag slice is positionally aligned with the
// sequence. Pure function: safe to run on independent slices in parallel.
func ClassifyArtifacts(seq models.BeatSequence) []models.ArtifactFlag {
	values := seq.Durations()
	flags := make([]models.ArtifactFlag, len(values))

	half := medianWindowBeats / 2
	for i, rr := range values {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(values) {
			hi = len(values)
		}
		m := median(values[lo:hi])

		flags[i] = classifyBeat(rr, m)
	}
	return flags
}

func classifyBeat(rr, localMedian float64) models.ArtifactFlag {
	if rr < models.MinimumRRIntervalMs || rr > models.MaximumRRIntervalMs {
		return models.ArtifactFlag{IsArtifact: true, Kind: models.ArtifactTechnical, Confidence: 1.0}
	}
	if localMedian <= 0 {
		return models.ArtifactFlag{}
	}

	dev := math.Abs(rr-localMedian) / localMedian
	switch {
	case rr < localMedian*extraThreshold:
		return models.ArtifactFlag{IsArtifact: true, Kind: models.ArtifactExtra, Confidence: confidence(dev, extraThreshold)}
	case rr < localMedian*(1-ectopicThreshold) && dev > ectopicMinDev:
		return models.ArtifactFlag{IsArtifact: true, Kind: models.ArtifactEctopic, Confidence: confidence(dev, ectopicThreshold)}
	case rr > localMedian*(1+missedThreshold):
		return models.ArtifactFlag{IsArtifact: true, Kind: models.ArtifactMissed, Confidence: confidence(dev, missedThreshold)}
	}
	return models.ArtifactFlag{}
}

func confidence(deviation, threshold float64) float64 {
	return math.Min(1.0, deviation/threshold)
}

// cleanValues extracts the interval values whose flags are clean or already
// corrected. Panics on mismatched lengths: that is a programming error, not
// a data condition.
func cleanValues(values []float64, flags []models.ArtifactFlag) []float64 {
	if len(values) != len(flags) {
		panic("hrv: values and flags length mismatch")
	}
	out := make([]float64, 0, len(values))
	for i, v := range values {
		if !flags[i].IsArtifact {
			out = append(out, v)
		}
	}
	return out
}

// artifactPercent is the share of flagged beats, in percent.
func artifactPercent(flags []models.ArtifactFlag) float64 {
	if len(flags) == 0 {
		return 0
	}
	n := 0
	for _, f := range flags {
		if f.IsArtifact {
			n++
		}
	}
	return float64(n) / float64(len(flags)) * 100
}
