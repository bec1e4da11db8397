package hrv

import (
	"math"

	"hrv-go/internal/models"
)

// Sample entropy parameters: embedding dimension 2, tolerance 0.2 times the
// standard deviation of the series.
const (
	entropyDim       = 2
	entropyTolerance = 0.2
)

// ComputeNonlinear derives Poincaré geometry and sample entropy from clean
// interval values. Returns nil below the time-domain minimum.
func ComputeNonlinear(rr []float64) *models.NonlinearMetrics {
	if len(rr) < MinTimeDomainBeats {
		return nil
	}

	diffs := successiveDiffs(rr)
	var sumSq float64
	avg := mean(diffs)
	for _, d := range diffs {
		sumSq += (d - avg) * (d - avg)
	}
	varDiff := sumSq / float64(len(diffs))

	sd1 := math.Sqrt(varDiff / 2)
	sdnn := stdDev(rr)
	sd2Sq := 2*sdnn*sdnn - sd1*sd1
	sd2 := 0.0
	if sd2Sq > 0 {
		sd2 = math.Sqrt(sd2Sq)
	}

	ratio := 0.0
	if sd2 > 0 {
		ratio = sd1 / sd2
	}

	return &models.NonlinearMetrics{
		SD1Ms:         sd1,
		SD2Ms:         sd2,
		SD1SD2Ratio:   ratio,
		SampleEntropy: sampleEntropy(rr, entropyDim, entropyTolerance*stdDev(rr)),
	}
}

// sampleEntropy is -ln(A/B) where B counts template matches of length m and
// A matches of length m+1, under Chebyshev distance r, excluding
// self-matches.
func sampleEntropy(series []float64, m int, r float64) float64 {
	n := len(series)
	if n <= m+1 || r <= 0 {
		return 0
	}

	countMatches := func(length int) int {
		count := 0
		limit := n - length
		for i := 0; i <= limit; i++ {
			for j := i + 1; j <= limit; j++ {
				match := true
				for k := 0; k < length; k++ {
					if math.Abs(series[i+k]-series[j+k]) > r {
						match = false
						break
					}
				}
				if match {
					count++
				}
			}
		}
		return count
	}

	b := countMatches(m)
	a := countMatches(m + 1)
	if a == 0 || b == 0 {
		return 0
	}
	return -math.Log(float64(a) / float64(b))
}
