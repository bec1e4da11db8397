package hrv

import (
	"math"

	"hrv-go/internal/models"
)

// MinTimeDomainBeats is the clean-beat minimum below which time-domain
// metrics are absent.
const MinTimeDomainBeats = 10

// triangularBinWidthMs is the histogram bin width for the HRV triangular
// index (128 bins per second, the conventional 7.8125 ms).
const triangularBinWidthMs = 7.8125

// pnn50ThresholdMs is the successive-difference threshold for pNN50.
const pnn50ThresholdMs = 50.0

// ComputeTimeDomain computes the time-domain HRV statistics over clean
// interval values. Returns nil when fewer than 10 beats are available.
func ComputeTimeDomain(rr []float64) *models.TimeDomainMetrics {
	if len(rr) < MinTimeDomainBeats {
		return nil
	}

	meanRR := mean(rr)
	sdnn := stdDev(rr)

	diffs := successiveDiffs(rr)
	var sumSq float64
	nn50 := 0
	for _, d := range diffs {
		sumSq += d * d
		if math.Abs(d) > pnn50ThresholdMs {
			nn50++
		}
	}
	rmssd := math.Sqrt(sumSq / float64(len(diffs)))
	sdsd := stdDev(diffs)
	pnn50 := float64(nn50) / float64(len(diffs)) * 100

	hrs := make([]float64, len(rr))
	minHR, maxHR := math.Inf(1), math.Inf(-1)
	for i, v := range rr {
		hr := 60000.0 / v
		hrs[i] = hr
		if hr < minHR {
			minHR = hr
		}
		if hr > maxHR {
			maxHR = hr
		}
	}

	return &models.TimeDomainMetrics{
		MeanRRMs:        meanRR,
		SDNNMs:          sdnn,
		RMSSDMs:         rmssd,
		SDSDMs:          sdsd,
		PNN50Pct:        pnn50,
		MeanHR:          mean(hrs),
		SDHR:            stdDev(hrs),
		MinHR:           minHR,
		MaxHR:           maxHR,
		TriangularIndex: triangularIndex(rr),
		BeatCount:       len(rr),
	}
}

// triangularIndex is total beat count divided by the tallest histogram bin.
func triangularIndex(rr []float64) float64 {
	bins := make(map[int]int)
	maxBin := 0
	for _, v := range rr {
		b := int(v / triangularBinWidthMs)
		bins[b]++
		if bins[b] > maxBin {
			maxBin = bins[b]
		}
	}
	if maxBin == 0 {
		return 0
	}
	return float64(len(rr)) / float64(maxBin)
}
