package hrv

import (
	"math"

	"hrv-go/internal/models"
)

// Clean-beat minimums for the DFA scaling exponents.
const (
	MinDFAAlpha1Beats = 64
	MinDFAAlpha2Beats = 256
)

// dfaBoxSizes is the fixed box-size ladder. Alpha1 regresses over 4-16,
// alpha2 over 16-64.
var dfaBoxSizes = []int{4, 5, 6, 7, 8, 9, 10, 11, 12, 14, 16, 20, 24, 28, 32, 40, 48, 56, 64}

const (
	alpha1MaxBox = 16
	alpha2MinBox = 16
)

// ComputeDFA runs detrended fluctuation analysis over clean interval values:
// integrate the mean-centered series, detrend per non-overlapping box with a
// least-squares line, and regress log fluctuation against log box size.
// Returns nil below 64 beats; alpha2 is present only at 256 beats or more.
func ComputeDFA(rr []float64) *models.DFAMetrics {
	n := len(rr)
	if n < MinDFAAlpha1Beats {
		return nil
	}

	// Integrated profile of the mean-centered series.
	avg := mean(rr)
	profile := make([]float64, n)
	var cum float64
	for i, v := range rr {
		cum += v - avg
		profile[i] = cum
	}

	var logSizes, logFlucts []float64
	for _, size := range dfaBoxSizes {
		if size > n/2 {
			break
		}
		f := boxFluctuation(profile, size)
		if f <= 0 {
			continue
		}
		logSizes = append(logSizes, math.Log(float64(size)))
		logFlucts = append(logFlucts, math.Log(f))
	}

	a1, r2a1, ok := fitScalingRange(logSizes, logFlucts, dfaBoxSizes[0], alpha1MaxBox)
	if !ok {
		return nil
	}
	out := &models.DFAMetrics{Alpha1: a1, Alpha1R2: r2a1}

	if n >= MinDFAAlpha2Beats {
		if a2, r2a2, ok := fitScalingRange(logSizes, logFlucts, alpha2MinBox, dfaBoxSizes[len(dfaBoxSizes)-1]); ok {
			out.Alpha2 = a2
			out.Alpha2R2 = r2a2
			out.HasAlpha2 = true
		}
	}
	return out
}

// boxFluctuation is the RMS residual around per-box linear trends, averaged
// over all complete boxes of the given size.
func boxFluctuation(profile []float64, size int) float64 {
	nBoxes := len(profile) / size
	if nBoxes == 0 {
		return 0
	}

	xs := make([]float64, size)
	for i := range xs {
		xs[i] = float64(i)
	}

	var sumRMS float64
	for b := 0; b < nBoxes; b++ {
		box := profile[b*size : (b+1)*size]
		slope, intercept, _ := linearFit(xs, box)
		var ss float64
		for i, v := range box {
			res := v - (slope*xs[i] + intercept)
			ss += res * res
		}
		sumRMS += math.Sqrt(ss / float64(size))
	}
	return sumRMS / float64(nBoxes)
}

// fitScalingRange regresses log(F) on log(size) over box sizes in
// [minBox, maxBox]. Needs at least three points for a meaningful slope.
func fitScalingRange(logSizes, logFlucts []float64, minBox, maxBox int) (slope, r2 float64, ok bool) {
	loEdge := math.Log(float64(minBox))
	hiEdge := math.Log(float64(maxBox))

	var xs, ys []float64
	for i, ls := range logSizes {
		if ls >= loEdge-1e-9 && ls <= hiEdge+1e-9 {
			xs = append(xs, ls)
			ys = append(ys, logFlucts[i])
		}
	}
	if len(xs) < 3 {
		return 0, 0, false
	}
	slope, _, r2 = linearFit(xs, ys)
	return slope, r2, true
}
