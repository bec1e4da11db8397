package hrv

import (
	"math"

	"hrv-go/internal/models"
)

// CorrectionMethod selects how flagged intervals are repaired.
type CorrectionMethod int

const (
	CorrectionNone CorrectionMethod = iota
	CorrectionDeletion
	CorrectionLinear
	CorrectionCubicSpline
	CorrectionMedian
)

func (m CorrectionMethod) String() string {
	switch m {
	case CorrectionDeletion:
		return "deletion"
	case CorrectionLinear:
		return "linear_interpolation"
	case CorrectionCubicSpline:
		return "cubic_spline"
	case CorrectionMedian:
		return "median_replacement"
	default:
		return "none"
	}
}

// ParseCorrectionMethod maps a config label to its method; unknown labels
// fall back to median replacement.
func ParseCorrectionMethod(s string) CorrectionMethod {
	switch s {
	case "none":
		return CorrectionNone
	case "deletion":
		return CorrectionDeletion
	case "linear_interpolation", "linear":
		return CorrectionLinear
	case "cubic_spline", "spline":
		return CorrectionCubicSpline
	default:
		return CorrectionMedian
	}
}

const medianReplacementWindow = 11

// Correct repairs flagged intervals with the given method and returns new
// value and flag slices. Replaced entries get Corrected=true and IsArtifact
// cleared. The corrector never fails: when a method cannot apply it degrades
// to a cheaper one, and sequence length is preserved except for deletion.
func Correct(values []float64, flags []models.ArtifactFlag, method CorrectionMethod) ([]float64, []models.ArtifactFlag) {
	if len(values) != len(flags) {
		panic("hrv: values and flags length mismatch")
	}

	switch method {
	case CorrectionNone:
		return copyValues(values), copyFlags(flags)
	case CorrectionDeletion:
		return correctByDeletion(values, flags)
	case CorrectionLinear:
		return correctByLinear(values, flags)
	case CorrectionCubicSpline:
		return correctBySpline(values, flags)
	case CorrectionMedian:
		return correctByMedian(values, flags)
	}
	return copyValues(values), copyFlags(flags)
}

func correctByDeletion(values []float64, flags []models.ArtifactFlag) ([]float64, []models.ArtifactFlag) {
	outV := make([]float64, 0, len(values))
	outF := make([]models.ArtifactFlag, 0, len(flags))
	for i, v := range values {
		if flags[i].IsArtifact {
			continue
		}
		outV = append(outV, v)
		outF = append(outF, flags[i])
	}
	return outV, outF
}

// correctByLinear interpolates each maximal artifact run between its nearest
// clean neighbors. A run touching a boundary holds the one clean value that
// exists on the other side.
func correctByLinear(values []float64, flags []models.ArtifactFlag) ([]float64, []models.ArtifactFlag) {
	outV := copyValues(values)
	outF := copyFlags(flags)

	i := 0
	for i < len(outV) {
		if !outF[i].IsArtifact {
			i++
			continue
		}
		// Maximal artifact run [i, j).
		j := i
		for j < len(outV) && outF[j].IsArtifact {
			j++
		}

		prevIdx, nextIdx := i-1, j
		switch {
		case prevIdx >= 0 && nextIdx < len(outV):
			left, right := outV[prevIdx], outV[nextIdx]
			span := float64(nextIdx - prevIdx)
			for k := i; k < j; k++ {
				frac := float64(k-prevIdx) / span
				outV[k] = left + (right-left)*frac
				markCorrected(&outF[k])
			}
		case prevIdx >= 0:
			for k := i; k < j; k++ {
				outV[k] = outV[prevIdx]
				markCorrected(&outF[k])
			}
		case nextIdx < len(outV):
			for k := i; k < j; k++ {
				outV[k] = outV[nextIdx]
				markCorrected(&outF[k])
			}
		}
		i = j
	}
	return outV, outF
}

// correctBySpline evaluates a natural cubic spline over the clean points at
// each artifact position. Fewer than 4 clean points degrades to linear
// interpolation. Spline outputs are clamped to the physiological bounds.
func correctBySpline(values []float64, flags []models.ArtifactFlag) ([]float64, []models.ArtifactFlag) {
	var xs, ys []float64
	for i, v := range values {
		if !flags[i].IsArtifact {
			xs = append(xs, float64(i))
			ys = append(ys, v)
		}
	}
	if len(xs) < 4 {
		return correctByLinear(values, flags)
	}

	m2 := naturalSplineSecondDerivatives(xs, ys)

	outV := copyValues(values)
	outF := copyFlags(flags)
	for i := range outV {
		if !outF[i].IsArtifact {
			continue
		}
		v := evalSpline(xs, ys, m2, float64(i))
		outV[i] = math.Min(models.MaximumRRIntervalMs, math.Max(models.MinimumRRIntervalMs, v))
		markCorrected(&outF[i])
	}
	return outV, outF
}

func correctByMedian(values []float64, flags []models.ArtifactFlag) ([]float64, []models.ArtifactFlag) {
	outV := copyValues(values)
	outF := copyFlags(flags)
	half := medianReplacementWindow / 2

	for i := range outV {
		if !outF[i].IsArtifact {
			continue
		}
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(values) {
			hi = len(values)
		}
		var window []float64
		for k := lo; k < hi; k++ {
			if !flags[k].IsArtifact {
				window = append(window, values[k])
			}
		}
		if len(window) == 0 {
			// No clean neighbor at all; leave the value and fall back to
			// linear handling for the run.
			continue
		}
		outV[i] = median(window)
		markCorrected(&outF[i])
	}

	// Any artifact still standing had no clean beat in its window; degrade
	// to linear interpolation for those runs.
	for i := range outF {
		if outF[i].IsArtifact {
			return correctByLinear(outV, outF)
		}
	}
	return outV, outF
}

// naturalSplineSecondDerivatives solves the tridiagonal spline system with
// the Thomas algorithm. Natural boundary: second derivative 0 at both ends.
func naturalSplineSecondDerivatives(xs, ys []float64) []float64 {
	n := len(xs)
	m2 := make([]float64, n)
	if n < 3 {
		return m2
	}

	// Interior equations: a*m2[i-1] + b*m2[i] + c*m2[i+1] = d.
	size := n - 2
	a := make([]float64, size)
	b := make([]float64, size)
	c := make([]float64, size)
	d := make([]float64, size)
	for i := 1; i <= size; i++ {
		h0 := xs[i] - xs[i-1]
		h1 := xs[i+1] - xs[i]
		a[i-1] = h0
		b[i-1] = 2 * (h0 + h1)
		c[i-1] = h1
		d[i-1] = 6 * ((ys[i+1]-ys[i])/h1 - (ys[i]-ys[i-1])/h0)
	}

	// Forward sweep.
	for i := 1; i < size; i++ {
		w := a[i] / b[i-1]
		b[i] -= w * c[i-1]
		d[i] -= w * d[i-1]
	}
	// Back substitution.
	m2[size] = d[size-1] / b[size-1]
	for i := size - 2; i >= 0; i-- {
		m2[i+1] = (d[i] - c[i]*m2[i+2]) / b[i]
	}
	return m2
}

func evalSpline(xs, ys, m2 []float64, x float64) float64 {
	n := len(xs)
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}

	// Find the segment by binary search.
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if xs[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}

	h := xs[hi] - xs[lo]
	u := (xs[hi] - x) / h
	v := (x - xs[lo]) / h
	return u*ys[lo] + v*ys[hi] +
		((u*u*u-u)*m2[lo]+(v*v*v-v)*m2[hi])*h*h/6
}

func markCorrected(f *models.ArtifactFlag) {
	f.IsArtifact = false
	f.Corrected = true
}

func copyValues(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	return out
}

func copyFlags(flags []models.ArtifactFlag) []models.ArtifactFlag {
	out := make([]models.ArtifactFlag, len(flags))
	copy(out, flags)
	return out
}
