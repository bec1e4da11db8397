package hrv

import (
	"math"
	"math/cmplx"

	"hrv-go/internal/models"
)

// Welch estimation parameters: 4 Hz uniform resampling, 256-sample segments
// with 50% overlap under a Hann window.
const (
	resampleRateHz  = 4.0
	welchSegmentLen = 256
	welchOverlap    = welchSegmentLen / 2
)

// Spectral band edges in Hz.
const (
	vlfLow  = 0.003
	vlfHigh = 0.04
	lfLow   = 0.04
	lfHigh  = 0.15
	hfLow   = 0.15
	hfHigh  = 0.40
)

// vlfMinWindowSec: VLF power is emitted only when the usable window spans at
// least ten minutes.
const vlfMinWindowSec = 600.0

// ComputeFrequencyDomain estimates band powers over clean interval values.
// Beats are placed on a continuous timeline using mid-point timing, linearly
// resampled to a uniform 4 Hz grid, and passed through Welch's method.
// Returns nil when the window is too short for one full Welch segment.
func ComputeFrequencyDomain(rr []float64) *models.FrequencyDomainMetrics {
	if len(rr) < MinTimeDomainBeats {
		return nil
	}

	times, values := midpointTachogram(rr)
	grid := resampleUniform(times, values, resampleRateHz)
	if len(grid) < welchSegmentLen {
		return nil
	}

	psd, df := welchPSD(grid, resampleRateHz)

	windowSec := times[len(times)-1] - times[0]
	out := &models.FrequencyDomainMetrics{
		LFPower: bandPower(psd, df, lfLow, lfHigh),
		HFPower: bandPower(psd, df, hfLow, hfHigh),
	}
	if windowSec >= vlfMinWindowSec {
		out.VLFPower = bandPower(psd, df, vlfLow, vlfHigh)
		out.HasVLF = true
	}
	out.TotalPower = out.VLFPower + out.LFPower + out.HFPower
	if out.HFPower > 0 {
		out.LFHFRatio = out.LFPower / out.HFPower
	}
	if lfhf := out.LFPower + out.HFPower; lfhf > 0 {
		out.LFNormalized = out.LFPower / lfhf * 100
		out.HFNormalized = out.HFPower / lfhf * 100
	}
	return out
}

// midpointTachogram places each interval value at the midpoint of the beat
// it ends, in seconds from window start.
func midpointTachogram(rr []float64) (times, values []float64) {
	times = make([]float64, len(rr))
	values = make([]float64, len(rr))
	var cumMs float64
	for i, v := range rr {
		times[i] = (cumMs + v/2) / 1000.0
		values[i] = v
		cumMs += v
	}
	return times, values
}

// resampleUniform linearly interpolates the irregular tachogram onto a
// uniform grid at the given rate, spanning [times[0], times[last]].
func resampleUniform(times, values []float64, rateHz float64) []float64 {
	if len(times) < 2 {
		return nil
	}
	start, end := times[0], times[len(times)-1]
	n := int((end-start)*rateHz) + 1
	if n < 2 {
		return nil
	}

	out := make([]float64, n)
	seg := 0
	for i := 0; i < n; i++ {
		t := start + float64(i)/rateHz
		for seg < len(times)-2 && times[seg+1] < t {
			seg++
		}
		t0, t1 := times[seg], times[seg+1]
		v0, v1 := values[seg], values[seg+1]
		if t1 == t0 {
			out[i] = v0
			continue
		}
		frac := (t - t0) / (t1 - t0)
		if frac < 0 {
			frac = 0
		} else if frac > 1 {
			frac = 1
		}
		out[i] = v0 + (v1-v0)*frac
	}
	return out
}

// welchPSD averages Hann-windowed, mean-detrended periodograms over 50%
// overlapping segments. Returns the one-sided PSD (ms²/Hz) and its frequency
// resolution, so that summing psd[k]*df over a band yields power in ms².
func welchPSD(signal []float64, rateHz float64) (psd []float64, df float64) {
	window := hannWindow(welchSegmentLen)
	var windowPower float64
	for _, w := range window {
		windowPower += w * w
	}

	nBins := welchSegmentLen/2 + 1
	psd = make([]float64, nBins)
	segments := 0

	buf := make([]complex128, welchSegmentLen)
	for start := 0; start+welchSegmentLen <= len(signal); start += welchOverlap {
		seg := signal[start : start+welchSegmentLen]
		segMean := mean(seg)
		for i := range buf {
			buf[i] = complex((seg[i]-segMean)*window[i], 0)
		}
		fft(buf)

		for k := 0; k < nBins; k++ {
			p := cmplx.Abs(buf[k])
			scale := 2.0
			if k == 0 || k == nBins-1 {
				scale = 1.0 // DC and Nyquist are not mirrored
			}
			psd[k] += scale * p * p / (rateHz * windowPower)
		}
		segments++
	}

	for k := range psd {
		psd[k] /= float64(segments)
	}
	return psd, rateHz / welchSegmentLen
}

// bandPower integrates the PSD over [low, high) by bin summation.
func bandPower(psd []float64, df, low, high float64) float64 {
	var power float64
	for k, p := range psd {
		f := float64(k) * df
		if f >= low && f < high {
			power += p * df
		}
	}
	return power
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// fft is an in-place iterative radix-2 Cooley-Tukey transform. len(x) must
// be a power of two (the Welch segment length is).
func fft(x []complex128) {
	n := len(x)

	// Bit-reversal permutation.
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}

	for length := 2; length <= n; length <<= 1 {
		ang := -2 * math.Pi / float64(length)
		wl := cmplx.Rect(1, ang)
		for i := 0; i < n; i += length {
			w := complex(1, 0)
			for j := 0; j < length/2; j++ {
				u := x[i+j]
				v := x[i+j+length/2] * w
				x[i+j] = u + v
				x[i+j+length/2] = u - v
				w *= wl
			}
		}
	}
}
