package hrv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniformSine samples a sine of the given frequency and amplitude at 4 Hz
// for the given length.
func uniformSine(freqHz, amplitude, totalSec float64) []float64 {
	n := int(totalSec * resampleRateHz)
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / resampleRateHz
		out[i] = 1000.0 + amplitude*math.Sin(2*math.Pi*freqHz*t)
	}
	return out
}

// sineModulatedBeats synthesizes beats whose interval value follows a sine
// around a 1000 ms mean, for the given recording length.
func sineModulatedBeats(freqHz, amplitudeMs, totalSec float64) []float64 {
	var rr []float64
	t := 0.0
	for t < totalSec {
		v := 1000.0 + amplitudeMs*math.Sin(2*math.Pi*freqHz*t)
		rr = append(rr, v)
		t += v / 1000.0
	}
	return rr
}

func TestWelchPSD_HFSinePower(t *testing.T) {
	// 0.25 Hz sine, amplitude 50 ms, 300 s at the 4 Hz grid.
	grid := uniformSine(0.25, 50, 300)

	psd, df := welchPSD(grid, resampleRateHz)
	hf := bandPower(psd, df, hfLow, hfHigh)
	lf := bandPower(psd, df, lfLow, lfHigh)
	vlf := bandPower(psd, df, vlfLow, vlfHigh)
	total := bandPower(psd, df, 0, resampleRateHz/2)

	// At least 90% of total spectral power lands in HF, and the band
	// carries the sine's 50²/2 = 1250 ms².
	assert.GreaterOrEqual(t, hf/total, 0.90)
	assert.InEpsilon(t, 1250.0, hf, 0.25)
	assert.Less(t, lf, hf/10)
	assert.Less(t, vlf, hf/10)
}

func TestWelchPSD_LFSinePower(t *testing.T) {
	grid := uniformSine(0.10, 50, 300)

	psd, df := welchPSD(grid, resampleRateHz)
	lf := bandPower(psd, df, lfLow, lfHigh)
	total := bandPower(psd, df, 0, resampleRateHz/2)

	assert.GreaterOrEqual(t, lf/total, 0.90)
	assert.InEpsilon(t, 1250.0, lf, 0.25)
}

func TestComputeFrequencyDomain_BandConcentration(t *testing.T) {
	// Beat-derived tachograms lose some amplitude to the linear resampling,
	// but the band concentration must survive end to end.
	hfBeats := sineModulatedBeats(0.25, 50, 300)
	f := ComputeFrequencyDomain(hfBeats)
	require.NotNil(t, f)
	assert.GreaterOrEqual(t, f.HFPower/(f.LFPower+f.HFPower), 0.90)
	assert.Greater(t, f.HFNormalized, 90.0)
	assert.Less(t, f.LFHFRatio, 0.15)

	lfBeats := sineModulatedBeats(0.10, 50, 300)
	f = ComputeFrequencyDomain(lfBeats)
	require.NotNil(t, f)
	assert.GreaterOrEqual(t, f.LFPower/(f.LFPower+f.HFPower), 0.90)
	assert.Greater(t, f.LFHFRatio, 1.5)
}

func TestComputeFrequencyDomain_VLFRequiresTenMinutes(t *testing.T) {
	short := sineModulatedBeats(0.25, 30, 300)
	f := ComputeFrequencyDomain(short)
	require.NotNil(t, f)
	assert.False(t, f.HasVLF)

	long := sineModulatedBeats(0.25, 30, 700)
	f = ComputeFrequencyDomain(long)
	require.NotNil(t, f)
	assert.True(t, f.HasVLF)
}

func TestComputeFrequencyDomain_TooShortForSegment(t *testing.T) {
	// 30 seconds of beats resamples to well under one Welch segment.
	rr := sineModulatedBeats(0.25, 30, 30)
	assert.Nil(t, ComputeFrequencyDomain(rr))
}

func TestResampleUniform_LinearSignal(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4}
	values := []float64{100, 200, 300, 400, 500}

	grid := resampleUniform(times, values, 4)
	require.Len(t, grid, 17) // 4 s at 4 Hz, inclusive endpoints
	assert.InDelta(t, 100.0, grid[0], 1e-9)
	assert.InDelta(t, 125.0, grid[1], 1e-9)
	assert.InDelta(t, 500.0, grid[16], 1e-9)
}

func TestFFT_SingleTone(t *testing.T) {
	// A pure tone at bin 8 of a 64-point transform.
	n := 64
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(math.Cos(2*math.Pi*8*float64(i)/float64(n)), 0)
	}
	fft(x)

	// Energy concentrates at bins 8 and 56 with magnitude n/2.
	assert.InDelta(t, float64(n)/2, magnitude(x[8]), 1e-6)
	assert.InDelta(t, float64(n)/2, magnitude(x[56]), 1e-6)
	assert.InDelta(t, 0.0, magnitude(x[3]), 1e-6)
}

func magnitude(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
