package hrv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTimeDomain_RequiresTenBeats(t *testing.T) {
	rr := []float64{800, 810, 790, 805, 795, 800, 810, 790, 805}
	assert.Nil(t, ComputeTimeDomain(rr))

	rr = append(rr, 800)
	assert.NotNil(t, ComputeTimeDomain(rr))
}

func TestComputeTimeDomain_UniformSeries(t *testing.T) {
	rr := make([]float64, 50)
	for i := range rr {
		rr[i] = 800
	}

	td := ComputeTimeDomain(rr)
	require.NotNil(t, td)
	assert.InDelta(t, 0.0, td.SDNNMs, 1e-9)
	assert.InDelta(t, 0.0, td.RMSSDMs, 1e-9)
	assert.InDelta(t, 0.0, td.PNN50Pct, 1e-9)
	assert.InDelta(t, 800.0, td.MeanRRMs, 1e-9)
	assert.InDelta(t, 75.0, td.MeanHR, 1e-9)
	assert.InDelta(t, 75.0, td.MinHR, 1e-9)
	assert.InDelta(t, 75.0, td.MaxHR, 1e-9)
	// Every beat lands in one histogram bin.
	assert.InDelta(t, 1.0, td.TriangularIndex, 1e-9)
}

func TestComputeTimeDomain_RMSSDKnownPattern(t *testing.T) {
	pattern := []float64{800, 820, 790, 830, 780}
	rr := append(append([]float64{}, pattern...), pattern...)
	require.Len(t, rr, 10)

	td := ComputeTimeDomain(rr)
	require.NotNil(t, td)
	assert.InEpsilon(t, 36.74, td.RMSSDMs, 0.05)
}

func TestComputeTimeDomain_PNN50KnownSequence(t *testing.T) {
	rr := []float64{800, 860, 840, 895, 865, 935, 900, 820, 880, 830, 890}

	td := ComputeTimeDomain(rr)
	require.NotNil(t, td)
	assert.InDelta(t, 60.0, td.PNN50Pct, 0.1)
}

func TestComputeTimeDomain_HRRange(t *testing.T) {
	rr := []float64{1000, 1000, 1000, 1000, 1000, 500, 1000, 1000, 1000, 1000}

	td := ComputeTimeDomain(rr)
	require.NotNil(t, td)
	assert.InDelta(t, 120.0, td.MaxHR, 1e-9) // the 500 ms beat
	assert.InDelta(t, 60.0, td.MinHR, 1e-9)
	assert.Equal(t, 10, td.BeatCount)
}
