package hrv

import (
	"testing"

	"hrv-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaevskyStressIndex_UniformSeries(t *testing.T) {
	rr := make([]float64, 100)
	for i := range rr {
		rr[i] = 800
	}
	// All beats in one bin: AMo 100%, Mo 0.825 s, MxDMn floored at 0.05 s.
	si := baevskyStressIndex(rr)
	assert.InDelta(t, 100/(2*0.825*0.05), si, 0.01)
}

func TestBaevskyStressIndex_WiderSpreadLowersIndex(t *testing.T) {
	narrow := whiteNoiseSeries(200, 800, 20, 3)
	wide := whiteNoiseSeries(200, 800, 120, 3)
	assert.Greater(t, baevskyStressIndex(narrow), baevskyStressIndex(wide))
}

func TestComputeStress_AutonomicDirections(t *testing.T) {
	// A relaxed profile: long intervals, high variability.
	relaxed := whiteNoiseSeries(200, 1050, 60, 5)
	tdR := ComputeTimeDomain(relaxed)
	nlR := ComputeNonlinear(relaxed)
	require.NotNil(t, tdR)
	require.NotNil(t, nlR)

	aR := ComputeStress(relaxed, tdR, nlR, nil, nil)
	require.NotNil(t, aR)
	assert.Greater(t, aR.PNSIndex, 0.0)

	// A strained profile: short intervals, almost no variability.
	strained := whiteNoiseSeries(200, 550, 8, 5)
	tdS := ComputeTimeDomain(strained)
	nlS := ComputeNonlinear(strained)
	aS := ComputeStress(strained, tdS, nlS, nil, nil)
	require.NotNil(t, aS)
	assert.Greater(t, aS.SNSIndex, 0.0)
	assert.Less(t, aS.PNSIndex, aR.PNSIndex)
}

func TestComputeStress_NilInputs(t *testing.T) {
	rr := whiteNoiseSeries(50, 800, 30, 1)
	td := ComputeTimeDomain(rr)
	nl := ComputeNonlinear(rr)
	assert.Nil(t, ComputeStress(rr, nil, nl, nil, nil))
	assert.Nil(t, ComputeStress(rr, td, nil, nil, nil))
	assert.Nil(t, ComputeStress(nil, td, nl, nil, nil))
}

func TestReadinessScore_AbsoluteThresholds(t *testing.T) {
	good := &models.DFAMetrics{Alpha1: 0.85}
	assert.Equal(t, 9.0, readinessScore(60, good, nil))
	assert.Equal(t, 8.0, readinessScore(35, good, nil))
	assert.Equal(t, 7.0, readinessScore(25, good, nil))

	// Low variability plus a rigid alpha1 drags the score down hard.
	rigid := &models.DFAMetrics{Alpha1: 1.5}
	assert.Equal(t, 2.0, readinessScore(10, rigid, nil))
}

func TestReadinessScore_BaselineDeviation(t *testing.T) {
	base := &models.Baseline{Valid: true, MeanRMSSDMs: 60}
	good := &models.DFAMetrics{Alpha1: 0.85}

	assert.Equal(t, 9.0, readinessScore(60, good, base))  // on baseline
	assert.Equal(t, 8.0, readinessScore(45, good, base))  // 25% off
	assert.Equal(t, 5.0, readinessScore(30, good, base))  // 50% off
}

func TestReadinessScore_Clamped(t *testing.T) {
	assert.GreaterOrEqual(t, readinessScore(5, &models.DFAMetrics{Alpha1: 2.0}, nil), 1.0)
	assert.LessOrEqual(t, readinessScore(200, &models.DFAMetrics{Alpha1: 0.9}, nil), 10.0)
}

func TestReadinessScore_MissingDFAOmitsBand(t *testing.T) {
	assert.Equal(t, 7.0, readinessScore(60, nil, nil))
}
