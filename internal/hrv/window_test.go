package hrv

import (
	"math"
	"testing"

	"hrv-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticNight builds a clean overnight tachogram: a slow respiratory-like
// sine around 950 ms plus jitter whose amplitude peaks mid-recording, so the
// highest-variability region sits near the middle of the night.
func syntheticNight(totalSec float64) ([]float64, []models.ArtifactFlag) {
	g := &lcg{state: 99}
	var rr []float64
	t := 0.0
	for t < totalSec {
		center := (t - totalSec/2) / (totalSec / 10)
		jitterAmp := 5 + 25*math.Exp(-center*center)
		v := 950 + 80*math.Sin(2*math.Pi*t/300) + jitterAmp*(2*g.next()-1)
		rr = append(rr, v)
		t += v / 1000.0
	}
	return rr, make([]models.ArtifactFlag, len(rr))
}

func TestSelectWindow_EightHourRecording(t *testing.T) {
	values, flags := syntheticNight(8 * 3600)

	res, err := SelectWindow(values, flags, WindowOptions{Method: SelectPeakRMSSD})
	require.NoError(t, err)
	require.NotNil(t, res.Selected)

	assert.Equal(t, defaultTargetWindowBeats, res.Selected.Len())
	assert.True(t, res.HasPeak)
	assert.Greater(t, len(res.Candidates), 10)

	// The selected window must sit inside the central band, and with the
	// variability envelope peaking mid-night it lands near the middle.
	mid := float64(res.Selected.StartIndex+res.Selected.EndIndex) / 2 / float64(len(values))
	assert.GreaterOrEqual(t, mid, 0.28)
	assert.LessOrEqual(t, mid, 0.72)
	assert.InDelta(t, 0.5, mid, 0.15)
}

func TestSelectWindow_TwoHourRecordingHasNoBand(t *testing.T) {
	// 30-70% of two hours is a 48 minute band, under the 90 minute minimum.
	values, flags := syntheticNight(2 * 3600)

	_, err := SelectWindow(values, flags, WindowOptions{Method: SelectPeakRMSSD})
	assert.ErrorIs(t, err, ErrNoValidWindow)
}

func TestSelectWindow_AllArtifactsYieldsNoWindow(t *testing.T) {
	values, flags := syntheticNight(8 * 3600)
	for i := range flags {
		flags[i] = models.ArtifactFlag{IsArtifact: true, Kind: models.ArtifactTechnical, Confidence: 1}
	}

	res, err := SelectWindow(values, flags, WindowOptions{Method: SelectPeakRMSSD})
	assert.ErrorIs(t, err, ErrNoValidWindow)
	if res != nil {
		assert.Nil(t, res.Selected)
		assert.False(t, res.HasPeak)
	}
}

func TestSelectWindow_SleepBoundsNarrowTheBand(t *testing.T) {
	values, flags := syntheticNight(10 * 3600)

	// Sleep covers only the first two hours of a ten hour recording.
	_, err := SelectWindow(values, flags, WindowOptions{
		Method:         SelectPeakRMSSD,
		HasSleepBounds: true,
		SleepStartMs:   0,
		SleepEndMs:     2 * 3600 * 1000,
	})
	assert.ErrorIs(t, err, ErrNoValidWindow)
}

func TestSelectWindow_Custom(t *testing.T) {
	values, flags := syntheticNight(1 * 3600)

	res, err := SelectWindow(values, flags, WindowOptions{
		Method:      SelectCustom,
		CustomStart: 100,
		CustomEnd:   300,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Selected)
	assert.Equal(t, 100, res.Selected.StartIndex)
	assert.Equal(t, 300, res.Selected.EndIndex)
	assert.True(t, res.HasPeak)
}

func TestSelectWindow_CustomRejectsTinyRange(t *testing.T) {
	values, flags := syntheticNight(1 * 3600)

	_, err := SelectWindow(values, flags, WindowOptions{
		Method:      SelectCustom,
		CustomStart: 100,
		CustomEnd:   120,
	})
	assert.ErrorIs(t, err, ErrNoValidWindow)
}

func TestAdaptiveWindowSize(t *testing.T) {
	tests := []struct {
		available, target int
		want              int
		ok                bool
	}{
		{500, 400, 400, true},
		{450, 400, 225, true}, // half of available, still above 200
		{300, 400, 180, true}, // 60% of available
		{80, 400, 60, true},   // absolute floor
		{50, 400, 0, false},   // floor exceeds available
	}
	for _, tt := range tests {
		got, ok := adaptiveWindowSize(tt.available, tt.target)
		assert.Equal(t, tt.ok, ok, "available=%d", tt.available)
		if tt.ok {
			assert.Equal(t, tt.want, got, "available=%d", tt.available)
		}
	}
}

func TestClassifyWindow(t *testing.T) {
	tests := []struct {
		name string
		win  models.AnalysisWindow
		want models.WindowClassification
	}{
		{
			"organized",
			models.AnalysisWindow{HasDFAAlpha1: true, DFAAlpha1: 0.85, HasLFHF: true, LFHFRatio: 1.0, HRCoeffVar: 0.05},
			models.WindowOrganizedRecovery,
		},
		{
			"organized alpha but sympathetic spectrum",
			models.AnalysisWindow{HasDFAAlpha1: true, DFAAlpha1: 0.85, HasLFHF: true, LFHFRatio: 2.0, HRCoeffVar: 0.05},
			models.WindowHighVariability,
		},
		{
			"organized alpha but unstable rate",
			models.AnalysisWindow{HasDFAAlpha1: true, DFAAlpha1: 0.85, HasLFHF: true, LFHFRatio: 1.0, HRCoeffVar: 0.10},
			models.WindowHighVariability,
		},
		{
			"flexible band",
			models.AnalysisWindow{HasDFAAlpha1: true, DFAAlpha1: 0.65, HRCoeffVar: 0.05},
			models.WindowFlexibleUnconsolidated,
		},
		{
			"alpha too low",
			models.AnalysisWindow{HasDFAAlpha1: true, DFAAlpha1: 0.50, HRCoeffVar: 0.05},
			models.WindowHighVariability,
		},
		{
			"alpha too high",
			models.AnalysisWindow{HasDFAAlpha1: true, DFAAlpha1: 1.20, HRCoeffVar: 0.05},
			models.WindowHighVariability,
		},
		{
			"no alpha stable rate",
			models.AnalysisWindow{HRCoeffVar: 0.05},
			models.WindowFlexibleUnconsolidated,
		},
		{
			"no alpha unstable rate",
			models.AnalysisWindow{HRCoeffVar: 0.10},
			models.WindowHighVariability,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyWindow(tt.win))
		})
	}
}

func TestRejectTemporalSpikes(t *testing.T) {
	mk := func(cv float64) candidate {
		return candidate{win: models.AnalysisWindow{HRCoeffVar: cv}}
	}

	// The middle window is 50% above both neighbors and gets dropped.
	out := rejectTemporalSpikes([]candidate{mk(0.05), mk(0.05), mk(0.12), mk(0.05), mk(0.05)})
	require.Len(t, out, 4)
	for _, c := range out {
		assert.NotEqual(t, 0.12, c.win.HRCoeffVar)
	}

	// Edge windows have a single neighbor and survive regardless.
	out = rejectTemporalSpikes([]candidate{mk(0.20), mk(0.05), mk(0.05)})
	assert.Len(t, out, 3)
}

func TestPickOrganized_IgnoresDisorganizedExtremes(t *testing.T) {
	mk := func(rmssd float64, class models.WindowClassification) candidate {
		return candidate{win: models.AnalysisWindow{RMSSDMs: rmssd, Classification: class}}
	}
	cands := []candidate{
		mk(90, models.WindowHighVariability),
		mk(40, models.WindowOrganizedRecovery),
		mk(55, models.WindowOrganizedRecovery),
		mk(70, models.WindowFlexibleUnconsolidated),
	}

	best := pickOrganized(cands)
	require.NotNil(t, best)
	assert.Equal(t, 55.0, best.RMSSDMs)

	assert.Nil(t, pickOrganized([]candidate{mk(90, models.WindowHighVariability)}))
}

func TestParseSelectionMethod(t *testing.T) {
	assert.Equal(t, SelectPeakRMSSD, ParseSelectionMethod("peak_rmssd"))
	assert.Equal(t, SelectPeakSDNN, ParseSelectionMethod("peak_sdnn"))
	assert.Equal(t, SelectPeakTotalPower, ParseSelectionMethod("peak_total_power"))
	assert.Equal(t, SelectCustom, ParseSelectionMethod("custom"))
	assert.Equal(t, SelectOrganized, ParseSelectionMethod(""))
	assert.Equal(t, SelectOrganized, ParseSelectionMethod("anything"))
}
