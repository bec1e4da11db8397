package hrv

import (
	"testing"
	"time"

	"hrv-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contiguousSeq(n int, durationMs uint16) *models.BeatSequence {
	durations := make([]uint16, n)
	for i := range durations {
		durations[i] = durationMs
	}
	seq := models.NewBeatSequence("s1", time.Now(), durations)
	return &seq
}

// gappedSeq builds a device-buffer sequence of contiguous beats with one
// dropout of gapMs inserted after the first half.
func gappedSeq(n int, durationMs uint16, gapMs int64) *models.BeatSequence {
	beats := make([]models.BeatInterval, n)
	var cum int64
	for i := range beats {
		if i == n/2 {
			cum += gapMs
		}
		beats[i] = models.BeatInterval{CumulativeStartMs: cum, DurationMs: durationMs}
		cum += int64(durationMs)
	}
	seq := models.NewBeatSequenceFromIntervals("s1", time.Now(), beats)
	return &seq
}

func TestFuse_BothInvalid(t *testing.T) {
	_, err := Fuse(contiguousSeq(50, 800), contiguousSeq(80, 800))
	assert.ErrorIs(t, err, ErrBothSourcesInvalid)

	_, err = Fuse(nil, nil)
	assert.ErrorIs(t, err, ErrBothSourcesInvalid)
}

func TestFuse_SingleValidSource(t *testing.T) {
	res, err := Fuse(contiguousSeq(150, 800), nil)
	require.NoError(t, err)
	assert.Equal(t, 150, res.Sequence.Count())
	assert.Equal(t, "device buffer only", res.Description)
	assert.False(t, res.UsedComposite)

	res, err = Fuse(contiguousSeq(50, 800), contiguousSeq(150, 800))
	require.NoError(t, err)
	assert.Equal(t, "live stream only", res.Description)
}

func TestFuse_DeviceBufferWinsTiesAndSmallDifferences(t *testing.T) {
	// Exactly 5.0% fewer device beats: still no composite.
	res, err := Fuse(contiguousSeq(190, 800), contiguousSeq(200, 800))
	require.NoError(t, err)
	assert.False(t, res.UsedComposite)
	assert.Equal(t, 190, res.Sequence.Count())

	// More device beats than streamed: device buffer regardless of diff.
	res, err = Fuse(contiguousSeq(300, 800), contiguousSeq(150, 800))
	require.NoError(t, err)
	assert.False(t, res.UsedComposite)
	assert.Equal(t, 300, res.Sequence.Count())
}

func TestFuse_CompositeFillsDropout(t *testing.T) {
	// Device buffer dropped ~12 seconds of beats; the live stream is
	// contiguous over the whole session on the same beat timeline.
	internal := gappedSeq(200, 1000, 12000)
	streaming := contiguousSeq(250, 1000)

	res, err := Fuse(internal, streaming)
	require.NoError(t, err)
	assert.True(t, res.UsedComposite)
	assert.Equal(t, 1, res.FilledGaps)
	assert.Contains(t, res.Description, "composite")

	// The composite is a strict superset of the device buffer.
	assert.Greater(t, res.Sequence.Count(), internal.Count())

	// And it is ordered on the cumulative timeline.
	beats := res.Sequence.Beats
	for i := 1; i < len(beats); i++ {
		assert.GreaterOrEqual(t, beats[i].CumulativeStartMs, beats[i-1].CumulativeStartMs)
	}

	// The fill landed inside the gap: no residual dropout of the original
	// size remains.
	for i := 1; i < len(beats); i++ {
		gap := beats[i].CumulativeStartMs - beats[i-1].EndMs()
		assert.Less(t, gap, int64(12000), "beat %d still follows a dropout", i)
	}
}

func TestFuse_SmallGapIsNotADropout(t *testing.T) {
	// A 2 s hiccup stays within tolerance, so no fill happens even though
	// the stream has more beats.
	internal := gappedSeq(200, 1000, 2000)
	streaming := contiguousSeq(250, 1000)

	res, err := Fuse(internal, streaming)
	require.NoError(t, err)
	assert.False(t, res.UsedComposite)
	assert.Equal(t, 0, res.FilledGaps)
}

func TestFuse_GapWithoutStreamCoverageStaysUnfilled(t *testing.T) {
	internal := gappedSeq(200, 1000, 12000)
	// The stream stops before the gap region.
	streaming := contiguousSeq(230, 400)

	res, err := Fuse(internal, streaming)
	require.NoError(t, err)
	assert.False(t, res.UsedComposite)
	assert.Contains(t, res.Description, "no fillable gaps")
}
