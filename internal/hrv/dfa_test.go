package hrv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lcg is a deterministic linear congruential generator so the noise tests
// are reproducible without seeding math/rand.
type lcg struct{ state uint64 }

func (g *lcg) next() float64 {
	g.state = g.state*6364136223846793005 + 1442695040888963407
	return float64(g.state>>11) / float64(1<<53)
}

// whiteNoiseSeries draws n values uniformly in mean±spread.
func whiteNoiseSeries(n int, meanMs, spreadMs float64, seed uint64) []float64 {
	g := &lcg{state: seed}
	out := make([]float64, n)
	for i := range out {
		out[i] = meanMs + spreadMs*(2*g.next()-1)
	}
	return out
}

// pinkNoiseSeries approximates 1/f noise with the Voss-McCartney algorithm:
// several white sources, each updated at half the rate of the previous.
func pinkNoiseSeries(n int, meanMs, spreadMs float64, seed uint64) []float64 {
	const rows = 8
	g := &lcg{state: seed}
	vals := make([]float64, rows)
	for i := range vals {
		vals[i] = 2*g.next() - 1
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		for r := 0; r < rows; r++ {
			if i%(1<<r) == 0 {
				vals[r] = 2*g.next() - 1
			}
		}
		var sum float64
		for _, v := range vals {
			sum += v
		}
		out[i] = meanMs + spreadMs*sum/rows
	}
	return out
}

func TestComputeDFA_RequiresSixtyFourBeats(t *testing.T) {
	assert.Nil(t, ComputeDFA(whiteNoiseSeries(63, 800, 50, 1)))
	assert.NotNil(t, ComputeDFA(whiteNoiseSeries(64, 800, 50, 1)))
}

func TestComputeDFA_WhiteNoiseScalesNearHalf(t *testing.T) {
	rr := whiteNoiseSeries(300, 800, 50, 42)

	d := ComputeDFA(rr)
	require.NotNil(t, d)
	// Uncorrelated noise integrates to a random walk with alpha near 0.5.
	assert.Greater(t, d.Alpha1, 0.25)
	assert.Less(t, d.Alpha1, 0.75)
	assert.Greater(t, d.Alpha1R2, 0.8)
}

func TestComputeDFA_PinkNoiseScalesHigherThanWhite(t *testing.T) {
	white := ComputeDFA(whiteNoiseSeries(512, 800, 50, 7))
	pink := ComputeDFA(pinkNoiseSeries(512, 800, 50, 7))
	require.NotNil(t, white)
	require.NotNil(t, pink)

	assert.Greater(t, pink.Alpha1, white.Alpha1)
	assert.Less(t, math.Abs(pink.Alpha1-1.0), math.Abs(white.Alpha1-1.0))
}

func TestComputeDFA_Alpha2NeedsLongerSeries(t *testing.T) {
	short := ComputeDFA(whiteNoiseSeries(200, 800, 50, 9))
	require.NotNil(t, short)
	assert.False(t, short.HasAlpha2)

	long := ComputeDFA(whiteNoiseSeries(300, 800, 50, 9))
	require.NotNil(t, long)
	assert.True(t, long.HasAlpha2)
	assert.Greater(t, long.Alpha2, 0.0)
}
