package hrv

import (
	"fmt"
	"sort"

	"hrv-go/internal/models"
)

// Fusion policy constants.
const (
	// MinSessionBeats: a source below this count is not usable at all.
	MinSessionBeats = 120

	// countDiffComposite: build a composite only when the durable source
	// has fewer beats and the count difference exceeds this percentage.
	countDiffComposite = 5.0

	// gapToleranceMs: an inter-beat gap is a dropout once it exceeds the
	// expected gap (the previous interval) by this much.
	gapToleranceMs = 2000

	// minFillBeats: a gap fill is accepted only with at least this many
	// streaming beats inside the gap.
	minFillBeats = 2
)

// FusionResult is the merged authoritative sequence plus a record of how it
// was assembled.
type FusionResult struct {
	Sequence      models.BeatSequence
	Description   string
	UsedComposite bool
	FilledGaps    int
}

// Fuse merges the two independently captured beat sequences into one
// authoritative sequence. The durable on-device buffer is preferred; the
// live stream fills detected dropouts when the durable buffer lost more
// than 5% of beats. Returns ErrBothSourcesInvalid when neither source is
// usable.
func Fuse(internal, streaming *models.BeatSequence) (*FusionResult, error) {
	internalValid := internal != nil && internal.Count() >= MinSessionBeats
	streamingValid := streaming != nil && streaming.Count() >= MinSessionBeats

	switch {
	case !internalValid && !streamingValid:
		return nil, ErrBothSourcesInvalid
	case internalValid && !streamingValid:
		return &FusionResult{Sequence: *internal, Description: "device buffer only"}, nil
	case !internalValid && streamingValid:
		return &FusionResult{Sequence: *streaming, Description: "live stream only"}, nil
	}

	countI, countS := internal.Count(), streaming.Count()
	maxCount := countI
	if countS > maxCount {
		maxCount = countS
	}
	percentDiff := float64(abs(countI-countS)) / float64(maxCount) * 100

	// Ties and differences at or below 5% always prefer the device buffer.
	if countI >= countS || percentDiff <= countDiffComposite {
		return &FusionResult{
			Sequence:    *internal,
			Description: fmt.Sprintf("device buffer preferred (%.1f%% count difference)", percentDiff),
		}, nil
	}

	return buildComposite(internal, streaming, percentDiff)
}

// buildComposite scans the device buffer for dropout gaps and patches each
// one with the streaming beats whose timestamps fall inside it. A fill is
// accepted on the minimum-beat rule only; continuity with the surrounding
// base beats is not re-verified beyond the final sort.
func buildComposite(internal, streaming *models.BeatSequence, percentDiff float64) (*FusionResult, error) {
	merged := make([]models.BeatInterval, len(internal.Beats))
	copy(merged, internal.Beats)

	filled := 0
	for i := 1; i < len(internal.Beats); i++ {
		prev, next := internal.Beats[i-1], internal.Beats[i]
		actualGap := next.CumulativeStartMs - prev.EndMs()
		expectedGap := int64(prev.DurationMs)
		if actualGap <= expectedGap+gapToleranceMs {
			continue
		}

		gapStart, gapEnd := prev.EndMs(), next.CumulativeStartMs
		var fill []models.BeatInterval
		for _, b := range streaming.Beats {
			if b.CumulativeStartMs >= gapStart && b.CumulativeStartMs <= gapEnd {
				fill = append(fill, b)
			}
		}
		if len(fill) < minFillBeats {
			continue
		}
		merged = append(merged, fill...)
		filled++
	}

	if filled == 0 {
		return &FusionResult{
			Sequence:    *internal,
			Description: fmt.Sprintf("device buffer preferred (%.1f%% count difference, no fillable gaps)", percentDiff),
		}, nil
	}

	sort.SliceStable(merged, func(a, b int) bool {
		return merged[a].CumulativeStartMs < merged[b].CumulativeStartMs
	})

	return &FusionResult{
		Sequence:      models.NewBeatSequenceFromIntervals(internal.SessionID, internal.StartedAt, merged),
		Description:   fmt.Sprintf("composite: device buffer + %d stream-filled gap(s) (%.1f%% count difference)", filled, percentDiff),
		UsedComposite: true,
		FilledGaps:    filled,
	}, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
