package models

import "time"

// Hard physiological bounds for a plausible RR interval. Anything outside
// these is sensor noise, not a heartbeat.
const (
	MinimumRRIntervalMs = 300
	MaximumRRIntervalMs = 2000
)

// BeatInterval is a single RR interval. CumulativeStartMs is the interval's
// offset from the start of the recording on the beat timeline; WallClockMs is
// populated only for live-streamed beats and is used for gap/backup
// diagnostics, never for metric math.
type BeatInterval struct {
	CumulativeStartMs int64  `json:"cumulativeStartMs"`
	DurationMs        uint16 `json:"durationMs"`
	WallClockMs       int64  `json:"wallClockMs,omitempty"`
}

// EndMs is the interval's end on the beat timeline.
func (b BeatInterval) EndMs() int64 {
	return b.CumulativeStartMs + int64(b.DurationMs)
}

// BeatSequence is an ordered, immutable run of beat intervals for one
// session. All transformations (correction, fusion) build a new sequence.
type BeatSequence struct {
	SessionID string
	StartedAt time.Time
	Beats     []BeatInterval
}

// NewBeatSequence builds a contiguous sequence from raw durations, deriving
// each interval's cumulative start by summing prior durations.
func NewBeatSequence(sessionID string, startedAt time.Time, durations []uint16) BeatSequence {
	beats := make([]BeatInterval, len(durations))
	var cum int64
	for i, d := range durations {
		beats[i] = BeatInterval{CumulativeStartMs: cum, DurationMs: d}
		cum += int64(d)
	}
	return BeatSequence{SessionID: sessionID, StartedAt: startedAt, Beats: beats}
}

// NewBeatSequenceFromIntervals builds a sequence from already-timestamped
// intervals, e.g. a fused composite where the cumulative timeline carries
// real discontinuities.
func NewBeatSequenceFromIntervals(sessionID string, startedAt time.Time, beats []BeatInterval) BeatSequence {
	copied := make([]BeatInterval, len(beats))
	copy(copied, beats)
	return BeatSequence{SessionID: sessionID, StartedAt: startedAt, Beats: copied}
}

// Count returns the number of beat intervals.
func (s BeatSequence) Count() int {
	return len(s.Beats)
}

// TotalDurationMs is the span from the first interval's start to the last
// interval's end, including any internal gaps.
func (s BeatSequence) TotalDurationMs() int64 {
	if len(s.Beats) == 0 {
		return 0
	}
	return s.Beats[len(s.Beats)-1].EndMs() - s.Beats[0].CumulativeStartMs
}

// Durations returns the interval values in milliseconds as floats, the form
// the metric kernels work on.
func (s BeatSequence) Durations() []float64 {
	out := make([]float64, len(s.Beats))
	for i, b := range s.Beats {
		out[i] = float64(b.DurationMs)
	}
	return out
}
