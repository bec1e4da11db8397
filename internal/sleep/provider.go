// Package sleep defines the optional external sleep-boundary collaborator.
package sleep

// Boundaries are sleep start/end offsets in milliseconds relative to the
// recording start.
type Boundaries struct {
	SleepStartMs int64 `json:"sleepStartMs"`
	SleepEndMs   int64 `json:"sleepEndMs"`
}

// BoundaryProvider supplies sleep boundaries for a session, when it can.
// The second return reports availability; absence falls back to the full
// recording span as the search band.
type BoundaryProvider interface {
	Boundaries(sessionID string) (Boundaries, bool)
}

// StaticProvider returns one fixed boundary pair for every session. The
// zero value reports no boundaries.
type StaticProvider struct {
	Bounds    Boundaries
	Available bool
}

func (p StaticProvider) Boundaries(string) (Boundaries, bool) {
	return p.Bounds, p.Available
}

// NoneProvider never has boundaries.
type NoneProvider struct{}

func (NoneProvider) Boundaries(string) (Boundaries, bool) {
	return Boundaries{}, false
}
