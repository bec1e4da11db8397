// Package capture runs the two beat capture paths (durable device buffer,
// live stream) as independent failure domains and joins them at a barrier
// before fusion.
package capture

import (
	"context"
	"errors"
	"sync"
	"time"

	"hrv-go/internal/models"
)

// ErrNoData is returned by a source that terminated without producing a
// usable snapshot.
var ErrNoData = errors.New("capture: source produced no data")

// Source is one capture path. Fetch blocks until the source reaches a
// terminal state and returns its completed snapshot; it must respect ctx.
type Source interface {
	Fetch(ctx context.Context) (*models.BeatSequence, error)
}

// MemorySource replays a prepared snapshot, optionally failing a number of
// times first. Used for tests and for backup-file replay.
type MemorySource struct {
	mu        sync.Mutex
	snapshot  *models.BeatSequence
	failTimes int
	calls     int
	delay     time.Duration
}

// NewMemorySource wraps a snapshot. A nil snapshot always fails.
func NewMemorySource(snapshot *models.BeatSequence) *MemorySource {
	return &MemorySource{snapshot: snapshot}
}

// FailFirst makes the next n Fetch calls fail before succeeding.
func (s *MemorySource) FailFirst(n int) *MemorySource {
	s.failTimes = n
	return s
}

// WithDelay makes every Fetch take at least d.
func (s *MemorySource) WithDelay(d time.Duration) *MemorySource {
	s.delay = d
	return s
}

// Calls reports how many times Fetch ran.
func (s *MemorySource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *MemorySource) Fetch(ctx context.Context) (*models.BeatSequence, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	delay := s.delay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if call <= s.failTimes {
		return nil, ErrNoData
	}
	if s.snapshot == nil {
		return nil, ErrNoData
	}
	return s.snapshot, nil
}
