package capture

import (
	"context"
	"time"

	"hrv-go/internal/config"
	"hrv-go/internal/hrv"
	"hrv-go/internal/models"

	"go.uber.org/zap"
)

// Session drives one recording's capture: the durable-buffer fetch and the
// live-stream collection run concurrently with no shared state, neither
// cancels the other on failure, and fusion happens only after both have
// reached a terminal state.
type Session struct {
	log     *zap.Logger
	cfg     config.CaptureConfig
	durable Source
	live    Source
}

// NewSession wires the two capture paths. Either source may be nil.
func NewSession(log *zap.Logger, cfg config.CaptureConfig, durable, live Source) *Session {
	return &Session{log: log, cfg: cfg, durable: durable, live: live}
}

type pathResult struct {
	seq *models.BeatSequence
	err error
}

// Run executes both capture paths to termination, then fuses their
// snapshots. A path failure is logged, not propagated; only both paths
// failing surfaces as hrv.ErrBothSourcesInvalid from fusion.
func (s *Session) Run(ctx context.Context) (*hrv.FusionResult, error) {
	timeout := time.Duration(s.cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	durableCh := make(chan pathResult, 1)
	liveCh := make(chan pathResult, 1)

	go s.runPath(ctx, "device_buffer", s.durable, timeout, durableCh)
	go s.runPath(ctx, "live_stream", s.live, timeout, liveCh)

	// Barrier: both paths must terminate before fusion.
	durable := <-durableCh
	live := <-liveCh

	if durable.err != nil {
		s.log.Warn("Device buffer capture failed", zap.Error(durable.err))
	}
	if live.err != nil {
		s.log.Warn("Live stream capture failed", zap.Error(live.err))
	}

	fused, err := hrv.Fuse(durable.seq, live.seq)
	if err != nil {
		return nil, err
	}
	s.log.Info("Capture fused",
		zap.String("description", fused.Description),
		zap.Int("beats", fused.Sequence.Count()),
		zap.Bool("composite", fused.UsedComposite))
	return fused, nil
}

// runPath fetches one source with bounded attempts and exponential backoff.
// The retry loop is the only cancelable operation; it is bounded by the
// attempt count, never by the other path.
func (s *Session) runPath(ctx context.Context, name string, src Source, timeout time.Duration, out chan<- pathResult) {
	if src == nil {
		out <- pathResult{err: ErrNoData}
		return
	}

	attempts := s.cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	backoff := time.Duration(s.cfg.InitialBackoffMs) * time.Millisecond
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		fetchCtx, cancel := context.WithTimeout(ctx, timeout)
		seq, err := src.Fetch(fetchCtx)
		cancel()

		if err == nil {
			out <- pathResult{seq: seq}
			return
		}
		lastErr = err
		s.log.Debug("Capture attempt failed",
			zap.String("path", name),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt == attempts {
			break
		}
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			out <- pathResult{err: ctx.Err()}
			return
		}
	}
	out <- pathResult{err: lastErr}
}
