package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"hrv-go/internal/config"
	"hrv-go/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// beatMessage is the wire shape one live-streamed beat arrives in.
type beatMessage struct {
	DurationMs  uint16 `json:"durationMs"`
	WallClockMs int64  `json:"wallClockMs"`
}

// MQTTLiveSource collects live-streamed beats from the broker for the
// duration of a recording and hands the engine a completed snapshot at
// session end. Incremental delivery never reaches the analysis core.
type MQTTLiveSource struct {
	log    *zap.Logger
	cfg    config.CaptureConfig
	client mqtt.Client

	mu        sync.Mutex
	sessionID string
	startedAt time.Time
	beats     []models.BeatInterval
	cumMs     int64
}

// NewMQTTLiveSource connects to the broker and subscribes to the beat topic.
func NewMQTTLiveSource(log *zap.Logger, cfg config.CaptureConfig) (*MQTTLiveSource, error) {
	s := &MQTTLiveSource{
		log:       log,
		cfg:       cfg,
		sessionID: uuid.NewString(),
		startedAt: time.Now().UTC(),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(fmt.Sprintf("hrv-live-%d", time.Now().Unix()))
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(client mqtt.Client) {
		token := client.Subscribe(cfg.Topic, 1, s.onMessage)
		token.Wait()
		log.Info("Live stream subscribed", zap.String("topic", cfg.Topic))
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Warn("Live stream connection lost", zap.Error(err))
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	s.client = client
	return s, nil
}

func (s *MQTTLiveSource) onMessage(_ mqtt.Client, msg mqtt.Message) {
	var beat beatMessage
	if err := json.Unmarshal(msg.Payload(), &beat); err != nil {
		s.log.Warn("Dropping malformed beat message", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.beats = append(s.beats, models.BeatInterval{
		CumulativeStartMs: s.cumMs,
		DurationMs:        beat.DurationMs,
		WallClockMs:       beat.WallClockMs,
	})
	s.cumMs += int64(beat.DurationMs)
	s.mu.Unlock()
}

// Fetch returns the snapshot accumulated so far. Called at session end,
// after the barrier decides both paths have terminated.
func (s *MQTTLiveSource) Fetch(ctx context.Context) (*models.BeatSequence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.beats) == 0 {
		return nil, ErrNoData
	}
	seq := models.NewBeatSequenceFromIntervals(s.sessionID, s.startedAt, s.beats)
	return &seq, nil
}

// Close disconnects from the broker.
func (s *MQTTLiveSource) Close() {
	if s.client != nil {
		s.client.Disconnect(250)
	}
}
