// Package events publishes record events to Redis Streams.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	infraevents "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/events"
	infralogger "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/auth"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/hooks"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/telemetry"
)

const (
	asyncPublishTimeout = 5 * time.Second
	// streamMaxLen caps the stream; trimming is approximate.
	streamMaxLen = 100_000
)

// Publisher writes events to the record stream. A nil *Publisher is a no-op.
type Publisher struct {
	client  *redis.Client
	log     infralogger.Logger
	metrics *telemetry.Metrics
}

// NewPublisher returns nil when client is nil, so publishing can be disabled
// by not configuring Redis.
func NewPublisher(client *redis.Client, log infralogger.Logger, metrics *telemetry.Metrics) *Publisher {
	if client == nil {
		return nil
	}
	return &Publisher{client: client, log: log, metrics: metrics}
}

// Publish appends event to the stream and returns the stream entry ID.
func (p *Publisher) Publish(ctx context.Context, event infraevents.RecordEvent) (string, error) {
	if p == nil {
		return "", nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: infraevents.StreamName,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]any{infraevents.EventField: string(body)},
	}).Result()
	if err != nil {
		p.metrics.ObserveEvent(telemetry.OutcomeFailed)
		return "", fmt.Errorf("publish to stream: %w", err)
	}

	p.metrics.ObserveEvent(telemetry.OutcomeSuccess)
	p.log.Debug("Published record event",
		infralogger.String("event_type", string(event.EventType)),
		infralogger.Int64("record_id", event.RecordID),
		infralogger.String("stream_id", id),
	)
	return id, nil
}

// PublishAsync publishes in the background with its own timeout. Failures
// are logged only.
func (p *Publisher) PublishAsync(event infraevents.RecordEvent) {
	if p == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		if _, err := p.Publish(ctx, event); err != nil {
			p.log.Error("Async publish failed",
				infralogger.String("event_type", string(event.EventType)),
				infralogger.Int64("record_id", event.RecordID),
				infralogger.Error(err),
			)
		}
	}()
}

// AfterDuplicate is a hooks.AfterDuplicate listener emitting RECORD_DUPLICATED.
func (p *Publisher) AfterDuplicate(ctx context.Context, newID, sourceID int64, cc hooks.CopyContext) error {
	payload := infraevents.DuplicatedPayload{
		SourceType:  cc.SourceType,
		TargetType:  cc.TargetType,
		IsTransform: cc.IsTransform(),
	}
	if principal, ok := auth.PrincipalFromContext(ctx); ok {
		payload.Actor = principal.Subject
	}
	p.PublishAsync(infraevents.NewRecordDuplicated(newID, sourceID, payload))
	return nil
}
