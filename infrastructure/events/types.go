// Package events defines the envelope published to Redis Streams when a
// record has been duplicated.
package events

import (
	"time"

	"github.com/google/uuid"
)

// StreamName is the Redis stream that carries record events.
const StreamName = "duplicate-as-events"

// EventField is the stream entry field holding the JSON-encoded envelope.
const EventField = "event"

// EventType names a record event.
type EventType string

// RecordDuplicated is emitted after a duplicate (or transformed copy) exists.
const RecordDuplicated EventType = "RECORD_DUPLICATED"

// RecordEvent is the envelope for record events. RecordID is the record the
// event is about; SourceID the record it was derived from.
type RecordEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	RecordID  int64     `json:"record_id"`
	SourceID  int64     `json:"source_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// DuplicatedPayload is the payload of RECORD_DUPLICATED.
type DuplicatedPayload struct {
	SourceType  string `json:"source_type"`
	TargetType  string `json:"target_type"`
	IsTransform bool   `json:"is_transform"`
	Actor       string `json:"actor,omitempty"`
}

// NewRecordDuplicated builds a RECORD_DUPLICATED envelope stamped now.
func NewRecordDuplicated(recordID, sourceID int64, payload DuplicatedPayload) RecordEvent {
	return RecordEvent{
		EventID:   uuid.New(),
		EventType: RecordDuplicated,
		RecordID:  recordID,
		SourceID:  sourceID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
