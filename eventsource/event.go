// Package eventsource provides an append-only event store with
// optimistic concurrency control, backed by memory or SQLite.
package eventsource

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common store errors.
var (
	ErrStreamNotFound  = errors.New("eventsource: stream not found")
	ErrVersionConflict = errors.New("eventsource: version conflict")
	ErrStoreClosed     = errors.New("eventsource: store is closed")
)

// Event is a single immutable record in a stream.
type Event struct {
	// ID is a unique event identifier.
	ID string `json:"id"`

	// StreamID identifies the stream this event belongs to.
	StreamID string `json:"stream_id"`

	// Type is the event type name.
	Type string `json:"type"`

	// Version is the event's position in its stream, assigned on append.
	Version int `json:"version"`

	// Timestamp records when the event was created.
	Timestamp time.Time `json:"timestamp"`

	// Data is the JSON-encoded event payload.
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent creates an event with a fresh ID and JSON-encoded payload.
// Version is assigned when the event is appended to a stream.
func NewEvent(streamID, eventType string, data any) (*Event, error) {
	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("eventsource: encode %s payload: %w", eventType, err)
		}
		raw = encoded
	}

	return &Event{
		ID:        uuid.New().String(),
		StreamID:  streamID,
		Type:      eventType,
		Version:   -1,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}, nil
}

// Decode unmarshals the event payload into v.
func (e *Event) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("eventsource: event %s has no payload", e.ID)
	}
	return json.Unmarshal(e.Data, v)
}
