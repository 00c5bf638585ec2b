package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventRecordCreated = "record_created"
	EventRecordDeleted = "record_deleted"
)

// RecordEvent is a lightweight message about an archived record. It
// carries only the archive id; the export worker fetches the full record
// from the database.
type RecordEvent struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordCreated builds a creation event for the given archive id.
func NewRecordCreated(id int64) *RecordEvent {
	return &RecordEvent{Kind: EventRecordCreated, ID: id, Timestamp: time.Now()}
}

// NewRecordDeleted builds a deletion event for the given archive id.
func NewRecordDeleted(id int64) *RecordEvent {
	return &RecordEvent{Kind: EventRecordDeleted, ID: id, Timestamp: time.Now()}
}

// ToJSON converts the event to JSON bytes.
func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RecordEventFromJSON parses an event from JSON bytes.
func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var ev RecordEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
