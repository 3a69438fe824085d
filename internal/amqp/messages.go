package amqp

import (
	"encoding/json"
	"time"

	"github.com/starford/tablero/internal/models"
)

// ChangeMessage is the body published for every record change. It carries
// the record id only; consumers fetch the record through the API.
type ChangeMessage struct {
	Collection string    `json:"collection"`
	Kind       string    `json:"kind"`
	ID         string    `json:"id,omitempty"`
	Count      int       `json:"count,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewChangeMessage creates a message from a change.
func NewChangeMessage(c models.Change) *ChangeMessage {
	ts := c.At
	if ts.IsZero() {
		ts = time.Now()
	}
	return &ChangeMessage{
		Collection: c.Collection,
		Kind:       c.Kind,
		ID:         c.ID,
		Count:      c.Count,
		Timestamp:  ts.UTC(),
	}
}

// RoutingKey returns "<collection>.<kind>".
func (m *ChangeMessage) RoutingKey() string {
	return m.Collection + "." + m.Kind
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
