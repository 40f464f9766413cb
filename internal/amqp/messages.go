package amqp

import (
	"encoding/json"
	"time"
)

// LedgerChangedMessage tells the worker that a collection changed.
// It carries only the collection name and entity id; the worker reloads
// whatever it needs from the database.
type LedgerChangedMessage struct {
	Collection string    `json:"collection"`
	EntityID   string    `json:"entity_id"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(collection, entityID string) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Collection: collection,
		EntityID:   entityID,
		Timestamp:  time.Now(),
	}
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
