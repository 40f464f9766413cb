package amqp

import (
	"testing"
	"time"
)

func TestNewLedgerChangedMessage(t *testing.T) {
	msg := NewLedgerChangedMessage("expenses", "e1")

	if msg.Collection != "expenses" {
		t.Errorf("Collection = %v, want expenses", msg.Collection)
	}
	if msg.EntityID != "e1" {
		t.Errorf("EntityID = %v, want e1", msg.EntityID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestLedgerChangedMessage_JSON(t *testing.T) {
	timestamp := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &LedgerChangedMessage{
		Collection: "subscriptions",
		EntityID:   "m1_2026-01",
		Timestamp:  timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsedMsg, err := LedgerChangedMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("LedgerChangedMessageFromJSON() error = %v", err)
	}

	if parsedMsg.Collection != msg.Collection {
		t.Errorf("Parsed Collection = %v, want %v", parsedMsg.Collection, msg.Collection)
	}
	if parsedMsg.EntityID != msg.EntityID {
		t.Errorf("Parsed EntityID = %v, want %v", parsedMsg.EntityID, msg.EntityID)
	}
	if !parsedMsg.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsedMsg.Timestamp, msg.Timestamp)
	}
}

func TestLedgerChangedMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"collection": 42}`)

	if _, err := LedgerChangedMessageFromJSON(invalidJSON); err == nil {
		t.Error("LedgerChangedMessageFromJSON() should fail with invalid JSON")
	}
}
