package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventTransactionRecorded = "transaction.recorded"
	EventCardDeleted         = "card.deleted"
)

// LedgerEvent is the message published for every ledger mutation. It carries
// identifiers only; consumers fetch current state from the store, so a stale
// delivery can never overwrite newer data.
type LedgerEvent struct {
	Event         string    `json:"event"`
	TransactionID int64     `json:"transaction_id,omitempty"`
	CardID        int64     `json:"card_id"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionRecordedEvent(transactionID, cardID int64) *LedgerEvent {
	return &LedgerEvent{
		Event:         EventTransactionRecorded,
		TransactionID: transactionID,
		CardID:        cardID,
		Timestamp:     time.Now(),
	}
}

func NewCardDeletedEvent(cardID int64) *LedgerEvent {
	return &LedgerEvent{
		Event:     EventCardDeleted,
		CardID:    cardID,
		Timestamp: time.Now(),
	}
}

func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
