package services

import (
	"context"

	"cardledger/internal/core"
)

// Ports for outbound adapters.
type (
	// Store is the persistence collaborator of the ledger engine. Both the
	// memory and the SQLite implementations must serialize writes against
	// the same card and hand out consistent snapshots to readers.
	Store interface {
		// CreateCard persists a new card and returns it with its assigned ID.
		CreateCard(ctx context.Context, c core.Card) (core.Card, error)

		// GetCard returns a snapshot of one card, or core.ErrNotFound.
		GetCard(ctx context.Context, id int64) (core.Card, error)

		// ListCards returns snapshots of all cards, ordered by ID.
		ListCards(ctx context.Context) ([]core.Card, error)

		// DeleteCard removes a card and cascades to all of its
		// transactions, or returns core.ErrNotFound.
		DeleteCard(ctx context.Context, id int64) error

		// ApplyTransaction commits card.balance += delta and the
		// transaction insert as one atomic unit. Either both land or
		// neither does. Returns the updated card and the stored
		// transaction with its assigned ID, or core.ErrNotFound if the
		// card vanished.
		ApplyTransaction(ctx context.Context, t core.Transaction, delta core.Money) (core.Card, core.Transaction, error)

		// ListTransactions returns the full log, most recent effective
		// date first.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)

		// ListCardTransactions returns one card's transactions in
		// recording order.
		ListCardTransactions(ctx context.Context, cardID int64) ([]core.Transaction, error)

		Close() error
	}

	// EventPublisher emits ledger events for downstream consumers. A nil
	// publisher disables events; publish failures never fail the write
	// that triggered them.
	EventPublisher interface {
		PublishTransactionRecorded(ctx context.Context, transactionID, cardID int64) error
		PublishCardDeleted(ctx context.Context, cardID int64) error
		Close() error
	}
)
