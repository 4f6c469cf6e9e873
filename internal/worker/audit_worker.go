package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cardledger/internal/amqp"
	"cardledger/internal/core"
	applog "cardledger/internal/log"
)

// LedgerReader is the subset of the store the audit worker needs.
type LedgerReader interface {
	GetCard(ctx context.Context, id int64) (core.Card, error)
	ListCards(ctx context.Context) ([]core.Card, error)
	ListCardTransactions(ctx context.Context, cardID int64) ([]core.Transaction, error)
}

// TransactionExporter mirrors recorded transactions to an external sink.
type TransactionExporter interface {
	AppendTransaction(ctx context.Context, card core.Card, t core.Transaction) (string, error)
}

// AuditWorker verifies that each card's stored balance matches a replay of
// its transaction history, and optionally mirrors transactions to an
// external exporter.
type AuditWorker struct {
	store    LedgerReader
	exporter TransactionExporter
}

func NewAuditWorker(store LedgerReader, exporter TransactionExporter) *AuditWorker {
	return &AuditWorker{
		store:    store,
		exporter: exporter,
	}
}

// HandleEvent processes a single ledger event from AMQP.
func (w *AuditWorker) HandleEvent(ctx context.Context, msg *amqp.LedgerEvent) error {
	switch msg.Event {
	case amqp.EventTransactionRecorded:
		return w.handleTransactionRecorded(ctx, msg)
	case amqp.EventCardDeleted:
		slog.InfoContext(ctx, "Card deleted, history removed from audit scope",
			applog.FieldCardID, msg.CardID)
		return nil
	default:
		slog.WarnContext(ctx, "Ignoring unknown ledger event", "event", msg.Event)
		return nil
	}
}

func (w *AuditWorker) handleTransactionRecorded(ctx context.Context, msg *amqp.LedgerEvent) error {
	slog.InfoContext(ctx, "Processing recorded transaction",
		applog.FieldComponent, applog.ComponentWorker,
		applog.FieldOperation, applog.OpExport,
		applog.FieldTransactionID, msg.TransactionID,
		applog.FieldCardID, msg.CardID)

	card, err := w.store.GetCard(ctx, msg.CardID)
	if errors.Is(err, core.ErrNotFound) {
		// The card was deleted between publish and consume. Requeueing
		// would loop forever; the event is moot.
		slog.WarnContext(ctx, "Card gone before audit, dropping event",
			applog.FieldTransactionID, msg.TransactionID,
			applog.FieldCardID, msg.CardID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get card from storage: %w", err)
	}

	if err := w.AuditCard(ctx, card); err != nil {
		return fmt.Errorf("audit card %d: %w", card.ID, err)
	}

	if w.exporter == nil {
		return nil
	}

	transaction, ok, err := w.findTransaction(ctx, msg.CardID, msg.TransactionID)
	if err != nil {
		return fmt.Errorf("find transaction %d: %w", msg.TransactionID, err)
	}
	if !ok {
		// The card may have been deleted between publish and consume.
		slog.WarnContext(ctx, "Transaction no longer present, skipping export",
			applog.FieldTransactionID, msg.TransactionID,
			applog.FieldCardID, msg.CardID)
		return nil
	}

	ref, err := w.exporter.AppendTransaction(ctx, card, transaction)
	if err != nil {
		return fmt.Errorf("export transaction: %w", err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		applog.FieldTransactionID, transaction.ID,
		applog.FieldCardID, card.ID,
		applog.FieldSheetsRef, ref)

	return nil
}

// AuditCard replays a card's full history from its initial balance and
// compares the result with the stored balance.
func (w *AuditWorker) AuditCard(ctx context.Context, card core.Card) error {
	history, err := w.store.ListCardTransactions(ctx, card.ID)
	if err != nil {
		return fmt.Errorf("list card transactions: %w", err)
	}

	replayed, err := core.Fold(card.InitialBalance, card.Kind, history)
	if err != nil {
		return fmt.Errorf("replay history: %w", err)
	}

	if replayed != card.Balance {
		slog.ErrorContext(ctx, "Balance drift detected",
			applog.FieldComponent, applog.ComponentWorker,
			applog.FieldOperation, applog.OpAudit,
			applog.FieldCardID, card.ID,
			applog.FieldCardKind, string(card.Kind),
			"stored_cents", card.Balance.Cents,
			"replayed_cents", replayed.Cents,
			"transactions", len(history))
		return fmt.Errorf("balance drift on card %d: stored %d cents, replayed %d cents",
			card.ID, card.Balance.Cents, replayed.Cents)
	}

	slog.DebugContext(ctx, "Card balance verified",
		applog.FieldCardID, card.ID,
		applog.FieldBalanceCents, card.Balance.Cents,
		"transactions", len(history))

	return nil
}

// AuditAll sweeps every card. Drift on one card does not stop the sweep;
// the first error is returned after all cards have been checked.
func (w *AuditWorker) AuditAll(ctx context.Context) error {
	cards, err := w.store.ListCards(ctx)
	if err != nil {
		return fmt.Errorf("list cards: %w", err)
	}

	if len(cards) == 0 {
		slog.InfoContext(ctx, "No cards to audit")
		return nil
	}

	var firstErr error
	checked := 0
	for _, card := range cards {
		if err := w.AuditCard(ctx, card); err != nil {
			slog.ErrorContext(ctx, "Card failed audit", applog.FieldCardID, card.ID, applog.FieldError, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		checked++
	}

	slog.InfoContext(ctx, "Audit sweep completed",
		"total", len(cards),
		"verified", checked,
		"failed", len(cards)-checked)

	return firstErr
}

func (w *AuditWorker) findTransaction(ctx context.Context, cardID, transactionID int64) (core.Transaction, bool, error) {
	history, err := w.store.ListCardTransactions(ctx, cardID)
	if err != nil {
		return core.Transaction{}, false, err
	}
	for _, t := range history {
		if t.ID == transactionID {
			return t, true, nil
		}
	}
	return core.Transaction{}, false, nil
}
