package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"cardledger/internal/cache"
	"cardledger/internal/core"
	applog "cardledger/internal/log"
)

const statsCacheKey = "monthly"

// Ledger orchestrates the ledger engine over a Store: it validates input,
// computes the balance delta in core, delegates the atomic apply to the
// store, publishes events and keeps the monthly statistics cache honest.
type Ledger struct {
	store  Store
	events EventPublisher

	statsCache *cache.LRUCache[[]core.MonthlySummary]
	statsGen   atomic.Int64
	cacheMgr   *cache.Manager
}

func NewLedger(store Store, events EventPublisher) *Ledger {
	l := &Ledger{
		store:  store,
		events: events,
		// One entry in practice; the TTL bounds staleness if an
		// invalidation is ever missed.
		statsCache: cache.NewLRUCache[[]core.MonthlySummary](4, 5*time.Minute),
		cacheMgr:   cache.NewManager(),
	}
	l.cacheMgr.Register(l.statsCache)
	l.cacheMgr.StartCleanup(10 * time.Minute)
	return l
}

// CreateCard registers a new card with an explicit initial balance. The
// initial balance is a pre-existing value, not a transaction.
func (l *Ledger) CreateCard(ctx context.Context, name, kind, balance string) (core.Card, error) {
	k, err := core.ParseCardKind(kind)
	if err != nil {
		return core.Card{}, err
	}
	b, err := core.ParseMoney(balance)
	if err != nil {
		return core.Card{}, err
	}
	c := core.Card{
		Name:           strings.TrimSpace(name),
		Kind:           k,
		Balance:        b,
		InitialBalance: b,
	}
	if err := c.Validate(); err != nil {
		return core.Card{}, err
	}

	created, err := l.store.CreateCard(ctx, c)
	if err != nil {
		return core.Card{}, fmt.Errorf("create card: %w", err)
	}

	fields := applog.NewFields().
		WithComponent(applog.ComponentLedger).
		WithOperation(applog.OpCreate).
		WithCard(created.ID, string(created.Kind), created.Balance.Cents)
	slog.InfoContext(ctx, "Card created", fields.ToSlice()...)
	return created, nil
}

// RecordTransaction applies one income or expense event to a card: it maps
// the (card kind, transaction kind, amount) triple onto a signed delta and
// commits the balance mutation together with the transaction record as one
// atomic unit. Overdrafts and credit overpayments are valid outcomes, not
// errors.
func (l *Ledger) RecordTransaction(ctx context.Context, cardID int64, kind, amount, description, category, date string) (core.Card, core.Transaction, error) {
	k, err := core.ParseTransactionKind(kind)
	if err != nil {
		return core.Card{}, core.Transaction{}, err
	}
	amt, err := core.ParseMoney(amount)
	if err != nil {
		return core.Card{}, core.Transaction{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Card{}, core.Transaction{}, err
	}

	card, err := l.store.GetCard(ctx, cardID)
	if err != nil {
		return core.Card{}, core.Transaction{}, err
	}

	// Card kind is immutable, so computing the delta outside the store's
	// critical section is safe; the balance read-modify-write itself
	// happens inside ApplyTransaction.
	delta, err := core.Delta(card.Kind, k, amt)
	if err != nil {
		return core.Card{}, core.Transaction{}, err
	}

	t := core.Transaction{
		CardID:      cardID,
		Kind:        k,
		Amount:      amt,
		Description: strings.TrimSpace(description),
		Category:    strings.TrimSpace(category),
		Date:        d,
	}

	updated, stored, err := l.store.ApplyTransaction(ctx, t, delta)
	if err != nil {
		return core.Card{}, core.Transaction{}, fmt.Errorf("apply transaction: %w", err)
	}

	l.invalidateStats()

	if l.events != nil {
		if err := l.events.PublishTransactionRecorded(ctx, stored.ID, updated.ID); err != nil {
			// The write already committed; the event is best effort.
			fields := applog.NewFields().
				WithComponent(applog.ComponentLedger).
				WithError(err)
			fields[applog.FieldTransactionID] = stored.ID
			fields[applog.FieldCardID] = updated.ID
			slog.ErrorContext(ctx, "Failed to publish transaction event", fields.ToSlice()...)
		}
	}

	fields := applog.NewFields().
		WithComponent(applog.ComponentLedger).
		WithOperation(applog.OpRecord).
		WithTransaction(stored.ID, updated.ID, string(stored.Kind), stored.Amount.Cents)
	fields[applog.FieldDeltaCents] = delta.Cents
	fields[applog.FieldBalanceCents] = updated.Balance.Cents
	slog.InfoContext(ctx, "Transaction recorded", fields.ToSlice()...)
	return updated, stored, nil
}

// DeleteCard removes a card and, by cascade, its entire transaction history.
func (l *Ledger) DeleteCard(ctx context.Context, id int64) error {
	if err := l.store.DeleteCard(ctx, id); err != nil {
		return err
	}

	l.invalidateStats()

	if l.events != nil {
		if err := l.events.PublishCardDeleted(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish card deleted event",
				applog.FieldCardID, id,
				applog.FieldError, err)
		}
	}

	slog.InfoContext(ctx, "Card deleted",
		applog.FieldComponent, applog.ComponentLedger,
		applog.FieldOperation, applog.OpDelete,
		applog.FieldCardID, id)
	return nil
}

func (l *Ledger) GetCard(ctx context.Context, id int64) (core.Card, error) {
	return l.store.GetCard(ctx, id)
}

func (l *Ledger) ListCards(ctx context.Context) ([]core.Card, error) {
	return l.store.ListCards(ctx)
}

func (l *Ledger) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return l.store.ListTransactions(ctx)
}

// invalidateStats drops the cached monthly summaries and bumps the
// generation so an in-flight read cannot reinstall a pre-write snapshot.
func (l *Ledger) invalidateStats() {
	l.statsGen.Add(1)
	l.statsCache.Delete(statsCacheKey)
}

// MonthlyStatistics folds the whole transaction log into per-month summaries,
// most recent month first. Results are cached until the next write.
func (l *Ledger) MonthlyStatistics(ctx context.Context) ([]core.MonthlySummary, error) {
	gen := l.statsGen.Load()
	if cached, ok := l.statsCache.Get(statsCacheKey); ok {
		return cached, nil
	}

	history, err := l.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	stats := core.MonthlyStatistics(history)

	// Only cache if no write landed while we were reading.
	if l.statsGen.Load() == gen {
		l.statsCache.Set(statsCacheKey, stats)
	}
	return stats, nil
}

// Close stops cache cleanup and releases the store and the event publisher.
func (l *Ledger) Close() error {
	var errs []error

	if l.cacheMgr != nil {
		l.cacheMgr.Stop()
	}

	if l.store != nil {
		if err := l.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if l.events != nil {
		if err := l.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger: %v", errs)
	}
	return nil
}
