package http

import (
	"context"

	"cardledger/internal/core"
)

// LedgerService is the application surface the HTTP layer talks to.
type LedgerService interface {
	CreateCard(ctx context.Context, name, kind, balance string) (core.Card, error)
	GetCard(ctx context.Context, id int64) (core.Card, error)
	ListCards(ctx context.Context) ([]core.Card, error)
	DeleteCard(ctx context.Context, id int64) error

	RecordTransaction(ctx context.Context, cardID int64, kind, amount, description, category, date string) (core.Card, core.Transaction, error)
	ListTransactions(ctx context.Context) ([]core.Transaction, error)

	MonthlyStatistics(ctx context.Context) ([]core.MonthlySummary, error)
}
