// Package storage implements the ledger Store on SQLite. All balance
// mutations go through ApplyTransaction, which commits the card update and
// the transaction insert in one database transaction; the cascade from card
// deletion to its transactions is enforced by the schema's foreign key.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cardledger/internal/core"
	applog "cardledger/internal/log"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// foreign_keys is off by default in SQLite and the card->transaction
	// cascade depends on it.
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateCard(ctx context.Context, c core.Card) (core.Card, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cards (name, kind, balance_cents, initial_balance_cents) VALUES (?, ?, ?, ?)`,
		c.Name, string(c.Kind), c.Balance.Cents, c.InitialBalance.Cents)
	if err != nil {
		return core.Card{}, fmt.Errorf("insert card: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Card{}, fmt.Errorf("card id: %w", err)
	}
	c.ID = id

	slog.InfoContext(ctx, "Card saved to SQLite",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldCardID, c.ID,
		applog.FieldCardKind, c.Kind,
		applog.FieldBalanceCents, c.Balance.Cents)
	return c, nil
}

func (r *SQLiteRepository) GetCard(ctx context.Context, id int64) (core.Card, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, kind, balance_cents, initial_balance_cents FROM cards WHERE id = ?`, id)
	return scanCard(row)
}

func (r *SQLiteRepository) ListCards(ctx context.Context) ([]core.Card, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, kind, balance_cents, initial_balance_cents FROM cards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var out []core.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCard removes the card; the schema cascades the delete to its
// transactions.
func (r *SQLiteRepository) DeleteCard(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete card rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Card deleted from SQLite", applog.FieldCardID, id)
	return nil
}

// ApplyTransaction performs the atomic ledger write: the balance update and
// the transaction insert commit together or not at all.
func (r *SQLiteRepository) ApplyTransaction(ctx context.Context, t core.Transaction, delta core.Money) (core.Card, core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Card{}, core.Transaction{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE cards SET balance_cents = balance_cents + ? WHERE id = ?`,
		delta.Cents, t.CardID)
	if err != nil {
		return core.Card{}, core.Transaction{}, fmt.Errorf("update balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Card{}, core.Transaction{}, fmt.Errorf("update balance rows: %w", err)
	}
	if n == 0 {
		return core.Card{}, core.Transaction{}, core.ErrNotFound
	}

	ins, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (card_id, kind, amount_cents, description, category, effective_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.CardID, string(t.Kind), t.Amount.Cents, t.Description, t.Category, t.Date.Format(dateLayout))
	if err != nil {
		return core.Card{}, core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	txID, err := ins.LastInsertId()
	if err != nil {
		return core.Card{}, core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}
	t.ID = txID

	card, err := scanCard(tx.QueryRowContext(ctx,
		`SELECT id, name, kind, balance_cents, initial_balance_cents FROM cards WHERE id = ?`, t.CardID))
	if err != nil {
		return core.Card{}, core.Transaction{}, fmt.Errorf("reload card: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Card{}, core.Transaction{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldTransactionID, t.ID,
		applog.FieldCardID, t.CardID,
		applog.FieldTransactionKind, t.Kind,
		applog.FieldAmountCents, t.Amount.Cents,
		applog.FieldDeltaCents, delta.Cents)
	return card, t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, card_id, kind, amount_cents, description, category, effective_date
		 FROM transactions ORDER BY effective_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *SQLiteRepository) ListCardTransactions(ctx context.Context, cardID int64) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, card_id, kind, amount_cents, description, category, effective_date
		 FROM transactions WHERE card_id = ? ORDER BY id`, cardID)
	if err != nil {
		return nil, fmt.Errorf("query card transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (core.Card, error) {
	var (
		c    core.Card
		kind string
	)
	err := row.Scan(&c.ID, &c.Name, &kind, &c.Balance.Cents, &c.InitialBalance.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Card{}, core.ErrNotFound
	}
	if err != nil {
		return core.Card{}, fmt.Errorf("scan card: %w", err)
	}
	c.Kind = core.CardKind(kind)
	return c, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		var (
			t       core.Transaction
			kind    string
			dateStr string
		)
		if err := rows.Scan(&t.ID, &t.CardID, &kind, &t.Amount.Cents, &t.Description, &t.Category, &dateStr); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = core.TransactionKind(kind)
		d, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse effective date %q: %w", dateStr, err)
		}
		t.Date = d
		out = append(out, t)
	}
	return out, rows.Err()
}
