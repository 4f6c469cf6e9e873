package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Debit  CardKind = "debit"
	Credit CardKind = "credit"

	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

type (
	// CardKind distinguishes asset-style balances (debit) from
	// liability-style balances (credit).
	CardKind string

	// TransactionKind is the direction of a recorded event.
	TransactionKind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Card is a tracked financial instrument. Balance is the materialized
	// fold of every delta ever applied for its transactions, starting from
	// InitialBalance; only the store's atomic apply path may change it.
	// InitialBalance is a pre-existing value set at creation, not a
	// transaction, and never changes afterwards.
	Card struct {
		ID             int64
		Name           string
		Kind           CardKind
		Balance        Money
		InitialBalance Money
	}

	// Transaction is a single income or expense event against one card.
	// Fields are immutable once recorded; deletion only happens when the
	// owning card is deleted.
	Transaction struct {
		ID          int64
		CardID      int64
		Kind        TransactionKind
		Amount      Money
		Description string
		Category    string
		Date        Date
	}
)

var (
	ErrNotFound               = errors.New("card not found")
	ErrInvalidCardKind        = errors.New("card kind must be debit or credit")
	ErrInvalidTransactionKind = errors.New("transaction kind must be income or expense")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidDate            = errors.New("invalid date")
	ErrEmptyName              = errors.New("empty card name")
)

// ParseCardKind normalizes and validates a card kind string.
func ParseCardKind(s string) (CardKind, error) {
	switch CardKind(strings.ToLower(strings.TrimSpace(s))) {
	case Debit:
		return Debit, nil
	case Credit:
		return Credit, nil
	}
	return "", ErrInvalidCardKind
}

// ParseTransactionKind normalizes and validates a transaction kind string.
func ParseTransactionKind(s string) (TransactionKind, error) {
	switch TransactionKind(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	}
	return "", ErrInvalidTransactionKind
}

func (k CardKind) Valid() bool {
	return k == Debit || k == Credit
}

func (k TransactionKind) Valid() bool {
	return k == Income || k == Expense
}

// NewDate creates a Date at UTC midnight for year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MonthKey returns the date truncated to year-month as a fixed-width
// sortable token, e.g. "2024-01". Lexicographic order of the token equals
// chronological order.
func (d Date) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
}

func (c Card) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Kind.Valid() {
		return ErrInvalidCardKind
	}
	return nil
}

// Validate checks the fields the ledger has an opinion on. Description and
// category are free text and stay unconstrained; amount sign and zero are
// deliberately not rejected, matching the permissiveness of the ledger rule.
func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrInvalidTransactionKind
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	return nil
}
