package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"cardledger/internal/core"
)

func TestCreateAndGetCard(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateCard(ctx, core.Card{Name: "Everyday", Kind: core.Debit, Balance: core.Money{Cents: 100000}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned ID")
	}

	got, err := s.GetCard(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Everyday" || got.Balance.Cents != 100000 {
		t.Fatalf("unexpected card %+v", got)
	}

	if _, err := s.GetCard(ctx, 999); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplyTransactionMutatesBalance(t *testing.T) {
	s := New()
	ctx := context.Background()

	card, _ := s.CreateCard(ctx, core.Card{Name: "c", Kind: core.Debit, Balance: core.Money{Cents: 100000}})

	tx := core.Transaction{CardID: card.ID, Kind: core.Expense, Amount: core.Money{Cents: 10000}, Date: core.NewDate(2024, 1, 15)}
	updated, stored, err := s.ApplyTransaction(ctx, tx, core.Money{Cents: -10000})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if updated.Balance.Cents != 90000 {
		t.Fatalf("expected 90000, got %d", updated.Balance.Cents)
	}
	if stored.ID == 0 {
		t.Fatalf("expected assigned transaction ID")
	}

	// Card snapshot and log entry must agree.
	got, _ := s.GetCard(ctx, card.ID)
	if got.Balance.Cents != 90000 {
		t.Fatalf("persisted balance %d", got.Balance.Cents)
	}
	log, _ := s.ListCardTransactions(ctx, card.ID)
	if len(log) != 1 || log[0].ID != stored.ID {
		t.Fatalf("unexpected log %+v", log)
	}

	if _, _, err := s.ApplyTransaction(ctx, core.Transaction{CardID: 999}, core.Money{}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCardCascades(t *testing.T) {
	s := New()
	ctx := context.Background()

	keep, _ := s.CreateCard(ctx, core.Card{Name: "keep", Kind: core.Debit})
	doomed, _ := s.CreateCard(ctx, core.Card{Name: "doomed", Kind: core.Credit})

	for i, cardID := range []int64{keep.ID, doomed.ID, doomed.ID} {
		tx := core.Transaction{CardID: cardID, Kind: core.Expense, Amount: core.Money{Cents: int64(100 * (i + 1))}, Date: core.NewDate(2024, 1, i+1)}
		if _, _, err := s.ApplyTransaction(ctx, tx, core.Money{Cents: -100}); err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
	}

	if err := s.DeleteCard(ctx, doomed.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetCard(ctx, doomed.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected card gone, got %v", err)
	}

	log, _ := s.ListTransactions(ctx)
	if len(log) != 1 || log[0].CardID != keep.ID {
		t.Fatalf("expected only surviving card's transactions, got %+v", log)
	}

	if err := s.DeleteCard(ctx, doomed.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestListTransactionsOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	card, _ := s.CreateCard(ctx, core.Card{Name: "c", Kind: core.Debit})
	dates := []core.Date{
		core.NewDate(2024, 1, 15),
		core.NewDate(2024, 3, 1),
		core.NewDate(2024, 2, 10),
		core.NewDate(2024, 3, 1), // same day, recorded later
	}
	for _, d := range dates {
		tx := core.Transaction{CardID: card.ID, Kind: core.Income, Amount: core.Money{Cents: 100}, Date: d}
		if _, _, err := s.ApplyTransaction(ctx, tx, core.Money{Cents: 100}); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}

	log, _ := s.ListTransactions(ctx)
	if len(log) != 4 {
		t.Fatalf("expected 4, got %d", len(log))
	}
	// 2024-03-01 (id 4), 2024-03-01 (id 2), 2024-02-10, 2024-01-15
	if log[0].ID != 4 || log[1].ID != 2 {
		t.Fatalf("same-date ties not broken by recording order: %+v", log)
	}
	if log[2].Date.MonthKey() != "2024-02" || log[3].Date.MonthKey() != "2024-01" {
		t.Fatalf("unexpected order %+v", log)
	}
}

func TestConcurrentAppliesSerialize(t *testing.T) {
	s := New()
	ctx := context.Background()

	card, _ := s.CreateCard(ctx, core.Card{Name: "c", Kind: core.Debit, Balance: core.Money{Cents: 0}})

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			tx := core.Transaction{CardID: card.ID, Kind: core.Income, Amount: core.Money{Cents: 1}, Date: core.NewDate(2024, 1, 1)}
			if _, _, err := s.ApplyTransaction(ctx, tx, core.Money{Cents: 1}); err != nil {
				t.Errorf("apply: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := s.GetCard(ctx, card.ID)
	if got.Balance.Cents != n {
		t.Fatalf("expected %d after %d concurrent applies, got %d", n, n, got.Balance.Cents)
	}
	log, _ := s.ListCardTransactions(ctx, card.ID)
	if len(log) != n {
		t.Fatalf("expected %d log entries, got %d", n, len(log))
	}
}
