// Package memory provides an in-process Store implementation. It backs the
// default backend and isolated test runs; no state survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"cardledger/internal/core"
)

// Store keeps all cards and the transaction log behind one mutex. The single
// critical section is what makes ApplyTransaction atomic: the balance update
// and the log append are never observable separately.
type Store struct {
	mu         sync.Mutex
	nextCardID int64
	nextTxID   int64
	cards      map[int64]*core.Card
	log        []core.Transaction
}

func New() *Store {
	return &Store{cards: make(map[int64]*core.Card)}
}

func (s *Store) CreateCard(_ context.Context, c core.Card) (core.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCardID++
	c.ID = s.nextCardID
	s.cards[c.ID] = &c
	return c, nil
}

func (s *Store) GetCard(_ context.Context, id int64) (core.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[id]
	if !ok {
		return core.Card{}, core.ErrNotFound
	}
	return *c, nil
}

func (s *Store) ListCards(_ context.Context) ([]core.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Card, 0, len(s.cards))
	for _, c := range s.cards {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DeleteCard removes the card and every transaction that references it.
func (s *Store) DeleteCard(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.cards, id)

	kept := s.log[:0]
	for _, t := range s.log {
		if t.CardID != id {
			kept = append(kept, t)
		}
	}
	s.log = kept
	return nil
}

func (s *Store) ApplyTransaction(_ context.Context, t core.Transaction, delta core.Money) (core.Card, core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[t.CardID]
	if !ok {
		return core.Card{}, core.Transaction{}, core.ErrNotFound
	}

	c.Balance = c.Balance.Add(delta)

	s.nextTxID++
	t.ID = s.nextTxID
	s.log = append(s.log, t)

	return *c, t, nil
}

// ListTransactions returns a copy of the log ordered by effective date
// descending, ties broken by recording order descending.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Transaction, len(s.log))
	copy(out, s.log)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// ListCardTransactions returns one card's transactions in recording order.
func (s *Store) ListCardTransactions(_ context.Context, cardID int64) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, t := range s.log {
		if t.CardID == cardID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) Close() error {
	return nil
}
