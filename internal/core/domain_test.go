package core

import (
	"errors"
	"testing"
)

func TestParseCardKind(t *testing.T) {
	cases := []struct {
		in   string
		want CardKind
		ok   bool
	}{
		{"debit", Debit, true},
		{"credit", Credit, true},
		{" Debit ", Debit, true},
		{"CREDIT", Credit, true},
		{"prepaid", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseCardKind(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidCardKind) {
			t.Fatalf("%q expected ErrInvalidCardKind, got %v", tc.in, err)
		}
	}
}

func TestParseTransactionKind(t *testing.T) {
	if k, err := ParseTransactionKind("income"); err != nil || k != Income {
		t.Fatalf("income: got %q err=%v", k, err)
	}
	if k, err := ParseTransactionKind(" EXPENSE "); err != nil || k != Expense {
		t.Fatalf("expense: got %q err=%v", k, err)
	}
	if _, err := ParseTransactionKind("transfer"); !errors.Is(err, ErrInvalidTransactionKind) {
		t.Fatalf("transfer: expected ErrInvalidTransactionKind, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || int(d.Month()) != 1 || d.Day() != 15 {
		t.Fatalf("unexpected date %v", d)
	}
	if d.MonthKey() != "2024-01" {
		t.Fatalf("expected month key 2024-01, got %q", d.MonthKey())
	}
	for _, bad := range []string{"", "2024-13-01", "15/01/2024", "yesterday"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestCardValidate(t *testing.T) {
	good := Card{Name: "Everyday", Kind: Debit}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Card{Name: "  ", Kind: Debit}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := (Card{Name: "x", Kind: "loyalty"}).Validate(); !errors.Is(err, ErrInvalidCardKind) {
		t.Fatalf("expected ErrInvalidCardKind, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{Kind: Expense, Amount: Money{Cents: 100}, Date: NewDate(2024, 1, 15)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// Zero and negative amounts are allowed.
	for _, cents := range []int64{0, -250} {
		tx := good
		tx.Amount = Money{Cents: cents}
		if err := tx.Validate(); err != nil {
			t.Fatalf("amount %d expected ok, got %v", cents, err)
		}
	}
	bad := good
	bad.Kind = "refund"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidTransactionKind) {
		t.Fatalf("expected ErrInvalidTransactionKind, got %v", err)
	}
	bad = good
	bad.Date = Date{}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
