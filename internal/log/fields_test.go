package log

import (
	"errors"
	"testing"
)

func TestFieldsBuilder(t *testing.T) {
	fields := NewFields().
		WithComponent(ComponentLedger).
		WithOperation(OpRecord).
		WithTransaction(7, 3, "expense", 1250)

	want := map[string]any{
		FieldComponent:       ComponentLedger,
		FieldOperation:       OpRecord,
		FieldTransactionID:   int64(7),
		FieldCardID:          int64(3),
		FieldTransactionKind: "expense",
		FieldAmountCents:     int64(1250),
	}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%q] = %v, want %v", k, fields[k], v)
		}
	}
}

func TestFieldsWithCard(t *testing.T) {
	fields := NewFields().WithCard(12, "credit", -500)

	if fields[FieldCardID] != int64(12) {
		t.Errorf("card id = %v, want 12", fields[FieldCardID])
	}
	if fields[FieldCardKind] != "credit" {
		t.Errorf("card kind = %v, want credit", fields[FieldCardKind])
	}
	if fields[FieldBalanceCents] != int64(-500) {
		t.Errorf("balance = %v, want -500", fields[FieldBalanceCents])
	}
}

func TestFieldsWithError(t *testing.T) {
	fields := NewFields().WithError(errors.New("boom"))
	if fields[FieldError] != "boom" {
		t.Errorf("error field = %v, want boom", fields[FieldError])
	}

	fields = NewFields().WithError(nil)
	if _, ok := fields[FieldError]; ok {
		t.Error("nil error should not add a field")
	}
}

func TestFieldsToSlice(t *testing.T) {
	fields := NewFields().WithComponent(ComponentWorker)
	fields[FieldCardID] = int64(1)

	slice := fields.ToSlice()
	if len(slice) != 4 {
		t.Fatalf("ToSlice() len = %d, want 4", len(slice))
	}
	got := map[string]any{}
	for i := 0; i < len(slice); i += 2 {
		got[slice[i].(string)] = slice[i+1]
	}
	if got[FieldComponent] != ComponentWorker || got[FieldCardID] != int64(1) {
		t.Errorf("ToSlice() round trip = %v", got)
	}
}
