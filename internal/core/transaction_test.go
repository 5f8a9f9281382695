package core

import (
	"errors"
	"testing"
	"time"
)

func validTransaction() Transaction {
	return Transaction{
		Name:          "bayar listrik",
		Type:          CashOut,
		PlannedDate:   time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
		PlannedAmount: 250_000,
	}
}

func TestTransactionValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"valid", func(*Transaction) {}, nil},
		{"empty name", func(tx *Transaction) { tx.Name = "  " }, ErrEmptyName},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{"no planned date", func(tx *Transaction) { tx.PlannedDate = time.Time{} }, ErrMissingDate},
		{"negative planned amount", func(tx *Transaction) { tx.PlannedAmount = -1 }, ErrNegativeAmount},
		{"negative realization amount", func(tx *Transaction) { tx.RealizationAmount = -500 }, ErrNegativeAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validTransaction()
			tc.mutate(&tx)
			if err := tx.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRealized(t *testing.T) {
	tx := validTransaction()
	if tx.Realized() {
		t.Fatal("transaction without realization date reported as realized")
	}
	tx.RealizationDate = tx.PlannedDate.AddDate(0, 0, 2)
	if !tx.Realized() {
		t.Fatal("transaction with realization date reported as unrealized")
	}
}

func TestFlowTypeIsValid(t *testing.T) {
	if !CashIn.IsValid() || !CashOut.IsValid() {
		t.Fatal("builtin flow types must be valid")
	}
	if FlowType("cashin").IsValid() {
		t.Fatal("wire-format value must not be a valid domain flow type")
	}
}
