package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CashIn  FlowType = "cash-in"
	CashOut FlowType = "cash-out"
)

// DateLayout is the wire format used by the remote API for dates.
const DateLayout = "2006-01-02"

type (
	// FlowType tells whether money comes in or goes out.
	FlowType string

	// Transaction is a single cash-flow entry as the rest of the
	// application sees it. Amounts are whole rupiah (no subunit).
	// RealizationDate stays zero until the entry is realized.
	Transaction struct {
		ID                string
		PlannedDate       time.Time
		RealizationDate   time.Time
		Name              string
		Type              FlowType
		Description       string
		Confirmed         bool
		PlannedAmount     int64
		RealizationAmount int64
	}
)

var (
	ErrEmptyName      = errors.New("empty transaction name")
	ErrInvalidType    = errors.New("invalid flow type")
	ErrMissingDate    = errors.New("missing planned date")
	ErrNegativeAmount = errors.New("negative amount")
)

func (ft FlowType) IsValid() bool {
	return ft == CashIn || ft == CashOut
}

func (ft FlowType) String() string {
	return string(ft)
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if t.PlannedDate.IsZero() {
		return ErrMissingDate
	}
	if t.PlannedAmount < 0 || t.RealizationAmount < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Realized reports whether the entry has a realization date.
func (t Transaction) Realized() bool {
	return !t.RealizationDate.IsZero()
}
