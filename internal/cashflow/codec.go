// Package cashflow talks to the remote cash-flow API and converts between
// its wire record shape and the domain transaction.
//
// The wire shape uses Indonesian field names, phrase-encoded confirmation
// status, YYYY-MM-DD date strings and amounts that arrive either as raw
// integers or as currency-formatted strings. Unknown wire keys are dropped
// on decode (strict mapping via struct tags).
package cashflow

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"aruskas/internal/core"
	"aruskas/internal/money"
)

// Confirmation status phrases used by the remote API.
const (
	StatusConfirmed   = "sudah dikonfirmasi"
	StatusUnconfirmed = "belum dikonfirmasi"
)

const (
	wireCashIn  = "cashin"
	wireCashOut = "cashout"
)

// Record is the wire shape of a cash-flow entry.
type Record struct {
	ID                string  `json:"_id,omitempty"`
	PlannedDate       *string `json:"tanggal_perencanaan"`
	RealizationDate   *string `json:"tanggal_realisasi"`
	Name              string  `json:"nama_cash_flow"`
	Type              string  `json:"type"`
	Description       string  `json:"keterangan"`
	Status            string  `json:"status"`
	PlannedAmount     Amount  `json:"nominal_perencanaan"`
	RealizationAmount Amount  `json:"nominal_realisasi"`
}

// Amount decodes the flexible wire encoding of a nominal value: a JSON
// number, a currency-formatted string, or null. Anything unparseable
// decodes to 0; it always encodes back as a plain integer.
type Amount int64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, _ := money.Parse(s)
		*a = Amount(v)
		return nil
	}
	if v, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		*a = Amount(v)
		return nil
	}
	// Last resort for any other token (e.g. a float): digit extraction,
	// matching how formatted strings are handled.
	v, _ := money.Parse(string(b))
	*a = Amount(v)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(a), 10)), nil
}

// ToFrontend converts a wire record into a domain transaction. Dates that
// are absent or unparseable become zero times; an unknown type string maps
// to cash-out, matching the remote API's binary encoding.
func ToFrontend(rec Record) core.Transaction {
	t := core.Transaction{
		ID:                rec.ID,
		PlannedDate:       parseDate(rec.PlannedDate),
		RealizationDate:   parseDate(rec.RealizationDate),
		Name:              rec.Name,
		Type:              core.CashOut,
		Description:       rec.Description,
		Confirmed:         rec.Status == StatusConfirmed,
		PlannedAmount:     int64(rec.PlannedAmount),
		RealizationAmount: int64(rec.RealizationAmount),
	}
	if rec.Type == wireCashIn {
		t.Type = core.CashIn
	}
	return t
}

// ToBackend converts a domain transaction into its wire record. Zero dates
// encode as JSON null; amounts encode as raw integers.
func ToBackend(t core.Transaction) Record {
	rec := Record{
		ID:                t.ID,
		PlannedDate:       formatDate(t.PlannedDate),
		RealizationDate:   formatDate(t.RealizationDate),
		Name:              t.Name,
		Type:              wireCashOut,
		Description:       t.Description,
		Status:            StatusUnconfirmed,
		PlannedAmount:     Amount(t.PlannedAmount),
		RealizationAmount: Amount(t.RealizationAmount),
	}
	if t.Type == core.CashIn {
		rec.Type = wireCashIn
	}
	if t.Confirmed {
		rec.Status = StatusConfirmed
	}
	return rec
}

func parseDate(s *string) time.Time {
	if s == nil || *s == "" {
		return time.Time{}
	}
	if d, err := time.Parse(core.DateLayout, *s); err == nil {
		return d
	}
	// Some deployments store full timestamps.
	if d, err := time.Parse(time.RFC3339, *s); err == nil {
		return d
	}
	return time.Time{}
}

func formatDate(d time.Time) *string {
	if d.IsZero() {
		return nil
	}
	s := d.Format(core.DateLayout)
	return &s
}
