// Package sheets mirrors cash flow mutations into a spreadsheet so the
// data stays readable outside the application.
package sheets

import (
	"context"

	"aruskas/internal/cashflow"
)

// Mirror receives one row per mutation. Deletes are recorded as
// tombstone rows rather than removed, so the sheet keeps an audit trail.
type Mirror interface {
	AppendRecord(ctx context.Context, rec cashflow.Record) error
	AppendTombstone(ctx context.Context, id string) error
}
