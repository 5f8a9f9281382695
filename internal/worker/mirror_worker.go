// Package worker consumes mutation messages and mirrors the affected
// records into a spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"aruskas/internal/cashflow"
	"aruskas/internal/events"
	"aruskas/internal/sheets"
)

// Lister fetches the full record list. The backend API has no
// GET-by-id endpoint, so the worker refetches the list and picks the
// record out of it.
type Lister interface {
	List(ctx context.Context) ([]cashflow.Record, error)
}

// MirrorWorker applies mutation messages to a sheet mirror.
type MirrorWorker struct {
	api    Lister
	mirror sheets.Mirror
}

func NewMirrorWorker(api Lister, mirror sheets.Mirror) *MirrorWorker {
	return &MirrorWorker{api: api, mirror: mirror}
}

// HandleMutation mirrors a single mutation. Creates and updates append
// the current record state; deletes append a tombstone row.
func (w *MirrorWorker) HandleMutation(ctx context.Context, msg *events.MutationMessage) error {
	slog.InfoContext(ctx, "Processing mutation message",
		"op", msg.Op,
		"id", msg.ID)

	if msg.Op == events.OpDeleted {
		if err := w.mirror.AppendTombstone(ctx, msg.ID); err != nil {
			return fmt.Errorf("append tombstone: %w", err)
		}
		return nil
	}

	rec, err := w.lookup(ctx, msg.ID)
	if err != nil {
		return err
	}

	if err := w.mirror.AppendRecord(ctx, rec); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

func (w *MirrorWorker) lookup(ctx context.Context, id string) (cashflow.Record, error) {
	records, err := w.api.List(ctx)
	if err != nil {
		return cashflow.Record{}, fmt.Errorf("list records: %w", err)
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return cashflow.Record{}, fmt.Errorf("record %s not found in backend list", id)
}
