package sheets

import (
	"context"
	"sync"

	"aruskas/internal/cashflow"
)

// MemoryMirror keeps appended rows in memory. Used in tests and when no
// spreadsheet is configured.
type MemoryMirror struct {
	mu         sync.Mutex
	records    []cashflow.Record
	tombstones []string
}

var _ Mirror = (*MemoryMirror)(nil)

func NewMemoryMirror() *MemoryMirror {
	return &MemoryMirror{}
}

func (m *MemoryMirror) AppendRecord(_ context.Context, rec cashflow.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *MemoryMirror) AppendTombstone(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tombstones = append(m.tombstones, id)
	return nil
}

// Records returns a copy of the appended records.
func (m *MemoryMirror) Records() []cashflow.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]cashflow.Record, len(m.records))
	copy(out, m.records)
	return out
}

// Tombstones returns a copy of the recorded deletions.
func (m *MemoryMirror) Tombstones() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.tombstones))
	copy(out, m.tombstones)
	return out
}
