package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"aruskas/internal/cashflow"
	"aruskas/internal/core"
	"aruskas/internal/events"
	"aruskas/internal/notify"
)

// fakeAPI scripts the remote resource.
type fakeAPI struct {
	records   []cashflow.Record
	listErr   error
	createErr error
	updateErr error
	deleteErr error

	listCalls   int
	deletedIDs  []string
	lastCreated cashflow.Record
}

func (f *fakeAPI) List(context.Context) ([]cashflow.Record, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]cashflow.Record, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeAPI) Create(_ context.Context, rec cashflow.Record) (cashflow.Record, error) {
	if f.createErr != nil {
		return cashflow.Record{}, f.createErr
	}
	rec.ID = "new-1"
	f.lastCreated = rec
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeAPI) Update(_ context.Context, id string, rec cashflow.Record) (cashflow.Record, error) {
	if f.updateErr != nil {
		return cashflow.Record{}, f.updateErr
	}
	rec.ID = id
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i] = rec
		}
	}
	return rec, nil
}

func (f *fakeAPI) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			break
		}
	}
	return nil
}

type fakePublisher struct {
	published []events.MutationMessage
	err       error
}

func (f *fakePublisher) PublishMutation(_ context.Context, op events.Op, id string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, events.MutationMessage{Op: op, ID: id})
	return nil
}

func wireRecord(id, name string) cashflow.Record {
	planned := "2024-06-01"
	return cashflow.Record{
		ID: id, Name: name, Type: "cashin",
		Status: cashflow.StatusUnconfirmed, PlannedDate: &planned,
		PlannedAmount: 1000,
	}
}

func sampleTx() core.Transaction {
	return core.Transaction{
		Name:          "jual kopi",
		Type:          core.CashIn,
		PlannedDate:   time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		PlannedAmount: 1000,
	}
}

func TestFetchAll(t *testing.T) {
	api := &fakeAPI{records: []cashflow.Record{wireRecord("1", "gaji"), wireRecord("2", "sewa")}}
	s := New(api, notify.New(), nil, RefetchAfterWrite)

	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	got := s.Transactions()
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("unexpected list: %+v", got)
	}
	if s.Loading() {
		t.Fatal("loading must be cleared after success")
	}
	if s.Err() != "" {
		t.Fatalf("unexpected error state: %q", s.Err())
	}
}

func TestFetchAllTransportFailure(t *testing.T) {
	api := &fakeAPI{records: []cashflow.Record{wireRecord("1", "gaji")}}
	n := notify.New()
	s := New(api, n, nil, RefetchAfterWrite)
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("seed fetch: %v", err)
	}

	api.listErr = errors.New("connection refused")
	err := s.FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(s.Transactions()) != 0 {
		t.Fatal("failure must empty the list")
	}
	if s.Err() == "" {
		t.Fatal("failure must set the error state")
	}
	if s.Loading() {
		t.Fatal("loading must never stay stuck true")
	}
	if got := n.Snapshot(); !got.Visible || got.Kind != notify.Error {
		t.Fatalf("expected an error notification, got %+v", got)
	}
}

func TestFetchAllNonArrayPayload(t *testing.T) {
	api := &fakeAPI{listErr: cashflow.ErrUnexpectedPayload}
	s := New(api, notify.New(), nil, RefetchAfterWrite)

	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("non-array payload must default, not fail: %v", err)
	}
	if len(s.Transactions()) != 0 {
		t.Fatal("non-array payload must yield an empty list")
	}
	if s.Err() != "" {
		t.Fatal("non-array payload is not an error state")
	}
}

func TestAddRefetches(t *testing.T) {
	api := &fakeAPI{}
	pub := &fakePublisher{}
	n := notify.New()
	s := New(api, n, pub, RefetchAfterWrite)

	created, err := s.Add(context.Background(), sampleTx())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID != "new-1" {
		t.Fatalf("expected backend id, got %q", created.ID)
	}
	if api.lastCreated.Type != "cashin" || api.lastCreated.Status != cashflow.StatusUnconfirmed {
		t.Fatalf("request not in wire shape: %+v", api.lastCreated)
	}
	if api.listCalls != 1 {
		t.Fatalf("refetch policy must re-list once, got %d calls", api.listCalls)
	}
	if len(s.Transactions()) != 1 {
		t.Fatalf("list not resynced: %+v", s.Transactions())
	}
	if got := n.Snapshot(); !got.Visible || got.Kind != notify.Success {
		t.Fatalf("expected success notification, got %+v", got)
	}
	if len(pub.published) != 1 || pub.published[0].Op != events.OpCreated {
		t.Fatalf("expected created event, got %+v", pub.published)
	}
}

func TestAddFailurePropagates(t *testing.T) {
	api := &fakeAPI{createErr: &cashflow.APIError{StatusCode: 422, Body: "nama wajib"}}
	n := notify.New()
	s := New(api, n, nil, RefetchAfterWrite)

	_, err := s.Add(context.Background(), sampleTx())
	if err == nil {
		t.Fatal("failure must be re-thrown to the caller")
	}
	var apiErr *cashflow.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("transport error must stay unwrappable: %v", err)
	}
	if got := n.Snapshot(); got.Kind != notify.Error {
		t.Fatalf("expected error notification, got %+v", got)
	}
	if api.listCalls != 0 {
		t.Fatal("failed add must not refetch")
	}
}

func TestUpdateGenericError(t *testing.T) {
	api := &fakeAPI{updateErr: errors.New("timeout")}
	s := New(api, notify.New(), nil, RefetchAfterWrite)

	err := s.Update(context.Background(), "1", sampleTx())
	if !errors.Is(err, ErrUpdateFailed) {
		t.Fatalf("expected ErrUpdateFailed, got %v", err)
	}
	// The raw transport error stays reachable underneath.
	if !errors.Is(err, api.updateErr) {
		t.Fatalf("transport error lost: %v", err)
	}
}

func TestRemoveOptimistic(t *testing.T) {
	api := &fakeAPI{records: []cashflow.Record{wireRecord("1", "a"), wireRecord("2", "b")}}
	pub := &fakePublisher{}
	s := New(api, notify.New(), pub, Optimistic)
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	listCallsBefore := api.listCalls

	if err := s.Remove(context.Background(), "1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if api.listCalls != listCallsBefore {
		t.Fatal("optimistic remove must not refetch")
	}
	got := s.Transactions()
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected only record 2, got %+v", got)
	}
	if len(pub.published) != 1 || pub.published[0].Op != events.OpDeleted {
		t.Fatalf("expected deleted event, got %+v", pub.published)
	}
}

func TestRemoveUnknownIDLeavesListUnchanged(t *testing.T) {
	api := &fakeAPI{records: []cashflow.Record{wireRecord("1", "a")}}
	s := New(api, notify.New(), nil, Optimistic)
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := s.Remove(context.Background(), "ghost"); err != nil {
		t.Fatalf("remove of unknown id must not fail locally: %v", err)
	}
	if len(s.Transactions()) != 1 {
		t.Fatal("list must stay unchanged")
	}
}

func TestRemoveFailureRethrows(t *testing.T) {
	api := &fakeAPI{records: []cashflow.Record{wireRecord("1", "a")}, deleteErr: errors.New("boom")}
	n := notify.New()
	s := New(api, n, nil, Optimistic)
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := s.Remove(context.Background(), "1"); err == nil {
		t.Fatal("expected delete failure to surface")
	}
	if len(s.Transactions()) != 1 {
		t.Fatal("failed delete must not touch the list")
	}
	if got := n.Snapshot(); got.Kind != notify.Error {
		t.Fatalf("expected error notification, got %+v", got)
	}
}

func TestPublisherFailureDoesNotFailMutation(t *testing.T) {
	api := &fakeAPI{}
	pub := &fakePublisher{err: errors.New("amqp down")}
	s := New(api, notify.New(), pub, RefetchAfterWrite)

	if _, err := s.Add(context.Background(), sampleTx()); err != nil {
		t.Fatalf("publish failure must not fail the add: %v", err)
	}
}
