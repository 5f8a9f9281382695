// Package store owns the in-memory transaction list and orchestrates the
// remote API, the wire codec and the notifier around it.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"aruskas/internal/cashflow"
	"aruskas/internal/core"
	"aruskas/internal/events"
	"aruskas/internal/log"
	"aruskas/internal/notify"
)

// WritePolicy decides how the list is brought back in sync after a mutation.
type WritePolicy string

const (
	// RefetchAfterWrite re-reads the full list from the API after every
	// mutation. Simple and the default.
	RefetchAfterWrite WritePolicy = "refetch"
	// Optimistic patches the local list in place and skips the refetch.
	Optimistic WritePolicy = "optimistic"
)

func (p WritePolicy) IsValid() bool {
	return p == RefetchAfterWrite || p == Optimistic
}

// API is the remote resource the store talks to.
type API interface {
	List(ctx context.Context) ([]cashflow.Record, error)
	Create(ctx context.Context, rec cashflow.Record) (cashflow.Record, error)
	Update(ctx context.Context, id string, rec cashflow.Record) (cashflow.Record, error)
	Delete(ctx context.Context, id string) error
}

// Publisher emits mutation events for downstream consumers. May be nil.
type Publisher interface {
	PublishMutation(ctx context.Context, op events.Op, id string) error
}

// ErrUpdateFailed is the generic failure surfaced for updates; the raw
// transport error is wrapped underneath it.
var ErrUpdateFailed = errors.New("could not update the transaction")

// Store is the canonical in-memory transaction list. List order is the
// server response order; mutations of the same store may race, in which
// case the last refetch to finish wins.
type Store struct {
	api       API
	notifier  *notify.Notifier
	publisher Publisher
	policy    WritePolicy

	mu      sync.Mutex
	items   []core.Transaction
	loading bool
	lastErr string
}

func New(api API, notifier *notify.Notifier, publisher Publisher, policy WritePolicy) *Store {
	if !policy.IsValid() {
		policy = RefetchAfterWrite
	}
	return &Store{api: api, notifier: notifier, publisher: publisher, policy: policy}
}

// FetchAll replaces the list with the remote state. On failure the list is
// emptied, the error state is set and the error returned; a payload that is
// not an array defaults to an empty list without error state. The loading
// flag is cleared no matter how the call ends.
func (s *Store) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	recs, err := s.api.List(ctx)
	if err != nil {
		if errors.Is(err, cashflow.ErrUnexpectedPayload) {
			slog.WarnContext(ctx, "API response is not an array as expected", log.FieldError, err)
			s.replace(nil)
			return nil
		}
		slog.ErrorContext(ctx, "Failed to fetch transactions", log.FieldError, err)
		s.mu.Lock()
		s.items = nil
		s.lastErr = "failed to fetch transactions"
		s.mu.Unlock()
		s.show("Gagal memuat transaksi", notify.Error)
		return fmt.Errorf("fetch transactions: %w", err)
	}

	list := make([]core.Transaction, 0, len(recs))
	for _, rec := range recs {
		list = append(list, cashflow.ToFrontend(rec))
	}
	s.replace(list)
	return nil
}

// Add creates the transaction remotely and returns the backend's copy.
func (s *Store) Add(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	created, err := s.api.Create(ctx, cashflow.ToBackend(tx))
	if err != nil {
		s.logMutationFailure(ctx, "create", err)
		s.show("Gagal menyimpan transaksi", notify.Error)
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	result := cashflow.ToFrontend(created)
	s.resync(ctx, func() {
		s.mu.Lock()
		s.items = append(s.items, result)
		s.mu.Unlock()
	})
	s.show("Transaksi berhasil disimpan", notify.Success)
	s.publish(ctx, events.OpCreated, result.ID)
	return result, nil
}

// Update replaces the identified transaction. Failures surface as
// ErrUpdateFailed with the transport error wrapped underneath.
func (s *Store) Update(ctx context.Context, id string, tx core.Transaction) error {
	updated, err := s.api.Update(ctx, id, cashflow.ToBackend(tx))
	if err != nil {
		s.logMutationFailure(ctx, "update", err)
		s.show("Gagal memperbarui transaksi", notify.Error)
		return fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}

	result := cashflow.ToFrontend(updated)
	if result.ID == "" {
		result.ID = id
	}
	s.resync(ctx, func() {
		s.mu.Lock()
		for i := range s.items {
			if s.items[i].ID == id {
				s.items[i] = result
				break
			}
		}
		s.mu.Unlock()
	})
	s.show("Transaksi berhasil diperbarui", notify.Success)
	s.publish(ctx, events.OpUpdated, id)
	return nil
}

// Remove deletes the identified transaction. An id the local list does not
// contain leaves the list unchanged once the remote delete succeeds.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, id); err != nil {
		s.logMutationFailure(ctx, "delete", err)
		s.show("Gagal menghapus transaksi", notify.Error)
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}

	s.resync(ctx, func() {
		s.mu.Lock()
		for i := range s.items {
			if s.items[i].ID == id {
				s.items = append(s.items[:i], s.items[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
	})
	s.show("Transaksi dihapus", notify.Success)
	s.publish(ctx, events.OpDeleted, id)
	return nil
}

// Transactions returns a copy of the current list.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the current error state, empty when the last fetch succeeded.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) replace(list []core.Transaction) {
	s.mu.Lock()
	s.items = list
	s.mu.Unlock()
}

// resync runs either a full refetch or the optimistic local patch,
// depending on the configured policy. Refetch failures already set the
// store error state; the mutation itself has succeeded by this point.
func (s *Store) resync(ctx context.Context, patch func()) {
	if s.policy == Optimistic {
		patch()
		return
	}
	_ = s.FetchAll(ctx)
}

func (s *Store) show(message string, kind notify.Kind) {
	if s.notifier == nil {
		return
	}
	s.notifier.Show(message, kind, 0)
}

func (s *Store) publish(ctx context.Context, op events.Op, id string) {
	if s.publisher == nil || id == "" {
		return
	}
	if err := s.publisher.PublishMutation(ctx, op, id); err != nil {
		// Messaging is best effort; the mutation already happened.
		slog.ErrorContext(ctx, "Failed to publish mutation event",
			"op", op, "id", id, log.FieldError, err)
	}
}

func (s *Store) logMutationFailure(ctx context.Context, op string, err error) {
	var apiErr *cashflow.APIError
	if errors.As(err, &apiErr) {
		slog.ErrorContext(ctx, "Backend rejected mutation",
			log.FieldOperation, op,
			log.FieldStatus, apiErr.StatusCode,
			"body", apiErr.Body)
		return
	}
	slog.ErrorContext(ctx, "Mutation request failed", log.FieldOperation, op, log.FieldError, err)
}
