package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	sqliteStore, err := NewSQLite(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = sqliteStore.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqliteStore,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(ctx, KeyAuthenticated); !errors.Is(err, ErrNotFound) {
				t.Fatalf("get before set: expected ErrNotFound, got %v", err)
			}

			if err := s.Set(ctx, KeyAuthenticated, "true"); err != nil {
				t.Fatalf("set: %v", err)
			}
			got, err := s.Get(ctx, KeyAuthenticated)
			if err != nil || got != "true" {
				t.Fatalf("get: expected true, got (%q, %v)", got, err)
			}

			// Overwrite.
			if err := s.Set(ctx, KeyAuthenticated, "false"); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			if got, _ := s.Get(ctx, KeyAuthenticated); got != "false" {
				t.Fatalf("after overwrite: got %q", got)
			}

			if err := s.Delete(ctx, KeyAuthenticated); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := s.Get(ctx, KeyAuthenticated); !errors.Is(err, ErrNotFound) {
				t.Fatalf("get after delete: expected ErrNotFound, got %v", err)
			}

			// Deleting a missing key is not an error.
			if err := s.Delete(ctx, "never-set"); err != nil {
				t.Fatalf("delete missing: %v", err)
			}
		})
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(ctx, KeyToken, "abc.def.ghi"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(ctx, KeyToken)
	if err != nil || got != "abc.def.ghi" {
		t.Fatalf("token must survive restart, got (%q, %v)", got, err)
	}
}
