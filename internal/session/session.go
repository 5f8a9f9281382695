// Package session persists the client's auth state across restarts.
//
// It is a small key-value store, the server-side analog of the browser
// local storage the login state used to live in.
package session

import (
	"context"
	"errors"
)

// Keys stored by the auth layer.
const (
	KeyAuthenticated = "authenticated"
	KeyToken         = "token"
	KeyUser          = "user"
)

// ErrNotFound is returned by Get for a key that was never set or was deleted.
var ErrNotFound = errors.New("session key not found")

// Store is the persisted key-value state. Implementations: SQLite for real
// use, Memory for tests.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
