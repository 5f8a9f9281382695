// Package auth owns the client's login state.
//
// Credential checking is pluggable: a local fixed pair or a remote login
// endpoint, chosen at configuration time. The resulting state is persisted
// through a session.Store so it survives restarts; a persisted token is
// trusted until explicit logout, there is no refresh or expiry handling.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"aruskas/internal/session"
)

// User is the profile of the logged-in user, when the strategy provides one.
type User struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Result is the outcome of a credential check. OK false with a nil error
// means the credentials were simply wrong.
type Result struct {
	OK    bool
	Token string
	User  *User
}

// Strategy checks a credential pair.
type Strategy interface {
	Authenticate(ctx context.Context, username, password string) (Result, error)
}

// Store holds the in-memory login state and mirrors it to the session store.
// One instance per process.
type Store struct {
	mu       sync.Mutex
	strategy Strategy
	sessions session.Store

	authenticated bool
	token         string
	user          *User
}

func NewStore(strategy Strategy, sessions session.Store) *Store {
	return &Store{strategy: strategy, sessions: sessions}
}

// Login runs the configured strategy. On success the state is set and
// persisted; on wrong credentials it returns (false, nil) and leaves the
// state untouched.
func (s *Store) Login(ctx context.Context, username, password string) (bool, error) {
	res, err := s.strategy.Authenticate(ctx, username, password)
	if err != nil {
		return false, fmt.Errorf("authenticate: %w", err)
	}
	if !res.OK {
		return false, nil
	}

	s.mu.Lock()
	s.authenticated = true
	s.token = res.Token
	s.user = res.User
	s.mu.Unlock()

	if err := s.persist(ctx, res); err != nil {
		// The login itself succeeded; persistence failure only costs
		// session restore after a restart.
		return true, fmt.Errorf("persist session: %w", err)
	}
	return true, nil
}

// Logout clears the in-memory flag and the persisted state unconditionally.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.authenticated = false
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	var errs []error
	for _, key := range []string{session.KeyAuthenticated, session.KeyToken, session.KeyUser} {
		if err := s.sessions.Delete(ctx, key); err != nil && !errors.Is(err, session.ErrNotFound) {
			errs = append(errs, fmt.Errorf("clear %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// CheckAuth re-derives the in-memory state from the session store. It is
// called once at startup to restore a previous login.
func (s *Store) CheckAuth(ctx context.Context) error {
	flag, err := s.sessions.Get(ctx, session.KeyAuthenticated)
	if errors.Is(err, session.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	if flag != "true" {
		return nil
	}

	token, err := s.sessions.Get(ctx, session.KeyToken)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return fmt.Errorf("read token: %w", err)
	}
	var user *User
	if raw, err := s.sessions.Get(ctx, session.KeyUser); err == nil && raw != "" {
		user = &User{}
		if jsonErr := json.Unmarshal([]byte(raw), user); jsonErr != nil {
			user = nil
		}
	}

	s.mu.Lock()
	s.authenticated = true
	s.token = token
	s.user = user
	s.mu.Unlock()
	return nil
}

func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the profile, nil when none is known.
func (s *Store) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) persist(ctx context.Context, res Result) error {
	if err := s.sessions.Set(ctx, session.KeyAuthenticated, "true"); err != nil {
		return err
	}
	if res.Token != "" {
		if err := s.sessions.Set(ctx, session.KeyToken, res.Token); err != nil {
			return err
		}
	}
	if res.User != nil {
		raw, err := json.Marshal(res.User)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		if err := s.sessions.Set(ctx, session.KeyUser, string(raw)); err != nil {
			return err
		}
	}
	return nil
}
