package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"aruskas/internal/session"
)

func TestLocalStrategy(t *testing.T) {
	strategy := Local{Username: "cafein", Password: "pass1234"}
	ctx := context.Background()

	cases := []struct {
		name, user, pass string
		ok               bool
	}{
		{"correct pair", "cafein", "pass1234", true},
		{"wrong password", "cafein", "salah", false},
		{"wrong username", "admin", "pass1234", false},
		{"both wrong", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := strategy.Authenticate(ctx, tc.user, tc.pass)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.OK != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, res.OK)
			}
		})
	}
}

func TestLocalStrategyBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("generate hash: %v", err)
	}
	strategy := Local{Username: "cafein", PasswordHash: string(hash)}

	res, err := strategy.Authenticate(context.Background(), "cafein", "rahasia")
	if err != nil || !res.OK {
		t.Fatalf("hash match: expected ok, got (%v, %v)", res.OK, err)
	}
	res, err = strategy.Authenticate(context.Background(), "cafein", "bukan")
	if err != nil || res.OK {
		t.Fatalf("hash mismatch: expected not ok, got (%v, %v)", res.OK, err)
	}
}

func TestStoreLoginPersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	sessions := session.NewMemory()
	store := NewStore(Local{Username: "cafein", Password: "pass1234"}, sessions)

	ok, err := store.Login(ctx, "cafein", "pass1234")
	if err != nil || !ok {
		t.Fatalf("login: expected success, got (%v, %v)", ok, err)
	}
	if !store.Authenticated() {
		t.Fatal("store must report authenticated after login")
	}
	if flag, _ := sessions.Get(ctx, session.KeyAuthenticated); flag != "true" {
		t.Fatalf("persisted flag: got %q", flag)
	}

	// A fresh store over the same sessions restores the state.
	restored := NewStore(Local{}, sessions)
	if err := restored.CheckAuth(ctx); err != nil {
		t.Fatalf("check auth: %v", err)
	}
	if !restored.Authenticated() {
		t.Fatal("restored store must be authenticated")
	}
}

func TestStoreLoginRejected(t *testing.T) {
	ctx := context.Background()
	sessions := session.NewMemory()
	store := NewStore(Local{Username: "cafein", Password: "pass1234"}, sessions)

	ok, err := store.Login(ctx, "cafein", "salah")
	if err != nil {
		t.Fatalf("wrong password is not an error: %v", err)
	}
	if ok || store.Authenticated() {
		t.Fatal("rejected login must not authenticate")
	}
	if _, err := sessions.Get(ctx, session.KeyAuthenticated); err == nil {
		t.Fatal("rejected login must not persist anything")
	}
}

func TestStoreLogout(t *testing.T) {
	ctx := context.Background()
	sessions := session.NewMemory()
	store := NewStore(Local{Username: "cafein", Password: "pass1234"}, sessions)

	if ok, _ := store.Login(ctx, "cafein", "pass1234"); !ok {
		t.Fatal("setup login failed")
	}
	if err := store.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if store.Authenticated() {
		t.Fatal("logout must clear the in-memory flag")
	}
	if _, err := sessions.Get(ctx, session.KeyAuthenticated); err == nil {
		t.Fatal("logout must clear persisted state")
	}
	// Logout when already logged out is fine.
	if err := store.Logout(ctx); err != nil {
		t.Fatalf("repeated logout: %v", err)
	}
}

func unsignedToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + "."
}

func TestRemoteStrategy(t *testing.T) {
	token := unsignedToken(t, map[string]any{"sub": "42", "username": "cafein"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req remoteLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Identifier != "cafein" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Invalid identifier or password"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jwt":  token,
			"user": map[string]any{"id": "42", "username": "cafein", "email": "cafein@example.com"},
		})
	}))
	defer srv.Close()

	strategy := NewRemote(srv.URL, time.Second)
	res, err := strategy.Authenticate(context.Background(), "cafein", "pass1234")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if !res.OK || res.Token != token {
		t.Fatalf("expected token back, got %+v", res)
	}
	if res.User == nil || res.User.Email != "cafein@example.com" {
		t.Fatalf("expected profile, got %+v", res.User)
	}

	res, err = strategy.Authenticate(context.Background(), "tamu", "x")
	if err != nil {
		t.Fatalf("4xx is a rejection, not an error: %v", err)
	}
	if res.OK {
		t.Fatal("rejected login must not be ok")
	}
}

func TestRemoteStrategyProfileFromClaims(t *testing.T) {
	token := unsignedToken(t, map[string]any{"sub": "7", "username": "cafein"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No user object in the response.
		_ = json.NewEncoder(w).Encode(map[string]any{"jwt": token})
	}))
	defer srv.Close()

	res, err := NewRemote(srv.URL, time.Second).Authenticate(context.Background(), "cafein", "x")
	if err != nil || !res.OK {
		t.Fatalf("authenticate: (%v, %v)", res.OK, err)
	}
	if res.User == nil || res.User.ID != "7" || res.User.Username != "cafein" {
		t.Fatalf("expected profile from claims, got %+v", res.User)
	}
}

func TestRemoteStrategyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewRemote(srv.URL, time.Second).Authenticate(context.Background(), "a", "b"); err == nil {
		t.Fatal("5xx must surface as an error")
	}
}
