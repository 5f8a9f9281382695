package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Remote posts the credential pair to a login endpoint and expects a token
// plus a user profile back. A 4xx response means wrong credentials; only
// transport trouble and 5xx responses are errors.
type Remote struct {
	Endpoint string
	Client   *http.Client
}

var _ Strategy = (*Remote)(nil)

type (
	remoteLoginRequest struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}

	remoteLoginResponse struct {
		JWT  string `json:"jwt"`
		User *User  `json:"user"`
	}
)

func NewRemote(endpoint string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Remote{Endpoint: endpoint, Client: &http.Client{Timeout: timeout}}
}

func (r *Remote) Authenticate(ctx context.Context, username, password string) (Result, error) {
	payload, err := json.Marshal(remoteLoginRequest{Identifier: username, Password: password})
	if err != nil {
		return Result{}, fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read login response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		// fall through to decode
	case resp.StatusCode >= 400 && resp.StatusCode <= 499:
		slog.InfoContext(ctx, "Login rejected by auth endpoint",
			"status", resp.StatusCode, "identifier", username)
		return Result{}, nil
	default:
		return Result{}, fmt.Errorf("auth endpoint returned %d", resp.StatusCode)
	}

	var decoded remoteLoginResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Result{}, fmt.Errorf("decode login response: %w", err)
	}
	if decoded.JWT == "" {
		return Result{}, fmt.Errorf("auth endpoint returned no token")
	}

	user := decoded.User
	if user == nil {
		user = profileFromToken(decoded.JWT)
	}
	return Result{OK: true, Token: decoded.JWT, User: user}, nil
}

// profileFromToken pulls a minimal profile out of the token claims when the
// endpoint did not send a user object. The token is decoded, not verified;
// verification is the backend's job, this client only displays the profile.
func profileFromToken(token string) *User {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	u := &User{}
	if sub, err := claims.GetSubject(); err == nil {
		u.ID = sub
	}
	if v, ok := claims["username"].(string); ok {
		u.Username = v
	}
	if v, ok := claims["email"].(string); ok {
		u.Email = v
	}
	if u.ID == "" && u.Username == "" && u.Email == "" {
		return nil
	}
	return u
}
