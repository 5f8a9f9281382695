package auth

import (
	"context"
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Local checks credentials against a single configured pair. When
// PasswordHash is set it takes precedence and the plain Password is ignored.
type Local struct {
	Username     string
	Password     string
	PasswordHash string // bcrypt
}

var _ Strategy = Local{}

func (l Local) Authenticate(_ context.Context, username, password string) (Result, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(l.Username)) == 1

	var passOK bool
	if l.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(l.PasswordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(l.Password)) == 1
	}

	if !userOK || !passOK {
		return Result{}, nil
	}
	return Result{OK: true, User: &User{Username: l.Username}}, nil
}
