// Package auth implements the login flow: bcrypt password checks against
// the user table and signed session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"tahbil/internal/store"
)

// ErrInvalidCredentials is returned for every login failure. The message
// stays generic on purpose so the form never reveals whether the account
// exists.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Authenticator verifies credentials against the user store.
type Authenticator struct {
	users      store.UserStore
	adminEmail string
}

func NewAuthenticator(users store.UserStore, adminEmail string) *Authenticator {
	return &Authenticator{users: users, adminEmail: adminEmail}
}

// Authenticate verifies the email and password and returns the matching
// user. Typing just "admin" logs in as the configured admin account.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (store.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "admin" && a.adminEmail != "" {
		email = a.adminEmail
	}

	user, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		return store.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return store.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// EnsureAdmin creates or refreshes the admin account from configuration
// so the app is usable on a fresh database.
func (a *Authenticator) EnsureAdmin(ctx context.Context, password string) error {
	if a.adminEmail == "" || password == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if err := a.users.CreateUser(ctx, store.User{
		Email:        a.adminEmail,
		PasswordHash: string(hash),
	}); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	return nil
}
