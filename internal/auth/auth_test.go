package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"tahbil/internal/store"
)

type memUsers struct {
	byEmail map[string]store.User
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) CreateUser(_ context.Context, u store.User) error {
	if m.byEmail == nil {
		m.byEmail = make(map[string]store.User)
	}
	m.byEmail[u.Email] = u
	return nil
}

func TestAuthenticate(t *testing.T) {
	users := &memUsers{}
	a := NewAuthenticator(users, "admin@tahbil.example")
	if err := a.EnsureAdmin(context.Background(), "secret123"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	u, err := a.Authenticate(context.Background(), "admin@tahbil.example", "secret123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.Email != "admin@tahbil.example" {
		t.Fatalf("email = %q", u.Email)
	}
}

func TestAuthenticateAdminAlias(t *testing.T) {
	users := &memUsers{}
	a := NewAuthenticator(users, "admin@tahbil.example")
	if err := a.EnsureAdmin(context.Background(), "secret123"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := a.Authenticate(context.Background(), "admin", "secret123"); err != nil {
		t.Fatalf("alias login failed: %v", err)
	}
	if _, err := a.Authenticate(context.Background(), "  ADMIN ", "secret123"); err != nil {
		t.Fatalf("alias login with spacing failed: %v", err)
	}
}

func TestAuthenticateFailuresAreGeneric(t *testing.T) {
	users := &memUsers{}
	a := NewAuthenticator(users, "admin@tahbil.example")
	if err := a.EnsureAdmin(context.Background(), "secret123"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Unknown account and wrong password return the same error.
	_, unknownErr := a.Authenticate(context.Background(), "nobody@example.com", "secret123")
	_, wrongErr := a.Authenticate(context.Background(), "admin@tahbil.example", "wrong")

	if !errors.Is(unknownErr, ErrInvalidCredentials) || !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("unknown=%v wrong=%v", unknownErr, wrongErr)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)

	token, err := m.Generate("u1", "admin@tahbil.example")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "admin@tahbil.example" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret-key-32-bytes-long!!!", -time.Minute)

	token, err := m.Generate("u1", "a@b.c")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	m1 := NewJWTManager("secret-one", time.Hour)
	m2 := NewJWTManager("secret-two", time.Hour)

	token, err := m1.Generate("u1", "a@b.c")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m2.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
