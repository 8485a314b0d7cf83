package user

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	u, err := svc.Register(ctx, Credentials{Email: "Ada@Example.com", FullName: "Ada Lovelace", Password: "correct horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %s", u.Email)
	}
	if string(u.PasswordHash) == "correct horse" {
		t.Fatalf("password stored in clear")
	}

	authed, err := svc.Authenticate(ctx, Credentials{Email: "ada@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != u.ID {
		t.Fatalf("expected user %d, got %d", u.ID, authed.ID)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Email: "ada@example.com", Password: "correct horse"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Authenticate(ctx, Credentials{Email: "ada@example.com", Password: "wrong horse"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	_, err := svc.Authenticate(context.Background(), Credentials{Email: "ghost@example.com", Password: "whatever1"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	if _, err := svc.Register(context.Background(), Credentials{Email: "ada@example.com", Password: "short"}); err == nil {
		t.Fatalf("expected error for short password")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Email: "ada@example.com", Password: "correct horse"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, Credentials{Email: "ADA@example.com", Password: "another pass"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}
