package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials occurs when a login attempt fails verification.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service manages the user lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, creds Credentials) (User, error) {
	if len(creds.Password) < 8 {
		return User{}, errors.New("password must be at least 8 characters")
	}
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" {
		return User{}, errors.New("email is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	return s.repo.Create(ctx, User{
		Email:        email,
		FullName:     creds.FullName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
}

// Authenticate verifies credentials and returns the matching user.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(creds.Password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}
