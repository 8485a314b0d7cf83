package auth

import (
	"context"
	"time"

	"github.com/lira-pay/lira_pay/internal/config"
	"github.com/lira-pay/lira_pay/internal/user"
)

// Service issues access tokens for registered users.
type Service struct {
	cfg   config.Config
	users *user.Service
}

// NewService builds an auth service.
func NewService(cfg config.Config, users *user.Service) *Service {
	return &Service{cfg: cfg, users: users}
}

// Token is the response of a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Login verifies credentials and issues a signed access token.
func (s *Service) Login(ctx context.Context, creds user.Credentials) (Token, error) {
	u, err := s.users.Authenticate(ctx, creds)
	if err != nil {
		return Token{}, err
	}

	now := time.Now()
	exp := now.Add(s.cfg.AccessTokenTTL)
	signed, err := SignHS256(Claims{
		Subject:   u.ID,
		Email:     u.Email,
		IssuedAt:  now.Unix(),
		ExpiresAt: exp.Unix(),
	}, []byte(s.cfg.JWTSecret))
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, ExpiresIn: int64(s.cfg.AccessTokenTTL.Seconds())}, nil
}
