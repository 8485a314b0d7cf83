package auth

import (
	"testing"
	"time"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	claims := Claims{
		Subject:   42,
		Email:     "ada@example.com",
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}

	token, err := SignHS256(claims, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, err := VerifyHS256(token, secret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.Subject != claims.Subject || got.Email != claims.Email {
		t.Fatalf("claims mismatch: %+v", got)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := SignHS256(Claims{Subject: 1, ExpiresAt: time.Now().Add(time.Hour).Unix()}, []byte("secret-a"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyHS256(token, []byte("secret-b")); err == nil {
		t.Fatalf("expected verification failure")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	token, err := SignHS256(Claims{Subject: 1, ExpiresAt: time.Now().Add(-time.Minute).Unix()}, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyHS256(token, secret); err == nil {
		t.Fatalf("expected expiry failure")
	}
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	if _, err := VerifyHS256("not.a-token", []byte("secret")); err == nil {
		t.Fatalf("expected malformed token failure")
	}
}
