package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/lira-pay/lira_pay/internal/money"
)

func TestCreateEnforcesUniqueness(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, Wallet{OwnerID: 1, IBAN: "TR330006100519786457841326", Name: "main", Currency: "TRY"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := repo.Create(ctx, Wallet{OwnerID: 2, IBAN: "tr330006100519786457841326", Name: "other", Currency: "TRY"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for iban, got %v", err)
	}

	_, err = repo.Create(ctx, Wallet{OwnerID: 1, IBAN: "TR990006100519786457841300", Name: "Main", Currency: "TRY"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for owner+name, got %v", err)
	}
}

func TestApplyBalanceDeltaGuardsNegativeBalance(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	w, err := repo.Create(ctx, Wallet{
		OwnerID:       1,
		IBAN:          "TR330006100519786457841326",
		Name:          "main",
		Currency:      "TRY",
		Balance:       money.MustParse("50.00"),
		UsableBalance: money.MustParse("50.00"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = repo.ApplyBalanceDelta(ctx, w.ID, money.MustParse("-60.00"), money.MustParse("-60.00"))
	if !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}

	got, err := repo.FindByID(ctx, w.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !got.Balance.Equal(money.MustParse("50.00")) {
		t.Fatalf("balance mutated after rejected delta: %s", got.Balance)
	}

	updated, err := repo.ApplyBalanceDelta(ctx, w.ID, money.MustParse("-20.00"), money.MustParse("-20.00"))
	if err != nil {
		t.Fatalf("apply delta: %v", err)
	}
	if !updated.Balance.Equal(money.MustParse("30.00")) || !updated.UsableBalance.Equal(money.MustParse("30.00")) {
		t.Fatalf("unexpected balances %s / %s", updated.Balance, updated.UsableBalance)
	}
}

func TestApplyBalanceDeltaUnknownWallet(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.ApplyBalanceDelta(context.Background(), 99, money.MustParse("1.00"), money.Zero)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
