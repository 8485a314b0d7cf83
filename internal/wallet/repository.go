package wallet

import (
	"context"
	"errors"

	"github.com/lira-pay/lira_pay/internal/money"
)

var (
	// ErrNotFound occurs when no wallet matches the given id or IBAN.
	ErrNotFound = errors.New("wallet not found")

	// ErrAlreadyExists indicates the IBAN or the (owner, name) pair is taken.
	ErrAlreadyExists = errors.New("wallet already exists")

	// ErrConstraintViolation indicates a balance write would drop the settled
	// balance below zero. The delta is rejected and nothing is written.
	ErrConstraintViolation = errors.New("balance would become negative")
)

// Repository persists wallets. ApplyBalanceDelta is the only way balances
// change and must be linearizable per wallet.
type Repository interface {
	FindByID(ctx context.Context, id int64) (Wallet, error)
	FindByIBAN(ctx context.Context, iban string) (Wallet, error)
	FindByOwner(ctx context.Context, ownerID int64) ([]Wallet, error)
	ExistsByIBAN(ctx context.Context, iban string) (bool, error)
	ExistsByOwnerAndName(ctx context.Context, ownerID int64, name string) (bool, error)

	// Create inserts the wallet and returns it with the store-assigned id.
	Create(ctx context.Context, w Wallet) (Wallet, error)

	// ApplyBalanceDelta atomically reads the current balances, adds the deltas
	// and writes the result back. It fails with ErrConstraintViolation if the
	// settled balance would end up negative, leaving the wallet untouched.
	ApplyBalanceDelta(ctx context.Context, id int64, balanceDelta, usableDelta money.Amount) (Wallet, error)
}
