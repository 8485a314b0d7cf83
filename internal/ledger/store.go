package ledger

import (
	"context"
	"errors"

	"github.com/lira-pay/lira_pay/internal/transaction"
	"github.com/lira-pay/lira_pay/internal/wallet"
)

var (
	// ErrInsufficientFunds occurs when a debit exceeds the settled balance of
	// the source wallet.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrStoreUnavailable signals a transient storage failure. The whole
	// operation can be retried since no partial effect was persisted.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// UnitOfWork exposes both stores bound to one atomicity domain. Inside
// WithinTx every write through these repositories commits or rolls back
// together.
type UnitOfWork interface {
	Wallets() wallet.Repository
	Transactions() transaction.Repository
}

// Store is the storage backend consumed by the engine. WithinTx runs fn as a
// single unit of work: an error return discards every write fn made.
type Store interface {
	UnitOfWork
	WithinTx(ctx context.Context, fn func(uow UnitOfWork) error) error
}
