package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lira-pay/lira_pay/internal/transaction"
	"github.com/lira-pay/lira_pay/internal/wallet"
)

// PostgresStore backs the ledger with PostgreSQL. Reads outside WithinTx run
// on the pool; WithinTx binds both repositories to one database transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Wallets returns a pool-bound wallet repository.
func (s *PostgresStore) Wallets() wallet.Repository {
	return wallet.NewPostgresRepository(s.pool)
}

// Transactions returns a pool-bound transaction repository.
func (s *PostgresStore) Transactions() transaction.Repository {
	return transaction.NewPostgresRepository(s.pool)
}

type pgUnitOfWork struct {
	tx pgx.Tx
}

func (u pgUnitOfWork) Wallets() wallet.Repository {
	return wallet.NewPostgresRepository(u.tx)
}

func (u pgUnitOfWork) Transactions() transaction.Repository {
	return transaction.NewPostgresRepository(u.tx)
}

// WithinTx runs fn inside a database transaction. Any error rolls everything
// back, so no partial balance application is ever observable.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(uow UnitOfWork) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := fn(pgUnitOfWork{tx: tx}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
			// Serialization failure or deadlock: safe to retry the whole
			// unit of work, nothing was committed.
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrStoreUnavailable, err)
	}
	return nil
}
