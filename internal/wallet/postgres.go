package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lira-pay/lira_pay/internal/infra"
	"github.com/lira-pay/lira_pay/internal/money"
)

// PostgresRepository stores wallets in PostgreSQL.
type PostgresRepository struct {
	db infra.DB
}

// NewPostgresRepository builds a repository on the given pool or transaction.
func NewPostgresRepository(db infra.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const walletColumns = `id, owner_id, iban, name, currency, balance::text, usable_balance::text,
        active_for_shopping, active_for_withdraw, created_at`

func scanWallet(row pgx.Row) (Wallet, error) {
	var (
		w         Wallet
		balance   string
		usable    string
		createdAt time.Time
	)
	if err := row.Scan(&w.ID, &w.OwnerID, &w.IBAN, &w.Name, &w.Currency, &balance, &usable,
		&w.ActiveForShopping, &w.ActiveForWithdraw, &createdAt); err != nil {
		return Wallet{}, err
	}
	var err error
	if w.Balance, err = money.Parse(balance); err != nil {
		return Wallet{}, err
	}
	if w.UsableBalance, err = money.Parse(usable); err != nil {
		return Wallet{}, err
	}
	w.CreatedAt = createdAt.UTC()
	return w, nil
}

// FindByID fetches a wallet by its identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (Wallet, error) {
	row := r.db.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id = $1`, id)
	w, err := scanWallet(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Wallet{}, ErrNotFound
	}
	return w, err
}

// FindByIBAN fetches a wallet by IBAN. IBANs match case-insensitively, same
// as the uniqueness checks below.
func (r *PostgresRepository) FindByIBAN(ctx context.Context, iban string) (Wallet, error) {
	row := r.db.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE LOWER(iban) = LOWER($1)`, iban)
	w, err := scanWallet(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Wallet{}, ErrNotFound
	}
	return w, err
}

// FindByOwner lists all wallets belonging to the owner.
func (r *PostgresRepository) FindByOwner(ctx context.Context, ownerID int64) ([]Wallet, error) {
	rows, err := r.db.Query(ctx, `SELECT `+walletColumns+` FROM wallets WHERE owner_id = $1 ORDER BY id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

// ExistsByIBAN reports whether any wallet uses the IBAN, ignoring case.
func (r *PostgresRepository) ExistsByIBAN(ctx context.Context, iban string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wallets WHERE LOWER(iban) = LOWER($1))`, iban).Scan(&exists)
	return exists, err
}

// ExistsByOwnerAndName reports whether the owner already named a wallet this
// way, ignoring case.
func (r *PostgresRepository) ExistsByOwnerAndName(ctx context.Context, ownerID int64, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wallets WHERE owner_id = $1 AND LOWER(name) = LOWER($2))`, ownerID, name).Scan(&exists)
	return exists, err
}

// Create inserts a wallet record and returns it with the assigned id. The
// unique indexes backing the 23505 mapping are on LOWER(iban) and
// (owner_id, LOWER(name)) so they agree with the case-insensitive lookups.
func (r *PostgresRepository) Create(ctx context.Context, w Wallet) (Wallet, error) {
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	err := r.db.QueryRow(ctx, `INSERT INTO wallets
        (owner_id, iban, name, currency, balance, usable_balance, active_for_shopping, active_for_withdraw, created_at)
        VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7, $8, $9)
        RETURNING id`,
		w.OwnerID, w.IBAN, w.Name, w.Currency, w.Balance.String(), w.UsableBalance.String(),
		w.ActiveForShopping, w.ActiveForWithdraw, w.CreatedAt.UTC()).Scan(&w.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Wallet{}, ErrAlreadyExists
		}
		return Wallet{}, fmt.Errorf("insert wallet: %w", err)
	}
	return w, nil
}

// ApplyBalanceDelta adds the deltas in a single conditional update. The row
// lock taken by UPDATE serializes concurrent writers per wallet.
func (r *PostgresRepository) ApplyBalanceDelta(ctx context.Context, id int64, balanceDelta, usableDelta money.Amount) (Wallet, error) {
	row := r.db.QueryRow(ctx, `UPDATE wallets
        SET balance = balance + $2::numeric, usable_balance = usable_balance + $3::numeric
        WHERE id = $1 AND balance + $2::numeric >= 0
        RETURNING `+walletColumns,
		id, balanceDelta.String(), usableDelta.String())
	w, err := scanWallet(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// Zero rows means either the wallet is gone or the guard tripped.
		exists, existsErr := r.existsByID(ctx, id)
		if existsErr != nil {
			return Wallet{}, existsErr
		}
		if !exists {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, ErrConstraintViolation
	}
	return w, err
}

func (r *PostgresRepository) existsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wallets WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
