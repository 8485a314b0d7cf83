package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lira-pay/lira_pay/internal/infra"
	"github.com/lira-pay/lira_pay/internal/money"
)

// PostgresRepository stores transactions in PostgreSQL.
type PostgresRepository struct {
	db infra.DB
}

// NewPostgresRepository builds a repository on the given pool or transaction.
func NewPostgresRepository(db infra.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const txColumns = `id, reference_number, amount::text, description, status,
        from_wallet_id, to_wallet_id, type_id, created_at`

func scanTransaction(row pgx.Row) (Transaction, error) {
	var (
		t         Transaction
		amount    string
		createdAt time.Time
	)
	if err := row.Scan(&t.ID, &t.ReferenceNumber, &amount, &t.Description, &t.Status,
		&t.FromWalletID, &t.ToWalletID, &t.TypeID, &createdAt); err != nil {
		return Transaction{}, err
	}
	var err error
	if t.Amount, err = money.Parse(amount); err != nil {
		return Transaction{}, err
	}
	t.CreatedAt = createdAt.UTC()
	return t, nil
}

// FindByID fetches a transaction by its identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (Transaction, error) {
	row := r.db.QueryRow(ctx, `SELECT `+txColumns+` FROM transactions WHERE id = $1`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrNotFound
	}
	return t, err
}

// FindByReferenceNumber fetches a transaction by its reference number.
func (r *PostgresRepository) FindByReferenceNumber(ctx context.Context, ref uuid.UUID) (Transaction, error) {
	row := r.db.QueryRow(ctx, `SELECT `+txColumns+` FROM transactions WHERE reference_number = $1`, ref)
	t, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrNotFound
	}
	return t, err
}

// FindAllByWalletOwner lists transactions touching any wallet of the owner.
func (r *PostgresRepository) FindAllByWalletOwner(ctx context.Context, ownerID int64) ([]Transaction, error) {
	rows, err := r.db.Query(ctx, `SELECT `+txColumns+` FROM transactions t
        WHERE EXISTS (
            SELECT 1 FROM wallets w
            WHERE w.owner_id = $1 AND w.id IN (t.from_wallet_id, t.to_wallet_id)
        )
        ORDER BY t.id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// FindAll returns one page of transactions.
func (r *PostgresRepository) FindAll(ctx context.Context, req PageRequest) (Page, error) {
	req = normalizePage(req)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&total); err != nil {
		return Page{}, err
	}

	offset := (req.Page - 1) * req.Size
	rows, err := r.db.Query(ctx, `SELECT `+txColumns+` FROM transactions
        ORDER BY `+normalizeSort(req.Sort)+` LIMIT $1 OFFSET $2`, req.Size, offset)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	items, err := collect(rows)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Page: req.Page, Size: req.Size, Total: total}, nil
}

// Create inserts the record, filling in reference number and timestamp when
// the caller left them zero.
func (r *PostgresRepository) Create(ctx context.Context, t Transaction) (Transaction, error) {
	if t.ReferenceNumber == uuid.Nil {
		t.ReferenceNumber = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	err := r.db.QueryRow(ctx, `INSERT INTO transactions
        (reference_number, amount, description, status, from_wallet_id, to_wallet_id, type_id, created_at)
        VALUES ($1, $2::numeric, $3, $4, $5, $6, $7, $8)
        RETURNING id`,
		t.ReferenceNumber, t.Amount.String(), t.Description, t.Status,
		t.FromWalletID, t.ToWalletID, t.TypeID, t.CreatedAt.UTC()).Scan(&t.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Transaction{}, ErrDuplicateReference
		}
		return Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return t, nil
}

// TransitionStatus performs the status compare-and-swap in one UPDATE.
func (r *PostgresRepository) TransitionStatus(ctx context.Context, id int64, expected, next Status) (Transaction, error) {
	row := r.db.QueryRow(ctx, `UPDATE transactions SET status = $3
        WHERE id = $1 AND status = $2
        RETURNING `+txColumns, id, expected, next)
	t, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// Zero rows is either a missing row or a lost race.
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE id = $1)`, id).Scan(&exists); err != nil {
			return Transaction{}, err
		}
		if !exists {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, ErrInvalidState
	}
	return t, err
}

func collect(rows pgx.Rows) ([]Transaction, error) {
	var items []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
