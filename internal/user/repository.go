package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lira-pay/lira_pay/internal/infra"
)

var (
	// ErrNotFound occurs when no user matches the given id or email.
	ErrNotFound = errors.New("user not found")

	// ErrAlreadyExists indicates the email is taken.
	ErrAlreadyExists = errors.New("user already exists")
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	FindByID(ctx context.Context, id int64) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db infra.DB
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db infra.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user and returns it with the assigned id.
func (r *PostgresRepository) Create(ctx context.Context, u User) (User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	err := r.db.QueryRow(ctx, `INSERT INTO users (email, full_name, password_hash, created_at)
        VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Email, u.FullName, u.PasswordHash, u.CreatedAt.UTC()).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrAlreadyExists
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// FindByID fetches a user by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (User, error) {
	return r.scanOne(r.db.QueryRow(ctx,
		`SELECT id, email, full_name, password_hash, created_at FROM users WHERE id = $1`, id))
}

// FindByEmail fetches a user by email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.scanOne(r.db.QueryRow(ctx,
		`SELECT id, email, full_name, password_hash, created_at FROM users WHERE email = $1`, email))
}

func (r *PostgresRepository) scanOne(row pgx.Row) (User, error) {
	var (
		u         User
		createdAt time.Time
	)
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.CreatedAt = createdAt.UTC()
	return u, nil
}
