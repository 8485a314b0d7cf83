package transaction

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/lira-pay/lira_pay/internal/infra"
)

// Semantics classifies how a transaction type moves money.
type Semantics string

const (
	// SemanticsCredit adds funds to the target wallet.
	SemanticsCredit Semantics = "credit"
	// SemanticsDebit removes funds from the target wallet.
	SemanticsDebit Semantics = "debit"
	// SemanticsTransfer moves funds between two distinct wallets.
	SemanticsTransfer Semantics = "transfer"
)

// ErrUnknownType occurs when a type id has no reference entry.
var ErrUnknownType = errors.New("unknown transaction type")

// Type is reference data classifying an operation, e.g. "deposit".
type Type struct {
	ID        string
	Semantics Semantics
}

// TypeResolver maps type ids to their reference data.
type TypeResolver interface {
	Resolve(ctx context.Context, typeID string) (Type, error)
}

// Well-known type ids used by the ledger engine itself.
const (
	TypeInitial    = "initial"
	TypeDeposit    = "deposit"
	TypeWithdrawal = "withdrawal"
	TypeTransfer   = "transfer"
)

// StaticTypeResolver serves a fixed type table from memory.
type StaticTypeResolver struct {
	types map[string]Type
}

// NewStaticTypeResolver seeds the resolver with the built-in types.
func NewStaticTypeResolver() *StaticTypeResolver {
	r := &StaticTypeResolver{types: make(map[string]Type)}
	for _, t := range []Type{
		{ID: TypeInitial, Semantics: SemanticsCredit},
		{ID: TypeDeposit, Semantics: SemanticsCredit},
		{ID: TypeWithdrawal, Semantics: SemanticsDebit},
		{ID: TypeTransfer, Semantics: SemanticsTransfer},
	} {
		r.types[t.ID] = t
	}
	return r
}

// Resolve returns the type for the given id.
func (r *StaticTypeResolver) Resolve(_ context.Context, typeID string) (Type, error) {
	t, ok := r.types[strings.ToLower(typeID)]
	if !ok {
		return Type{}, ErrUnknownType
	}
	return t, nil
}

// PostgresTypeResolver reads the type table from the database.
type PostgresTypeResolver struct {
	db infra.DB
}

// NewPostgresTypeResolver builds a resolver over the types table.
func NewPostgresTypeResolver(db infra.DB) *PostgresTypeResolver {
	return &PostgresTypeResolver{db: db}
}

// Resolve looks up a type row by id.
func (r *PostgresTypeResolver) Resolve(ctx context.Context, typeID string) (Type, error) {
	var t Type
	err := r.db.QueryRow(ctx,
		`SELECT id, semantics FROM transaction_types WHERE id = $1`, strings.ToLower(typeID)).
		Scan(&t.ID, &t.Semantics)
	if errors.Is(err, pgx.ErrNoRows) {
		return Type{}, ErrUnknownType
	}
	if err != nil {
		return Type{}, err
	}
	return t, nil
}
