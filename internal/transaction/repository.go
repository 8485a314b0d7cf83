package transaction

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound occurs when no transaction matches the id or reference number.
	ErrNotFound = errors.New("transaction not found")

	// ErrInvalidState indicates the stored status differed from the expected
	// one at the moment of a transition, i.e. the transaction was already
	// resolved by someone else.
	ErrInvalidState = errors.New("transaction not in expected state")

	// ErrDuplicateReference indicates a reference number collision. The store
	// rejects these defensively even though a fresh random reference makes
	// them negligible.
	ErrDuplicateReference = errors.New("duplicate reference number")
)

// PageRequest describes paging and sorting for listing transactions.
type PageRequest struct {
	Page int
	Size int
	// Sort is one of "id", "created_at" or "amount", optionally suffixed
	// with " desc". Anything else falls back to "id".
	Sort string
}

// Page is one page of transactions with the overall count.
type Page struct {
	Items []Transaction
	Page  int
	Size  int
	Total int64
}

// Repository persists transactions.
type Repository interface {
	FindByID(ctx context.Context, id int64) (Transaction, error)
	FindByReferenceNumber(ctx context.Context, ref uuid.UUID) (Transaction, error)

	// FindAllByWalletOwner lists transactions touching any wallet of the owner.
	FindAllByWalletOwner(ctx context.Context, ownerID int64) ([]Transaction, error)

	FindAll(ctx context.Context, req PageRequest) (Page, error)

	// Create inserts the record and returns it with the store-assigned id.
	// A zero CreatedAt or ReferenceNumber is filled in by the store.
	Create(ctx context.Context, t Transaction) (Transaction, error)

	// TransitionStatus compare-and-swaps the status. It fails with
	// ErrInvalidState if the stored status is not expected at the moment of
	// the update, which is what makes approval exclusive.
	TransitionStatus(ctx context.Context, id int64, expected, next Status) (Transaction, error)
}

// normalizeSort maps a requested sort to a safe column expression.
func normalizeSort(sort string) string {
	switch sort {
	case "created_at":
		return "created_at"
	case "created_at desc":
		return "created_at DESC"
	case "amount":
		return "amount"
	case "amount desc":
		return "amount DESC"
	case "id desc":
		return "id DESC"
	default:
		return "id"
	}
}

// normalizePage applies the listing defaults.
func normalizePage(req PageRequest) PageRequest {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Size < 1 || req.Size > 100 {
		req.Size = 20
	}
	return req
}
