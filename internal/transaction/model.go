package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/lira-pay/lira_pay/internal/money"
)

// Status is the lifecycle state of a transaction. The only legal transitions
// are PENDING to APPROVED and PENDING to DENIED, each at most once.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusDenied   Status = "DENIED"
)

// Transaction is an immutable record of a balance-affecting operation. Apart
// from the status transition nothing on it ever changes, and it is never
// deleted.
//
// ReferenceNumber is a globally unique random identifier assigned at creation,
// distinct from the store-assigned id. For one-sided deposits and withdrawals
// FromWalletID equals ToWalletID; the same holds for the synthetic
// initial-balance record written on wallet creation.
type Transaction struct {
	ID              int64
	ReferenceNumber uuid.UUID
	Amount          money.Amount
	Description     string
	Status          Status
	FromWalletID    int64
	ToWalletID      int64
	TypeID          string
	CreatedAt       time.Time
}
