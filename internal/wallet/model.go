package wallet

import (
	"time"

	"github.com/lira-pay/lira_pay/internal/money"
)

// Wallet is an IBAN-identified account holding a single-currency balance.
//
// Balance is the settled, spendable total and never goes below zero.
// UsableBalance tracks claimed funds including amounts still pending manual
// approval; it is adjusted the moment a deposit or withdrawal is requested and
// reconciled back if the request is later denied.
type Wallet struct {
	ID                int64
	OwnerID           int64
	IBAN              string
	Name              string
	Currency          string
	Balance           money.Amount
	UsableBalance     money.Amount
	ActiveForShopping bool
	ActiveForWithdraw bool
	CreatedAt         time.Time
}
