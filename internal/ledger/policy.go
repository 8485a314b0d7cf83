package ledger

import (
	"github.com/lira-pay/lira_pay/internal/money"
	"github.com/lira-pay/lira_pay/internal/transaction"
)

// DefaultApprovalLimit is the threshold at or above which deposits and
// withdrawals are held for manual approval.
var DefaultApprovalLimit = money.MustParse("1000.00")

// ApprovalPolicy decides whether a one-sided money movement settles
// immediately or waits for manual resolution. Transfers between two wallets
// are not policy-gated; they settle as soon as funds are confirmed available.
type ApprovalPolicy struct {
	limit money.Amount
}

// NewApprovalPolicy builds a policy with the given threshold. A zero or
// negative limit falls back to the default.
func NewApprovalPolicy(limit money.Amount) ApprovalPolicy {
	if !limit.IsPositive() {
		limit = DefaultApprovalLimit
	}
	return ApprovalPolicy{limit: limit}
}

// Decide maps an amount to the initial transaction status: amounts below the
// limit are approved on the spot, everything else goes to PENDING.
func (p ApprovalPolicy) Decide(amount money.Amount) transaction.Status {
	if amount.LessThan(p.limit) {
		return transaction.StatusApproved
	}
	return transaction.StatusPending
}
