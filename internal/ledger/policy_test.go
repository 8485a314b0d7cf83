package ledger

import (
	"testing"

	"github.com/lira-pay/lira_pay/internal/money"
	"github.com/lira-pay/lira_pay/internal/transaction"
)

func TestApprovalPolicyDecide(t *testing.T) {
	policy := NewApprovalPolicy(money.MustParse("1000.00"))

	cases := []struct {
		amount string
		want   transaction.Status
	}{
		{"0.01", transaction.StatusApproved},
		{"999.99", transaction.StatusApproved},
		{"1000.00", transaction.StatusPending},
		{"1000.01", transaction.StatusPending},
		{"250000.00", transaction.StatusPending},
	}
	for _, tc := range cases {
		if got := policy.Decide(money.MustParse(tc.amount)); got != tc.want {
			t.Errorf("Decide(%s) = %s, want %s", tc.amount, got, tc.want)
		}
	}
}

func TestApprovalPolicyDefaultLimit(t *testing.T) {
	policy := NewApprovalPolicy(money.Zero)

	if got := policy.Decide(money.MustParse("999.99")); got != transaction.StatusApproved {
		t.Fatalf("expected default limit 1000.00 to approve 999.99, got %s", got)
	}
	if got := policy.Decide(money.MustParse("1000.00")); got != transaction.StatusPending {
		t.Fatalf("expected default limit 1000.00 to hold 1000.00, got %s", got)
	}
}
