package ledger

import (
	"math"

	"github.com/clubledger/backend/internal/domain/account"
	"github.com/clubledger/backend/internal/domain/transaction"
)

// BalanceEpsilon is the tolerance of the balance-sheet equality check, in
// currency units. Floating-point summation order makes exact equality
// meaningless; callers treat IsBalanced as a property, not a hard invariant.
const BalanceEpsilon = 0.01

// AccountBalances derives the balance of every account in the chart:
// initial balance plus the net of the transactions posted to it. This is the
// value the materialized Account.Balance field must always equal.
func AccountBalances(accounts []*account.Account, txs []transaction.Transaction) map[string]float64 {
	balances := make(map[string]float64, len(accounts))
	for _, acct := range accounts {
		balances[acct.AccountID] = acct.InitialBalance
	}
	for i := range txs {
		if txs[i].AccountID == "" {
			continue
		}
		if _, ok := balances[txs[i].AccountID]; ok {
			balances[txs[i].AccountID] += txs[i].Net()
		}
	}
	return balances
}

// TypeTotals is the per-account-type partition of the chart
type TypeTotals struct {
	Assets      float64 `json:"assets"`
	Liabilities float64 `json:"liabilities"`
	Equity      float64 `json:"equity"`
	Revenue     float64 `json:"revenue"`
	Expenses    float64 `json:"expenses"`
}

// PartitionTotals partitions account balances by account type and sums each
// partition. Unknown types are ignored rather than erroring.
func PartitionTotals(accounts []*account.Account, balances map[string]float64) TypeTotals {
	var t TypeTotals
	for _, acct := range accounts {
		b := balances[acct.AccountID]
		switch acct.AccountType {
		case account.Asset:
			t.Assets += b
		case account.Liability:
			t.Liabilities += b
		case account.Equity:
			t.Equity += b
		case account.Revenue:
			t.Revenue += b
		case account.Expense:
			t.Expenses += b
		}
	}
	return t
}

// IsBalanced checks the accounting equation within BalanceEpsilon
func IsBalanced(t TypeTotals) bool {
	return math.Abs(t.Assets-(t.Liabilities+t.Equity)) < BalanceEpsilon
}

// NetResult is the profit-and-loss bottom line of the partition
func (t TypeTotals) NetResult() float64 {
	return t.Revenue - t.Expenses
}
