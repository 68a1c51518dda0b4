// Package ledger holds the pure aggregation folds of the bookkeeping engine.
// Every function here is deterministic, synchronous and total: no I/O, no
// hidden state, no errors on empty or malformed input. Absent numeric fields
// have already been defaulted to 0 at the store-adapter boundary.
package ledger

import (
	"sort"
	"strings"

	"github.com/clubledger/backend/internal/domain/bankaccount"
	"github.com/clubledger/backend/internal/domain/project"
	"github.com/clubledger/backend/internal/domain/transaction"
)

// Order selects the chronological direction of a running-balance sequence
type Order int

const (
	// Ascending is chronological order, the order balances are defined over
	Ascending Order = iota
	// Descending is display order for newest-first tables
	Descending
)

// RunningBalance pairs a transaction with the cumulative net amount up to and
// including it, in the requested order.
type RunningBalance struct {
	Transaction transaction.Transaction `json:"transaction"`
	Balance     float64                 `json:"balance"`
}

// RunningBalances sorts the transactions by date in the requested order and
// folds a cumulative sum of (income - expense) over the result. The sort is
// stable, so same-date transactions keep their input order and re-running on
// the same input yields identical values. No partial sums are retained across
// calls; a differently-ordered call recomputes from scratch.
func RunningBalances(txs []transaction.Transaction, order Order) []RunningBalance {
	ordered := make([]transaction.Transaction, len(txs))
	copy(ordered, txs)

	sort.SliceStable(ordered, func(i, j int) bool {
		if order == Descending {
			return ordered[i].Date > ordered[j].Date
		}
		return ordered[i].Date < ordered[j].Date
	})

	out := make([]RunningBalance, len(ordered))
	var sum float64
	for i := range ordered {
		sum += ordered[i].Net()
		out[i] = RunningBalance{Transaction: ordered[i], Balance: sum}
	}
	return out
}

// AccountBalance sums the signed amounts of the transactions accepted by
// match. What "belongs to the account" means is entirely the caller's filter;
// no business rule hides in here.
func AccountBalance(txs []transaction.Transaction, match func(*transaction.Transaction) bool) float64 {
	var sum float64
	for i := range txs {
		if match(&txs[i]) {
			sum += txs[i].Net()
		}
	}
	return sum
}

// BankAccountBalance reconciles a bank account: initial balance plus the net
// of every transaction carrying its id.
func BankAccountBalance(acct *bankaccount.BankAccount, txs []transaction.Transaction) float64 {
	balance := acct.InitialBalance
	for i := range txs {
		if txs[i].BankAccountID == acct.BankAccountID {
			balance += txs[i].Net()
		}
	}
	return balance
}

// ProjectStats is the derived aggregate of one project
type ProjectStats struct {
	ProjectID            string  `json:"projectId"`
	TotalIncome          float64 `json:"totalIncome"`
	TotalExpense         float64 `json:"totalExpense"`
	NetAmount            float64 `json:"netAmount"`
	TransactionCount     int     `json:"transactionCount"`
	AvgIncome            float64 `json:"avgIncome"`
	AvgExpense           float64 `json:"avgExpense"`
	AvgTransactionAmount float64 `json:"avgTransactionAmount"`
}

// ComputeProjectStats folds the transactions matched to the project. Matching
// tries, in priority order: exact project code equality, exact project name
// equality, then a substring match of the project's code fragment against the
// transaction's denormalized project name. The first rule that applies wins;
// a transaction is counted at most once. Averages are zero-safe: a project
// with no matches reports 0, never NaN.
func ComputeProjectStats(p *project.Project, txs []transaction.Transaction) ProjectStats {
	stats := ProjectStats{ProjectID: p.ProjectID}

	for i := range txs {
		if !MatchesProject(p, &txs[i]) {
			continue
		}
		stats.TotalIncome += txs[i].Income
		stats.TotalExpense += txs[i].Expense
		stats.TransactionCount++
	}

	stats.NetAmount = stats.TotalIncome - stats.TotalExpense
	if stats.TransactionCount > 0 {
		n := float64(stats.TransactionCount)
		stats.AvgIncome = stats.TotalIncome / n
		stats.AvgExpense = stats.TotalExpense / n
		stats.AvgTransactionAmount = (stats.TotalIncome + stats.TotalExpense) / n
	}
	return stats
}

// MatchesProject reports whether a transaction belongs to the project under
// the tolerant multi-strategy rules. Data entry in the app is loose: some
// transactions carry the project id, some only a denormalized name, some a
// name that merely embeds the code fragment.
func MatchesProject(p *project.Project, tx *transaction.Transaction) bool {
	// Rule 1: exact id/code equality
	if tx.ProjectID != "" && (tx.ProjectID == p.ProjectID || tx.ProjectID == p.ProjectCode) {
		return true
	}
	// Rule 2: exact name equality
	if tx.ProjectName != "" && p.Name != "" && tx.ProjectName == p.Name {
		return true
	}
	// Rule 3: code fragment substring
	fragment := p.CodeFragment()
	if fragment != "" && tx.ProjectName != "" && strings.Contains(tx.ProjectName, fragment) {
		return true
	}
	return false
}

// Totals is the flat income/expense summary of a transaction set
type Totals struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	Net          float64 `json:"net"`
	Count        int     `json:"count"`
}

// Sum folds the plain totals of a transaction set
func Sum(txs []transaction.Transaction) Totals {
	var t Totals
	for i := range txs {
		t.TotalIncome += txs[i].Income
		t.TotalExpense += txs[i].Expense
	}
	t.Net = t.TotalIncome - t.TotalExpense
	t.Count = len(txs)
	return t
}
