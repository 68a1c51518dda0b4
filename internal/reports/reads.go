package reports

import (
	"context"

	"github.com/clubledger/backend/internal/domain/account"
	"github.com/clubledger/backend/internal/domain/project"
	"github.com/clubledger/backend/internal/domain/tenant"
	"github.com/clubledger/backend/internal/ledger"
)

// Aggregate read surface. Each call returns cached-or-recomputed data inside
// a status envelope: store failures become an errored envelope instead of a
// bare error so dashboards keep rendering whatever they have.

// ResultStatus is the envelope status of an aggregate read
type ResultStatus string

const (
	StatusOK    ResultStatus = "ok"
	StatusError ResultStatus = "error"
)

// Result is the shared status envelope
type Result struct {
	Status ResultStatus `json:"status"`
	Error  string       `json:"error,omitempty"`
}

func okResult() Result {
	return Result{Status: StatusOK}
}

func errResult(err error) Result {
	return Result{Status: StatusError, Error: err.Error()}
}

// AccountWithBalance is an account with its freshly derived balance overlaid
type AccountWithBalance struct {
	*account.Account
	DerivedBalance float64 `json:"derivedBalance"`
}

// AccountsResult wraps the chart of accounts read
type AccountsResult struct {
	Result
	Accounts []AccountWithBalance `json:"accounts"`
}

// ProjectsResult wraps the project list read
type ProjectsResult struct {
	Result
	Projects []*project.Project `json:"projects"`
}

// ProjectSpendResult wraps the per-project spent amounts read
type ProjectSpendResult struct {
	Result
	Spent map[string]float64 `json:"spent"`
}

// BankAccountStatsResult wraps the bank account balances read
type BankAccountStatsResult struct {
	Result
	Stats []BankAccountStat `json:"stats"`
}

// GetAccounts returns every account with its derived balance
func (c *Composer) GetAccounts(ctx context.Context, tc *tenant.Context) AccountsResult {
	accounts, balances, err := c.derivedBalances(ctx, tc)
	if err != nil {
		return AccountsResult{Result: errResult(err)}
	}

	out := make([]AccountWithBalance, 0, len(accounts))
	for _, acct := range accounts {
		out = append(out, AccountWithBalance{
			Account:        acct,
			DerivedBalance: balances[acct.AccountID],
		})
	}
	return AccountsResult{Result: okResult(), Accounts: out}
}

// GetProjects returns every project of the book
func (c *Composer) GetProjects(ctx context.Context, tc *tenant.Context) ProjectsResult {
	projects, err := c.projects.ListAll(ctx, tc)
	if err != nil {
		return ProjectsResult{Result: errResult(err)}
	}
	return ProjectsResult{Result: okResult(), Projects: projects}
}

// GetProjectSpentAmounts returns spent totals keyed by project id
func (c *Composer) GetProjectSpentAmounts(ctx context.Context, tc *tenant.Context) ProjectSpendResult {
	stats, err := c.ProjectStatistics(ctx, tc)
	if err != nil {
		return ProjectSpendResult{Result: errResult(err)}
	}

	spent := make(map[string]float64, len(stats))
	for _, ps := range stats {
		spent[ps.Project.ProjectID] = ps.Spent
	}
	return ProjectSpendResult{Result: okResult(), Spent: spent}
}

// GetBankAccountStats returns every active bank account with its reconciled
// current balance
func (c *Composer) GetBankAccountStats(ctx context.Context, tc *tenant.Context) BankAccountStatsResult {
	txs, err := c.transactions.ListAll(ctx, tc)
	if err != nil {
		return BankAccountStatsResult{Result: errResult(err)}
	}
	accounts, err := c.bankAccounts.ListAll(ctx, tc)
	if err != nil {
		return BankAccountStatsResult{Result: errResult(err)}
	}

	stats := make([]BankAccountStat, 0, len(accounts))
	for _, acct := range accounts {
		if !acct.IsActive {
			continue
		}
		stats = append(stats, BankAccountStat{
			Account:        acct,
			CurrentBalance: ledger.BankAccountBalance(acct, txs),
		})
	}
	return BankAccountStatsResult{Result: okResult(), Stats: stats}
}
