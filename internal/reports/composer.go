// Package reports assembles read-only financial statements from aggregation
// folds. Composers never write to the store; within a session they issue one
// cached all-accounts / all-transactions read each and run pure folds over it
// in memory instead of querying per statement line.
package reports

import (
	"context"
	"log/slog"

	"github.com/clubledger/backend/internal/cache"
	"github.com/clubledger/backend/internal/domain/account"
	"github.com/clubledger/backend/internal/domain/bankaccount"
	"github.com/clubledger/backend/internal/domain/project"
	"github.com/clubledger/backend/internal/domain/tenant"
	"github.com/clubledger/backend/internal/domain/transaction"
	"github.com/clubledger/backend/internal/ledger"
)

// Composer orchestrates the aggregation engine and the cache layer to produce
// the read models consumed by the UI.
type Composer struct {
	transactions *transaction.Service
	accounts     *account.Service
	projects     *project.Service
	bankAccounts *bankaccount.Service
	cache        *cache.Cache
	logger       *slog.Logger
}

// NewComposer creates a report composer over the domain services
func NewComposer(
	transactions *transaction.Service,
	accounts *account.Service,
	projects *project.Service,
	bankAccounts *bankaccount.Service,
	c *cache.Cache,
	logger *slog.Logger,
) *Composer {
	return &Composer{
		transactions: transactions,
		accounts:     accounts,
		projects:     projects,
		bankAccounts: bankAccounts,
		cache:        c,
		logger:       logger,
	}
}

// TrialBalanceLine is one account row of the trial balance
type TrialBalanceLine struct {
	AccountID   string       `json:"accountId"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	AccountType account.Type `json:"accountType"`
	Debit       float64      `json:"debit"`
	Credit      float64      `json:"credit"`
}

// TrialBalance is the full debit/credit listing of the chart
type TrialBalance struct {
	Lines       []TrialBalanceLine `json:"lines"`
	TotalDebit  float64            `json:"totalDebit"`
	TotalCredit float64            `json:"totalCredit"`
}

// BalanceSheet partitions the chart into the accounting equation
type BalanceSheet struct {
	Assets           []TrialBalanceLine `json:"assets"`
	Liabilities      []TrialBalanceLine `json:"liabilities"`
	Equity           []TrialBalanceLine `json:"equity"`
	TotalAssets      float64            `json:"totalAssets"`
	TotalLiabilities float64            `json:"totalLiabilities"`
	TotalEquity      float64            `json:"totalEquity"`
	IsBalanced       bool               `json:"isBalanced"`
}

// ProfitAndLoss partitions revenue against expenses
type ProfitAndLoss struct {
	Revenue       []TrialBalanceLine `json:"revenue"`
	Expenses      []TrialBalanceLine `json:"expenses"`
	TotalRevenue  float64            `json:"totalRevenue"`
	TotalExpenses float64            `json:"totalExpenses"`
	NetResult     float64            `json:"netResult"`
}

// ProjectStat combines a project with its derived aggregate and budget position
type ProjectStat struct {
	Project         *project.Project    `json:"project"`
	Stats           ledger.ProjectStats `json:"stats"`
	Spent           float64             `json:"spent"`
	BudgetRemaining float64             `json:"budgetRemaining"`
}

// BankAccountStat pairs a bank account with its reconciled current balance
type BankAccountStat struct {
	Account        *bankaccount.BankAccount `json:"account"`
	CurrentBalance float64                  `json:"currentBalance"`
}

// Dashboard is the landing-page summary read model
type Dashboard struct {
	Totals       ledger.Totals      `json:"totals"`
	BankAccounts []BankAccountStat  `json:"bankAccounts"`
	ProjectSpend map[string]float64 `json:"projectSpend"`
}

const (
	reportTrialBalance  = "trialbalance"
	reportBalanceSheet  = "balancesheet"
	reportProfitAndLoss = "profitandloss"
	reportProjectStats  = "projectstats"
	reportDashboard     = "dashboard"
)

// TrialBalance composes the trial balance from derived account balances
func (c *Composer) TrialBalance(ctx context.Context, tc *tenant.Context) (*TrialBalance, error) {
	key := cache.ReportKey(tc.BookID, reportTrialBalance)
	if cached, ok := c.cache.Get(key); ok {
		if report, ok := cached.(*TrialBalance); ok {
			return report, nil
		}
	}

	accounts, balances, err := c.derivedBalances(ctx, tc)
	if err != nil {
		return nil, err
	}

	report := &TrialBalance{Lines: make([]TrialBalanceLine, 0, len(accounts))}
	for _, acct := range accounts {
		line := toLine(acct, balances[acct.AccountID])
		report.Lines = append(report.Lines, line)
		report.TotalDebit += line.Debit
		report.TotalCredit += line.Credit
	}

	c.cache.Set(key, report)
	return report, nil
}

// BalanceSheet composes the balance sheet, including the tolerance-checked
// equality of assets against liabilities plus equity
func (c *Composer) BalanceSheet(ctx context.Context, tc *tenant.Context) (*BalanceSheet, error) {
	key := cache.ReportKey(tc.BookID, reportBalanceSheet)
	if cached, ok := c.cache.Get(key); ok {
		if report, ok := cached.(*BalanceSheet); ok {
			return report, nil
		}
	}

	accounts, balances, err := c.derivedBalances(ctx, tc)
	if err != nil {
		return nil, err
	}

	report := &BalanceSheet{}
	for _, acct := range accounts {
		line := toLine(acct, balances[acct.AccountID])
		switch acct.AccountType {
		case account.Asset:
			report.Assets = append(report.Assets, line)
		case account.Liability:
			report.Liabilities = append(report.Liabilities, line)
		case account.Equity:
			report.Equity = append(report.Equity, line)
		}
	}

	totals := ledger.PartitionTotals(accounts, balances)
	report.TotalAssets = totals.Assets
	report.TotalLiabilities = totals.Liabilities
	report.TotalEquity = totals.Equity
	report.IsBalanced = ledger.IsBalanced(totals)

	c.cache.Set(key, report)
	return report, nil
}

// ProfitAndLoss composes the revenue/expense statement
func (c *Composer) ProfitAndLoss(ctx context.Context, tc *tenant.Context) (*ProfitAndLoss, error) {
	key := cache.ReportKey(tc.BookID, reportProfitAndLoss)
	if cached, ok := c.cache.Get(key); ok {
		if report, ok := cached.(*ProfitAndLoss); ok {
			return report, nil
		}
	}

	accounts, balances, err := c.derivedBalances(ctx, tc)
	if err != nil {
		return nil, err
	}

	report := &ProfitAndLoss{}
	for _, acct := range accounts {
		line := toLine(acct, balances[acct.AccountID])
		switch acct.AccountType {
		case account.Revenue:
			report.Revenue = append(report.Revenue, line)
		case account.Expense:
			report.Expenses = append(report.Expenses, line)
		}
	}

	totals := ledger.PartitionTotals(accounts, balances)
	report.TotalRevenue = totals.Revenue
	report.TotalExpenses = totals.Expenses
	report.NetResult = totals.NetResult()

	c.cache.Set(key, report)
	return report, nil
}

// ProjectStatistics composes the per-project aggregates for every project of
// the book, one transaction read for all of them
func (c *Composer) ProjectStatistics(ctx context.Context, tc *tenant.Context) ([]ProjectStat, error) {
	key := cache.ReportKey(tc.BookID, reportProjectStats)
	if cached, ok := c.cache.Get(key); ok {
		if stats, ok := cached.([]ProjectStat); ok {
			return stats, nil
		}
	}

	projects, err := c.projects.ListAll(ctx, tc)
	if err != nil {
		return nil, err
	}
	txs, err := c.transactions.ListAll(ctx, tc)
	if err != nil {
		return nil, err
	}

	stats := make([]ProjectStat, 0, len(projects))
	for _, proj := range projects {
		ps := ledger.ComputeProjectStats(proj, txs)
		stats = append(stats, ProjectStat{
			Project:         proj,
			Stats:           ps,
			Spent:           ps.TotalExpense,
			BudgetRemaining: proj.Budget - ps.TotalExpense,
		})
	}

	c.cache.Set(key, stats)
	return stats, nil
}

// Dashboard composes the landing-page summary
func (c *Composer) Dashboard(ctx context.Context, tc *tenant.Context) (*Dashboard, error) {
	key := cache.ReportKey(tc.BookID, reportDashboard)
	if cached, ok := c.cache.Get(key); ok {
		if dash, ok := cached.(*Dashboard); ok {
			return dash, nil
		}
	}

	txs, err := c.transactions.ListAll(ctx, tc)
	if err != nil {
		return nil, err
	}
	bankAccounts, err := c.bankAccounts.ListAll(ctx, tc)
	if err != nil {
		return nil, err
	}
	projectStats, err := c.ProjectStatistics(ctx, tc)
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{
		Totals:       ledger.Sum(txs),
		BankAccounts: make([]BankAccountStat, 0, len(bankAccounts)),
		ProjectSpend: make(map[string]float64, len(projectStats)),
	}
	for _, acct := range bankAccounts {
		if !acct.IsActive {
			continue
		}
		dash.BankAccounts = append(dash.BankAccounts, BankAccountStat{
			Account:        acct,
			CurrentBalance: ledger.BankAccountBalance(acct, txs),
		})
	}
	for _, ps := range projectStats {
		dash.ProjectSpend[ps.Project.ProjectID] = ps.Spent
	}

	c.cache.Set(key, dash)
	return dash, nil
}

// derivedBalances is the shared statement input: the cached chart plus the
// cached transaction list, folded into per-account balances
func (c *Composer) derivedBalances(ctx context.Context, tc *tenant.Context) ([]*account.Account, map[string]float64, error) {
	accounts, err := c.accounts.ListAll(ctx, tc)
	if err != nil {
		return nil, nil, err
	}
	txs, err := c.transactions.ListAll(ctx, tc)
	if err != nil {
		return nil, nil, err
	}
	return accounts, ledger.AccountBalances(accounts, txs), nil
}

// toLine maps a derived balance onto debit/credit columns by account type:
// assets and expenses carry natural debit balances, the rest natural credit.
func toLine(acct *account.Account, balance float64) TrialBalanceLine {
	line := TrialBalanceLine{
		AccountID:   acct.AccountID,
		Code:        acct.Code,
		Name:        acct.Name,
		AccountType: acct.AccountType,
	}
	debitNatural := acct.AccountType == account.Asset || acct.AccountType == account.Expense
	if debitNatural {
		if balance >= 0 {
			line.Debit = balance
		} else {
			line.Credit = -balance
		}
	} else {
		if balance >= 0 {
			line.Credit = balance
		} else {
			line.Debit = -balance
		}
	}
	return line
}
