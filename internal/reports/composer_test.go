package reports

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubledger/backend/internal/cache"
	"github.com/clubledger/backend/internal/domain/account"
	"github.com/clubledger/backend/internal/domain/bankaccount"
	"github.com/clubledger/backend/internal/domain/errors"
	"github.com/clubledger/backend/internal/domain/project"
	"github.com/clubledger/backend/internal/domain/tenant"
	"github.com/clubledger/backend/internal/domain/transaction"
)

// List-only fakes. Composers are read-only, so the write methods just panic
// to catch accidental use.

type fakeTxRepo struct {
	txs       []transaction.Transaction
	listCalls int
	fail      bool
}

func (r *fakeTxRepo) List(ctx context.Context, bookID string, filter *transaction.Filter) ([]transaction.Transaction, error) {
	r.listCalls++
	if r.fail {
		return nil, errors.NewStoreUnavailableError("store is down", nil)
	}
	return r.txs, nil
}
func (r *fakeTxRepo) Create(ctx context.Context, req *transaction.CreateTransactionRequest) (*transaction.Transaction, error) {
	panic("not used")
}
func (r *fakeTxRepo) Get(ctx context.Context, bookID, id string) (*transaction.Transaction, error) {
	panic("not used")
}
func (r *fakeTxRepo) Update(ctx context.Context, bookID, id string, req *transaction.UpdateTransactionRequest) (*transaction.Transaction, error) {
	panic("not used")
}
func (r *fakeTxRepo) Delete(ctx context.Context, bookID, id string) error { panic("not used") }
func (r *fakeTxRepo) Page(ctx context.Context, bookID string, filter *transaction.Filter, sort transaction.Sort, limit int, startKey string) (*transaction.PageResult, error) {
	panic("not used")
}

type fakeAccountRepo struct{ accounts []*account.Account }

func (r *fakeAccountRepo) List(ctx context.Context, bookID string) ([]*account.Account, error) {
	return r.accounts, nil
}
func (r *fakeAccountRepo) Create(ctx context.Context, bookID string, acct *account.Account) (*account.Account, error) {
	panic("not used")
}
func (r *fakeAccountRepo) Get(ctx context.Context, bookID, id string) (*account.Account, error) {
	panic("not used")
}
func (r *fakeAccountRepo) Update(ctx context.Context, bookID, id string, req *account.UpdateAccountRequest) (*account.Account, error) {
	panic("not used")
}
func (r *fakeAccountRepo) Delete(ctx context.Context, bookID, id string) error { panic("not used") }

type fakeProjectRepo struct{ projects []*project.Project }

func (r *fakeProjectRepo) List(ctx context.Context, bookID string) ([]*project.Project, error) {
	return r.projects, nil
}
func (r *fakeProjectRepo) Create(ctx context.Context, bookID string, proj *project.Project) (*project.Project, error) {
	panic("not used")
}
func (r *fakeProjectRepo) Get(ctx context.Context, bookID, id string) (*project.Project, error) {
	panic("not used")
}
func (r *fakeProjectRepo) Update(ctx context.Context, bookID, id string, req *project.UpdateProjectRequest) (*project.Project, error) {
	panic("not used")
}
func (r *fakeProjectRepo) Delete(ctx context.Context, bookID, id string) error { panic("not used") }

type fakeBankRepo struct{ accounts []*bankaccount.BankAccount }

func (r *fakeBankRepo) List(ctx context.Context, bookID string) ([]*bankaccount.BankAccount, error) {
	return r.accounts, nil
}
func (r *fakeBankRepo) Create(ctx context.Context, bookID string, acct *bankaccount.BankAccount) (*bankaccount.BankAccount, error) {
	panic("not used")
}
func (r *fakeBankRepo) Get(ctx context.Context, bookID, id string) (*bankaccount.BankAccount, error) {
	panic("not used")
}
func (r *fakeBankRepo) Update(ctx context.Context, bookID, id string, req *bankaccount.UpdateBankAccountRequest) (*bankaccount.BankAccount, error) {
	panic("not used")
}
func (r *fakeBankRepo) Delete(ctx context.Context, bookID, id string) error { panic("not used") }

// fixture is a small club book: five ledger accounts, one project, two bank
// accounts, three transactions.
type fixture struct {
	composer *Composer
	cache    *cache.Cache
	txRepo   *fakeTxRepo
	tc       *tenant.Context
}

func newFixture() *fixture {
	txRepo := &fakeTxRepo{txs: []transaction.Transaction{
		{TransactionID: "t1", Date: "2025-05-01", Income: 100, AccountID: "cash", BankAccountID: "bank1"},
		{TransactionID: "t2", Date: "2025-05-02", Income: 200, AccountID: "fees", ProjectName: "Sommerfest Einnahmen"},
		{TransactionID: "t3", Date: "2025-05-03", Expense: 150, ProjectID: "p1"},
	}}
	accountRepo := &fakeAccountRepo{accounts: []*account.Account{
		{AccountID: "cash", Code: "1000", Name: "Kasse", AccountType: account.Asset, InitialBalance: 1000},
		{AccountID: "loan", Code: "2000", Name: "Darlehen", AccountType: account.Liability, InitialBalance: 600},
		{AccountID: "capital", Code: "3000", Name: "Vereinskapital", AccountType: account.Equity, InitialBalance: 500},
		{AccountID: "fees", Code: "4000", Name: "Beitraege", AccountType: account.Revenue},
		{AccountID: "supplies", Code: "5000", Name: "Material", AccountType: account.Expense},
	}}
	projectRepo := &fakeProjectRepo{projects: []*project.Project{
		{ProjectID: "p1", ProjectCode: "2025_01_Sommerfest", Name: "Sommerfest", Budget: 500},
	}}
	bankRepo := &fakeBankRepo{accounts: []*bankaccount.BankAccount{
		{BankAccountID: "bank1", Name: "Girokonto", InitialBalance: 500, IsActive: true},
		{BankAccountID: "bank2", Name: "Altes Konto", InitialBalance: 999, IsActive: false},
	}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := cache.New(time.Minute)
	composer := NewComposer(
		transaction.NewService(txRepo, c, logger),
		account.NewService(accountRepo, c),
		project.NewService(projectRepo, c),
		bankaccount.NewService(bankRepo, c),
		c,
		logger,
	)
	return &fixture{
		composer: composer,
		cache:    c,
		txRepo:   txRepo,
		tc:       &tenant.Context{TenantID: "tenant1", UserID: "user1", BookID: "book1"},
	}
}

func TestTrialBalance(t *testing.T) {
	f := newFixture()

	report, err := f.composer.TrialBalance(context.Background(), f.tc)
	require.NoError(t, err)
	require.Len(t, report.Lines, 5)

	byID := map[string]TrialBalanceLine{}
	for _, line := range report.Lines {
		byID[line.AccountID] = line
	}

	// Debit-natural accounts land in the debit column, the rest in credit
	assert.Equal(t, 1100.0, byID["cash"].Debit)
	assert.Zero(t, byID["cash"].Credit)
	assert.Equal(t, 600.0, byID["loan"].Credit)
	assert.Equal(t, 500.0, byID["capital"].Credit)
	assert.Equal(t, 200.0, byID["fees"].Credit)
	assert.Zero(t, byID["supplies"].Debit)

	assert.Equal(t, 1100.0, report.TotalDebit)
	assert.Equal(t, 1300.0, report.TotalCredit)
}

func TestBalanceSheet(t *testing.T) {
	f := newFixture()

	report, err := f.composer.BalanceSheet(context.Background(), f.tc)
	require.NoError(t, err)

	assert.Len(t, report.Assets, 1)
	assert.Len(t, report.Liabilities, 1)
	assert.Len(t, report.Equity, 1)
	assert.Equal(t, 1100.0, report.TotalAssets)
	assert.Equal(t, 600.0, report.TotalLiabilities)
	assert.Equal(t, 500.0, report.TotalEquity)
	assert.True(t, report.IsBalanced)
}

func TestProfitAndLoss(t *testing.T) {
	f := newFixture()

	report, err := f.composer.ProfitAndLoss(context.Background(), f.tc)
	require.NoError(t, err)

	assert.Len(t, report.Revenue, 1)
	assert.Len(t, report.Expenses, 1)
	assert.Equal(t, 200.0, report.TotalRevenue)
	assert.Zero(t, report.TotalExpenses)
	assert.Equal(t, 200.0, report.NetResult)
}

func TestProjectStatistics(t *testing.T) {
	f := newFixture()

	stats, err := f.composer.ProjectStatistics(context.Background(), f.tc)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	// t2 matches by code fragment, t3 by project id
	ps := stats[0]
	assert.Equal(t, "p1", ps.Project.ProjectID)
	assert.Equal(t, 200.0, ps.Stats.TotalIncome)
	assert.Equal(t, 150.0, ps.Stats.TotalExpense)
	assert.Equal(t, 2, ps.Stats.TransactionCount)
	assert.Equal(t, 150.0, ps.Spent)
	assert.Equal(t, 350.0, ps.BudgetRemaining)
}

func TestDashboard(t *testing.T) {
	f := newFixture()

	dash, err := f.composer.Dashboard(context.Background(), f.tc)
	require.NoError(t, err)

	assert.Equal(t, 300.0, dash.Totals.TotalIncome)
	assert.Equal(t, 150.0, dash.Totals.TotalExpense)
	assert.Equal(t, 150.0, dash.Totals.Net)
	assert.Equal(t, 3, dash.Totals.Count)

	// Inactive bank accounts are excluded
	require.Len(t, dash.BankAccounts, 1)
	assert.Equal(t, "bank1", dash.BankAccounts[0].Account.BankAccountID)
	assert.Equal(t, 600.0, dash.BankAccounts[0].CurrentBalance)

	assert.Equal(t, map[string]float64{"p1": 150}, dash.ProjectSpend)
}

func TestReportCaching(t *testing.T) {
	f := newFixture()

	first, err := f.composer.TrialBalance(context.Background(), f.tc)
	require.NoError(t, err)
	assert.Equal(t, 1, f.txRepo.listCalls)

	second, err := f.composer.TrialBalance(context.Background(), f.tc)
	require.NoError(t, err)
	assert.Same(t, first, second, "second read should come from the cache")
	assert.Equal(t, 1, f.txRepo.listCalls)

	cache.InvalidateTransactionWrite(f.cache, "book1")
	_, err = f.composer.TrialBalance(context.Background(), f.tc)
	require.NoError(t, err)
	assert.Equal(t, 2, f.txRepo.listCalls)
}

func TestGetAccounts(t *testing.T) {
	f := newFixture()

	result := f.composer.GetAccounts(context.Background(), f.tc)
	require.Equal(t, StatusOK, result.Status)
	require.Len(t, result.Accounts, 5)

	derived := map[string]float64{}
	for _, a := range result.Accounts {
		derived[a.AccountID] = a.DerivedBalance
	}
	assert.Equal(t, 1100.0, derived["cash"])
	assert.Equal(t, 200.0, derived["fees"])
}

func TestGetBankAccountStats(t *testing.T) {
	f := newFixture()

	result := f.composer.GetBankAccountStats(context.Background(), f.tc)
	require.Equal(t, StatusOK, result.Status)
	require.Len(t, result.Stats, 1)
	assert.Equal(t, 600.0, result.Stats[0].CurrentBalance)

	t.Run("store failure yields an errored envelope, not a panic", func(t *testing.T) {
		f := newFixture()
		f.txRepo.fail = true

		result := f.composer.GetBankAccountStats(context.Background(), f.tc)
		assert.Equal(t, StatusError, result.Status)
		assert.NotEmpty(t, result.Error)
		assert.Empty(t, result.Stats)
	})
}

func TestGetProjectSpentAmounts(t *testing.T) {
	f := newFixture()

	result := f.composer.GetProjectSpentAmounts(context.Background(), f.tc)
	require.Equal(t, StatusOK, result.Status)
	assert.Equal(t, map[string]float64{"p1": 150}, result.Spent)
}
