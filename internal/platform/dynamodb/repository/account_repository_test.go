package repository

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubledger/backend/internal/domain/account"
	"github.com/clubledger/backend/internal/domain/bankaccount"
	"github.com/clubledger/backend/internal/domain/project"
)

func TestAccountRepository(t *testing.T) {
	client := NewTestClient()
	repo := NewDynamoDBAccountRepository(client, "test-table", slog.Default())
	now := time.Now().UTC()

	t.Run("create and list", func(t *testing.T) {
		for _, acct := range []*account.Account{
			{BookID: "book123", AccountID: "a1", Code: "1000", Name: "Kasse", AccountType: account.Asset, Balance: 500, InitialBalance: 500, CreatedAt: now, UpdatedAt: now},
			{BookID: "book123", AccountID: "a2", Code: "4000", Name: "Beiträge", AccountType: account.Revenue, CreatedAt: now, UpdatedAt: now},
		} {
			_, err := repo.Create(context.Background(), "book123", acct)
			require.NoError(t, err)
		}

		accounts, err := repo.List(context.Background(), "book123")
		require.NoError(t, err)
		assert.Len(t, accounts, 2)
	})

	t.Run("update recodes without touching the balance", func(t *testing.T) {
		updated, err := repo.Update(context.Background(), "book123", "a1", &account.UpdateAccountRequest{Name: "Barkasse"})
		require.NoError(t, err)
		assert.Equal(t, "Barkasse", updated.Name)
		assert.Equal(t, "1000", updated.Code)
		assert.Equal(t, 500.0, updated.Balance)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(context.Background(), "book123", "a2"))

		_, err := repo.Get(context.Background(), "book123", "a2")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "NOT_FOUND")
	})
}

func TestProjectRepository(t *testing.T) {
	client := NewTestClient()
	repo := NewDynamoDBProjectRepository(client, "test-table", slog.Default())
	now := time.Now().UTC()

	_, err := repo.Create(context.Background(), "book123", &project.Project{
		BookID: "book123", ProjectID: "p1", ProjectCode: "2025_P_Sommerfest",
		Name: "Sommerfest 2025", Budget: 1500, Status: project.StatusActive,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	got, err := repo.Get(context.Background(), "book123", "p1")
	require.NoError(t, err)
	assert.Equal(t, "2025_P_Sommerfest", got.ProjectCode)
	assert.Equal(t, "Sommerfest", got.CodeFragment())

	budget := 2000.0
	updated, err := repo.Update(context.Background(), "book123", "p1", &project.UpdateProjectRequest{Budget: &budget})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, updated.Budget)
	assert.Equal(t, project.StatusActive, updated.Status)
}

func TestBankAccountRepository(t *testing.T) {
	client := NewTestClient()
	repo := NewDynamoDBBankAccountRepository(client, "test-table", slog.Default())
	now := time.Now().UTC()

	_, err := repo.Create(context.Background(), "book123", &bankaccount.BankAccount{
		BookID: "book123", BankAccountID: "b1", Name: "Girokonto",
		InitialBalance: 500, Currency: "EUR", IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	inactive := false
	updated, err := repo.Update(context.Background(), "book123", "b1", &bankaccount.UpdateBankAccountRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 500.0, updated.InitialBalance)

	accounts, err := repo.List(context.Background(), "book123")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Girokonto", accounts[0].Name)
}
