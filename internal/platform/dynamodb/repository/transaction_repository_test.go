package repository

import (
	"context"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubledger/backend/internal/domain/transaction"
)

func newTransactionRepo() (*DynamoDBTransactionRepository, *TestClient) {
	client := NewTestClient()
	return NewDynamoDBTransactionRepository(client, "test-table", slog.Default()), client
}

func TestCreateTransaction(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		repo, _ := newTransactionRepo()

		tx, err := repo.Create(context.Background(), &transaction.CreateTransactionRequest{
			BookID:      "book123",
			Date:        "2025-07-15",
			Description: "Sommerfest Getränke",
			Expense:     125.50,
			Status:      transaction.StatusCompleted,
			Category:    "event",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, tx.TransactionID)
		assert.Equal(t, "book123", tx.BookID)
		assert.Equal(t, "2025-07-15", tx.Date)
		assert.Equal(t, 125.50, tx.Expense)
		assert.False(t, tx.CreatedAt.IsZero())
	})

	t.Run("duplicate transaction ID", func(t *testing.T) {
		repo, _ := newTransactionRepo()

		req := &transaction.CreateTransactionRequest{
			TransactionID: "txn-dup",
			BookID:        "book123",
			Date:          "2025-07-15",
			Status:        transaction.StatusDraft,
		}

		_, err := repo.Create(context.Background(), req)
		require.NoError(t, err)

		_, err = repo.Create(context.Background(), req)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "CONFLICT")
	})
}

func TestGetTransaction(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		repo, _ := newTransactionRepo()

		created, err := repo.Create(context.Background(), &transaction.CreateTransactionRequest{
			BookID:      "book123",
			Date:        "2025-03-01",
			Description: "Mitgliedsbeitrag",
			Income:      50,
			Status:      transaction.StatusCompleted,
		})
		require.NoError(t, err)

		got, err := repo.Get(context.Background(), "book123", created.TransactionID)
		require.NoError(t, err)
		assert.Equal(t, created.TransactionID, got.TransactionID)
		assert.Equal(t, 50.0, got.Income)
		assert.Equal(t, transaction.StatusCompleted, got.Status)
	})

	t.Run("not found", func(t *testing.T) {
		repo, _ := newTransactionRepo()

		_, err := repo.Get(context.Background(), "book123", "missing")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "NOT_FOUND")
	})

	t.Run("legacy record is normalized on read", func(t *testing.T) {
		repo, client := newTransactionRepo()

		// A document written by an older client: string amount, no date
		client.items["BOOK#book123|TXN#legacy1"] = map[string]types.AttributeValue{
			"PK":            &types.AttributeValueMemberS{Value: "BOOK#book123"},
			"SK":            &types.AttributeValueMemberS{Value: "TXN#legacy1"},
			"transactionId": &types.AttributeValueMemberS{Value: "legacy1"},
			"bookId":        &types.AttributeValueMemberS{Value: "book123"},
			"expense":       &types.AttributeValueMemberS{Value: "12,50"},
			"status":        &types.AttributeValueMemberS{Value: "completed"},
		}

		got, err := repo.Get(context.Background(), "book123", "legacy1")
		require.NoError(t, err)
		assert.Equal(t, 12.50, got.Expense)
		assert.Equal(t, transaction.EpochDate, got.Date)
		assert.Equal(t, transaction.StatusCompleted, got.Status)
	})
}

func TestListTransactions(t *testing.T) {
	seed := func(t *testing.T, repo *DynamoDBTransactionRepository) {
		t.Helper()
		for _, req := range []*transaction.CreateTransactionRequest{
			{TransactionID: "t1", BookID: "book123", Date: "2025-01-10", Description: "Bar stock", Expense: 40, Status: transaction.StatusCompleted, Category: "bar"},
			{TransactionID: "t2", BookID: "book123", Date: "2025-02-20", Description: "Member dues", Income: 100, Status: transaction.StatusCompleted},
			{TransactionID: "t3", BookID: "book123", Date: "2025-03-05", Description: "Bar glasses", Expense: 10, Status: transaction.StatusDraft, Category: "bar"},
		} {
			_, err := repo.Create(context.Background(), req)
			require.NoError(t, err)
		}
	}

	t.Run("all transactions of a book", func(t *testing.T) {
		repo, _ := newTransactionRepo()
		seed(t, repo)

		txs, err := repo.List(context.Background(), "book123", nil)
		require.NoError(t, err)
		assert.Len(t, txs, 3)
	})

	t.Run("status filter", func(t *testing.T) {
		repo, _ := newTransactionRepo()
		seed(t, repo)

		txs, err := repo.List(context.Background(), "book123", &transaction.Filter{Status: transaction.StatusDraft})
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "t3", txs[0].TransactionID)
	})

	t.Run("date range filter", func(t *testing.T) {
		repo, _ := newTransactionRepo()
		seed(t, repo)

		txs, err := repo.List(context.Background(), "book123", &transaction.Filter{
			StartDate: "2025-02-01",
			EndDate:   "2025-02-28",
		})
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "t2", txs[0].TransactionID)
	})

	t.Run("search matches description case-insensitively", func(t *testing.T) {
		repo, _ := newTransactionRepo()
		seed(t, repo)

		txs, err := repo.List(context.Background(), "book123", &transaction.Filter{Search: "BAR"})
		require.NoError(t, err)
		assert.Len(t, txs, 2)
	})

	t.Run("other books are invisible", func(t *testing.T) {
		repo, _ := newTransactionRepo()
		seed(t, repo)

		txs, err := repo.List(context.Background(), "otherbook", nil)
		require.NoError(t, err)
		assert.Empty(t, txs)
	})
}

func TestPageTransactions(t *testing.T) {
	seed := func(t *testing.T, repo *DynamoDBTransactionRepository, n int) {
		t.Helper()
		dates := []string{"2025-01-05", "2025-02-05", "2025-03-05", "2025-04-05", "2025-05-05"}
		for i := 0; i < n; i++ {
			_, err := repo.Create(context.Background(), &transaction.CreateTransactionRequest{
				TransactionID: "t" + string(rune('1'+i)),
				BookID:        "book123",
				Date:          dates[i],
				Income:        float64((i + 1) * 10),
				Status:        transaction.StatusCompleted,
			})
			require.NoError(t, err)
		}
	}

	t.Run("pages chain through the whole result set", func(t *testing.T) {
		repo, _ := newTransactionRepo()
		seed(t, repo, 5)

		var all []transaction.Transaction
		startKey := ""
		for {
			page, err := repo.Page(context.Background(), "book123", nil, transaction.DefaultSort(), 2, startKey)
			require.NoError(t, err)
			all = append(all, page.Items...)
			if !page.HasMore {
				break
			}
			require.NotEmpty(t, page.LastKey)
			startKey = page.LastKey
		}

		require.Len(t, all, 5)
		for i := 1; i < len(all); i++ {
			assert.LessOrEqual(t, all[i-1].Date, all[i].Date)
		}
	})

	t.Run("descending sort reverses the pages", func(t *testing.T) {
		repo, _ := newTransactionRepo()
		seed(t, repo, 3)

		page, err := repo.Page(context.Background(), "book123", nil, transaction.Sort{Field: "date", Ascending: false}, 10, "")
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, "2025-03-05", page.Items[0].Date)
		assert.Equal(t, "2025-01-05", page.Items[2].Date)
		assert.False(t, page.HasMore)
	})

	t.Run("date bounds ride in the key condition", func(t *testing.T) {
		repo, _ := newTransactionRepo()
		seed(t, repo, 5)

		page, err := repo.Page(context.Background(), "book123", &transaction.Filter{
			StartDate: "2025-02-01",
			EndDate:   "2025-04-30",
		}, transaction.DefaultSort(), 10, "")
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, "2025-02-05", page.Items[0].Date)
		assert.Equal(t, "2025-04-05", page.Items[2].Date)
	})

	t.Run("malformed pagination token", func(t *testing.T) {
		repo, _ := newTransactionRepo()
		seed(t, repo, 2)

		_, err := repo.Page(context.Background(), "book123", nil, transaction.DefaultSort(), 2, "not!a!token")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "INVALID_INPUT")
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		repo, _ := newTransactionRepo()

		created, err := repo.Create(context.Background(), &transaction.CreateTransactionRequest{
			BookID:      "book123",
			Date:        "2025-06-01",
			Description: "Deposit",
			Income:      200,
			Status:      transaction.StatusPending,
		})
		require.NoError(t, err)

		status := transaction.StatusCompleted
		updated, err := repo.Update(context.Background(), "book123", created.TransactionID, &transaction.UpdateTransactionRequest{
			Status: &status,
		})
		require.NoError(t, err)
		assert.Equal(t, transaction.StatusCompleted, updated.Status)
		assert.Equal(t, "Deposit", updated.Description)
		assert.Equal(t, 200.0, updated.Income)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)

		got, err := repo.Get(context.Background(), "book123", created.TransactionID)
		require.NoError(t, err)
		assert.Equal(t, transaction.StatusCompleted, got.Status)
	})

	t.Run("updating a missing transaction", func(t *testing.T) {
		repo, _ := newTransactionRepo()

		desc := "nope"
		_, err := repo.Update(context.Background(), "book123", "missing", &transaction.UpdateTransactionRequest{Description: &desc})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("deleted transactions stop resolving", func(t *testing.T) {
		repo, _ := newTransactionRepo()

		created, err := repo.Create(context.Background(), &transaction.CreateTransactionRequest{
			BookID: "book123",
			Date:   "2025-06-01",
			Status: transaction.StatusDraft,
		})
		require.NoError(t, err)

		require.NoError(t, repo.Delete(context.Background(), "book123", created.TransactionID))

		_, err = repo.Get(context.Background(), "book123", created.TransactionID)
		assert.Error(t, err)
	})

	t.Run("deleting a missing transaction", func(t *testing.T) {
		repo, _ := newTransactionRepo()

		err := repo.Delete(context.Background(), "book123", "missing")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "NOT_FOUND")
	})
}
