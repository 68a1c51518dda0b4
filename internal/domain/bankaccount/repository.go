package bankaccount

import (
	"context"
)

// Repository defines the interface for bank account data operations
type Repository interface {
	// Create a new bank account
	Create(ctx context.Context, bookID string, acct *BankAccount) (*BankAccount, error)

	// Get a bank account by ID
	Get(ctx context.Context, bookID string, bankAccountID string) (*BankAccount, error)

	// List all bank accounts of a book
	List(ctx context.Context, bookID string) ([]*BankAccount, error)

	// Update an existing bank account
	Update(ctx context.Context, bookID string, bankAccountID string, req *UpdateBankAccountRequest) (*BankAccount, error)

	// Delete a bank account
	Delete(ctx context.Context, bookID string, bankAccountID string) error
}
