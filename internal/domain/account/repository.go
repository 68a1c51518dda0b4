package account

import (
	"context"
)

// Repository defines the interface for account data operations
type Repository interface {
	// Create a new account
	Create(ctx context.Context, bookID string, acct *Account) (*Account, error)

	// Get an account by ID
	Get(ctx context.Context, bookID string, accountID string) (*Account, error)

	// List all accounts of a book
	List(ctx context.Context, bookID string) ([]*Account, error)

	// Update an existing account
	Update(ctx context.Context, bookID string, accountID string, req *UpdateAccountRequest) (*Account, error)

	// Delete an account
	Delete(ctx context.Context, bookID string, accountID string) error
}
