package transaction

import (
	"context"
)

// PageResult is one slice of a filtered transaction query. LastKey is the
// opaque store position of the final item; it is only meaningful when passed
// back to Page together with the same filter and sort.
type PageResult struct {
	Items   []Transaction
	LastKey string
	HasMore bool
}

// Repository defines the interface for transaction data operations
type Repository interface {
	// Create a new transaction
	Create(ctx context.Context, req *CreateTransactionRequest) (*Transaction, error)

	// Get a transaction by ID
	Get(ctx context.Context, bookID string, transactionID string) (*Transaction, error)

	// List all transactions of a book matching the filter
	List(ctx context.Context, bookID string, filter *Filter) ([]Transaction, error)

	// Update an existing transaction
	Update(ctx context.Context, bookID string, transactionID string, req *UpdateTransactionRequest) (*Transaction, error)

	// Delete a transaction
	Delete(ctx context.Context, bookID string, transactionID string) error

	// Page returns one slice of a filtered, sorted query. An empty startKey
	// means the first page.
	Page(ctx context.Context, bookID string, filter *Filter, sort Sort, limit int, startKey string) (*PageResult, error)
}
