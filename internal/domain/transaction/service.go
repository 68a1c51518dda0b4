package transaction

import (
	"context"
	"log/slog"

	"github.com/clubledger/backend/internal/cache"
	"github.com/clubledger/backend/internal/common/utils"
	"github.com/clubledger/backend/internal/domain/errors"
	"github.com/clubledger/backend/internal/domain/tenant"
)

// Service provides transaction business logic. Every successful write
// invalidates the book's cached transaction list and derived aggregates
// before the call returns, so a caller that reads after "write completed"
// never sees pre-write aggregates. Failed writes leave the cache untouched.
type Service struct {
	repo   Repository
	cache  *cache.Cache
	logger *slog.Logger
}

// NewService creates a new transaction service
func NewService(repo Repository, c *cache.Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  c,
		logger: logger,
	}
}

// Create creates a new transaction
func (s *Service) Create(ctx context.Context, tc *tenant.Context, req *CreateTransactionRequest) (*Transaction, error) {
	if err := validateAmounts(req.Expense, req.Income); err != nil {
		return nil, err
	}
	if err := utils.ValidateISODate(req.Date); err != nil {
		return nil, err
	}
	if req.Status == "" {
		req.Status = StatusDraft
	}
	if !ValidStatus(req.Status) {
		return nil, errors.NewValidationError("unknown transaction status")
	}

	req.BookID = tc.BookID
	tx, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	cache.InvalidateTransactionWrite(s.cache, tc.BookID)
	return tx, nil
}

// Get retrieves a transaction by ID
func (s *Service) Get(ctx context.Context, tc *tenant.Context, transactionID string) (*Transaction, error) {
	return s.repo.Get(ctx, tc.BookID, transactionID)
}

// ListAll returns every transaction of the book, cached. This is the single
// read report composers fold over; paginated table views go through the query
// facade instead and are never cached.
func (s *Service) ListAll(ctx context.Context, tc *tenant.Context) ([]Transaction, error) {
	key := cache.TransactionsKey(tc.BookID)
	if cached, ok := s.cache.Get(key); ok {
		if txs, ok := cached.([]Transaction); ok {
			return txs, nil
		}
	}

	txs, err := s.repo.List(ctx, tc.BookID, nil)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, txs)
	return txs, nil
}

// List returns the book's transactions matching the filter, uncached
func (s *Service) List(ctx context.Context, tc *tenant.Context, filter *Filter) ([]Transaction, error) {
	return s.repo.List(ctx, tc.BookID, filter)
}

// Update applies a partial update to a transaction
func (s *Service) Update(ctx context.Context, tc *tenant.Context, transactionID string, req *UpdateTransactionRequest) (*Transaction, error) {
	if req.Expense != nil && *req.Expense < 0 {
		return nil, errors.NewValidationError("expense must not be negative")
	}
	if req.Income != nil && *req.Income < 0 {
		return nil, errors.NewValidationError("income must not be negative")
	}
	if req.Date != nil {
		if err := utils.ValidateISODate(*req.Date); err != nil {
			return nil, err
		}
	}
	if req.Status != nil && !ValidStatus(*req.Status) {
		return nil, errors.NewValidationError("unknown transaction status")
	}

	tx, err := s.repo.Update(ctx, tc.BookID, transactionID, req)
	if err != nil {
		return nil, err
	}

	cache.InvalidateTransactionWrite(s.cache, tc.BookID)
	return tx, nil
}

// Delete removes a transaction
func (s *Service) Delete(ctx context.Context, tc *tenant.Context, transactionID string) error {
	if err := s.repo.Delete(ctx, tc.BookID, transactionID); err != nil {
		return err
	}

	cache.InvalidateTransactionWrite(s.cache, tc.BookID)
	return nil
}

func validateAmounts(expense, income float64) error {
	if expense < 0 {
		return errors.NewValidationError("expense must not be negative")
	}
	if income < 0 {
		return errors.NewValidationError("income must not be negative")
	}
	return nil
}
