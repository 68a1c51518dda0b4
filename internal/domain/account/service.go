package account

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clubledger/backend/internal/cache"
	"github.com/clubledger/backend/internal/common/utils"
	"github.com/clubledger/backend/internal/domain/errors"
	"github.com/clubledger/backend/internal/domain/tenant"
)

// Service provides chart-of-accounts business logic
type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService creates a new account service
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{
		repo:  repo,
		cache: c,
	}
}

// Create creates a new account. The materialized balance starts at the
// initial balance; from then on it is derived from transactions, never set.
func (s *Service) Create(ctx context.Context, tc *tenant.Context, req *CreateAccountRequest) (*Account, error) {
	if err := utils.ValidateRequiredString(req.Code, "code"); err != nil {
		return nil, err
	}
	if err := utils.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, err
	}
	if !ValidType(req.AccountType) {
		return nil, errors.NewValidationError("unknown account type")
	}

	now := time.Now().UTC()
	acct := &Account{
		BookID:         tc.BookID,
		AccountID:      uuid.New().String(),
		Code:           req.Code,
		Name:           req.Name,
		AccountType:    req.AccountType,
		Balance:        req.InitialBalance,
		InitialBalance: req.InitialBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.repo.Create(ctx, tc.BookID, acct)
	if err != nil {
		return nil, err
	}

	cache.InvalidateAccountWrite(s.cache, tc.BookID)
	return created, nil
}

// Get retrieves an account by ID
func (s *Service) Get(ctx context.Context, tc *tenant.Context, accountID string) (*Account, error) {
	return s.repo.Get(ctx, tc.BookID, accountID)
}

// ListAll returns the book's chart of accounts, cached. Balances on the
// returned accounts are the stored materialized values; the reports layer
// overlays freshly derived balances for statement views.
func (s *Service) ListAll(ctx context.Context, tc *tenant.Context) ([]*Account, error) {
	key := cache.AccountsKey(tc.BookID)
	if cached, ok := s.cache.Get(key); ok {
		if accounts, ok := cached.([]*Account); ok {
			return accounts, nil
		}
	}

	accounts, err := s.repo.List(ctx, tc.BookID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, accounts)
	return accounts, nil
}

// Update renames or recodes an account. Balance edits are structurally
// impossible here: the balance is derived from transactions.
func (s *Service) Update(ctx context.Context, tc *tenant.Context, accountID string, req *UpdateAccountRequest) (*Account, error) {
	if _, err := s.repo.Get(ctx, tc.BookID, accountID); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, tc.BookID, accountID, req)
	if err != nil {
		return nil, err
	}

	cache.InvalidateAccountWrite(s.cache, tc.BookID)
	return updated, nil
}

// Delete removes an account
func (s *Service) Delete(ctx context.Context, tc *tenant.Context, accountID string) error {
	if _, err := s.repo.Get(ctx, tc.BookID, accountID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, tc.BookID, accountID); err != nil {
		return err
	}

	cache.InvalidateAccountWrite(s.cache, tc.BookID)
	return nil
}
