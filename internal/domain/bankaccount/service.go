package bankaccount

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clubledger/backend/internal/cache"
	"github.com/clubledger/backend/internal/common/utils"
	"github.com/clubledger/backend/internal/domain/tenant"
)

// Service provides bank account business logic
type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService creates a new bank account service
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{
		repo:  repo,
		cache: c,
	}
}

// Create creates a new bank account
func (s *Service) Create(ctx context.Context, tc *tenant.Context, req *CreateBankAccountRequest) (*BankAccount, error) {
	if err := utils.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, err
	}
	if err := utils.ValidateCurrency(req.Currency); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acct := &BankAccount{
		BookID:         tc.BookID,
		BankAccountID:  uuid.New().String(),
		Name:           req.Name,
		InitialBalance: req.InitialBalance,
		Currency:       req.Currency,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.repo.Create(ctx, tc.BookID, acct)
	if err != nil {
		return nil, err
	}

	cache.InvalidateBankAccountWrite(s.cache, tc.BookID)
	return created, nil
}

// Get retrieves a bank account by ID
func (s *Service) Get(ctx context.Context, tc *tenant.Context, bankAccountID string) (*BankAccount, error) {
	return s.repo.Get(ctx, tc.BookID, bankAccountID)
}

// ListAll returns the book's bank accounts, cached
func (s *Service) ListAll(ctx context.Context, tc *tenant.Context) ([]*BankAccount, error) {
	key := cache.BankAccountsKey(tc.BookID)
	if cached, ok := s.cache.Get(key); ok {
		if accounts, ok := cached.([]*BankAccount); ok {
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

// Update applies a partial update. Changing the initial balance shifts every
// derived balance of the account, so it sweeps the same caches a transaction
// write does.
func (s *Service) Update(ctx context.Context, tc *tenant.Context, bankAccountID string, req *UpdateBankAccountRequest) (*BankAccount, error) {
	if req.Currency != nil {
		if err := utils.ValidateCurrency(*req.Currency); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, tc.BookID, bankAccountID, req)
	if err != nil {
		return nil, err
	}

	cache.InvalidateBankAccountWrite(s.cache, tc.BookID)
	return updated, nil
}

// Delete removes a bank account
func (s *Service) Delete(ctx context.Context, tc *tenant.Context, bankAccountID string) error {
	if err := s.repo.Delete(ctx, tc.BookID, bankAccountID); err != nil {
		return err
	}

	cache.InvalidateBankAccountWrite(s.cache, tc.BookID)
	return nil
}
