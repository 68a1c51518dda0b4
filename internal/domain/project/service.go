package project

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clubledger/backend/internal/cache"
	"github.com/clubledger/backend/internal/common/utils"
	"github.com/clubledger/backend/internal/domain/errors"
	"github.com/clubledger/backend/internal/domain/tenant"
)

// Service provides project business logic
type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService creates a new project service
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{
		repo:  repo,
		cache: c,
	}
}

// Create creates a new project
func (s *Service) Create(ctx context.Context, tc *tenant.Context, req *CreateProjectRequest) (*Project, error) {
	if err := utils.ValidateProjectCode(req.ProjectCode); err != nil {
		return nil, err
	}
	if err := utils.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, err
	}
	if req.Budget < 0 {
		return nil, errors.NewValidationError("budget must not be negative")
	}
	if req.Status == "" {
		req.Status = StatusActive
	}

	now := time.Now().UTC()
	proj := &Project{
		BookID:      tc.BookID,
		ProjectID:   uuid.New().String(),
		ProjectCode: req.ProjectCode,
		Name:        req.Name,
		Budget:      req.Budget,
		Status:      req.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, tc.BookID, proj)
	if err != nil {
		return nil, err
	}

	cache.InvalidateProjectWrite(s.cache, tc.BookID)
	return created, nil
}

// Get retrieves a project by ID
func (s *Service) Get(ctx context.Context, tc *tenant.Context, projectID string) (*Project, error) {
	return s.repo.Get(ctx, tc.BookID, projectID)
}

// ListAll returns the book's projects, cached
func (s *Service) ListAll(ctx context.Context, tc *tenant.Context) ([]*Project, error) {
	key := cache.ProjectsKey(tc.BookID)
	if cached, ok := s.cache.Get(key); ok {
		if projects, ok := cached.([]*Project); ok {
			return projects, nil
		}
	}

	projects, err := s.repo.List(ctx, tc.BookID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, projects)
	return projects, nil
}

// Update applies a partial update to a project
func (s *Service) Update(ctx context.Context, tc *tenant.Context, projectID string, req *UpdateProjectRequest) (*Project, error) {
	if req.Budget != nil && *req.Budget < 0 {
		return nil, errors.NewValidationError("budget must not be negative")
	}

	updated, err := s.repo.Update(ctx, tc.BookID, projectID, req)
	if err != nil {
		return nil, err
	}

	cache.InvalidateProjectWrite(s.cache, tc.BookID)
	return updated, nil
}

// Delete removes a project
func (s *Service) Delete(ctx context.Context, tc *tenant.Context, projectID string) error {
	if err := s.repo.Delete(ctx, tc.BookID, projectID); err != nil {
		return err
	}

	cache.InvalidateProjectWrite(s.cache, tc.BookID)
	return nil
}
