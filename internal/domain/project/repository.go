package project

import (
	"context"
)

// Repository defines the interface for project data operations
type Repository interface {
	// Create a new project
	Create(ctx context.Context, bookID string, proj *Project) (*Project, error)

	// Get a project by ID
	Get(ctx context.Context, bookID string, projectID string) (*Project, error)

	// List all projects of a book
	List(ctx context.Context, bookID string) ([]*Project, error)

	// Update an existing project
	Update(ctx context.Context, bookID string, projectID string, req *UpdateProjectRequest) (*Project, error)

	// Delete a project
	Delete(ctx context.Context, bookID string, projectID string) error
}
