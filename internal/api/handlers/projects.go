package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/clubledger/backend/internal/api/middleware"
	"github.com/clubledger/backend/internal/api/response"
	"github.com/clubledger/backend/internal/domain/project"
	"github.com/clubledger/backend/internal/reports"
)

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	service  *project.Service
	composer *reports.Composer
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(service *project.Service, composer *reports.Composer) *ProjectHandler {
	return &ProjectHandler{
		service:  service,
		composer: composer,
	}
}

// Create handles POST /projects
func (h *ProjectHandler) Create(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	var req project.CreateProjectRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.BadRequest("Invalid JSON body", request.RequestContext.RequestID), nil
	}

	proj, err := h.service.Create(ctx, tc, &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.Created(proj, request.RequestContext.RequestID), nil
}

// List handles GET /projects
func (h *ProjectHandler) List(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	result := h.composer.GetProjects(ctx, tc)
	return response.OK(result, request.RequestContext.RequestID), nil
}

// Get handles GET /projects/{id}
func (h *ProjectHandler) Get(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	projectID := request.PathParameters["id"]
	if projectID == "" {
		return response.BadRequest("project id is required", request.RequestContext.RequestID), nil
	}

	proj, err := h.service.Get(ctx, tc, projectID)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(proj, request.RequestContext.RequestID), nil
}

// Update handles PUT /projects/{id}
func (h *ProjectHandler) Update(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	projectID := request.PathParameters["id"]
	if projectID == "" {
		return response.BadRequest("project id is required", request.RequestContext.RequestID), nil
	}

	var req project.UpdateProjectRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.BadRequest("Invalid JSON body", request.RequestContext.RequestID), nil
	}

	proj, err := h.service.Update(ctx, tc, projectID, &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(proj, request.RequestContext.RequestID), nil
}

// Delete handles DELETE /projects/{id}
func (h *ProjectHandler) Delete(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	projectID := request.PathParameters["id"]
	if projectID == "" {
		return response.BadRequest("project id is required", request.RequestContext.RequestID), nil
	}

	if err := h.service.Delete(ctx, tc, projectID); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.NoContent(), nil
}
