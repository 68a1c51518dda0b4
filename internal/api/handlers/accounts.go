package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/clubledger/backend/internal/api/middleware"
	"github.com/clubledger/backend/internal/api/response"
	"github.com/clubledger/backend/internal/domain/account"
	"github.com/clubledger/backend/internal/reports"
)

// AccountHandler handles chart-of-accounts endpoints
type AccountHandler struct {
	service  *account.Service
	composer *reports.Composer
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(service *account.Service, composer *reports.Composer) *AccountHandler {
	return &AccountHandler{
		service:  service,
		composer: composer,
	}
}

// Create handles POST /accounts
func (h *AccountHandler) Create(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	var req account.CreateAccountRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.BadRequest("Invalid JSON body", request.RequestContext.RequestID), nil
	}

	acct, err := h.service.Create(ctx, tc, &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.Created(acct, request.RequestContext.RequestID), nil
}

// List handles GET /accounts: every account with its derived balance
func (h *AccountHandler) List(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	result := h.composer.GetAccounts(ctx, tc)
	return response.OK(result, request.RequestContext.RequestID), nil
}

// Get handles GET /accounts/{id}
func (h *AccountHandler) Get(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	accountID := request.PathParameters["id"]
	if accountID == "" {
		return response.BadRequest("account id is required", request.RequestContext.RequestID), nil
	}

	acct, err := h.service.Get(ctx, tc, accountID)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(acct, request.RequestContext.RequestID), nil
}

// Update handles PUT /accounts/{id}
func (h *AccountHandler) Update(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	accountID := request.PathParameters["id"]
	if accountID == "" {
		return response.BadRequest("account id is required", request.RequestContext.RequestID), nil
	}

	var req account.UpdateAccountRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.BadRequest("Invalid JSON body", request.RequestContext.RequestID), nil
	}

	acct, err := h.service.Update(ctx, tc, accountID, &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(acct, request.RequestContext.RequestID), nil
}

// Delete handles DELETE /accounts/{id}
func (h *AccountHandler) Delete(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	accountID := request.PathParameters["id"]
	if accountID == "" {
		return response.BadRequest("account id is required", request.RequestContext.RequestID), nil
	}

	if err := h.service.Delete(ctx, tc, accountID); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.NoContent(), nil
}
