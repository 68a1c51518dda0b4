package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/clubledger/backend/internal/api/middleware"
	"github.com/clubledger/backend/internal/api/response"
	"github.com/clubledger/backend/internal/domain/bankaccount"
	"github.com/clubledger/backend/internal/reports"
)

// BankAccountHandler handles bank account endpoints
type BankAccountHandler struct {
	service  *bankaccount.Service
	composer *reports.Composer
}

// NewBankAccountHandler creates a new bank account handler
func NewBankAccountHandler(service *bankaccount.Service, composer *reports.Composer) *BankAccountHandler {
	return &BankAccountHandler{
		service:  service,
		composer: composer,
	}
}

// Create handles POST /bank-accounts
func (h *BankAccountHandler) Create(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	var req bankaccount.CreateBankAccountRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.BadRequest("Invalid JSON body", request.RequestContext.RequestID), nil
	}

	acct, err := h.service.Create(ctx, tc, &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.Created(acct, request.RequestContext.RequestID), nil
}

// List handles GET /bank-accounts: active accounts with reconciled balances
func (h *BankAccountHandler) List(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	result := h.composer.GetBankAccountStats(ctx, tc)
	return response.OK(result, request.RequestContext.RequestID), nil
}

// Get handles GET /bank-accounts/{id}
func (h *BankAccountHandler) Get(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	bankAccountID := request.PathParameters["id"]
	if bankAccountID == "" {
		return response.BadRequest("bank account id is required", request.RequestContext.RequestID), nil
	}

	acct, err := h.service.Get(ctx, tc, bankAccountID)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(acct, request.RequestContext.RequestID), nil
}

// Update handles PUT /bank-accounts/{id}
func (h *BankAccountHandler) Update(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	bankAccountID := request.PathParameters["id"]
	if bankAccountID == "" {
		return response.BadRequest("bank account id is required", request.RequestContext.RequestID), nil
	}

	var req bankaccount.UpdateBankAccountRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.BadRequest("Invalid JSON body", request.RequestContext.RequestID), nil
	}

	acct, err := h.service.Update(ctx, tc, bankAccountID, &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(acct, request.RequestContext.RequestID), nil
}

// Delete handles DELETE /bank-accounts/{id}
func (h *BankAccountHandler) Delete(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	bankAccountID := request.PathParameters["id"]
	if bankAccountID == "" {
		return response.BadRequest("bank account id is required", request.RequestContext.RequestID), nil
	}

	if err := h.service.Delete(ctx, tc, bankAccountID); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.NoContent(), nil
}
