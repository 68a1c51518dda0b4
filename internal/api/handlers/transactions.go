package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/aws/aws-lambda-go/events"

	"github.com/clubledger/backend/internal/api/middleware"
	"github.com/clubledger/backend/internal/api/response"
	"github.com/clubledger/backend/internal/domain/transaction"
	"github.com/clubledger/backend/internal/query"
)

// TransactionHandler handles transaction endpoints
type TransactionHandler struct {
	service *transaction.Service
	pager   *query.Pager
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(service *transaction.Service, pager *query.Pager) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		pager:   pager,
	}
}

// Create handles POST /transactions
func (h *TransactionHandler) Create(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	var req transaction.CreateTransactionRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.BadRequest("Invalid JSON body", request.RequestContext.RequestID), nil
	}

	tx, err := h.service.Create(ctx, tc, &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.Created(tx, request.RequestContext.RequestID), nil
}

// Get handles GET /transactions/{id}
func (h *TransactionHandler) Get(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	transactionID := request.PathParameters["id"]
	if transactionID == "" {
		return response.BadRequest("transaction id is required", request.RequestContext.RequestID), nil
	}

	tx, err := h.service.Get(ctx, tc, transactionID)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(tx, request.RequestContext.RequestID), nil
}

// List handles GET /transactions: one page of a filtered, sorted query.
// Recognized query parameters are the filter keys plus pageSize, cursor,
// sortBy and sortOrder.
func (h *TransactionHandler) List(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	params := request.QueryStringParameters
	filter := h.pager.ParseFilters(params)

	sort := transaction.DefaultSort()
	if params["sortBy"] != "" {
		sort.Field = params["sortBy"]
	}
	if params["sortOrder"] == "desc" {
		sort.Ascending = false
	}

	pageSize := 0
	if raw := params["pageSize"]; raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			pageSize = n
		} else {
			logger.Info("ignoring malformed pageSize", "value", raw)
		}
	}

	page, err := h.pager.FetchPage(ctx, tc.BookID, filter, sort, pageSize, params["cursor"])
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	return response.SuccessWithPagination(page.Items, &response.Pagination{
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
		Total:      page.Total,
	}, 200, request.RequestContext.RequestID), nil
}

// Update handles PUT /transactions/{id}
func (h *TransactionHandler) Update(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	transactionID := request.PathParameters["id"]
	if transactionID == "" {
		return response.BadRequest("transaction id is required", request.RequestContext.RequestID), nil
	}

	var req transaction.UpdateTransactionRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.BadRequest("Invalid JSON body", request.RequestContext.RequestID), nil
	}

	tx, err := h.service.Update(ctx, tc, transactionID, &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(tx, request.RequestContext.RequestID), nil
}

// Delete handles DELETE /transactions/{id}
func (h *TransactionHandler) Delete(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	transactionID := request.PathParameters["id"]
	if transactionID == "" {
		return response.BadRequest("transaction id is required", request.RequestContext.RequestID), nil
	}

	if err := h.service.Delete(ctx, tc, transactionID); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.NoContent(), nil
}
