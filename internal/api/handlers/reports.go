package handlers

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/clubledger/backend/internal/api/middleware"
	"github.com/clubledger/backend/internal/api/response"
	"github.com/clubledger/backend/internal/reports"
)

// ReportHandler handles report endpoints
type ReportHandler struct {
	composer *reports.Composer
}

// NewReportHandler creates a new report handler
func NewReportHandler(composer *reports.Composer) *ReportHandler {
	return &ReportHandler{composer: composer}
}

// TrialBalance handles GET /reports/trial-balance
func (h *ReportHandler) TrialBalance(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	report, err := h.composer.TrialBalance(ctx, tc)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(report, request.RequestContext.RequestID), nil
}

// BalanceSheet handles GET /reports/balance-sheet
func (h *ReportHandler) BalanceSheet(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	report, err := h.composer.BalanceSheet(ctx, tc)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(report, request.RequestContext.RequestID), nil
}

// ProfitAndLoss handles GET /reports/profit-and-loss
func (h *ReportHandler) ProfitAndLoss(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	report, err := h.composer.ProfitAndLoss(ctx, tc)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(report, request.RequestContext.RequestID), nil
}

// ProjectStatistics handles GET /reports/project-statistics
func (h *ReportHandler) ProjectStatistics(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	stats, err := h.composer.ProjectStatistics(ctx, tc)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(stats, request.RequestContext.RequestID), nil
}

// Dashboard handles GET /reports/dashboard
func (h *ReportHandler) Dashboard(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tc, ok := middleware.GetTenantContext(ctx)
	if !ok {
		return response.BookError("book scope not resolved", request.RequestContext.RequestID), nil
	}

	dashboard, err := h.composer.Dashboard(ctx, tc)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(dashboard, request.RequestContext.RequestID), nil
}
