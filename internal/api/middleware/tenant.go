package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/clubledger/backend/internal/api/response"
	"github.com/clubledger/backend/internal/common/utils"
	"github.com/clubledger/backend/internal/domain/tenant"
)

// TenantContextKey is the key for the tenant context in the request context
type TenantContextKey string

const (
	// TenantContextKeyValue is the context key for tenant information
	TenantContextKeyValue TenantContextKey = "tenant"
)

// TenantMiddleware resolves the book scope of a request from the X-Book-Id
// header. Every downstream store and cache operation is keyed by that book.
type TenantMiddleware struct {
}

// NewTenantMiddleware creates a new tenant middleware
func NewTenantMiddleware() *TenantMiddleware {
	return &TenantMiddleware{}
}

// Handle handles the tenant middleware for Lambda functions
func (m *TenantMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		// Cache administration is book-agnostic
		if strings.HasPrefix(request.Path, "/cache") {
			return next(ctx, logger, request)
		}

		bookID := request.Headers["X-Book-Id"]
		if bookID == "" {
			bookID = request.Headers["x-book-id"]
		}
		if bookID == "" {
			return response.BookError("X-Book-Id header is required", request.RequestContext.RequestID), nil
		}
		if err := utils.ValidateBookID(bookID); err != nil {
			return response.BookError("invalid X-Book-Id header", request.RequestContext.RequestID), nil
		}

		tenantID := request.Headers["X-Tenant-Id"]
		if tenantID == "" {
			tenantID = request.Headers["x-tenant-id"]
		}

		tenantCtx := &tenant.Context{
			TenantID: tenantID,
			UserID:   request.RequestContext.Identity.User,
			BookID:   bookID,
		}

		ctx = context.WithValue(ctx, TenantContextKeyValue, tenantCtx)
		return next(ctx, logger, request)
	}
}

// GetTenantContext gets the tenant context from the request context
func GetTenantContext(ctx context.Context) (*tenant.Context, bool) {
	tenantCtx, ok := ctx.Value(TenantContextKeyValue).(*tenant.Context)
	return tenantCtx, ok
}
