package handlers

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/clubledger/backend/internal/api/response"
	"github.com/clubledger/backend/internal/cache"
)

// CacheHandler handles cache administration endpoints
type CacheHandler struct {
	cache *cache.Cache
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(c *cache.Cache) *CacheHandler {
	return &CacheHandler{cache: c}
}

// Clear handles POST /cache/clear: drop every cached aggregate so the next
// reads recompute from the store
func (h *CacheHandler) Clear(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.cache.Clear()
	logger.Info("cache cleared", "requestId", request.RequestContext.RequestID)
	return response.NoContent(), nil
}

// Stats handles GET /cache/stats
func (h *CacheHandler) Stats(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	hits, misses := h.cache.Stats()
	return response.OK(map[string]interface{}{
		"entries": h.cache.Len(),
		"hits":    hits,
		"misses":  misses,
	}, request.RequestContext.RequestID), nil
}
