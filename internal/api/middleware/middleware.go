package middleware

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
)

// APIGatewayHandler is a function that handles API Gateway requests
type APIGatewayHandler func(context.Context, *slog.Logger, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Chain applies middlewares right to left, so the first one listed sees the
// request first
func Chain(handler APIGatewayHandler, middlewares ...func(APIGatewayHandler) APIGatewayHandler) APIGatewayHandler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}
