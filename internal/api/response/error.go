package response

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/clubledger/backend/internal/domain/errors"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success          bool             `json:"success"`
	Error            string           `json:"error"`
	ErrorDescription ErrorDescription `json:"error_description"`
	Metadata         ResponseMetadata `json:"metadata"`
}

// ErrorDescription represents the error details
type ErrorDescription struct {
	Message   string                 `json:"message"`
	Retryable bool                   `json:"retryable,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Error creates an error response
func Error(appErr errors.AppError, requestID string) events.APIGatewayProxyResponse {
	response := ErrorResponse{
		Success: false,
		Error:   appErr.Code,
		ErrorDescription: ErrorDescription{
			Message:   appErr.Message,
			Retryable: appErr.Retryable(),
			Details:   appErr.Details,
		},
		Metadata: ResponseMetadata{
			Version:   "1.0",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			RequestID: requestID,
		},
	}

	body, err := json.Marshal(response)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"success":false,"error":"INTERNAL_ERROR","error_description":{"message":"Failed to marshal error response"}}`,
			Headers:    DefaultHeaders(),
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: appErr.StatusCode,
		Body:       string(body),
		Headers:    DefaultHeaders(),
	}
}

// ValidationError creates a validation error response
func ValidationError(message string, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.NewValidationError(message), requestID)
}

// NotFound creates a not found error response
func NotFound(message string, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.NewNotFoundError(message), requestID)
}

// BadRequest creates a bad request error response
func BadRequest(message string, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.NewValidationError(message), requestID)
}

// BookError creates a book-scoping error response
func BookError(message string, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.NewBookError(message), requestID)
}

// InternalError creates an internal error response
func InternalError(message string, err error, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.NewInternalError(message, err), requestID)
}
