// Package handlers provides the HTTP handlers for the gateway's
// OpenAI-compatible endpoints and their shared error envelope.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/icanbwell/language-model-gateway/internal/chat"
	"github.com/icanbwell/language-model-gateway/internal/modelconfig"
	"github.com/icanbwell/language-model-gateway/internal/models"
)

// ErrorResponse is the standard error envelope for all API endpoints.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one error in the envelope.
type ErrorDetail struct {
	// Message is a human-readable description of the error.
	Message string `json:"message"`

	// Type is the error category, e.g. "invalid_request_error".
	Type string `json:"type"`

	// Code is a short machine-readable code, if applicable.
	Code string `json:"code,omitempty"`
}

// Completer drives chat completions. It is satisfied by chat.Orchestrator
// and stubbed in tests.
type Completer interface {
	Completions(ctx context.Context, req *chat.ChatRequest) (*chat.ChatCompletion, error)
	StreamCompletions(ctx context.Context, req *chat.ChatRequest) (<-chan []byte, error)
}

// ModelLister lists the enabled model configurations.
type ModelLister interface {
	List(ctx context.Context) ([]modelconfig.ChatModelConfig, error)
}

// WriteError writes the error envelope with a status derived from the error.
func WriteError(c *gin.Context, err error) {
	status, errType := classifyError(err)
	c.JSON(status, ErrorResponse{Error: ErrorDetail{
		Message: err.Error(),
		Type:    errType,
	}})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrModelNotFound):
		return http.StatusNotFound, "invalid_request_error"
	case errors.Is(err, chat.ErrUnsupportedRole),
		errors.Is(err, chat.ErrUnsupportedContentPart),
		errors.Is(err, chat.ErrMissingSchema),
		errors.Is(err, chat.ErrUnsupportedResponseFormat):
		return http.StatusBadRequest, "invalid_request_error"
	case errors.Is(err, chat.ErrNoStructuredOutput):
		return http.StatusBadGateway, "server_error"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "server_error"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}
