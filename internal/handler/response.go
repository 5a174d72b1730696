package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"docbridge/internal/domain"
	"docbridge/internal/extract"
	"docbridge/internal/glpi"
	"docbridge/internal/llm"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain and collaborator errors to HTTP status
// codes and stable error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var secErr *domain.SecurityError
	var schemaErr *extract.SchemaValidationError
	var parseErr *llm.ParseError
	var timeoutErr *llm.TimeoutError
	var cancelErr *llm.CancelledError
	var connErr *llm.ConnectionError
	var provErr *llm.ProviderError
	var apiErr *glpi.APIError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "path does not exist"
	case errors.As(err, &secErr):
		return http.StatusForbidden, "SECURITY_VIOLATION", secErr.Reason
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden, "ACCESS_DENIED", "path is outside the allowed folders"
	case errors.Is(err, domain.ErrUnsupportedExtension):
		return http.StatusBadRequest, "UNSUPPORTED_EXTENSION", "file extension is not in the allowed list"
	case errors.Is(err, domain.ErrPromptInjection):
		return http.StatusUnprocessableEntity, "PROMPT_INJECTION", "possible prompt injection detected in the document"
	case errors.As(err, &schemaErr):
		return http.StatusBadGateway, "SCHEMA_VALIDATION", "LLM output did not match the contract schema"
	case errors.As(err, &parseErr):
		return http.StatusBadGateway, "LLM_PARSE", "LLM returned invalid JSON"
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout, "LLM_TIMEOUT", "LLM request timed out"
	case errors.As(err, &cancelErr):
		return http.StatusRequestTimeout, "LLM_CANCELLED", "LLM request was cancelled"
	case errors.As(err, &connErr):
		return http.StatusBadGateway, "LLM_UNREACHABLE", "LLM backend is unreachable"
	case errors.As(err, &provErr):
		return http.StatusBadGateway, "LLM_PROVIDER", "LLM provider returned an error"
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, "RECORD_API", "record system returned an error"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps an error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] %s: %v", requestID, code, err)
	}
	RespondError(c, status, code, msg)
}
