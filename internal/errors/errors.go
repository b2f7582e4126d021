// Package errors writes the API's JSON error envelope:
//
//	{"error": {"code": "...", "message": "...", "details": {...}, "request_id": "..."}}
package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/procurement/internal/middleware"
)

// Error code constants for standardized error responses
const (
	ErrNotFound           = "NOT_FOUND"
	ErrBadRequest         = "BAD_REQUEST"
	ErrConflict           = "CONFLICT"
	ErrInternalServer     = "INTERNAL_SERVER_ERROR"
	ErrBadGateway         = "BAD_GATEWAY"
	ErrValidation         = "VALIDATION_ERROR"
	ErrDatabaseConnection = "DATABASE_CONNECTION_ERROR"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// write logs the failure on the request logger, when present, and aborts
// the chain with the envelope.
func write(c *gin.Context, status int, code, message string, details map[string]interface{}, err error) {
	requestID := middleware.GetRequestID(c)

	if log := middleware.GetLogger(c); log != nil {
		fields := map[string]interface{}{
			"code":    code,
			"message": message,
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		}
		if details != nil {
			fields["details"] = details
		}
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err, fields)
		} else {
			log.Warn("Request rejected", fields)
		}
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	})
}

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	write(c, http.StatusNotFound, ErrNotFound, message, nil, nil)
}

// BadRequest returns a 400 Bad Request error response with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	write(c, http.StatusBadRequest, ErrBadRequest, message, details, nil)
}

// Conflict returns a 409 Conflict response, used for stale versions and
// duplicate keys.
func Conflict(c *gin.Context, message string) {
	write(c, http.StatusConflict, ErrConflict, message, nil, nil)
}

// InternalServerError returns a 500 response. err is logged but never
// exposed to the client.
func InternalServerError(c *gin.Context, message string, err error) {
	write(c, http.StatusInternalServerError, ErrInternalServer, message, nil, err)
}

// BadGateway returns a 502 response for failures of the upstream open-data
// API. err is logged but never exposed to the client.
func BadGateway(c *gin.Context, message string, err error) {
	write(c, http.StatusBadGateway, ErrBadGateway, message, nil, err)
}

// ValidationError returns a 400 response listing each failed field.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{}, len(validationErrors))
	for _, err := range validationErrors {
		details[err.Field()] = formatValidationError(err)
	}

	write(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields", details, nil)
}

// BindError reports a failed ShouldBind: field-level messages for validation
// failures, a generic bad request for malformed bodies.
func BindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		ValidationError(c, validationErrors)
		return
	}
	BadRequest(c, "Malformed request body", map[string]interface{}{"error": err.Error()})
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "len":
		return "Must have length of " + err.Param()
	case "gt":
		return "Must be greater than " + err.Param()
	case "gte":
		return "Must be greater than or equal to " + err.Param()
	case "lt":
		return "Must be less than " + err.Param()
	case "lte":
		return "Must be less than or equal to " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	case "numeric":
		return "Must be numeric"
	case "alphanum":
		return "Must contain only letters and digits"
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
