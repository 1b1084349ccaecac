package respond

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/aws/smithy-go"
	"github.com/gin-gonic/gin"

	"userprefs-backend/internal/shared/telemetry"
)

// ExposeDetailsKey is the context key that enables the error and details
// fields on failure bodies.
const ExposeDetailsKey = "exposeErrorDetails"

// MessageInternal is the message of every unclassified 500.
const MessageInternal = "Internal Server Error"

// ErrorBody is the error envelope. Error and Details are only populated when
// detail exposure is enabled.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// Error sends {message} with the given status.
func Error(c *gin.Context, status int, message string) {
	logError(c, status, message, nil)
	c.AbortWithStatusJSON(status, ErrorBody{Message: message})
}

// ErrorCause sends {message} and, when exposure is enabled, the category and
// text of cause.
func ErrorCause(c *gin.Context, status int, message string, cause error) {
	logError(c, status, message, cause)

	body := ErrorBody{Message: message}
	if cause != nil && c.GetBool(ExposeDetailsKey) {
		body.Error = Category(cause)
		body.Details = cause.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

// Failure converts an unhandled error into a 500.
func Failure(c *gin.Context, err error) {
	ErrorCause(c, http.StatusInternalServerError, MessageInternal, err)
}

// Category names the kind of failure: the AWS error code when the chain
// carries one, otherwise the type name of the innermost error.
func Category(err error) string {
	if err == nil {
		return ""
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() != "" {
		return apiErr.ErrorCode()
	}

	inner := err
	for {
		next := errors.Unwrap(inner)
		if next == nil {
			break
		}
		inner = next
	}

	t := reflect.TypeOf(inner)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch name := t.Name(); name {
	case "", "errorString":
		return "Error"
	default:
		return name
	}
}

func logError(c *gin.Context, status int, message string, cause error) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if cause != nil {
		fields["error"] = Category(cause)
		fields["details"] = cause.Error()
	}

	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
		return
	}
	telemetry.Warn("http.error", fields)
}
