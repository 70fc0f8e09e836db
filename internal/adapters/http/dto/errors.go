package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/quoteshorts/api/internal/domain"
	"github.com/quoteshorts/api/internal/platform/logging"
)

// MapDomainError maps a domain error to an HTTP status code and failure
// envelope. Unknown errors become 500 with a generic message so internals
// never leak to clients.
func MapDomainError(err error) (int, *Response) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, Fail(err.Error())

	case domain.IsValidation(err):
		resp := Fail(err.Error())

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Errors = map[string]string{
				validationErr.Field: validationErr.Message,
			}
		}

		return http.StatusBadRequest, resp

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, Fail("a backing service is unavailable")

	default:
		return http.StatusInternalServerError, Fail("an internal error occurred")
	}
}

// HandleError writes a failure envelope for a domain error, tagging it with
// the active trace ID when one exists.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	attachTraceID(c, resp)

	// Clients get a generic message for 5xx; the log keeps the detail.
	if status >= http.StatusInternalServerError {
		logger := logging.FromContext(c.Request.Context())
		logger.Error("request failed",
			"error", err.Error(),
			"trace_id", resp.TraceID,
		)
	}

	c.JSON(status, resp)
}

// HandleBindingError inspects a binding/validation failure and writes the
// appropriate 400 shape.
func HandleBindingError(c *gin.Context, err error) {
	if IsValidationError(err) {
		resp := FailFields("request validation failed", ValidationErrors(err))
		attachTraceID(c, resp)

		c.JSON(http.StatusBadRequest, resp)

		return
	}

	BadRequest(c, "malformed request")
}

// BadRequest writes a 400 with a plain message, for malformed bodies and
// unparseable query parameters.
func BadRequest(c *gin.Context, message string) {
	resp := Fail(message)
	attachTraceID(c, resp)

	c.JSON(http.StatusBadRequest, resp)
}

// Abort stops the middleware chain and writes a failure envelope.
func Abort(c *gin.Context, status int, message string) {
	resp := Fail(message)
	attachTraceID(c, resp)

	c.AbortWithStatusJSON(status, resp)
}

// GetTraceID returns the active trace ID, or empty when tracing is off.
func GetTraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

func attachTraceID(c *gin.Context, resp *Response) {
	resp.TraceID = GetTraceID(c)
}
