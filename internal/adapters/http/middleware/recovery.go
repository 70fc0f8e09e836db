package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/quoteshorts/api/internal/adapters/http/dto"
	"github.com/quoteshorts/api/internal/platform/logging"
)

// Recovery returns middleware that recovers from panics. The panic is
// logged with its stack trace and the client gets a 500 envelope. Apply
// first in the chain so it covers everything downstream.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()

				// Context logger carries request_id and correlation_id.
				ctxLogger := logging.FromContext(c.Request.Context())
				traceID := dto.GetTraceID(c)

				ctxLogger.Error("panic recovered",
					slog.Any("error", r),
					slog.String("stack", string(stack)),
					slog.String("path", c.Request.URL.Path),
					slog.String("method", c.Request.Method),
					slog.String("trace_id", traceID),
				)

				resp := dto.Fail("an internal error occurred")
				resp.TraceID = traceID

				if !c.Writer.Written() {
					c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
				} else {
					c.Abort()
				}
			}
		}()

		c.Next()
	}
}
