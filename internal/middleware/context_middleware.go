package middleware

import (
	"go-traindesk/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger decorates a request-scoped logger with tracing metadata and
// propagates it through the standard context so services and repositories
// never need to know about gin.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetString("request_id")
		sid := c.GetString("subject_id")

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("subject_id", sid),
		)

		ctx := c.Request.Context()
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
