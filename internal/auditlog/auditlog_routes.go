package auditlog

import (
	"go-traindesk/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMW gin.HandlerFunc,
	rbacService middleware.RBACService,
	logger *zap.Logger,
) {
	r.GET("/logs",
		authMW,
		middleware.ContextLogger(logger),
		middleware.RateLimitByCaller(3, 10),
		middleware.RBACAuthorize(rbacService, "logs", "read"),
		handler.Recent,
	)
}
