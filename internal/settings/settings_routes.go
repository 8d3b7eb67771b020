package settings

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
	settings := r.Group("/settings")
	settings.Use(authMW)
	settings.Use(middleware.ContextLogger(logger))
	{
		settings.GET("",
			middleware.RateLimitByCaller(3, 10),
			middleware.RBACAuthorize(rbacService, "settings", "read"),
			handler.Get,
		)

		settings.PUT("",
			middleware.RateLimitByCaller(0.5, 2),
			middleware.RBACAuthorize(rbacService, "settings", "update"),
			handler.Update,
		)
	}
}
