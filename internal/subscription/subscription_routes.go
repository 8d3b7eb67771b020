package subscription

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
	subs := r.Group("/subscriptions")
	subs.Use(authMW)
	subs.Use(middleware.ContextLogger(logger))
	{
		subs.POST("/order",
			middleware.RateLimitByCaller(0.5, 2),
			middleware.RBACAuthorize(rbacService, "subscription", "create"),
			handler.CreateOrder,
		)

		subs.GET("/me",
			middleware.RateLimitByCaller(3, 10),
			middleware.RBACAuthorize(rbacService, "subscription", "read"),
			handler.GetMine,
		)
	}

	// Gateway callback: unauthenticated, signature-verified, IP rate limited.
	r.POST("/payments/callback",
		middleware.RateLimitByIP(5, 10),
		middleware.ContextLogger(logger),
		handler.Callback,
	)
}
