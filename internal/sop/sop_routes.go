package sop

import (
	"go-traindesk/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMW gin.HandlerFunc,
	rbacService middleware.RBACService,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	sops := r.Group("/sops")
	sops.Use(authMW)
	sops.Use(middleware.ContextLogger(logger))
	{
		sops.GET("/recent",
			middleware.RateLimitByCaller(3, 10),
			middleware.RBACAuthorize(rbacService, "sop", "read"),
			handler.GetRecent,
		)

		sops.GET("",
			middleware.RateLimitByCaller(3, 10),
			middleware.RBACAuthorize(rbacService, "sop", "read"),
			handler.GetAll,
		)

		sops.GET("/:id",
			middleware.RateLimitByCaller(3, 10),
			middleware.RBACAuthorize(rbacService, "sop", "read"),
			handler.GetByID,
		)

		sops.POST("",
			middleware.RateLimitByCaller(0.5, 2),
			middleware.RBACAuthorize(rbacService, "sop", "create"),
			handler.Create,
		)

		sops.PUT("/:id",
			middleware.RateLimitByCaller(0.5, 2),
			middleware.RBACAuthorize(rbacService, "sop", "update"),
			handler.Update,
		)

		sops.PUT("/:id/clear",
			middleware.RateLimitByCaller(0.5, 2),
			middleware.RBACAuthorize(rbacService, "sop", "update"),
			handler.Clear,
		)

		sops.DELETE("/:id",
			middleware.RateLimitByCaller(0.2, 1),
			middleware.RBACAuthorize(rbacService, "sop", "delete"),
			handler.Delete,
		)

		// Admin-side alias for completing on behalf of the caller.
		sops.POST("/:id/complete",
			middleware.Idempotency(rdb),
			middleware.RBACAuthorize(rbacService, "sop", "complete"),
			handler.Complete,
		)
	}

	employeeSops := r.Group("/employee/sops")
	employeeSops.Use(authMW)
	employeeSops.Use(middleware.ContextLogger(logger))
	{
		employeeSops.GET("",
			middleware.RateLimitByCaller(3, 10),
			middleware.RBACAuthorize(rbacService, "sop", "read-assigned"),
			handler.GetAssigned,
		)

		employeeSops.GET("/:id/progress",
			middleware.RateLimitByCaller(3, 10),
			middleware.RBACAuthorize(rbacService, "sop", "read-assigned"),
			handler.GetProgress,
		)

		employeeSops.POST("/:id/complete",
			middleware.Idempotency(rdb),
			middleware.RBACAuthorize(rbacService, "sop", "complete"),
			handler.Complete,
		)
	}
}
