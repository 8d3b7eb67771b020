package training

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
	videos := r.Group("/training")
	videos.Use(authMW)
	videos.Use(middleware.ContextLogger(logger))
	{
		videos.GET("",
			middleware.RateLimitByCaller(3, 10),
			middleware.RBACAuthorize(rbacService, "training", "read"),
			handler.GetAll,
		)

		videos.GET("/:id",
			middleware.RateLimitByCaller(3, 10),
			middleware.RBACAuthorize(rbacService, "training", "read"),
			handler.GetByID,
		)

		videos.POST("",
			middleware.RateLimitByCaller(0.5, 2),
			middleware.RBACAuthorize(rbacService, "training", "create"),
			handler.Create,
		)

		videos.DELETE("/:id",
			middleware.RateLimitByCaller(0.2, 1),
			middleware.RBACAuthorize(rbacService, "training", "delete"),
			handler.Delete,
		)

		videos.POST("/:id/complete",
			middleware.Idempotency(rdb),
			middleware.RBACAuthorize(rbacService, "training", "complete"),
			handler.Complete,
		)

		videos.POST("/:id/mark-complete",
			middleware.RBACAuthorize(rbacService, "training", "force-complete"),
			handler.MarkComplete,
		)
	}

	employeeVideos := r.Group("/employee/training")
	employeeVideos.Use(authMW)
	employeeVideos.Use(middleware.ContextLogger(logger))
	{
		employeeVideos.GET("",
			middleware.RateLimitByCaller(3, 10),
			middleware.RBACAuthorize(rbacService, "training", "read-visible"),
			handler.GetVisible,
		)
	}
}
