package media

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
	r.POST("/media/upload-credentials",
		authMW,
		middleware.ContextLogger(logger),
		middleware.RateLimitByCaller(1, 5),
		middleware.RBACAuthorize(rbacService, "media", "credentials"),
		handler.UploadCredentials,
	)
}
