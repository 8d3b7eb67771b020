package user

import (
	"go-traindesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authMW gin.HandlerFunc) {
	r.GET("/me", authMW, handler.GetMe)

	auth := r.Group("/auth")
	auth.Use(authMW)
	{
		auth.POST("/register-admin",
			middleware.RateLimitByCaller(0.2, 2),
			handler.RegisterAdmin,
		)
	}
}
