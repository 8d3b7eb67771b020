package middleware

import (
	"net/http"

	"go-traindesk/internal/caller"
	"go-traindesk/internal/shared/apperror"
	"go-traindesk/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is a local interface; any package with a matching Enforce
// method fits.
type RBACService interface {
	Enforce(role, resource, action string) (bool, error)
}

// RBACAuthorize gates a route on the caller's role. Role mismatches are the
// one place Forbidden is allowed to surface; ownership mismatches deeper in
// the stack always read as NotFound.
func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		clr, ok := caller.FromGin(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Missing auth context", nil)
			c.Abort()
			return
		}

		role := clr.Role
		if clr.IsEmployee() {
			// Employee records carry tenant-facing roles (owner/manager/staff);
			// route policy only distinguishes employee vs admin.
			role = "employee"
		}

		allowed, err := service.Enforce(role, resource, action)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Authorization check failed", nil)
			c.Abort()
			return
		}

		if !allowed {
			errObj := apperror.ErrForbidden
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
