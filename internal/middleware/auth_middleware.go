package middleware

import (
	"strings"

	"go-traindesk/internal/caller"
	"go-traindesk/internal/identity"
	identityerrors "go-traindesk/internal/identity/errors"
	"go-traindesk/internal/shared/apperror"
	"go-traindesk/internal/shared/contextutil"
	"go-traindesk/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Auth verifies the bearer credential and resolves it to exactly one caller
// before any handler runs. Everything downstream can assume a populated
// caller context.
func Auth(verifier identity.Verifier, resolver *caller.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			errObj := identityerrors.ErrMissingToken
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		id, err := verifier.Verify(c.Request.Context(), tokenString)
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
			return
		}

		clr, err := resolver.Resolve(c.Request.Context(), id)
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
			return
		}

		caller.SetOnGin(c, clr)

		ctx := c.Request.Context()
		ctx = contextutil.WithCallerID(ctx, clr.SubjectID)
		ctx = contextutil.WithOwnerID(ctx, clr.OwnerID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
