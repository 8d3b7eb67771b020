package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-traindesk/internal/caller"
	"go-traindesk/internal/user"
	usererrors "go-traindesk/internal/user/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserService struct {
	GetMeFn         func(ctx context.Context, clr caller.Caller) (user.ProfileResponse, error)
	RegisterAdminFn func(ctx context.Context, clr caller.Caller) (user.ProfileResponse, error)
}

func (f *fakeUserService) GetMe(ctx context.Context, clr caller.Caller) (user.ProfileResponse, error) {
	return f.GetMeFn(ctx, clr)
}

func (f *fakeUserService) RegisterAdmin(ctx context.Context, clr caller.Caller) (user.ProfileResponse, error) {
	return f.RegisterAdminFn(ctx, clr)
}

func withCaller(clr caller.Caller) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller.SetOnGin(c, clr)
		c.Next()
	}
}

func TestUserHandler_GetMe(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns profile for authenticated caller", func(t *testing.T) {
		clr := caller.Caller{Kind: caller.KindAdmin, SubjectID: "subj-1", OwnerID: "subj-1", Role: caller.RoleAdmin}
		svc := &fakeUserService{
			GetMeFn: func(_ context.Context, got caller.Caller) (user.ProfileResponse, error) {
				assert.Equal(t, clr.SubjectID, got.SubjectID)
				return user.ProfileResponse{Kind: "user", SubjectID: got.SubjectID, Role: got.Role}, nil
			},
		}

		r := gin.New()
		r.GET("/me", withCaller(clr), user.NewHandler(svc).GetMe)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusOK, rec.Code)

		var env struct {
			Ok   bool                 `json:"ok"`
			Data user.ProfileResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		assert.Equal(t, "subj-1", env.Data.SubjectID)
		assert.Equal(t, "admin", env.Data.Role)
	})

	t.Run("rejects missing caller", func(t *testing.T) {
		r := gin.New()
		r.GET("/me", user.NewHandler(&fakeUserService{}).GetMe)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUserHandler_RegisterAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("employee caller is rejected", func(t *testing.T) {
		clr := caller.Caller{Kind: caller.KindEmployee, SubjectID: "subj-2", OwnerID: "owner-1", EmployeeID: "emp-1"}
		svc := &fakeUserService{
			RegisterAdminFn: func(context.Context, caller.Caller) (user.ProfileResponse, error) {
				return user.ProfileResponse{}, usererrors.ErrNotAUser
			},
		}

		r := gin.New()
		r.POST("/auth/register-admin", withCaller(clr), user.NewHandler(svc).RegisterAdmin)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register-admin", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)

		var env struct {
			Ok    bool `json:"ok"`
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.False(t, env.Ok)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})
}
