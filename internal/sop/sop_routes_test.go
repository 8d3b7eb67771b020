package sop_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-traindesk/internal/caller"
	"go-traindesk/internal/rbac"
	"go-traindesk/internal/sop"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Route-level check that the role policy keeps employee callers off the
// admin read surface: the tenant-wide listings must stay invisible to them
// even though their own scoped routes serve the same resource.
func TestSOPRoutes_EmployeeReadScoping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rbacService, err := rbac.NewService()
	require.NoError(t, err)

	employee := caller.Caller{
		Kind: caller.KindEmployee, SubjectID: "subj-a", OwnerID: "owner-1",
		EmployeeID: "emp-1", Role: "staff",
	}

	svc := &fakeSOPService{
		GetAllFn: func(context.Context, string) ([]sop.SOPResponse, error) {
			t.Fatal("tenant-wide listing must not be reachable by an employee")
			return nil, nil
		},
		GetAssignedFn: func(_ context.Context, clr caller.Caller) ([]sop.SOPResponse, error) {
			assert.Equal(t, "subj-a", clr.SubjectID)
			return []sop.SOPResponse{{ID: "sop-assigned", Title: "Fire Safety", AssignedTo: []string{"subj-a"}}}, nil
		},
	}

	r := gin.New()
	api := r.Group("/api/v1")
	sop.RegisterRoutes(api, sop.NewHandler(svc), withCaller(employee), rbacService, nil, zap.NewNop())

	t.Run("admin listing is forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sops", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		env := decodeEnvelope(t, rec)
		require.NotNil(t, env.Error)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})

	t.Run("admin detail read is forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sops/sop-unassigned", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("assigned listing still serves", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/employee/sops", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Ok)

		var sops []sop.SOPResponse
		require.NoError(t, json.Unmarshal(env.Data, &sops))
		require.Len(t, sops, 1)
		assert.Equal(t, "sop-assigned", sops[0].ID)
	})
}

func TestSOPRoutes_AdminKeepsFullSurface(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rbacService, err := rbac.NewService()
	require.NoError(t, err)

	svc := &fakeSOPService{
		GetAllFn: func(_ context.Context, ownerID string) ([]sop.SOPResponse, error) {
			assert.Equal(t, "owner-1", ownerID)
			return []sop.SOPResponse{{ID: "sop-1"}, {ID: "sop-2"}}, nil
		},
	}

	r := gin.New()
	api := r.Group("/api/v1")
	sop.RegisterRoutes(api, sop.NewHandler(svc), withCaller(adminCaller("owner-1")), rbacService, nil, zap.NewNop())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sops", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Ok)
}
