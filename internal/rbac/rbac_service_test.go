package rbac_test

import (
	"testing"

	"go-traindesk/internal/rbac"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Enforce(t *testing.T) {
	svc, err := rbac.NewService()
	require.NoError(t, err)

	cases := []struct {
		name     string
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{"admin wildcard on employees", "admin", "employee", "delete", true},
		{"admin wildcard on sops", "admin", "sop", "create", true},
		{"admin force-completes trainings", "admin", "training", "force-complete", true},
		{"admin reads stats", "admin", "stats", "read", true},
		{"admin reads logs", "admin", "logs", "read", true},
		{"admin issues media credentials", "admin", "media", "credentials", true},

		{"employee reads assigned sops", "employee", "sop", "read-assigned", true},
		{"employee completes sops", "employee", "sop", "complete", true},
		{"employee reads visible trainings", "employee", "training", "read-visible", true},
		{"employee completes trainings", "employee", "training", "complete", true},
		{"employee reads own profile", "employee", "profile", "read", true},

		{"admin wildcard covers scoped sop reads", "admin", "sop", "read-assigned", true},
		{"admin wildcard covers scoped training reads", "admin", "training", "read-visible", true},

		{"employee cannot read the admin sop surface", "employee", "sop", "read", false},
		{"employee cannot read the admin training surface", "employee", "training", "read", false},
		{"employee cannot create sops", "employee", "sop", "create", false},
		{"employee cannot delete employees", "employee", "employee", "delete", false},
		{"employee cannot force-complete trainings", "employee", "training", "force-complete", false},
		{"employee cannot read stats", "employee", "stats", "read", false},
		{"employee cannot read logs", "employee", "logs", "read", false},

		{"unknown role denied", "ghost", "sop", "read", false},
		{"unknown resource denied", "admin", "payroll", "read", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := svc.Enforce(tc.role, tc.resource, tc.action)
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}
