package tenant_test

import (
	"testing"

	"go-traindesk/internal/tenant"

	"github.com/stretchr/testify/assert"
)

func TestScope(t *testing.T) {
	filter := tenant.Scope("owner-1")

	assert.Len(t, filter, 1)
	assert.Equal(t, "owner-1", filter["ownerId"])
}

func TestScopedByID(t *testing.T) {
	filter := tenant.ScopedByID("owner-1", "rec-9")

	// Both keys must be present: dropping the owner would let a guessed id
	// cross tenants, dropping the id would match the whole tenant.
	assert.Len(t, filter, 2)
	assert.Equal(t, "owner-1", filter["ownerId"])
	assert.Equal(t, "rec-9", filter["_id"])
}
