package settings_test

import (
	"context"
	"testing"
	"time"

	"go-traindesk/internal/auditlog"
	"go-traindesk/internal/settings"
	settingserrors "go-traindesk/internal/settings/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// fakeSettingsRepo mimics the upsert semantics of the real collection.
type fakeSettingsRepo struct {
	docs map[string]*settings.Settings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{docs: map[string]*settings.Settings{}}
}

func (f *fakeSettingsRepo) GetOrCreate(_ context.Context, ownerID string) (*settings.Settings, error) {
	if s, ok := f.docs[ownerID]; ok {
		copy := *s
		return &copy, nil
	}
	defaults := settings.Defaults(ownerID)
	f.docs[ownerID] = &defaults
	copy := defaults
	return &copy, nil
}

func (f *fakeSettingsRepo) Patch(_ context.Context, ownerID string, patch bson.M) (*settings.Settings, error) {
	s, ok := f.docs[ownerID]
	if !ok {
		defaults := settings.Defaults(ownerID)
		f.docs[ownerID] = &defaults
		s = &defaults
	}
	if v, ok := patch["websocket"].(settings.WebsocketSettings); ok {
		s.Websocket = v
	}
	if v, ok := patch["notifications"].(settings.NotificationSettings); ok {
		s.Notifications = v
	}
	if v, ok := patch["workflows"].(settings.WorkflowSettings); ok {
		s.Workflows = v
	}
	if v, ok := patch["employees"].(settings.EmployeeSettings); ok {
		s.Employees = v
	}
	s.UpdatedAt = time.Now().UTC()
	copy := *s
	return &copy, nil
}

func newService(repo settings.Repository) settings.Service {
	return settings.NewService(repo, auditlog.NopRecorder{}, zap.NewNop())
}

func TestSettingsService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("first access installs the defaults", func(t *testing.T) {
		svc := newService(newFakeSettingsRepo())

		s, err := svc.Get(ctx, "owner-1")

		require.NoError(t, err)
		assert.True(t, s.Websocket.Enabled)
		assert.Equal(t, 30, s.Websocket.HeartbeatSeconds)
		assert.Equal(t, "staff", s.Employees.DefaultRole)
	})

	t.Run("second access returns the same document", func(t *testing.T) {
		repo := newFakeSettingsRepo()
		svc := newService(repo)

		first, err := svc.Get(ctx, "owner-1")
		require.NoError(t, err)

		second, err := svc.Get(ctx, "owner-1")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestSettingsService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("empty patch rejected", func(t *testing.T) {
		_, err := newService(newFakeSettingsRepo()).Update(ctx, "owner-1", settings.UpdateSettingsRequest{})

		assert.ErrorIs(t, err, settingserrors.ErrEmptyPatch)
	})

	t.Run("patched group replaces, others keep their values", func(t *testing.T) {
		repo := newFakeSettingsRepo()
		svc := newService(repo)

		_, err := svc.Get(ctx, "owner-1")
		require.NoError(t, err)

		s, err := svc.Update(ctx, "owner-1", settings.UpdateSettingsRequest{
			Workflows: &settings.WorkflowSettings{
				AutoAssignSops:            true,
				RequireTrainingCompletion: true,
			},
		})

		require.NoError(t, err)
		assert.True(t, s.Workflows.AutoAssignSops)
		assert.True(t, s.Workflows.RequireTrainingCompletion)
		assert.True(t, s.Websocket.Enabled, "untouched group keeps defaults")
		assert.Equal(t, "staff", s.Employees.DefaultRole)
	})

	t.Run("invalid default role rejected", func(t *testing.T) {
		_, err := newService(newFakeSettingsRepo()).Update(ctx, "owner-1", settings.UpdateSettingsRequest{
			Employees: &settings.EmployeeSettings{DefaultRole: "superuser"},
		})

		assert.ErrorIs(t, err, settingserrors.ErrInvalidDefaultRole)
	})
}
