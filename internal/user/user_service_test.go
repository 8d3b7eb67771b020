package user_test

import (
	"context"
	"testing"
	"time"

	"go-traindesk/internal/auditlog"
	"go-traindesk/internal/caller"
	"go-traindesk/internal/user"
	usererrors "go-traindesk/internal/user/errors"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakeUserRepo struct {
	FindBySubjectFn func(ctx context.Context, subjectID string) (*user.User, error)
	GetOrCreateFn   func(ctx context.Context, subjectID, email string) (*user.User, error)
	SetRoleFn       func(ctx context.Context, subjectID, role string) (*user.User, error)
}

func (f *fakeUserRepo) FindBySubject(ctx context.Context, subjectID string) (*user.User, error) {
	return f.FindBySubjectFn(ctx, subjectID)
}
func (f *fakeUserRepo) GetOrCreate(ctx context.Context, subjectID, email string) (*user.User, error) {
	return f.GetOrCreateFn(ctx, subjectID, email)
}
func (f *fakeUserRepo) SetRole(ctx context.Context, subjectID, role string) (*user.User, error) {
	return f.SetRoleFn(ctx, subjectID, role)
}

func newService(repo *fakeUserRepo) user.Service {
	return user.NewService(repo, auditlog.NopRecorder{}, zap.NewNop())
}

func TestUserService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("admin caller reads the user record", func(t *testing.T) {
		repo := &fakeUserRepo{
			FindBySubjectFn: func(_ context.Context, subjectID string) (*user.User, error) {
				assert.Equal(t, "uid-1", subjectID)
				return &user.User{
					SubjectID: "uid-1",
					Email:     "admin@example.com",
					Role:      caller.RoleAdmin,
					CreatedAt: time.Now().UTC(),
				}, nil
			},
		}

		resp, err := newService(repo).GetMe(ctx, caller.Caller{
			Kind: caller.KindAdmin, SubjectID: "uid-1", OwnerID: "uid-1",
		})

		assert.NoError(t, err)
		assert.Equal(t, "uid-1", resp.SubjectID)
		assert.Equal(t, "uid-1", resp.OwnerID)
		assert.Equal(t, caller.RoleAdmin, resp.Role)
	})

	t.Run("employee caller answers from the resolved identity", func(t *testing.T) {
		repo := &fakeUserRepo{
			FindBySubjectFn: func(context.Context, string) (*user.User, error) {
				t.Fatal("employee profile must not hit the user collection")
				return nil, nil
			},
		}

		resp, err := newService(repo).GetMe(ctx, caller.Caller{
			Kind:       caller.KindEmployee,
			SubjectID:  "uid-2",
			OwnerID:    "owner-1",
			Name:       "Jane",
			EmployeeID: "emp-1",
		})

		assert.NoError(t, err)
		assert.Equal(t, string(caller.KindEmployee), resp.Kind)
		assert.Equal(t, "owner-1", resp.OwnerID)
		assert.Equal(t, "emp-1", resp.EmployeeID)
	})

	t.Run("missing record maps to not found", func(t *testing.T) {
		repo := &fakeUserRepo{
			FindBySubjectFn: func(context.Context, string) (*user.User, error) {
				return nil, mongo.ErrNoDocuments
			},
		}

		_, err := newService(repo).GetMe(ctx, caller.Caller{Kind: caller.KindAdmin, SubjectID: "ghost"})

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}

func TestUserService_RegisterAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("promotes the caller", func(t *testing.T) {
		repo := &fakeUserRepo{
			SetRoleFn: func(_ context.Context, subjectID, role string) (*user.User, error) {
				assert.Equal(t, "uid-1", subjectID)
				assert.Equal(t, caller.RoleAdmin, role)
				return &user.User{SubjectID: "uid-1", Role: caller.RoleAdmin, CreatedAt: time.Now()}, nil
			},
		}

		resp, err := newService(repo).RegisterAdmin(ctx, caller.Caller{
			Kind: caller.KindAdmin, SubjectID: "uid-1", Role: caller.RoleStaff,
		})

		assert.NoError(t, err)
		assert.Equal(t, caller.RoleAdmin, resp.Role)
	})

	t.Run("employee caller rejected", func(t *testing.T) {
		repo := &fakeUserRepo{
			SetRoleFn: func(context.Context, string, string) (*user.User, error) {
				t.Fatal("an employee must never reach the role update")
				return nil, nil
			},
		}

		_, err := newService(repo).RegisterAdmin(ctx, caller.Caller{
			Kind: caller.KindEmployee, SubjectID: "uid-2",
		})

		assert.ErrorIs(t, err, usererrors.ErrNotAUser)
	})
}
