package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-traindesk/internal/auditlog"
	"go-traindesk/internal/caller"
	usererrors "go-traindesk/internal/user/errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetMe(ctx context.Context, clr caller.Caller) (ProfileResponse, error)
	RegisterAdmin(ctx context.Context, clr caller.Caller) (ProfileResponse, error)
}

type service struct {
	repo   Repository
	audit  auditlog.Recorder
	logger *zap.Logger
}

func NewService(repo Repository, audit auditlog.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, audit: audit, logger: l}
}

func (s *service) GetMe(ctx context.Context, clr caller.Caller) (ProfileResponse, error) {
	if clr.IsEmployee() {
		// Employee identity took precedence at resolution; the caller carries
		// the full profile already.
		return ProfileResponse{
			Kind:       string(clr.Kind),
			SubjectID:  clr.SubjectID,
			OwnerID:    clr.OwnerID,
			Email:      clr.Email,
			Role:       clr.Role,
			Name:       clr.Name,
			EmployeeID: clr.EmployeeID,
		}, nil
	}

	u, err := s.repo.FindBySubject(ctx, clr.SubjectID)
	if err != nil {
		s.logger.Error("get me failed", zap.Error(err))
		return ProfileResponse{}, mapRepositoryError(err)
	}
	return mapToProfile(u), nil
}

// RegisterAdmin promotes the authenticated caller's user record to admin.
// Promotion is trust-on-first-use and audited as a privileged action.
func (s *service) RegisterAdmin(ctx context.Context, clr caller.Caller) (ProfileResponse, error) {
	if clr.IsEmployee() {
		s.logger.Warn("employee attempted admin registration",
			zap.String("subject_id", clr.SubjectID),
		)
		return ProfileResponse{}, usererrors.ErrNotAUser
	}

	u, err := s.repo.SetRole(ctx, clr.SubjectID, caller.RoleAdmin)
	if err != nil {
		s.logger.Error("register admin failed", zap.Error(err))
		return ProfileResponse{}, mapRepositoryError(err)
	}

	s.audit.Record(ctx, u.SubjectID, auditlog.TypeAuth,
		fmt.Sprintf("user %s promoted to admin", u.Email))
	s.logger.Info("register admin success", zap.String("subject_id", u.SubjectID))

	return mapToProfile(u), nil
}

func mapToProfile(u *User) ProfileResponse {
	return ProfileResponse{
		Kind:      string(caller.KindAdmin),
		SubjectID: u.SubjectID,
		OwnerID:   u.SubjectID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return usererrors.ErrUserNotFound
	}
	return err
}
