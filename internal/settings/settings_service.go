package settings

import (
	"context"

	"go-traindesk/internal/auditlog"
	"go-traindesk/internal/employee"
	settingserrors "go-traindesk/internal/settings/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

//go:generate mockgen -source=settings_service.go -destination=mock/settings_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context, ownerID string) (Settings, error)
	Update(ctx context.Context, ownerID string, req UpdateSettingsRequest) (Settings, error)
}

type service struct {
	repo   Repository
	audit  auditlog.Recorder
	logger *zap.Logger
}

func NewService(repo Repository, audit auditlog.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("settings.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("settings.service")
	}
	return &service{repo: repo, audit: audit, logger: l}
}

func (s *service) Get(ctx context.Context, ownerID string) (Settings, error) {
	doc, err := s.repo.GetOrCreate(ctx, ownerID)
	if err != nil {
		s.logger.Error("get settings failed", zap.Error(err))
		return Settings{}, err
	}
	return *doc, nil
}

func (s *service) Update(ctx context.Context, ownerID string, req UpdateSettingsRequest) (Settings, error) {
	if req.Empty() {
		return Settings{}, settingserrors.ErrEmptyPatch
	}

	patch := bson.M{}
	if req.Websocket != nil {
		patch["websocket"] = *req.Websocket
	}
	if req.Notifications != nil {
		patch["notifications"] = *req.Notifications
	}
	if req.Workflows != nil {
		patch["workflows"] = *req.Workflows
	}
	if req.Employees != nil {
		if !employee.ValidRole(req.Employees.DefaultRole) {
			return Settings{}, settingserrors.ErrInvalidDefaultRole
		}
		patch["employees"] = *req.Employees
	}

	doc, err := s.repo.Patch(ctx, ownerID, patch)
	if err != nil {
		s.logger.Error("update settings failed", zap.Error(err))
		return Settings{}, err
	}

	s.audit.Record(ctx, ownerID, auditlog.TypeSystem, "system settings updated")
	s.logger.Info("update settings success", zap.String("owner_id", ownerID))
	return *doc, nil
}
