package stats

import (
	"context"

	"go-traindesk/internal/employee"
	"go-traindesk/internal/sop"
	"go-traindesk/internal/training"

	"go.uber.org/zap"
)

type Overview struct {
	Employees          int64 `json:"employees"`
	ActiveTrainings    int64 `json:"active_trainings"`
	CompletedTrainings int64 `json:"completed_trainings"`
	SOPs               int64 `json:"sops"`
	PendingSOPs        int64 `json:"pending_sops"`
}

//go:generate mockgen -source=stats_service.go -destination=mock/stats_service_mock.go -package=mock
type Service interface {
	Overview(ctx context.Context, ownerID string) (Overview, error)
}

type service struct {
	employees employee.Repository
	trainings training.Repository
	sops      sop.Repository
	progress  sop.ProgressRepository
	logger    *zap.Logger
}

func NewService(
	employees employee.Repository,
	trainings training.Repository,
	sops sop.Repository,
	progress sop.ProgressRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("stats.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("stats.service")
	}
	return &service{
		employees: employees,
		trainings: trainings,
		sops:      sops,
		progress:  progress,
		logger:    l,
	}
}

// Overview recomputes live counts per request. No caching: the dashboard
// tolerates the extra reads, stale numbers it does not.
func (s *service) Overview(ctx context.Context, ownerID string) (Overview, error) {
	employees, err := s.employees.CountByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("employee count failed", zap.Error(err))
		return Overview{}, err
	}

	active, err := s.trainings.CountByOwnerAndStatus(ctx, ownerID, training.StatusActive)
	if err != nil {
		s.logger.Error("active training count failed", zap.Error(err))
		return Overview{}, err
	}

	completed, err := s.trainings.CountByOwnerAndStatus(ctx, ownerID, training.StatusCompleted)
	if err != nil {
		s.logger.Error("completed training count failed", zap.Error(err))
		return Overview{}, err
	}

	sops, err := s.sops.CountByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("sop count failed", zap.Error(err))
		return Overview{}, err
	}

	completedProgress, err := s.progress.CountCompletedByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("completed progress count failed", zap.Error(err))
		return Overview{}, err
	}

	pending := sops - completedProgress
	if pending < 0 {
		pending = 0
	}

	return Overview{
		Employees:          employees,
		ActiveTrainings:    active,
		CompletedTrainings: completed,
		SOPs:               sops,
		PendingSOPs:        pending,
	}, nil
}
