package training

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-traindesk/internal/auditlog"
	"go-traindesk/internal/caller"
	"go-traindesk/internal/employee"
	"go-traindesk/internal/events"
	"go-traindesk/internal/messaging/kafka"
	"go-traindesk/internal/shared/contextutil"
	trainingerrors "go-traindesk/internal/training/errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

//go:generate mockgen -source=training_service.go -destination=mock/training_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, ownerID string, req CreateVideoRequest) (VideoResponse, error)
	GetAll(ctx context.Context, ownerID string) ([]VideoResponse, error)
	GetByID(ctx context.Context, ownerID, id string) (VideoResponse, error)
	Delete(ctx context.Context, ownerID, id string) error
	MarkComplete(ctx context.Context, ownerID, id string) (VideoResponse, error)
	GetVisible(ctx context.Context, clr caller.Caller) ([]VideoResponse, error)
	Complete(ctx context.Context, clr caller.Caller, id string) (VideoResponse, error)
}

type service struct {
	repo         Repository
	employeeRepo employee.Repository
	publisher    kafka.Publisher
	audit        auditlog.Recorder
	logger       *zap.Logger
}

func NewService(
	repo Repository,
	employeeRepo employee.Repository,
	publisher kafka.Publisher,
	audit auditlog.Recorder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("training.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("training.service")
	}
	return &service{
		repo:         repo,
		employeeRepo: employeeRepo,
		publisher:    publisher,
		audit:        audit,
		logger:       l,
	}
}

func (s *service) Create(ctx context.Context, ownerID string, req CreateVideoRequest) (VideoResponse, error) {
	s.logger.Debug("create training video requested",
		zap.String("owner_id", ownerID),
		zap.String("title", req.Title),
	)

	assigned := dedupe(req.AssignedEmployees)
	if len(assigned) > 0 {
		count, err := s.employeeRepo.CountSubjectsByOwner(ctx, ownerID, assigned)
		if err != nil {
			return VideoResponse{}, err
		}
		if count != int64(len(assigned)) {
			return VideoResponse{}, trainingerrors.ErrAssigneeNotOwned
		}
	}

	doc := &Video{
		ID:                uuid.NewString(),
		OwnerID:           ownerID,
		Title:             req.Title,
		Description:       req.Description,
		MediaURL:          req.MediaURL,
		ThumbnailURL:      req.ThumbnailURL,
		AssignedEmployees: assigned,
		Status:            StatusActive,
		CompletedBy:       []string{},
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		s.logger.Error("create training video persist failed", zap.Error(err))
		return VideoResponse{}, mapRepositoryError(err)
	}

	s.audit.Record(ctx, ownerID, auditlog.TypeTraining,
		fmt.Sprintf("training video %q created", doc.Title))
	s.logger.Info("create training video success", zap.String("video_id", doc.ID))

	return mapToResponse(*doc), nil
}

func (s *service) GetAll(ctx context.Context, ownerID string) ([]VideoResponse, error) {
	videos, err := s.repo.FindAllByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("get all training videos failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(videos), nil
}

func (s *service) GetByID(ctx context.Context, ownerID, id string) (VideoResponse, error) {
	doc, err := s.repo.FindByIDAndOwner(ctx, ownerID, id)
	if err != nil {
		return VideoResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*doc), nil
}

func (s *service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		s.logger.Error("delete training video failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	s.audit.Record(ctx, ownerID, auditlog.TypeTraining,
		fmt.Sprintf("training video %s deleted", id))
	s.logger.Info("delete training video success", zap.String("video_id", id))
	return nil
}

// MarkComplete is the admin override: it forces the completed status without
// consulting the completion set. Marking an already-completed video returns
// the stored state unchanged.
func (s *service) MarkComplete(ctx context.Context, ownerID, id string) (VideoResponse, error) {
	doc, err := s.repo.MarkCompleted(ctx, ownerID, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either absent or already completed; the scoped read decides which.
		existing, findErr := s.repo.FindByIDAndOwner(ctx, ownerID, id)
		if findErr != nil {
			return VideoResponse{}, mapRepositoryError(findErr)
		}
		return mapToResponse(*existing), nil
	}
	if err != nil {
		s.logger.Error("mark training video complete failed", zap.Error(err))
		return VideoResponse{}, mapRepositoryError(err)
	}

	s.publishCompleted(ctx, *doc, "")
	s.audit.Record(ctx, ownerID, auditlog.TypeTraining,
		fmt.Sprintf("training video %q marked complete", doc.Title))
	s.logger.Info("mark training video complete success", zap.String("video_id", id))

	return mapToResponse(*doc), nil
}

func (s *service) GetVisible(ctx context.Context, clr caller.Caller) ([]VideoResponse, error) {
	videos, err := s.repo.FindVisible(ctx, clr.OwnerID, clr.SubjectID)
	if err != nil {
		s.logger.Error("get visible training videos failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(videos), nil
}

// Complete records the caller in completedBy and, when the completion set is
// satisfied, flips the video to completed. Repeat completions by the same
// subject are idempotent.
func (s *service) Complete(ctx context.Context, clr caller.Caller, id string) (VideoResponse, error) {
	s.logger.Debug("complete training video requested",
		zap.String("video_id", id),
		zap.String("subject_id", clr.SubjectID),
	)

	doc, err := s.repo.FindByIDAndOwner(ctx, clr.OwnerID, id)
	if err != nil {
		return VideoResponse{}, mapRepositoryError(err)
	}
	if !doc.Public() && !contains(doc.AssignedEmployees, clr.SubjectID) {
		// Hidden videos read the same as absent ones.
		return VideoResponse{}, trainingerrors.ErrVideoNotFound
	}

	doc, err = s.repo.AddCompletion(ctx, clr.OwnerID, id, clr.SubjectID)
	if err != nil {
		s.logger.Error("record training completion failed", zap.Error(err))
		return VideoResponse{}, mapRepositoryError(err)
	}

	if doc.Status == StatusActive && doc.CompletionSatisfied() {
		flipped, err := s.repo.MarkCompleted(ctx, clr.OwnerID, id)
		if errors.Is(err, mongo.ErrNoDocuments) {
			// A concurrent completion won the flip. Same outcome.
			doc.Status = StatusCompleted
		} else if err != nil {
			s.logger.Error("training status transition failed", zap.Error(err))
			return VideoResponse{}, mapRepositoryError(err)
		} else {
			doc = flipped
			s.publishCompleted(ctx, *doc, clr.SubjectID)
			s.audit.Record(ctx, clr.OwnerID, auditlog.TypeTraining,
				fmt.Sprintf("training video %q completed", doc.Title))
		}
	}

	s.logger.Info("complete training video success",
		zap.String("video_id", id),
		zap.String("subject_id", clr.SubjectID),
	)
	return mapToResponse(*doc), nil
}

func (s *service) publishCompleted(ctx context.Context, v Video, subjectID string) {
	s.publisher.Publish(ctx, events.Event{
		EventType:  events.TypeTrainingCompleted,
		RequestID:  contextutil.GetRequestID(ctx),
		OwnerID:    v.OwnerID,
		SubjectID:  subjectID,
		ResourceID: v.ID,
		Detail:     v.Title,
		OccurredAt: time.Now().UTC(),
	})
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return trainingerrors.ErrVideoNotFound
	}
	return err
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
