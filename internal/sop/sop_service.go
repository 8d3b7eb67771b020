package sop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-traindesk/internal/auditlog"
	"go-traindesk/internal/caller"
	"go-traindesk/internal/certificate"
	"go-traindesk/internal/employee"
	"go-traindesk/internal/events"
	"go-traindesk/internal/messaging/kafka"
	"go-traindesk/internal/shared/contextutil"
	soperrors "go-traindesk/internal/sop/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const recentCacheKeyPrefix = "sops:recent:"

func recentCacheKey(ownerID string) string {
	return recentCacheKeyPrefix + ownerID
}

//go:generate mockgen -source=sop_service.go -destination=mock/sop_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, ownerID string, req CreateSOPRequest) (SOPResponse, error)
	GetAll(ctx context.Context, ownerID string) ([]SOPResponse, error)
	GetRecent(ctx context.Context, ownerID string) ([]SOPResponse, error)
	GetByID(ctx context.Context, ownerID, id string) (SOPResponse, error)
	Update(ctx context.Context, ownerID, id string, req UpdateSOPRequest) (SOPResponse, error)
	Clear(ctx context.Context, ownerID, id string) (SOPResponse, error)
	Delete(ctx context.Context, ownerID, id string) error
	GetAssigned(ctx context.Context, clr caller.Caller) ([]SOPResponse, error)
	Complete(ctx context.Context, clr caller.Caller, sopID string) (ProgressResponse, error)
	GetProgress(ctx context.Context, clr caller.Caller, sopID string) (ProgressResponse, error)
}

type service struct {
	repo         Repository
	progress     ProgressRepository
	employeeRepo employee.Repository
	certs        certificate.Generator
	publisher    kafka.Publisher
	audit        auditlog.Recorder
	rdb          *redis.Client
	sf           *singleflight.Group
	logger       *zap.Logger
}

func NewService(
	repo Repository,
	progress ProgressRepository,
	employeeRepo employee.Repository,
	certs certificate.Generator,
	publisher kafka.Publisher,
	audit auditlog.Recorder,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("sop.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("sop.service")
	}
	return &service{
		repo:         repo,
		progress:     progress,
		employeeRepo: employeeRepo,
		certs:        certs,
		publisher:    publisher,
		audit:        audit,
		rdb:          rdb,
		sf:           &singleflight.Group{},
		logger:       l,
	}
}

func (s *service) Create(ctx context.Context, ownerID string, req CreateSOPRequest) (SOPResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create sop requested",
		zap.String("request_id", rid),
		zap.String("owner_id", ownerID),
		zap.String("title", req.Title),
	)

	assigned := dedupe(req.AssignedTo)
	if err := s.validateAssignees(ctx, ownerID, assigned); err != nil {
		return SOPResponse{}, err
	}

	now := time.Now().UTC()
	doc := &SOP{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Title:      req.Title,
		Department: req.Department,
		Content:    req.Content,
		AssignedTo: assigned,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		s.logger.Error("create sop persist failed", zap.Error(err))
		return SOPResponse{}, mapRepositoryError(err)
	}

	s.invalidateRecent(ctx, ownerID)
	s.audit.Record(ctx, ownerID, auditlog.TypeSOP, fmt.Sprintf("sop %q created", doc.Title))
	s.logger.Info("create sop success", zap.String("sop_id", doc.ID))

	return mapToResponse(*doc), nil
}

func (s *service) GetAll(ctx context.Context, ownerID string) ([]SOPResponse, error) {
	sops, err := s.repo.FindAllByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("get all sops failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(sops), nil
}

// GetRecent serves the dashboard's top-3 from Redis when possible.
// Singleflight collapses a stampede of misses into one store query.
func (s *service) GetRecent(ctx context.Context, ownerID string) ([]SOPResponse, error) {
	cacheKey := recentCacheKey(ownerID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []SOPResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		sops, err := s.repo.FindRecentByOwner(ctx, ownerID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(sops)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, string(jsonData), 10*time.Minute)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]SOPResponse), nil
}

func (s *service) GetByID(ctx context.Context, ownerID, id string) (SOPResponse, error) {
	doc, err := s.repo.FindByIDAndOwner(ctx, ownerID, id)
	if err != nil {
		s.logger.Error("get sop by id failed", zap.Error(err))
		return SOPResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*doc), nil
}

func (s *service) Update(ctx context.Context, ownerID, id string, req UpdateSOPRequest) (SOPResponse, error) {
	s.logger.Debug("update sop requested",
		zap.String("owner_id", ownerID),
		zap.String("sop_id", id),
	)

	if req.Empty() {
		return SOPResponse{}, soperrors.ErrEmptyPatch
	}

	patch := bson.M{}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.Department != nil {
		patch["department"] = *req.Department
	}
	if req.Content != nil {
		patch["content"] = *req.Content
	}
	if req.AssignedTo != nil {
		assigned := dedupe(*req.AssignedTo)
		if err := s.validateAssignees(ctx, ownerID, assigned); err != nil {
			return SOPResponse{}, err
		}
		patch["assignedTo"] = assigned
	}

	doc, err := s.repo.Update(ctx, ownerID, id, patch)
	if err != nil {
		s.logger.Error("update sop failed", zap.Error(err))
		return SOPResponse{}, mapRepositoryError(err)
	}

	s.invalidateRecent(ctx, ownerID)
	s.logger.Info("update sop success", zap.String("sop_id", id))
	return mapToResponse(*doc), nil
}

// Clear empties the content field without deleting the record.
func (s *service) Clear(ctx context.Context, ownerID, id string) (SOPResponse, error) {
	doc, err := s.repo.Update(ctx, ownerID, id, bson.M{"content": ""})
	if err != nil {
		s.logger.Error("clear sop failed", zap.Error(err))
		return SOPResponse{}, mapRepositoryError(err)
	}

	s.invalidateRecent(ctx, ownerID)
	s.audit.Record(ctx, ownerID, auditlog.TypeSOP, fmt.Sprintf("sop %q cleared", doc.Title))
	return mapToResponse(*doc), nil
}

func (s *service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		s.logger.Error("delete sop failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	s.invalidateRecent(ctx, ownerID)
	s.audit.Record(ctx, ownerID, auditlog.TypeSOP, fmt.Sprintf("sop %s deleted", id))
	s.logger.Info("delete sop success", zap.String("sop_id", id))
	return nil
}

// GetAssigned lists the SOPs visible to an employee caller: only documents
// in their owner's tenant that reference their subject id.
func (s *service) GetAssigned(ctx context.Context, clr caller.Caller) ([]SOPResponse, error) {
	sops, err := s.repo.FindAssigned(ctx, clr.OwnerID, clr.SubjectID)
	if err != nil {
		s.logger.Error("get assigned sops failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(sops), nil
}

// Complete finishes the caller's progress on an assigned SOP. The storage
// claim guarantees at most one certificate generation per (employee, SOP)
// pair even under concurrent duplicate requests.
func (s *service) Complete(ctx context.Context, clr caller.Caller, sopID string) (ProgressResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("complete sop requested",
		zap.String("request_id", rid),
		zap.String("sop_id", sopID),
		zap.String("subject_id", clr.SubjectID),
	)

	doc, err := s.repo.FindByIDAndOwner(ctx, clr.OwnerID, sopID)
	if err != nil {
		return ProgressResponse{}, mapRepositoryError(err)
	}
	if !contains(doc.AssignedTo, clr.SubjectID) {
		// Not assigned reads the same as absent.
		return ProgressResponse{}, soperrors.ErrSOPNotFound
	}

	won, prog, err := s.progress.Claim(ctx, clr.OwnerID, clr.SubjectID, sopID)
	if err != nil {
		s.logger.Error("progress claim failed", zap.Error(err))
		return ProgressResponse{}, mapRepositoryError(err)
	}
	if !won {
		// Already completed: same certificate, no regeneration.
		return mapToProgressResponse(*prog), nil
	}

	certURL, err := s.certs.Generate(ctx, clr.Name, doc.Title)
	if err != nil {
		// Give the claim back so a retry can complete properly.
		if relErr := s.progress.Release(ctx, prog.ID); relErr != nil {
			s.logger.Error("progress release failed", zap.Error(relErr))
		}
		s.logger.Error("certificate generation failed", zap.Error(err))
		return ProgressResponse{}, err
	}

	prog, err = s.progress.SetCertificate(ctx, prog.ID, certURL)
	if err != nil {
		s.logger.Error("certificate persist failed", zap.Error(err))
		return ProgressResponse{}, mapRepositoryError(err)
	}

	s.publisher.Publish(ctx, events.Event{
		EventType:  events.TypeSOPCompleted,
		RequestID:  rid,
		OwnerID:    clr.OwnerID,
		SubjectID:  clr.SubjectID,
		ResourceID: sopID,
		Detail:     doc.Title,
		OccurredAt: time.Now().UTC(),
	})
	s.audit.Record(ctx, clr.OwnerID, auditlog.TypeSOP,
		fmt.Sprintf("sop %q completed by %s", doc.Title, clr.SubjectID))
	s.logger.Info("complete sop success",
		zap.String("sop_id", sopID),
		zap.String("subject_id", clr.SubjectID),
	)

	return mapToProgressResponse(*prog), nil
}

func (s *service) GetProgress(ctx context.Context, clr caller.Caller, sopID string) (ProgressResponse, error) {
	// The ownership check rides on the scoped SOP lookup.
	if _, err := s.repo.FindByIDAndOwner(ctx, clr.OwnerID, sopID); err != nil {
		return ProgressResponse{}, mapRepositoryError(err)
	}

	prog, err := s.progress.Find(ctx, clr.SubjectID, sopID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ProgressResponse{SOPID: sopID, EmployeeID: clr.SubjectID, Completed: false}, nil
	}
	if err != nil {
		return ProgressResponse{}, mapRepositoryError(err)
	}
	return mapToProgressResponse(*prog), nil
}

func (s *service) validateAssignees(ctx context.Context, ownerID string, assigned []string) error {
	if len(assigned) == 0 {
		return nil
	}
	count, err := s.employeeRepo.CountSubjectsByOwner(ctx, ownerID, assigned)
	if err != nil {
		return err
	}
	if count != int64(len(assigned)) {
		return soperrors.ErrAssigneeNotOwned
	}
	return nil
}

func (s *service) invalidateRecent(ctx context.Context, ownerID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, recentCacheKey(ownerID)).Err(); err != nil {
		s.logger.Warn("recent cache invalidation failed",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
	}
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return soperrors.ErrSOPNotFound
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
