package employee

import (
	"context"
	"fmt"
	"time"

	"go-traindesk/internal/auditlog"
	employeeerrors "go-traindesk/internal/employee/errors"
	"go-traindesk/internal/events"
	"go-traindesk/internal/identity"
	"go-traindesk/internal/messaging/kafka"
	"go-traindesk/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, ownerID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, ownerID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, ownerID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, ownerID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type service struct {
	repo      Repository
	idAdmin   identity.Admin
	publisher kafka.Publisher
	audit     auditlog.Recorder
	logger    *zap.Logger
}

func NewService(
	repo Repository,
	idAdmin identity.Admin,
	publisher kafka.Publisher,
	audit auditlog.Recorder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		repo:      repo,
		idAdmin:   idAdmin,
		publisher: publisher,
		audit:     audit,
		logger:    l,
	}
}

func (s *service) Create(
	ctx context.Context,
	ownerID string,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("owner_id", ownerID),
		zap.String("email", req.Email),
	)

	role := req.Role
	if role == "" {
		role = RoleStaff
	}

	subjectID := req.SubjectID
	if subjectID == "" {
		subjectID = s.provisionSubject(ctx, req.Email)
	}

	empl := &Employee{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		SubjectID:  subjectID,
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Role:       role,
		Status:     StatusActive,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.publisher.Publish(ctx, events.Event{
		EventType:  events.TypeEmployeeCreated,
		RequestID:  rid,
		OwnerID:    ownerID,
		SubjectID:  empl.SubjectID,
		ResourceID: empl.ID,
		Detail:     empl.Email,
		OccurredAt: time.Now().UTC(),
	})
	s.audit.Record(ctx, ownerID, auditlog.TypeEmployee,
		fmt.Sprintf("employee %s created", empl.Email))

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID),
	)

	return mapToResponse(*empl), nil
}

// provisionSubject resolves the provider uid for a new employee through the
// managed identity API. Without the admin credential (or when the provider
// rejects the call) the email itself becomes the subject key, which the
// resolver accepts as a fallback match.
func (s *service) provisionSubject(ctx context.Context, email string) string {
	if !s.idAdmin.Available() {
		return email
	}

	if managed, err := s.idAdmin.LookupUser(ctx, email); err == nil {
		return managed.LocalID
	}

	managed, err := s.idAdmin.CreateUser(ctx, email, uuid.NewString())
	if err != nil {
		s.logger.Warn("managed identity provisioning failed, falling back to email subject",
			zap.String("email", email),
			zap.Error(err),
		)
		return email
	}
	return managed.LocalID
}

func (s *service) GetAll(ctx context.Context, ownerID string) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested", zap.String("owner_id", ownerID))

	empls, err := s.repo.FindAllByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(empls), nil
}

func (s *service) GetByID(ctx context.Context, ownerID, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested",
		zap.String("owner_id", ownerID),
		zap.String("employee_id", id),
	)

	empl, err := s.repo.FindByIDAndOwner(ctx, ownerID, id)
	if err != nil {
		s.logger.Error("get employee by id failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(
	ctx context.Context,
	ownerID, id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested",
		zap.String("owner_id", ownerID),
		zap.String("employee_id", id),
	)

	if req.Empty() {
		return EmployeeResponse{}, employeeerrors.ErrEmptyPatch
	}

	patch := bson.M{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Department != nil {
		patch["department"] = *req.Department
	}
	if req.Role != nil {
		patch["role"] = *req.Role
	}
	if req.Status != nil {
		patch["status"] = *req.Status
	}

	empl, err := s.repo.Update(ctx, ownerID, id, patch)
	if err != nil {
		s.logger.Error("update employee failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("update employee success", zap.String("employee_id", id))
	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, ownerID, id string) error {
	s.logger.Debug("delete employee requested",
		zap.String("owner_id", ownerID),
		zap.String("employee_id", id),
	)

	empl, err := s.repo.FindByIDAndOwner(ctx, ownerID, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	// Best-effort provider cleanup: the local record is already gone and the
	// delete must not fail on it.
	if s.idAdmin.Available() && empl.SubjectID != empl.Email {
		if err := s.idAdmin.DeleteUser(ctx, empl.SubjectID); err != nil {
			s.logger.Warn("managed identity cleanup failed",
				zap.String("subject_id", empl.SubjectID),
				zap.Error(err),
			)
		}
	}

	s.audit.Record(ctx, ownerID, auditlog.TypeEmployee,
		fmt.Sprintf("employee %s deleted", empl.Email))
	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         empl.ID,
		OwnerID:    empl.OwnerID,
		SubjectID:  empl.SubjectID,
		Name:       empl.Name,
		Email:      empl.Email,
		Department: empl.Department,
		Role:       empl.Role,
		Status:     empl.Status,
		CreatedAt:  empl.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}
