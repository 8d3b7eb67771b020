package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-traindesk/internal/auditlog"
	subscriptionerrors "go-traindesk/internal/subscription/errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

//go:generate mockgen -source=subscription_service.go -destination=mock/subscription_service_mock.go -package=mock
type Service interface {
	CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (SubscriptionResponse, error)
	GetMine(ctx context.Context, userID string) (SubscriptionResponse, error)
	HandleCallback(ctx context.Context, req PaymentCallbackRequest) (SubscriptionResponse, error)
}

type service struct {
	repo    Repository
	gateway PaymentGateway
	audit   auditlog.Recorder
	logger  *zap.Logger
}

func NewService(
	repo Repository,
	gateway PaymentGateway,
	audit auditlog.Recorder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("subscription.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("subscription.service")
	}
	return &service{
		repo:    repo,
		gateway: gateway,
		audit:   audit,
		logger:  l,
	}
}

func (s *service) CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (SubscriptionResponse, error) {
	s.logger.Debug("create order requested",
		zap.String("user_id", userID),
		zap.String("plan_id", req.PlanID),
	)

	if !s.gateway.Available() {
		return SubscriptionResponse{}, subscriptionerrors.ErrGatewayUnavailable
	}
	if !ValidPlan(req.PlanID) {
		return SubscriptionResponse{}, subscriptionerrors.ErrUnknownPlan
	}

	orderRef, err := s.gateway.CreateOrder(ctx, userID, req.PlanID)
	if err != nil {
		s.logger.Error("gateway order creation failed", zap.Error(err))
		return SubscriptionResponse{}, subscriptionerrors.ErrGatewayUnavailable
	}

	doc := &Subscription{
		ID:             uuid.NewString(),
		UserID:         userID,
		PlanID:         req.PlanID,
		Status:         StatusPending,
		OrderReference: orderRef,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		s.logger.Error("subscription persist failed", zap.Error(err))
		return SubscriptionResponse{}, err
	}

	s.audit.Record(ctx, userID, auditlog.TypeBilling,
		fmt.Sprintf("subscription order %s created for plan %s", orderRef, req.PlanID))
	s.logger.Info("create order success", zap.String("order_reference", orderRef))

	return mapToResponse(*doc), nil
}

func (s *service) GetMine(ctx context.Context, userID string) (SubscriptionResponse, error) {
	doc, err := s.repo.FindLatestByUser(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return SubscriptionResponse{}, subscriptionerrors.ErrSubscriptionNotFound
	}
	if err != nil {
		return SubscriptionResponse{}, err
	}

	// Lazy expiry on read.
	if doc.Status == StatusActive && doc.EndDate != nil && doc.EndDate.Before(time.Now().UTC()) {
		doc.Status = StatusExpired
	}
	return mapToResponse(*doc), nil
}

// HandleCallback applies a gateway-signed payment result. The callback
// carries no bearer credential; the signature is the authentication.
func (s *service) HandleCallback(ctx context.Context, req PaymentCallbackRequest) (SubscriptionResponse, error) {
	s.logger.Debug("payment callback received",
		zap.String("order_reference", req.OrderReference),
		zap.String("status", req.Status),
	)

	if !s.gateway.Available() {
		return SubscriptionResponse{}, subscriptionerrors.ErrGatewayUnavailable
	}
	if !s.gateway.VerifySignature(req.OrderReference, req.PaymentID, req.Signature) {
		s.logger.Warn("payment callback rejected",
			zap.String("order_reference", req.OrderReference),
		)
		return SubscriptionResponse{}, subscriptionerrors.ErrBadSignature
	}

	existing, err := s.repo.FindByOrderReference(ctx, req.OrderReference)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return SubscriptionResponse{}, subscriptionerrors.ErrSubscriptionNotFound
	}
	if err != nil {
		return SubscriptionResponse{}, err
	}
	if existing.Status != StatusPending {
		// Redelivered callback. The order has already settled.
		return mapToResponse(*existing), nil
	}

	var doc *Subscription
	if req.Status == "paid" {
		start := time.Now().UTC()
		end := start.Add(planDurations[existing.PlanID])
		doc, err = s.repo.Settle(ctx, req.OrderReference, StatusActive, &start, &end)
	} else {
		doc, err = s.repo.Settle(ctx, req.OrderReference, StatusCancelled, nil, nil)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Lost the settle race to a concurrent delivery.
		settled, findErr := s.repo.FindByOrderReference(ctx, req.OrderReference)
		if findErr != nil {
			return SubscriptionResponse{}, findErr
		}
		return mapToResponse(*settled), nil
	}
	if err != nil {
		s.logger.Error("subscription settle failed", zap.Error(err))
		return SubscriptionResponse{}, err
	}

	s.audit.Record(ctx, doc.UserID, auditlog.TypeBilling,
		fmt.Sprintf("subscription order %s settled as %s", doc.OrderReference, doc.Status))
	s.logger.Info("payment callback applied",
		zap.String("order_reference", doc.OrderReference),
		zap.String("status", doc.Status),
	)

	return mapToResponse(*doc), nil
}
