package subscription_test

import (
	"context"
	"testing"
	"time"

	"go-traindesk/internal/auditlog"
	"go-traindesk/internal/subscription"
	subscriptionerrors "go-traindesk/internal/subscription/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakeSubscriptionRepo struct {
	docs map[string]*subscription.Subscription // keyed by order reference
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{docs: map[string]*subscription.Subscription{}}
}

func (f *fakeSubscriptionRepo) EnsureIndexes(context.Context) error { return nil }

func (f *fakeSubscriptionRepo) Create(_ context.Context, s *subscription.Subscription) error {
	f.docs[s.OrderReference] = s
	return nil
}

func (f *fakeSubscriptionRepo) FindLatestByUser(_ context.Context, userID string) (*subscription.Subscription, error) {
	var latest *subscription.Subscription
	for _, s := range f.docs {
		if s.UserID != userID {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, mongo.ErrNoDocuments
	}
	copy := *latest
	return &copy, nil
}

func (f *fakeSubscriptionRepo) FindByOrderReference(_ context.Context, orderRef string) (*subscription.Subscription, error) {
	s, ok := f.docs[orderRef]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copy := *s
	return &copy, nil
}

func (f *fakeSubscriptionRepo) Settle(_ context.Context, orderRef, status string, start, end *time.Time) (*subscription.Subscription, error) {
	s, ok := f.docs[orderRef]
	if !ok || s.Status != subscription.StatusPending {
		return nil, mongo.ErrNoDocuments
	}
	s.Status = status
	s.StartDate = start
	s.EndDate = end
	copy := *s
	return &copy, nil
}

type fakeGateway struct {
	available bool
	verifyOK  bool
	orders    int
}

func (f *fakeGateway) Available() bool { return f.available }
func (f *fakeGateway) CreateOrder(context.Context, string, string) (string, error) {
	f.orders++
	return "order-1", nil
}
func (f *fakeGateway) VerifySignature(string, string, string) bool { return f.verifyOK }

func newService(repo subscription.Repository, gw subscription.PaymentGateway) subscription.Service {
	return subscription.NewService(repo, gw, auditlog.NopRecorder{}, zap.NewNop())
}

func TestSubscriptionService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := newFakeSubscriptionRepo()
		gw := &fakeGateway{available: true}

		resp, err := newService(repo, gw).CreateOrder(ctx, "user-1", subscription.CreateOrderRequest{PlanID: "monthly"})

		assert.NoError(t, err)
		assert.Equal(t, subscription.StatusPending, resp.Status)
		assert.Equal(t, "order-1", resp.OrderReference)
		assert.Equal(t, 1, gw.orders)
	})

	t.Run("gateway disabled", func(t *testing.T) {
		_, err := newService(newFakeSubscriptionRepo(), &fakeGateway{available: false}).
			CreateOrder(ctx, "user-1", subscription.CreateOrderRequest{PlanID: "monthly"})

		assert.ErrorIs(t, err, subscriptionerrors.ErrGatewayUnavailable)
	})

	t.Run("unknown plan rejected", func(t *testing.T) {
		_, err := newService(newFakeSubscriptionRepo(), &fakeGateway{available: true}).
			CreateOrder(ctx, "user-1", subscription.CreateOrderRequest{PlanID: "lifetime"})

		assert.ErrorIs(t, err, subscriptionerrors.ErrUnknownPlan)
	})
}

func TestSubscriptionService_HandleCallback(t *testing.T) {
	ctx := context.Background()

	pendingOrder := func(repo *fakeSubscriptionRepo) {
		repo.docs["order-1"] = &subscription.Subscription{
			ID:             "sub-1",
			UserID:         "user-1",
			PlanID:         "monthly",
			Status:         subscription.StatusPending,
			OrderReference: "order-1",
			CreatedAt:      time.Now().UTC(),
		}
	}

	t.Run("paid result activates with plan dates", func(t *testing.T) {
		repo := newFakeSubscriptionRepo()
		pendingOrder(repo)
		svc := newService(repo, &fakeGateway{available: true, verifyOK: true})

		resp, err := svc.HandleCallback(ctx, subscription.PaymentCallbackRequest{
			OrderReference: "order-1", PaymentID: "pay-1", Signature: "sig", Status: "paid",
		})

		require.NoError(t, err)
		assert.Equal(t, subscription.StatusActive, resp.Status)
		assert.NotEmpty(t, resp.StartDate)
		assert.NotEmpty(t, resp.EndDate)
	})

	t.Run("failed result cancels", func(t *testing.T) {
		repo := newFakeSubscriptionRepo()
		pendingOrder(repo)
		svc := newService(repo, &fakeGateway{available: true, verifyOK: true})

		resp, err := svc.HandleCallback(ctx, subscription.PaymentCallbackRequest{
			OrderReference: "order-1", PaymentID: "pay-1", Signature: "sig", Status: "failed",
		})

		require.NoError(t, err)
		assert.Equal(t, subscription.StatusCancelled, resp.Status)
		assert.Empty(t, resp.StartDate)
	})

	t.Run("redelivered callback returns the settled state unchanged", func(t *testing.T) {
		repo := newFakeSubscriptionRepo()
		pendingOrder(repo)
		svc := newService(repo, &fakeGateway{available: true, verifyOK: true})

		first, err := svc.HandleCallback(ctx, subscription.PaymentCallbackRequest{
			OrderReference: "order-1", PaymentID: "pay-1", Signature: "sig", Status: "paid",
		})
		require.NoError(t, err)

		second, err := svc.HandleCallback(ctx, subscription.PaymentCallbackRequest{
			OrderReference: "order-1", PaymentID: "pay-1", Signature: "sig", Status: "failed",
		})
		require.NoError(t, err)

		assert.Equal(t, subscription.StatusActive, second.Status, "a settled order never flips")
		assert.Equal(t, first.EndDate, second.EndDate)
	})

	t.Run("bad signature rejected", func(t *testing.T) {
		repo := newFakeSubscriptionRepo()
		pendingOrder(repo)
		svc := newService(repo, &fakeGateway{available: true, verifyOK: false})

		_, err := svc.HandleCallback(ctx, subscription.PaymentCallbackRequest{
			OrderReference: "order-1", PaymentID: "pay-1", Signature: "forged", Status: "paid",
		})

		assert.ErrorIs(t, err, subscriptionerrors.ErrBadSignature)
		assert.Equal(t, subscription.StatusPending, repo.docs["order-1"].Status)
	})

	t.Run("unknown order reads as not found", func(t *testing.T) {
		svc := newService(newFakeSubscriptionRepo(), &fakeGateway{available: true, verifyOK: true})

		_, err := svc.HandleCallback(ctx, subscription.PaymentCallbackRequest{
			OrderReference: "ghost", PaymentID: "pay-1", Signature: "sig", Status: "paid",
		})

		assert.ErrorIs(t, err, subscriptionerrors.ErrSubscriptionNotFound)
	})
}

func TestSubscriptionService_GetMine(t *testing.T) {
	ctx := context.Background()

	t.Run("expired subscription reads as expired", func(t *testing.T) {
		repo := newFakeSubscriptionRepo()
		start := time.Now().UTC().Add(-40 * 24 * time.Hour)
		end := start.Add(30 * 24 * time.Hour)
		repo.docs["order-1"] = &subscription.Subscription{
			ID: "sub-1", UserID: "user-1", PlanID: "monthly",
			Status: subscription.StatusActive, StartDate: &start, EndDate: &end,
			OrderReference: "order-1", CreatedAt: start,
		}

		resp, err := newService(repo, &fakeGateway{available: true}).GetMine(ctx, "user-1")

		assert.NoError(t, err)
		assert.Equal(t, subscription.StatusExpired, resp.Status)
	})

	t.Run("no subscription reads as not found", func(t *testing.T) {
		_, err := newService(newFakeSubscriptionRepo(), &fakeGateway{}).GetMine(ctx, "user-1")

		assert.ErrorIs(t, err, subscriptionerrors.ErrSubscriptionNotFound)
	})
}

func TestHMACGateway_VerifySignature(t *testing.T) {
	gw := subscription.NewGateway("client-1", "top-secret")

	orderRef, err := gw.CreateOrder(context.Background(), "user-1", "monthly")
	assert.NoError(t, err)
	assert.NotEmpty(t, orderRef)

	assert.False(t, gw.VerifySignature(orderRef, "pay-1", "forged"))
}
