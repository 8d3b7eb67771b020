package subscription

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:generate mockgen -source=subscription_repo.go -destination=mock/subscription_repo_mock.go -package=mock
type Repository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, s *Subscription) error
	FindLatestByUser(ctx context.Context, userID string) (*Subscription, error)
	FindByOrderReference(ctx context.Context, orderRef string) (*Subscription, error)
	Settle(ctx context.Context, orderRef, status string, start, end *time.Time) (*Subscription, error)
}

type repository struct {
	col *mongo.Collection
}

func NewRepository(db *mongo.Database) Repository {
	return &repository{col: db.Collection("subscriptions")}
}

func (r *repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{
			Keys:    bson.D{{Key: "orderReference", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

func (r *repository) Create(ctx context.Context, s *Subscription) error {
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *repository) FindLatestByUser(ctx context.Context, userID string) (*Subscription, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var s Subscription
	err := r.col.FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindByOrderReference(ctx context.Context, orderRef string) (*Subscription, error) {
	var s Subscription
	err := r.col.FindOne(ctx, bson.M{"orderReference": orderRef}).Decode(&s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Settle resolves a pending order in one write. The status filter makes the
// callback idempotent: a redelivered result finds no pending document.
func (r *repository) Settle(ctx context.Context, orderRef, status string, start, end *time.Time) (*Subscription, error) {
	set := bson.M{"status": status}
	if start != nil {
		set["startDate"] = start
	}
	if end != nil {
		set["endDate"] = end
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var s Subscription
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"orderReference": orderRef, "status": StatusPending},
		bson.M{"$set": set},
		opts,
	).Decode(&s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
