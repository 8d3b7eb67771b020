package auditlog

import (
	"context"

	"go-traindesk/internal/tenant"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:generate mockgen -source=auditlog_repo.go -destination=mock/auditlog_repo_mock.go -package=mock
type Repository interface {
	Append(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, ownerID string, limit int) ([]Entry, error)
}

type repository struct {
	col *mongo.Collection
}

func NewRepository(db *mongo.Database) Repository {
	return &repository{col: db.Collection("system_logs")}
}

func (r *repository) Append(ctx context.Context, entry Entry) error {
	_, err := r.col.InsertOne(ctx, entry)
	return err
}

func (r *repository) Recent(ctx context.Context, ownerID string, limit int) ([]Entry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, tenant.Scope(ownerID), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	entries := make([]Entry, 0, limit)
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
