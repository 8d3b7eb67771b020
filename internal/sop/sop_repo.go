package sop

import (
	"context"
	"time"

	"go-traindesk/internal/tenant"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecentLimit bounds the fixed "recent" listing.
const RecentLimit = 3

//go:generate mockgen -source=sop_repo.go -destination=mock/sop_repo_mock.go -package=mock
type Repository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, s *SOP) error
	FindAllByOwner(ctx context.Context, ownerID string) ([]SOP, error)
	FindRecentByOwner(ctx context.Context, ownerID string) ([]SOP, error)
	FindByIDAndOwner(ctx context.Context, ownerID, id string) (*SOP, error)
	FindAssigned(ctx context.Context, ownerID, subjectID string) ([]SOP, error)
	Update(ctx context.Context, ownerID, id string, patch bson.M) (*SOP, error)
	Delete(ctx context.Context, ownerID, id string) error
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}

type repository struct {
	col *mongo.Collection
}

func NewRepository(db *mongo.Database) Repository {
	return &repository{col: db.Collection("sops")}
}

func (r *repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "updatedAt", Value: -1}}},
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "assignedTo", Value: 1}}},
	})
	return err
}

func (r *repository) Create(ctx context.Context, s *SOP) error {
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *repository) FindAllByOwner(ctx context.Context, ownerID string) ([]SOP, error) {
	return r.find(ctx, tenant.Scope(ownerID), 0)
}

func (r *repository) FindRecentByOwner(ctx context.Context, ownerID string) ([]SOP, error) {
	return r.find(ctx, tenant.Scope(ownerID), RecentLimit)
}

func (r *repository) FindAssigned(ctx context.Context, ownerID, subjectID string) ([]SOP, error) {
	filter := tenant.Scope(ownerID)
	filter["assignedTo"] = subjectID
	return r.find(ctx, filter, 0)
}

func (r *repository) find(ctx context.Context, filter bson.M, limit int64) ([]SOP, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sops []SOP
	if err := cur.All(ctx, &sops); err != nil {
		return nil, err
	}
	return sops, nil
}

func (r *repository) FindByIDAndOwner(ctx context.Context, ownerID, id string) (*SOP, error) {
	var s SOP
	err := r.col.FindOne(ctx, tenant.ScopedByID(ownerID, id)).Decode(&s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update merges the patch and stamps updatedAt in the same write.
func (r *repository) Update(ctx context.Context, ownerID, id string, patch bson.M) (*SOP, error) {
	patch["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var s SOP
	err := r.col.FindOneAndUpdate(ctx,
		tenant.ScopedByID(ownerID, id),
		bson.M{"$set": patch},
		opts,
	).Decode(&s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.col.DeleteOne(ctx, tenant.ScopedByID(ownerID, id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *repository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	return r.col.CountDocuments(ctx, tenant.Scope(ownerID))
}
