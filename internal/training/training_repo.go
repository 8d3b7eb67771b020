package training

import (
	"context"

	"go-traindesk/internal/tenant"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:generate mockgen -source=training_repo.go -destination=mock/training_repo_mock.go -package=mock
type Repository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, v *Video) error
	FindAllByOwner(ctx context.Context, ownerID string) ([]Video, error)
	FindByIDAndOwner(ctx context.Context, ownerID, id string) (*Video, error)
	FindVisible(ctx context.Context, ownerID, subjectID string) ([]Video, error)
	AddCompletion(ctx context.Context, ownerID, id, subjectID string) (*Video, error)
	MarkCompleted(ctx context.Context, ownerID, id string) (*Video, error)
	Delete(ctx context.Context, ownerID, id string) error
	CountByOwnerAndStatus(ctx context.Context, ownerID, status string) (int64, error)
}

type repository struct {
	col *mongo.Collection
}

func NewRepository(db *mongo.Database) Repository {
	return &repository{col: db.Collection("training_videos")}
}

func (r *repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "status", Value: 1}}},
	})
	return err
}

func (r *repository) Create(ctx context.Context, v *Video) error {
	_, err := r.col.InsertOne(ctx, v)
	return err
}

func (r *repository) FindAllByOwner(ctx context.Context, ownerID string) ([]Video, error) {
	return r.find(ctx, tenant.Scope(ownerID))
}

// FindVisible returns the videos an employee may watch: assigned to them,
// or public (no assignees at all).
func (r *repository) FindVisible(ctx context.Context, ownerID, subjectID string) ([]Video, error) {
	filter := tenant.Scope(ownerID)
	filter["$or"] = []bson.M{
		{"assignedEmployees": subjectID},
		{"assignedEmployees": bson.M{"$size": 0}},
	}
	return r.find(ctx, filter)
}

func (r *repository) find(ctx context.Context, filter bson.M) ([]Video, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var videos []Video
	if err := cur.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *repository) FindByIDAndOwner(ctx context.Context, ownerID, id string) (*Video, error) {
	var v Video
	err := r.col.FindOne(ctx, tenant.ScopedByID(ownerID, id)).Decode(&v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// AddCompletion records a completion with $addToSet, so repeat calls for the
// same subject leave the document unchanged.
func (r *repository) AddCompletion(ctx context.Context, ownerID, id, subjectID string) (*Video, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var v Video
	err := r.col.FindOneAndUpdate(ctx,
		tenant.ScopedByID(ownerID, id),
		bson.M{"$addToSet": bson.M{"completedBy": subjectID}},
		opts,
	).Decode(&v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// MarkCompleted flips an active video to completed. The status filter keeps
// the transition one-directional; flipping an already-completed video is a
// no-op miss handled by the caller.
func (r *repository) MarkCompleted(ctx context.Context, ownerID, id string) (*Video, error) {
	filter := tenant.ScopedByID(ownerID, id)
	filter["status"] = StatusActive
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var v Video
	err := r.col.FindOneAndUpdate(ctx,
		filter,
		bson.M{"$set": bson.M{"status": StatusCompleted}},
		opts,
	).Decode(&v)
	if err != nil {
		return nil, err
	}
	return &v, nil
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

func (r *repository) CountByOwnerAndStatus(ctx context.Context, ownerID, status string) (int64, error) {
	filter := tenant.Scope(ownerID)
	filter["status"] = status
	return r.col.CountDocuments(ctx, filter)
}
