package user

import (
	"context"
	"time"

	"go-traindesk/internal/caller"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	FindBySubject(ctx context.Context, subjectID string) (*User, error)
	GetOrCreate(ctx context.Context, subjectID, email string) (*User, error)
	SetRole(ctx context.Context, subjectID, role string) (*User, error)
}

type repository struct {
	col *mongo.Collection
}

func NewRepository(db *mongo.Database) Repository {
	return &repository{col: db.Collection("users")}
}

func (r *repository) FindBySubject(ctx context.Context, subjectID string) (*User, error) {
	var u User
	err := r.col.FindOne(ctx, bson.M{"_id": subjectID}).Decode(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetOrCreate inserts the default-staff record on first sight of a subject.
// The upsert is atomic, so two concurrent first authentications still
// produce a single record.
func (r *repository) GetOrCreate(ctx context.Context, subjectID, email string) (*User, error) {
	update := bson.M{
		"$setOnInsert": bson.M{
			"email":     email,
			"role":      caller.RoleStaff,
			"createdAt": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var u User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": subjectID}, update, opts).Decode(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) SetRole(ctx context.Context, subjectID, role string) (*User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u User
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": subjectID},
		bson.M{"$set": bson.M{"role": role}},
		opts,
	).Decode(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
