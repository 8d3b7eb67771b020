package employee

import (
	"context"
	"errors"

	"go-traindesk/internal/tenant"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, empl *Employee) error
	FindAllByOwner(ctx context.Context, ownerID string) ([]Employee, error)
	FindByIDAndOwner(ctx context.Context, ownerID, id string) (*Employee, error)
	FindBySubject(ctx context.Context, subjectID, email string) (*Employee, error)
	CountSubjectsByOwner(ctx context.Context, ownerID string, subjects []string) (int64, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	Update(ctx context.Context, ownerID, id string, patch bson.M) (*Employee, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type repository struct {
	col *mongo.Collection
}

func NewRepository(db *mongo.Database) Repository {
	return &repository{col: db.Collection("employees")}
}

func (r *repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "subjectId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	})
	return err
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	_, err := r.col.InsertOne(ctx, empl)
	return err
}

func (r *repository) FindAllByOwner(ctx context.Context, ownerID string) ([]Employee, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := r.col.Find(ctx, tenant.Scope(ownerID), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var empls []Employee
	if err := cur.All(ctx, &empls); err != nil {
		return nil, err
	}
	return empls, nil
}

func (r *repository) FindByIDAndOwner(ctx context.Context, ownerID, id string) (*Employee, error) {
	var empl Employee
	err := r.col.FindOne(ctx, tenant.ScopedByID(ownerID, id)).Decode(&empl)
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

// FindBySubject is the one deliberately unscoped query in this package: it
// resolves an authenticated subject to its employee record regardless of
// tenant. A miss is (nil, nil), not an error.
func (r *repository) FindBySubject(ctx context.Context, subjectID, email string) (*Employee, error) {
	keys := []string{subjectID}
	if email != "" {
		keys = append(keys, email)
	}

	var empl Employee
	err := r.col.FindOne(ctx, bson.M{"subjectId": bson.M{"$in": keys}}).Decode(&empl)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) CountSubjectsByOwner(ctx context.Context, ownerID string, subjects []string) (int64, error) {
	if len(subjects) == 0 {
		return 0, nil
	}
	filter := tenant.Scope(ownerID)
	filter["subjectId"] = bson.M{"$in": subjects}
	return r.col.CountDocuments(ctx, filter)
}

func (r *repository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	return r.col.CountDocuments(ctx, tenant.Scope(ownerID))
}

func (r *repository) Update(ctx context.Context, ownerID, id string, patch bson.M) (*Employee, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var empl Employee
	err := r.col.FindOneAndUpdate(ctx,
		tenant.ScopedByID(ownerID, id),
		bson.M{"$set": patch},
		opts,
	).Decode(&empl)
	if err != nil {
		return nil, err
	}
	return &empl, nil
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
