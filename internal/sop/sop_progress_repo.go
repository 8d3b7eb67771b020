package sop

import (
	"context"
	"time"

	"go-traindesk/internal/tenant"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:generate mockgen -source=sop_progress_repo.go -destination=mock/sop_progress_repo_mock.go -package=mock
type ProgressRepository interface {
	EnsureIndexes(ctx context.Context) error
	Find(ctx context.Context, employeeID, sopID string) (*Progress, error)
	// Claim marks the pair completed. Exactly one concurrent caller wins;
	// everyone else gets won=false with the already-completed record.
	Claim(ctx context.Context, ownerID, employeeID, sopID string) (won bool, prog *Progress, err error)
	// Release reverts a claim whose follow-up work failed, so a retry can
	// win again.
	Release(ctx context.Context, id string) error
	SetCertificate(ctx context.Context, id, url string) (*Progress, error)
	CountCompletedByOwner(ctx context.Context, ownerID string) (int64, error)
}

type progressRepository struct {
	col *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) ProgressRepository {
	return &progressRepository{col: db.Collection("sop_progress")}
}

func (r *progressRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "employeeId", Value: 1}, {Key: "sopId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "completed", Value: 1}},
		},
	})
	return err
}

func (r *progressRepository) Find(ctx context.Context, employeeID, sopID string) (*Progress, error) {
	var p Progress
	err := r.col.FindOne(ctx, bson.M{"employeeId": employeeID, "sopId": sopID}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Claim is a single atomic find-and-update with a completed=false
// precondition. The upsert covers both shapes the pair can be in:
//   - no record yet: the upsert inserts it already completed (winner);
//   - record with completed=false: the update flips it (winner);
//   - record with completed=true: the filter misses, the upsert collides
//     with the unique (employeeId, sopId) index, and the caller lost.
func (r *progressRepository) Claim(ctx context.Context, ownerID, employeeID, sopID string) (bool, *Progress, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"employeeId": employeeID,
		"sopId":      sopID,
		"completed":  false,
	}
	update := bson.M{
		"$set": bson.M{
			"completed":   true,
			"completedAt": now,
		},
		"$setOnInsert": bson.M{
			"_id":        uuid.NewString(),
			"ownerId":    ownerID,
			"employeeId": employeeID,
			"sopId":      sopID,
			"createdAt":  now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var p Progress
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if err == nil {
		return true, &p, nil
	}

	if mongo.IsDuplicateKeyError(err) {
		existing, findErr := r.Find(ctx, employeeID, sopID)
		if findErr != nil {
			return false, nil, findErr
		}
		return false, existing, nil
	}
	return false, nil, err
}

func (r *progressRepository) Release(ctx context.Context, id string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set":   bson.M{"completed": false},
			"$unset": bson.M{"completedAt": ""},
		},
	)
	return err
}

func (r *progressRepository) SetCertificate(ctx context.Context, id, url string) (*Progress, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p Progress
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"certificateUrl": url}},
		opts,
	).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *progressRepository) CountCompletedByOwner(ctx context.Context, ownerID string) (int64, error) {
	filter := tenant.Scope(ownerID)
	filter["completed"] = true
	return r.col.CountDocuments(ctx, filter)
}
