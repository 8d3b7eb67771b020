package settings

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:generate mockgen -source=settings_repo.go -destination=mock/settings_repo_mock.go -package=mock
type Repository interface {
	GetOrCreate(ctx context.Context, ownerID string) (*Settings, error)
	Patch(ctx context.Context, ownerID string, patch bson.M) (*Settings, error)
}

type repository struct {
	col *mongo.Collection
}

func NewRepository(db *mongo.Database) Repository {
	return &repository{col: db.Collection("system_settings")}
}

// GetOrCreate installs the defaults with $setOnInsert, so two first-access
// racers converge on one document.
func (r *repository) GetOrCreate(ctx context.Context, ownerID string) (*Settings, error) {
	defaults := Defaults(ownerID)
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var s Settings
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": ownerID},
		bson.M{"$setOnInsert": defaults},
		opts,
	).Decode(&s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Patch upserts so a PUT before any GET still lands on a full document:
// defaults fill whichever groups the patch leaves out.
func (r *repository) Patch(ctx context.Context, ownerID string, patch bson.M) (*Settings, error) {
	defaults := Defaults(ownerID)
	setOnInsert := bson.M{}
	for _, group := range []struct {
		key string
		val interface{}
	}{
		{"websocket", defaults.Websocket},
		{"notifications", defaults.Notifications},
		{"workflows", defaults.Workflows},
		{"employees", defaults.Employees},
	} {
		if _, patched := patch[group.key]; !patched {
			setOnInsert[group.key] = group.val
		}
	}

	patch["updatedAt"] = time.Now().UTC()

	update := bson.M{"$set": patch}
	if len(setOnInsert) > 0 {
		update["$setOnInsert"] = setOnInsert
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var s Settings
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": ownerID}, update, opts).Decode(&s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
