package user

import "time"

// User is a directly authenticated principal. The provider subject id is the
// primary key, which makes the one-per-subject invariant a store-level
// guarantee.
type User struct {
	SubjectID string    `bson:"_id"`
	Email     string    `bson:"email"`
	Role      string    `bson:"role"`
	CreatedAt time.Time `bson:"createdAt"`
}
