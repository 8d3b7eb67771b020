package sop

import "time"

// SOP is a tenant-owned standard operating procedure document. AssignedTo
// holds employee subject ids belonging to the same owner.
type SOP struct {
	ID         string    `bson:"_id"`
	OwnerID    string    `bson:"ownerId"`
	Title      string    `bson:"title"`
	Department string    `bson:"department"`
	Content    string    `bson:"content"`
	AssignedTo []string  `bson:"assignedTo"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}
