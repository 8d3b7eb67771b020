package training

import "time"

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Video is an owner-scoped training video. An empty AssignedEmployees set
// means the video is public to every employee of the owner.
type Video struct {
	ID                string    `bson:"_id"`
	OwnerID           string    `bson:"ownerId"`
	Title             string    `bson:"title"`
	Description       string    `bson:"description"`
	MediaURL          string    `bson:"mediaUrl"`
	ThumbnailURL      string    `bson:"thumbnailUrl"`
	AssignedEmployees []string  `bson:"assignedEmployees"`
	Status            string    `bson:"status"`
	CompletedBy       []string  `bson:"completedBy"`
	CreatedAt         time.Time `bson:"createdAt"`
}

// Public reports whether the video is visible to all employees of its owner.
func (v Video) Public() bool {
	return len(v.AssignedEmployees) == 0
}

// CompletionSatisfied reports whether the completion set warrants the
// completed status. Public videos complete on the first completion;
// assigned videos complete when every assignee has completed.
func (v Video) CompletionSatisfied() bool {
	if v.Public() {
		return len(v.CompletedBy) > 0
	}
	done := make(map[string]struct{}, len(v.CompletedBy))
	for _, s := range v.CompletedBy {
		done[s] = struct{}{}
	}
	for _, s := range v.AssignedEmployees {
		if _, ok := done[s]; !ok {
			return false
		}
	}
	return true
}
