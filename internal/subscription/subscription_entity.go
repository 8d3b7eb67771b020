package subscription

import "time"

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

// Plan durations, keyed by plan id.
var planDurations = map[string]time.Duration{
	"monthly": 30 * 24 * time.Hour,
	"yearly":  365 * 24 * time.Hour,
}

func ValidPlan(planID string) bool {
	_, ok := planDurations[planID]
	return ok
}

type Subscription struct {
	ID             string     `bson:"_id"`
	UserID         string     `bson:"userId"`
	PlanID         string     `bson:"planId"`
	Status         string     `bson:"status"`
	StartDate      *time.Time `bson:"startDate,omitempty"`
	EndDate        *time.Time `bson:"endDate,omitempty"`
	OrderReference string     `bson:"orderReference"`
	CreatedAt      time.Time  `bson:"createdAt"`
}
