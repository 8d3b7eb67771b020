package auditlog

import "time"

// Entry is one append-only system log line scoped to a tenant.
type Entry struct {
	ID        string    `bson:"_id" json:"id"`
	OwnerID   string    `bson:"ownerId" json:"ownerId"`
	Type      string    `bson:"type" json:"type"`
	Message   string    `bson:"message" json:"message"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

const (
	TypeAuth     = "auth"
	TypeEmployee = "employee"
	TypeSOP      = "sop"
	TypeTraining = "training"
	TypeBilling  = "billing"
	TypeSystem   = "system"
)
