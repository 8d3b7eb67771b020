package employee

import "time"

const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleStaff   = "staff"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Employee lives in its own identity namespace: it is not a User, and a
// subject that matches an Employee always resolves as one. SubjectID is the
// identity-provider key (the uid when provisioned through the managed
// identity API, otherwise the employee's email).
type Employee struct {
	ID         string    `bson:"_id"`
	OwnerID    string    `bson:"ownerId"`
	SubjectID  string    `bson:"subjectId"`
	Name       string    `bson:"name"`
	Email      string    `bson:"email"`
	Department string    `bson:"department"`
	Role       string    `bson:"role"`
	Status     string    `bson:"status"`
	CreatedAt  time.Time `bson:"createdAt"`
}

func ValidRole(r string) bool {
	return r == RoleOwner || r == RoleManager || r == RoleStaff
}

func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}
