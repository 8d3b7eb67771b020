package sop

import "time"

// Progress tracks per-(employee, SOP) completion, decoupled from the SOP
// record itself. The (employeeId, sopId) pair is unique; the atomic claim in
// the repository leans on that index for at-most-once certificate
// generation.
type Progress struct {
	ID             string     `bson:"_id"`
	OwnerID        string     `bson:"ownerId"`
	EmployeeID     string     `bson:"employeeId"` // employee subject id
	SOPID          string     `bson:"sopId"`
	Completed      bool       `bson:"completed"`
	CompletedAt    *time.Time `bson:"completedAt,omitempty"`
	CertificateURL string     `bson:"certificateUrl,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt"`
}
