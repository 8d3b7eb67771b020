package events

import "time"

// DomainTopic carries every tenant-keyed domain event.
const DomainTopic = "traindesk.domain.v1"

const (
	TypeEmployeeCreated   = "employee:created"
	TypeSOPCompleted      = "sop:completed"
	TypeTrainingCompleted = "training:completed"
)

// Event is the wire shape published to the domain topic. Messages are keyed
// by OwnerID so a tenant's events stay ordered within a partition.
type Event struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	OwnerID    string    `json:"owner_id"`
	SubjectID  string    `json:"subject_id,omitempty"`
	ResourceID string    `json:"resource_id"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
