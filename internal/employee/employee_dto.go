package employee

type CreateEmployeeRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Department string `json:"department" binding:"required"`
	Role       string `json:"role" binding:"omitempty,oneof=owner manager staff"`
	// SubjectID may be supplied directly when the provider uid is already
	// known; otherwise it is provisioned or derived from the email.
	SubjectID string `json:"subject_id"`
}

// UpdateEmployeeRequest is an explicit patch type: only these fields are
// mutable, unset fields are left untouched, and server-owned fields (id,
// ownerId, subjectId, createdAt) are unreachable.
type UpdateEmployeeRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1"`
	Department *string `json:"department" binding:"omitempty,min=1"`
	Role       *string `json:"role" binding:"omitempty,oneof=owner manager staff"`
	Status     *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (r UpdateEmployeeRequest) Empty() bool {
	return r.Name == nil && r.Department == nil && r.Role == nil && r.Status == nil
}

type EmployeeResponse struct {
	ID         string `json:"id"`
	OwnerID    string `json:"owner_id"`
	SubjectID  string `json:"subject_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}
