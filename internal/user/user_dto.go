package user

// ProfileResponse is the caller's own view of itself, for both identity
// namespaces. Employee-only fields are omitted for user callers and vice
// versa.
type ProfileResponse struct {
	Kind       string `json:"kind"`
	SubjectID  string `json:"subject_id"`
	OwnerID    string `json:"owner_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Name       string `json:"name,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}
