package sop

import "time"

type CreateSOPRequest struct {
	Title      string   `json:"title" binding:"required"`
	Department string   `json:"department" binding:"required"`
	Content    string   `json:"content"`
	AssignedTo []string `json:"assigned_to"`
}

// UpdateSOPRequest is an explicit patch type: only listed fields are
// mutable, unset fields stay untouched, server-owned fields (id, ownerId,
// timestamps) are unreachable.
type UpdateSOPRequest struct {
	Title      *string   `json:"title" binding:"omitempty,min=1"`
	Department *string   `json:"department" binding:"omitempty,min=1"`
	Content    *string   `json:"content"`
	AssignedTo *[]string `json:"assigned_to"`
}

func (r UpdateSOPRequest) Empty() bool {
	return r.Title == nil && r.Department == nil && r.Content == nil && r.AssignedTo == nil
}

type SOPResponse struct {
	ID         string   `json:"id"`
	OwnerID    string   `json:"owner_id"`
	Title      string   `json:"title"`
	Department string   `json:"department"`
	Content    string   `json:"content"`
	AssignedTo []string `json:"assigned_to"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

type ProgressResponse struct {
	SOPID          string `json:"sop_id"`
	EmployeeID     string `json:"employee_id"`
	Completed      bool   `json:"completed"`
	CompletedAt    string `json:"completed_at,omitempty"`
	CertificateURL string `json:"certificate_url,omitempty"`
}

func mapToResponse(s SOP) SOPResponse {
	assigned := s.AssignedTo
	if assigned == nil {
		assigned = []string{}
	}
	return SOPResponse{
		ID:         s.ID,
		OwnerID:    s.OwnerID,
		Title:      s.Title,
		Department: s.Department,
		Content:    s.Content,
		AssignedTo: assigned,
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  s.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(sops []SOP) []SOPResponse {
	res := make([]SOPResponse, len(sops))
	for i, s := range sops {
		res[i] = mapToResponse(s)
	}
	return res
}

func mapToProgressResponse(p Progress) ProgressResponse {
	resp := ProgressResponse{
		SOPID:          p.SOPID,
		EmployeeID:     p.EmployeeID,
		Completed:      p.Completed,
		CertificateURL: p.CertificateURL,
	}
	if p.CompletedAt != nil {
		resp.CompletedAt = p.CompletedAt.Format(time.RFC3339)
	}
	return resp
}
