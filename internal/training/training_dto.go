package training

import "time"

type CreateVideoRequest struct {
	Title             string   `json:"title" binding:"required,min=1"`
	Description       string   `json:"description"`
	MediaURL          string   `json:"media_url" binding:"required,url"`
	ThumbnailURL      string   `json:"thumbnail_url" binding:"omitempty,url"`
	AssignedEmployees []string `json:"assigned_employees"`
}

type VideoResponse struct {
	ID                string   `json:"id"`
	OwnerID           string   `json:"owner_id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	MediaURL          string   `json:"media_url"`
	ThumbnailURL      string   `json:"thumbnail_url"`
	AssignedEmployees []string `json:"assigned_employees"`
	Status            string   `json:"status"`
	CompletedBy       []string `json:"completed_by"`
	CreatedAt         string   `json:"created_at"`
}

func mapToResponse(v Video) VideoResponse {
	assigned := v.AssignedEmployees
	if assigned == nil {
		assigned = []string{}
	}
	completed := v.CompletedBy
	if completed == nil {
		completed = []string{}
	}
	return VideoResponse{
		ID:                v.ID,
		OwnerID:           v.OwnerID,
		Title:             v.Title,
		Description:       v.Description,
		MediaURL:          v.MediaURL,
		ThumbnailURL:      v.ThumbnailURL,
		AssignedEmployees: assigned,
		Status:            v.Status,
		CompletedBy:       completed,
		CreatedAt:         v.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(videos []Video) []VideoResponse {
	res := make([]VideoResponse, len(videos))
	for i, v := range videos {
		res[i] = mapToResponse(v)
	}
	return res
}
