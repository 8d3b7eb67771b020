package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"go-traindesk/internal/caller"
	"go-traindesk/internal/shared/apperror"
	"go-traindesk/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 200
)

type EntryResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Recent(c *gin.Context) {
	clr, ok := caller.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "unauthenticated", nil)
		return
	}

	limit := defaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	entries, err := h.repo.Recent(c.Request.Context(), clr.OwnerID, limit)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	resp := make([]EntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = EntryResponse{
			ID:        e.ID,
			Type:      e.Type,
			Message:   e.Message,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
	}

	response.Success(c, http.StatusOK, resp)
}
