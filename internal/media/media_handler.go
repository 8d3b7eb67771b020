package media

import (
	"net/http"

	"go-traindesk/internal/caller"
	"go-traindesk/internal/shared/apperror"
	"go-traindesk/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	uploader SignedUploader
}

func NewHandler(uploader SignedUploader) *Handler {
	return &Handler{uploader: uploader}
}

func (h *Handler) UploadCredentials(c *gin.Context) {
	clr, ok := caller.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "unauthenticated", nil)
		return
	}

	creds, err := h.uploader.IssueUploadCredentials(c.Request.Context(), clr.OwnerID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, creds)
}
