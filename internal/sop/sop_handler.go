package sop

import (
	"net/http"

	"go-traindesk/internal/caller"
	"go-traindesk/internal/shared/apperror"
	"go-traindesk/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) Create(c *gin.Context) {
	clr, ok := caller.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "unauthenticated", nil)
		return
	}

	var req CreateSOPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), clr.OwnerID, req)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

func (h *Handler) GetAll(c *gin.Context) {
	clr, ok := caller.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "unauthenticated", nil)
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), clr.OwnerID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) GetRecent(c *gin.Context) {
	clr, ok := caller.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "unauthenticated", nil)
		return
	}

	resp, err := h.service.GetRecent(c.Request.Context(), clr.OwnerID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) GetByID(c *gin.Context) {
	clr, ok := caller.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "unauthenticated", nil)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), clr.OwnerID, c.Param("id"))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Update(c *gin.Context) {
	clr, ok := caller.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "unauthenticated", nil)
		return
	}

	var req UpdateSOPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid request body", nil)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), clr.OwnerID, c.Param("id"), req)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Clear(c *gin.Context) {
	clr, ok := caller.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "unauthenticated", nil)
		return
	}

	resp, err := h.service.Clear(c.Request.Context(), clr.OwnerID, c.Param("id"))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	clr, ok := caller.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "unauthenticated", nil)
		return
	}

	if err := h.service.Delete(c.Request.Context(), clr.OwnerID, c.Param("id")); err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GetAssigned serves the employee-facing list: SOPs whose assignedTo
// includes the caller's subject id.
func (h *Handler) GetAssigned(c *gin.Context) {
	clr, ok := caller.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "unauthenticated", nil)
		return
	}

	resp, err := h.service.GetAssigned(c.Request.Context(), clr)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Complete(c *gin.Context) {
	clr, ok := caller.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "unauthenticated", nil)
		return
	}

	resp, err := h.service.Complete(c.Request.Context(), clr, c.Param("id"))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) GetProgress(c *gin.Context) {
	clr, ok := caller.FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "unauthenticated", nil)
		return
	}

	resp, err := h.service.GetProgress(c.Request.Context(), clr, c.Param("id"))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp)
}
