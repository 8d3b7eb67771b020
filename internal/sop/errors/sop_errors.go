package soperrors

import (
	"net/http"

	"go-traindesk/internal/shared/apperror"
)

var (
	ErrSOPNotFound = apperror.New(
		apperror.CodeNotFound,
		"SOP not found",
		http.StatusNotFound,
	)
	ErrAssigneeNotOwned = apperror.New(
		apperror.CodeInvalidInput,
		"Assigned employees must belong to the same owner",
		http.StatusBadRequest,
	)
	ErrEmptyPatch = apperror.New(
		apperror.CodeInvalidInput,
		"At least one updatable field is required",
		http.StatusBadRequest,
	)
)
