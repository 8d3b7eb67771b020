package trainingerrors

import (
	"net/http"

	"go-traindesk/internal/shared/apperror"
)

var (
	ErrVideoNotFound = apperror.New(
		apperror.CodeNotFound,
		"Training video not found",
		http.StatusNotFound,
	)
	ErrAssigneeNotOwned = apperror.New(
		apperror.CodeInvalidInput,
		"Assigned employees must belong to the same owner",
		http.StatusBadRequest,
	)
)
