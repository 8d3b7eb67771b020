package employeeerrors

import (
	"net/http"

	"go-traindesk/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"An employee with the same subject or email already exists",
		http.StatusConflict,
	)
	ErrEmptyPatch = apperror.New(
		apperror.CodeInvalidInput,
		"At least one updatable field is required",
		http.StatusBadRequest,
	)
)
