package usererrors

import (
	"net/http"

	"go-traindesk/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrNotAUser = apperror.New(
		apperror.CodeForbidden,
		"This action is only available to user accounts",
		http.StatusForbidden,
	)
)
