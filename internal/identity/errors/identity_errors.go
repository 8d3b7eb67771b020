package identityerrors

import (
	"net/http"

	"go-traindesk/internal/shared/apperror"
)

var (
	ErrMissingToken = apperror.New(
		apperror.CodeUnauthorized,
		"Authorization token not found",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid or expired token",
		http.StatusUnauthorized,
	)
	ErrAdminUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"Identity provider admin operations are not configured",
		http.StatusServiceUnavailable,
	)
)
