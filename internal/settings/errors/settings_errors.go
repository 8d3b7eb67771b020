package settingserrors

import (
	"net/http"

	"go-traindesk/internal/shared/apperror"
)

var (
	ErrEmptyPatch = apperror.New(
		apperror.CodeInvalidInput,
		"At least one settings group is required",
		http.StatusBadRequest,
	)
	ErrInvalidDefaultRole = apperror.New(
		apperror.CodeInvalidInput,
		"Default role must be owner, manager or staff",
		http.StatusBadRequest,
	)
)
