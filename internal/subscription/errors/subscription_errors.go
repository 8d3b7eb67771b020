package subscriptionerrors

import (
	"net/http"

	"go-traindesk/internal/shared/apperror"
)

var (
	ErrSubscriptionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Subscription not found",
		http.StatusNotFound,
	)
	ErrUnknownPlan = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown subscription plan",
		http.StatusBadRequest,
	)
	ErrGatewayUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"Payment gateway is not configured",
		http.StatusServiceUnavailable,
	)
	ErrBadSignature = apperror.New(
		apperror.CodeUnauthorized,
		"Payment callback signature mismatch",
		http.StatusUnauthorized,
	)
)
