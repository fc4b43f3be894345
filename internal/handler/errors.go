package handler

import (
	"errors"
	"net/http"

	"github.com/calderw/mirrorsync/internal/domain"
)

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."
	ErrMsgAuthFailedError     = "Authentication failed. Please check your API key."

	ErrMsgConfigNotFoundError    = "Sync configuration not found"
	ErrMsgCredentialMissingError = "The config owner has not connected their workspace"
	ErrMsgRunInProgressError     = "A sync is already running for this configuration"
	ErrMsgQueueFullError         = "Sync queue is full. Please try again shortly."
	ErrMsgInvalidAccessLevelErr  = "Access level must be read or write"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses so internals never leak to API consumers.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrConfigNotFound):
		return http.StatusNotFound, ErrMsgConfigNotFoundError
	case errors.Is(err, domain.ErrCredentialMissing):
		return http.StatusConflict, ErrMsgCredentialMissingError
	case errors.Is(err, domain.ErrRunInProgress):
		return http.StatusConflict, ErrMsgRunInProgressError
	case errors.Is(err, domain.ErrQueueFull):
		return http.StatusServiceUnavailable, ErrMsgQueueFullError
	case errors.Is(err, domain.ErrInvalidAccessLevel):
		return http.StatusBadRequest, ErrMsgInvalidAccessLevelErr
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
