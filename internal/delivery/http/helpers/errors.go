package helpers

import (
	"errors"
	"net/http"

	"dresscodeplanner/internal/domain"
)

// WriteDomainError maps a domain sentinel error to its HTTP status and error
// code and writes the JSON error response. Unrecognized errors become 500.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateInvite), errors.Is(err, domain.ErrDuplicateEmail):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrAccountNotApproved):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, err.Error())
	default:
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
	}
}
