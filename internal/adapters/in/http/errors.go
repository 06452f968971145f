package http

import (
	"errors"
	"net/http"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

// statusFromError maps failures from the application layer onto HTTP status
// codes. Conflicts between concurrent writers and illegal lifecycle edges
// are both 409: the request was well-formed, the ledger just disagrees.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		// Invariant violations and duplicate payments indicate a broken
		// ledger, not a bad request.
		return http.StatusInternalServerError
	}
}

// errorJSON writes the mapped error response.
func errorJSON(err error) (int, ErrorResponse) {
	code := statusFromError(err)
	return code, ErrorResponse{Code: code, Message: err.Error()}
}
