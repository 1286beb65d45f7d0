package mapping

import (
	"errors"
	"net/http"

	"github.com/eslsoft/learnpulse/internal/entity"
)

// ErrorResponse is the JSON body for error replies.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPStatus maps domain errors onto HTTP status codes.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, entity.ErrInvalidUserID),
		errors.Is(err, entity.ErrEventRequired),
		errors.Is(err, entity.ErrInvalidConcept),
		errors.Is(err, entity.ErrInvalidListQuery):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrProfileNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
