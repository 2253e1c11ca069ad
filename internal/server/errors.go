// Package server exposes match scoring and ranking over HTTP.
package server

import (
	"errors"
	"net/http"

	"github.com/riggerhire/rigmatch/internal/database"
	"github.com/riggerhire/rigmatch/internal/matcher"
)

// ErrBadRequest indicates a request that could not be decoded
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return "bad request: " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		badRequest *ErrBadRequest
		invalid    *matcher.InvalidInputError
		failure    *matcher.ScoringFailure
	)
	switch {
	case errors.As(err, &badRequest), errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &failure):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
