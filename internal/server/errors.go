// Package server provides the HTTP REST API for the matching backend.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/masaki2607/oneview-matching/internal/matching"
)

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var seekerNotFound *matching.ErrSeekerNotFound
	var jobNotFound *matching.ErrJobNotFound
	var validation *ErrValidation

	switch {
	case errors.As(err, &seekerNotFound), errors.As(err, &jobNotFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
