package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lexread/lexread-api/internal/domain"
	"github.com/lexread/lexread-api/internal/domain/srs"
	"github.com/lexread/lexread-api/internal/service/catalog"
	"github.com/lexread/lexread-api/internal/service/review"
	"github.com/lexread/lexread-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, review.ErrCardNotFound),
		errors.Is(err, review.ErrDeckNotFound),
		errors.Is(err, catalog.ErrCardNotFound),
		errors.Is(err, catalog.ErrDeckNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, srs.ErrInvalidQuality),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrCardContentEmpty),
		errors.Is(err, domain.ErrDeckNameEmpty):
		return http.StatusBadRequest

	// Corrupt stored scheduling state is a server-side problem, never the
	// caller's.
	case errors.Is(err, srs.ErrInvalidSchedulingState):
		return http.StatusInternalServerError

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Not found errors
	case errors.Is(err, review.ErrCardNotFound),
		errors.Is(err, catalog.ErrCardNotFound),
		errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, review.ErrDeckNotFound),
		errors.Is(err, catalog.ErrDeckNotFound),
		errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	// Bad request errors
	case errors.Is(err, srs.ErrInvalidQuality):
		return "Quality rating must be an integer between 0 and 5"

	case errors.Is(err, domain.ErrCardContentEmpty):
		return "Card content cannot be empty"

	case errors.Is(err, domain.ErrDeckNameEmpty):
		return "Deck name cannot be empty"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, srs.ErrInvalidSchedulingState):
		return "Stored scheduling state is invalid"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'ReviewRequest.Quality' Error:Field
		// validation for 'Quality' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "invalid identifier"
	case "min":
		return "value too small"
	case "max":
		return "value too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
