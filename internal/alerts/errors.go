package alerts

import (
	"errors"
	"net/http"
)

// Domain errors for alert operations.
var (
	ErrNotFound  = errors.New("alert record not found")
	ErrDuplicate = errors.New("alert record already exists")
	ErrInvalidID = errors.New("invalid alert id")
)

// MapHTTPStatus maps alert domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidID) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
