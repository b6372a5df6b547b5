package articles

import (
	"errors"
	"net/http"
)

// Domain errors for article operations.
var (
	ErrNotFound  = errors.New("article not found")
	ErrDuplicate = errors.New("article already exists")
	ErrInvalidID = errors.New("invalid article id")
	ErrNoSource  = errors.New("article has no stored source file")
)

// MapHTTPStatus maps article domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoSource) {
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
