package pipeline

import (
	"errors"
	"net/http"
)

// Terminal pipeline errors. Extraction and persistence failures abort a
// submission; every other stage degrades in place.
var (
	ErrExtraction        = errors.New("content extraction failed")
	ErrPersistence       = errors.New("article persistence failed")
	ErrInvalidSubmission = errors.New("invalid submission")
)

// MapHTTPStatus maps pipeline errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrExtraction) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrInvalidSubmission) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
