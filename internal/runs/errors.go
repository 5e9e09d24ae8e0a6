package runs

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/wayfinder/internal/confusion"
	"github.com/JaimeStill/wayfinder/pkg/storage"
)

// Domain errors for run operations.
var (
	ErrInvalidRun     = errors.New("invalid run name")
	ErrRunNotFound    = errors.New("run not found")
	ErrInvalidHistory = errors.New("invalid history file")
	ErrInvalidQuery   = errors.New("invalid query parameter")
)

// MapHTTPStatus maps run domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRun), errors.Is(err, ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidHistory),
		errors.Is(err, confusion.ErrEmptyMatrix),
		errors.Is(err, confusion.ErrNotSquare),
		errors.Is(err, confusion.ErrDuplicateLabel),
		errors.Is(err, confusion.ErrLabelMismatch):
		return http.StatusUnprocessableEntity
	}
	return storage.MapHTTPStatus(err)
}
