package dashboard

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/wayfinder/internal/confusion"
	"github.com/JaimeStill/wayfinder/internal/runs"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidTab      = errors.New("invalid tab")
	ErrInvalidCommand  = errors.New("invalid command")
	ErrNoRun           = errors.New("no run loaded")
	ErrLoadSuperseded  = errors.New("run load superseded by a newer request")
	ErrInvalidChart    = errors.New("invalid chart")
)

// MapHTTPStatus maps dashboard errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTab),
		errors.Is(err, ErrInvalidCommand),
		errors.Is(err, ErrInvalidChart),
		errors.Is(err, confusion.ErrIndexOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoRun), errors.Is(err, ErrLoadSuperseded):
		return http.StatusConflict
	default:
		return runs.MapHTTPStatus(err)
	}
}
