package classifier

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/wayfinder/pkg/storage"
)

// Domain errors for classification operations.
var (
	ErrNotReady       = errors.New("models not ready")
	ErrInvalidCatalog = errors.New("invalid model catalog")
	ErrMissingImage   = errors.New("no image provided, use 'image' as the form field name")
	ErrInvalidImage   = errors.New("invalid image, supported formats: jpeg, png, webp")
	ErrUploadTooLarge = errors.New("upload exceeds size limit")
	ErrNoCoarseModel  = errors.New("hierarchical classification not configured")
	ErrInference      = errors.New("inference failed")
	ErrInvalidInput   = errors.New("input tensor size mismatch")
)

// MapHTTPStatus maps classifier domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrMissingImage), errors.Is(err, ErrInvalidImage):
		return http.StatusBadRequest
	case errors.Is(err, ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrNoCoarseModel), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
