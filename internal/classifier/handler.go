package classifier

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/wayfinder/pkg/formatting"
	"github.com/JaimeStill/wayfinder/pkg/handlers"
	"github.com/JaimeStill/wayfinder/pkg/middleware"
	"github.com/JaimeStill/wayfinder/pkg/routes"
)

// Handler provides HTTP endpoints for image classification.
type Handler struct {
	sys       System
	logger    *slog.Logger
	maxUpload int64
	maxPixels int
	limiter   *middleware.RateLimiter
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, opts Options, logger *slog.Logger) *Handler {
	opts.defaults()
	h := &Handler{
		sys:       sys,
		logger:    logger.With("handler", "classifier"),
		maxUpload: opts.MaxUploadSize,
		maxPixels: opts.MaxPixels,
	}
	if opts.RateLimit != nil {
		h.limiter = middleware.NewRateLimiter(opts.RateLimit, h.logger)
	}
	return h
}

// Routes returns the route group definition for classification endpoints.
// Inference routes are rate limited; status is not.
func (h *Handler) Routes() routes.Group {
	classify := routes.Group{
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Classify},
			{Method: "POST", Pattern: "/hierarchical", Handler: h.Hierarchical},
		},
	}
	if h.limiter != nil {
		classify.Middleware = append(classify.Middleware, h.limiter.Middleware)
	}

	return routes.Group{
		Prefix: "/classify",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/status", Handler: h.Status},
		},
		Children: []routes.Group{classify},
	}
}

// Status reports model readiness. It answers 503 until models are ready.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.sys.Status()
	code := http.StatusOK
	if !st.Ready {
		code = http.StatusServiceUnavailable
	}
	handlers.RespondJSON(w, code, st)
}

// Classify ranks the base model's classes for the uploaded image.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	img, ok := h.image(w, r)
	if !ok {
		return
	}

	result, err := h.sys.Classify(r.Context(), img)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Hierarchical ranks the base and coarse models for the uploaded image.
// Query parameter groups=true refines coarse classes with their group model.
func (h *Handler) Hierarchical(w http.ResponseWriter, r *http.Request) {
	groups := false
	if v := r.URL.Query().Get("groups"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid groups: %q", v))
			return
		}
		groups = b
	}

	img, ok := h.image(w, r)
	if !ok {
		return
	}

	result, err := h.sys.Hierarchical(r.Context(), img, groups)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// image checks readiness, then reads and decodes the "image" form file.
// It writes the error response itself and reports whether to continue.
func (h *Handler) image(w http.ResponseWriter, r *http.Request) (image.Image, bool) {
	if st := h.sys.Status(); !st.Ready {
		handlers.RespondError(w, h.logger, http.StatusServiceUnavailable, fmt.Errorf("%w: %s", ErrNotReady, st.Message))
		return nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge,
				fmt.Errorf("%w: limit is %s", ErrUploadTooLarge, formatting.FormatBytes(h.maxUpload, 0)))
			return nil, false
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrMissingImage, err))
		return nil, false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingImage)
		return nil, false
	}
	defer file.Close()

	img, format, err := Decode(file, h.maxPixels)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}

	b := img.Bounds()
	h.logger.Debug("image received", "file", header.Filename, "size", formatting.FormatBytes(header.Size, 1), "format", format, "width", b.Dx(), "height", b.Dy())
	return img, true
}
