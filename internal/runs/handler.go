package runs

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/wayfinder/pkg/handlers"
	"github.com/JaimeStill/wayfinder/pkg/routes"
)

// Handler provides HTTP endpoints for run artifacts.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "runs"),
	}
}

// Routes returns the route group definition for run endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/runs",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{run}", Handler: h.Find},
			{Method: "GET", Pattern: "/{run}/history", Handler: h.History},
		},
	}
}

// List returns the run catalog.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, catalog)
}

// Find returns a fully loaded run by name.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	run, err := h.sys.Load(r.Context(), r.PathValue("run"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, run)
}

// History returns the parsed training history of a run.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.sys.History(r.Context(), r.PathValue("run"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, history)
}
