package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/JaimeStill/wayfinder/internal/confusion"
	"github.com/JaimeStill/wayfinder/internal/render"
	"github.com/JaimeStill/wayfinder/internal/runs"
	"github.com/JaimeStill/wayfinder/pkg/handlers"
	"github.com/JaimeStill/wayfinder/pkg/routes"
)

// RunCommand selects the run to load into a session.
type RunCommand struct {
	Run string `json:"run" validate:"required,max=256"`
}

// TabCommand switches the active panel.
type TabCommand struct {
	Tab Tab `json:"tab" validate:"required"`
}

// FilterCommand sets the accuracy filter.
type FilterCommand struct {
	MaxAccuracy *float64 `json:"max_accuracy" validate:"required,gte=0,lte=100"`
}

// GraphFilterCommand sets the graph filters. Omitted fields keep their value.
type GraphFilterCommand struct {
	MinConfusions *int  `json:"min_confusions" validate:"omitempty,gte=0"`
	SingleEdges   *bool `json:"single_edges"`
}

// SelectionCommand replaces the selection.
type SelectionCommand struct {
	Indices []int `json:"indices" validate:"dive,gte=0"`
}

// Handler provides HTTP endpoints for dashboard sessions and per-run views.
type Handler struct {
	sys        System
	runs       runs.System
	validate   *validator.Validate
	logger     *slog.Logger
	graphWidth float64
	chartWidth float64
}

// NewHandler creates a Handler over the session system and run system.
func NewHandler(sys System, rs runs.System, opts Options, logger *slog.Logger) *Handler {
	return &Handler{
		sys:        sys,
		runs:       rs,
		validate:   validator.New(),
		logger:     logger.With("handler", "dashboard"),
		graphWidth: opts.GraphWidth,
		chartWidth: opts.ChartWidth,
	}
}

// Routes returns the route group for session endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sessions",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
			{Method: "POST", Pattern: "/{id}/run", Handler: h.LoadRun},
			{Method: "PUT", Pattern: "/{id}/tab", Handler: h.SetTab},
			{Method: "PUT", Pattern: "/{id}/filter", Handler: h.SetFilter},
			{Method: "PUT", Pattern: "/{id}/graph-filter", Handler: h.SetGraphFilter},
			{Method: "PUT", Pattern: "/{id}/selection", Handler: h.SetSelection},
			{Method: "POST", Pattern: "/{id}/selection/toggle/{index}", Handler: h.Toggle},
			{Method: "POST", Pattern: "/{id}/selection/{action}", Handler: h.SelectionAction},
			{Method: "GET", Pattern: "/{id}/view", Handler: h.View},
			{Method: "GET", Pattern: "/{id}/chart.svg", Handler: h.Chart},
		},
	}
}

// RunRoutes returns the route group for stateless per-run views.
func (h *Handler) RunRoutes() routes.Group {
	return routes.Group{
		Prefix: "/runs",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{run}/classes", Handler: h.RunClasses},
			{Method: "GET", Pattern: "/{run}/matrix", Handler: h.RunMatrix},
			{Method: "GET", Pattern: "/{run}/graph", Handler: h.RunGraph},
			{Method: "GET", Pattern: "/{run}/chart.svg", Handler: h.RunChart},
		},
	}
}

// Create starts a new session.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	st, err := h.sys.Create(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusCreated, st)
}

// Find returns the session state.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	st, err := h.sys.Find(id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, st)
}

// Delete ends a session.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if err := h.sys.Delete(id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadRun loads a run into the session.
func (h *Handler) LoadRun(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var cmd RunCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	st, err := h.sys.Load(r.Context(), id, cmd.Run)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, st)
}

// SetTab switches the active panel.
func (h *Handler) SetTab(w http.ResponseWriter, r *http.Request) {
	var cmd TabCommand
	h.transition(w, r, &cmd, func() Transition { return SelectTab(cmd.Tab) })
}

// SetFilter sets the accuracy filter.
func (h *Handler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var cmd FilterCommand
	h.transition(w, r, &cmd, func() Transition { return SetAccuracyFilter(*cmd.MaxAccuracy) })
}

// SetGraphFilter sets the graph filters.
func (h *Handler) SetGraphFilter(w http.ResponseWriter, r *http.Request) {
	var cmd GraphFilterCommand
	h.transition(w, r, &cmd, func() Transition {
		return func(s State) (State, error) {
			var err error
			if cmd.MinConfusions != nil {
				if s, err = SetMinConfusions(*cmd.MinConfusions)(s); err != nil {
					return s, err
				}
			}
			if cmd.SingleEdges != nil {
				s, err = SetSingleEdges(*cmd.SingleEdges)(s)
			}
			return s, err
		}
	})
}

// SetSelection replaces the selection.
func (h *Handler) SetSelection(w http.ResponseWriter, r *http.Request) {
	var cmd SelectionCommand
	h.transition(w, r, &cmd, func() Transition { return SetSelection(cmd.Indices) })
}

// Toggle flips selection of the class in the path.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: index %q", ErrInvalidCommand, r.PathValue("index")))
		return
	}
	h.apply(w, id, ToggleClass(index))
}

// SelectionAction applies one of the bulk selection actions: all, clear or visible.
func (h *Handler) SelectionAction(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var t Transition
	switch action := r.PathValue("action"); action {
	case "all":
		t = SelectAll()
	case "clear":
		t = ClearSelection()
	case "visible":
		t = SelectVisible()
	default:
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: selection action %q", ErrInvalidCommand, action))
		return
	}
	h.apply(w, id, t)
}

// View returns the derived view of the active panel.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	st, err := h.sys.Find(id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	v, err := BuildView(st, h.width(r, h.graphWidth))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, v)
}

// Chart paints a chart of the session as SVG. The chart query parameter
// defaults to the active panel's primary chart.
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	st, err := h.sys.Find(id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	chart, err := ParseChart(r.URL.Query().Get("chart"), st.Tab)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	h.svg(w, func(c render.Canvas) error {
		return Paint(c, st, chart, h.chartSize(r, chart))
	})
}

// RunClasses returns the per-class records of a run, filtered by max_accuracy.
func (h *Handler) RunClasses(w http.ResponseWriter, r *http.Request) {
	run, f, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, NewPerClassView(run, f.MaxAccuracyPercent, confusion.NewSelection(run.Matrix.Size())))
}

// RunMatrix returns the filtered confusion sub-matrix of a run.
func (h *Handler) RunMatrix(w http.ResponseWriter, r *http.Request) {
	run, f, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, NewMatrixView(run, f.MaxAccuracyPercent))
}

// RunGraph returns the confusion graph of a run.
func (h *Handler) RunGraph(w http.ResponseWriter, r *http.Request) {
	run, f, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	v, err := NewGraphView(run, f, h.width(r, h.graphWidth))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, v)
}

// RunChart paints a chart of a run as SVG.
func (h *Handler) RunChart(w http.ResponseWriter, r *http.Request) {
	run, f, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	chart, err := ParseChart(r.URL.Query().Get("chart"), TabHistory)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	sel := confusion.NewSelection(run.Matrix.Size())
	h.svg(w, func(c render.Canvas) error {
		return PaintRun(c, run, f, sel, chart, h.chartSize(r, chart))
	})
}

func (h *Handler) loadRun(w http.ResponseWriter, r *http.Request) (*runs.Run, confusion.Filter, bool) {
	f, err := FilterFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, f, false
	}
	run, err := h.runs.Load(r.Context(), r.PathValue("run"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, f, false
	}
	return run, f, true
}

func (h *Handler) svg(w http.ResponseWriter, paint func(render.Canvas) error) {
	var buf bytes.Buffer
	if err := paint(render.NewSVG(&buf)); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, cmd any, build func() Transition) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if !h.decode(w, r, cmd) {
		return
	}
	h.apply(w, id, build())
}

func (h *Handler) apply(w http.ResponseWriter, id uuid.UUID, t Transition) {
	st, err := h.sys.Apply(id, t)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, st)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, cmd any) bool {
	if err := json.NewDecoder(r.Body).Decode(cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidCommand, err))
		return false
	}
	if err := h.validate.Struct(cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidCommand, err))
		return false
	}
	return true
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrSessionNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) width(r *http.Request, fallback float64) float64 {
	if v, err := strconv.ParseFloat(r.URL.Query().Get("width"), 64); err == nil && v > 0 && v <= maxWidth {
		return v
	}
	return fallback
}

func (h *Handler) chartSize(r *http.Request, chart Chart) float64 {
	if chart == ChartGraph {
		return h.width(r, h.graphWidth)
	}
	return h.width(r, h.chartWidth)
}

const maxWidth = 4096
