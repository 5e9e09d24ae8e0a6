package app

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/wayfinder/internal/confusion"
	"github.com/JaimeStill/wayfinder/internal/dashboard"
	"github.com/JaimeStill/wayfinder/internal/render"
	"github.com/JaimeStill/wayfinder/internal/runs"
	"github.com/JaimeStill/wayfinder/pkg/web"
)

var tabLabels = map[dashboard.Tab]string{
	dashboard.TabHistory:  "Training History",
	dashboard.TabPerClass: "Per-Class Accuracy",
	dashboard.TabMatrix:   "Confusion Matrix",
	dashboard.TabGraph:    "Confusion Graph",
}

// Page is the data behind the dashboard template.
type Page struct {
	Runs     []string
	Run      string
	Tab      dashboard.Tab
	Tabs     []TabLink
	Filter   confusion.Filter
	Status   string
	Meta     string
	Averages *dashboard.Averages
	Charts   []Chart
	Error    string
}

// TabLink is one entry of the panel switcher.
type TabLink struct {
	Label  string
	Href   string
	Active bool
}

// Chart is an inline SVG chart.
type Chart struct {
	Name dashboard.Chart
	SVG  template.HTML
}

type page struct {
	runs   runs.System
	views  *web.TemplateSet
	opts   Options
	logger *slog.Logger
}

func (p *page) dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	catalog, err := p.runs.List(r.Context())
	if err != nil {
		p.logger.Warn("run catalog unavailable", "error", err)
		catalog = &runs.Catalog{}
	}

	name := q.Get("run")
	if name == "" {
		name = catalog.Default
	}

	st, err := p.state(q)
	if err != nil {
		p.render(w, http.StatusBadRequest, &Page{Runs: catalog.Runs, Run: name, Error: err.Error()})
		return
	}

	status := http.StatusOK
	if name != "" {
		st, status = p.load(r, st, name)
	}

	view, err := dashboard.BuildView(st, p.opts.GraphWidth)
	if err != nil {
		p.render(w, dashboard.MapHTTPStatus(err), &Page{Runs: catalog.Runs, Run: name, Error: err.Error()})
		return
	}

	pg := &Page{
		Runs:   catalog.Runs,
		Run:    name,
		Tab:    st.Tab,
		Filter: st.Filter,
		Status: st.Status,
		Meta:   meta(view),
	}
	if view.PerClass != nil {
		pg.Averages = &view.PerClass.Averages
	}
	pg.Tabs = p.tabs(name, st)

	for _, c := range charts(st.Tab) {
		svg, err := p.paint(st, c)
		if err != nil {
			p.logger.Error("chart render failed", "chart", c, "error", err)
			p.render(w, http.StatusInternalServerError, &Page{Runs: catalog.Runs, Run: name, Error: err.Error()})
			return
		}
		pg.Charts = append(pg.Charts, Chart{Name: c, SVG: svg})
	}

	p.render(w, status, pg)
}

// state builds the session the query describes, minus the run data.
func (p *page) state(q url.Values) (dashboard.State, error) {
	st := dashboard.NewState(uuid.Nil)

	tab := dashboard.TabHistory
	if s := q.Get("tab"); s != "" {
		t, err := dashboard.ParseTab(s)
		if err != nil {
			return st, err
		}
		tab = t
	}

	f, err := dashboard.FilterFromQuery(q)
	if err != nil {
		return st, err
	}

	steps := []dashboard.Transition{
		dashboard.SelectTab(tab),
		dashboard.SetAccuracyFilter(f.MaxAccuracyPercent),
		dashboard.SetMinConfusions(f.MinConfusions),
		dashboard.SetSingleEdges(f.SingleEdges),
	}
	for _, t := range steps {
		if st, err = t(st); err != nil {
			return st, err
		}
	}
	return st, nil
}

func (p *page) load(r *http.Request, st dashboard.State, name string) (dashboard.State, int) {
	next, err := dashboard.BeginLoad(name)(st)
	if err != nil {
		failed, _ := dashboard.FailLoad(name)(st)
		return failed, http.StatusBadRequest
	}

	run, err := p.runs.Load(r.Context(), name)
	if err == nil {
		next, err = dashboard.ApplyRun(run)(next)
	}
	if err != nil {
		p.logger.Warn("run load failed", "run", name, "error", err)
		failed, _ := dashboard.FailLoad(name)(next)
		return failed, runs.MapHTTPStatus(err)
	}
	return next, http.StatusOK
}

func (p *page) tabs(run string, st dashboard.State) []TabLink {
	out := make([]TabLink, 0, len(dashboard.Tabs()))
	for _, t := range dashboard.Tabs() {
		q := url.Values{"tab": {string(t)}}
		if run != "" {
			q.Set("run", run)
		}
		if t.ShowsAccuracyFilter() {
			q.Set("max_accuracy", strconv.FormatFloat(st.Filter.MaxAccuracyPercent, 'f', -1, 64))
		}
		if t.ShowsGraphFilter() {
			q.Set("min_confusions", strconv.Itoa(st.Filter.MinConfusions))
			q.Set("single_edges", strconv.FormatBool(st.Filter.SingleEdges))
		}
		out = append(out, TabLink{
			Label:  tabLabels[t],
			Href:   p.views.BasePath() + "?" + q.Encode(),
			Active: t == st.Tab,
		})
	}
	return out
}

func (p *page) paint(st dashboard.State, c dashboard.Chart) (template.HTML, error) {
	width := p.opts.ChartWidth
	if c == dashboard.ChartGraph {
		width = p.opts.GraphWidth
	}

	var buf bytes.Buffer
	if err := dashboard.Paint(render.NewSVG(&buf), st, c, width); err != nil {
		return "", err
	}
	return inline(buf.Bytes()), nil
}

func (p *page) render(w http.ResponseWriter, status int, pg *Page) {
	if err := p.views.Render(w, status, layout, dashboardView, pg); err != nil {
		p.logger.Error("page render failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func charts(tab dashboard.Tab) []dashboard.Chart {
	if tab == dashboard.TabHistory {
		return []dashboard.Chart{dashboard.ChartAccuracy, dashboard.ChartLoss}
	}
	return []dashboard.Chart{dashboard.DefaultChart(tab)}
}

func meta(v dashboard.View) string {
	switch {
	case v.History != nil:
		return v.History.Meta
	case v.PerClass != nil:
		return v.PerClass.Meta
	case v.Matrix != nil:
		return v.Matrix.Meta
	case v.Graph != nil:
		if v.Graph.Meta == "" {
			return v.Graph.Message
		}
		return v.Graph.Meta
	}
	return ""
}

var svgOpen = []byte("<svg")

// inline drops the XML prolog so the document can sit inside HTML.
func inline(doc []byte) template.HTML {
	if i := bytes.Index(doc, svgOpen); i > 0 {
		doc = doc[i:]
	}
	return template.HTML(doc)
}
