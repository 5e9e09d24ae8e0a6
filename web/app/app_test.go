package app_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/wayfinder/internal/confusion"
	"github.com/JaimeStill/wayfinder/internal/runs"
	"github.com/JaimeStill/wayfinder/pkg/module"
	"github.com/JaimeStill/wayfinder/web/app"
)

const matrix = "true,a,b,c\n" +
	"a,8,0,2\n" +
	"b,0,10,0\n" +
	"c,5,0,5\n"

const history = "epoch,accuracy,val_accuracy,loss,val_loss\n" +
	"0,0.5,0.4,1.2,1.3\n" +
	"1,0.8,0.7,0.6,0.7\n"

type fakeRuns struct {
	t     *testing.T
	loads []string
}

func (f *fakeRuns) Handler() *runs.Handler {
	return runs.NewHandler(f, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (f *fakeRuns) List(context.Context) (*runs.Catalog, error) {
	return &runs.Catalog{Runs: []string{"baseline", "wide"}, Default: "baseline"}, nil
}

func (f *fakeRuns) History(ctx context.Context, name string) (*runs.History, error) {
	run, err := f.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return run.History, nil
}

func (f *fakeRuns) Load(_ context.Context, name string) (*runs.Run, error) {
	f.loads = append(f.loads, name)
	if name == "missing" {
		return nil, runs.ErrRunNotFound
	}
	m, err := confusion.ParseMatrix(strings.NewReader(matrix))
	if err != nil {
		f.t.Fatalf("ParseMatrix: %v", err)
	}
	h, err := runs.ParseHistory(strings.NewReader(history))
	if err != nil {
		f.t.Fatalf("ParseHistory: %v", err)
	}
	return &runs.Run{Name: name, History: h, Matrix: m, Records: confusion.BuildRecords(m)}, nil
}

func setup(t *testing.T) (*module.Router, *fakeRuns) {
	t.Helper()
	rs := &fakeRuns{t: t}
	m, err := app.NewModule("/app", rs, app.Options{ChartWidth: 640, GraphWidth: 760}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewModule: %v", err)
	}
	router := module.NewRouter()
	router.Mount(m)
	return router, rs
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", target, nil))
	return rec
}

func TestDashboardDefaultRun(t *testing.T) {
	router, rs := setup(t)

	rec := get(router, "/app")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rec.Code, rec.Body)
	}
	if len(rs.loads) != 1 || rs.loads[0] != "baseline" {
		t.Errorf("loads: got %v, want [baseline]", rs.loads)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`<option value="baseline" selected>`,
		"Loaded baseline",
		`<figure class="chart chart-accuracy"><svg`,
		`<figure class="chart chart-loss"><svg`,
		`class="active">Training History</a>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(body, "<?xml") {
		t.Error("inline SVG kept its XML prolog")
	}
}

func TestDashboardTabs(t *testing.T) {
	router, _ := setup(t)

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{
			"per-class with filter",
			"/app?run=wide&tab=per-class&max_accuracy=60",
			[]string{"Showing 1 of 3 classes", `value="60"`, "chart-per-class", "3 classes", "0 selected"},
		},
		{
			"matrix",
			"/app?run=wide&tab=matrix",
			[]string{"Showing 3 of 3 classes", "chart-matrix"},
		},
		{
			"graph filters",
			"/app?tab=graph&min_confusions=1&single_edges=true",
			[]string{"chart-graph", `name="single_edges" value="true" checked`, `class="active">Confusion Graph</a>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(router, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body)
			}
			body := rec.Body.String()
			for _, want := range tt.want {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q", want)
				}
			}
		})
	}
}

func TestDashboardTabLinksKeepRun(t *testing.T) {
	router, _ := setup(t)

	body := get(router, "/app?run=wide").Body.String()
	if !strings.Contains(body, `href="/app?max_accuracy=100&amp;run=wide&amp;tab=matrix"`) {
		t.Errorf("matrix tab link does not carry run and filter: %s", body)
	}
}

func TestDashboardFailedLoad(t *testing.T) {
	router, _ := setup(t)

	rec := get(router, "/app?run=missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Failed to load missing.") {
		t.Errorf("body missing failure status: %s", body)
	}
}

func TestDashboardRejectsQuery(t *testing.T) {
	router, rs := setup(t)

	for _, target := range []string{"/app?tab=sideways", "/app?max_accuracy=150", "/app?run=..%2Fescape"} {
		t.Run(target, func(t *testing.T) {
			if rec := get(router, target); rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rec.Code)
			}
		})
	}
	for _, name := range rs.loads {
		if strings.Contains(name, "..") {
			t.Errorf("invalid run name reached the loader: %q", name)
		}
	}
}

func TestNotFoundAndAssets(t *testing.T) {
	router, _ := setup(t)

	rec := get(router, "/app/nowhere")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Page not found") {
		t.Errorf("not found: got %d %s", rec.Code, rec.Body)
	}

	rec = get(router, "/app/static/app.css")
	if rec.Code != http.StatusOK {
		t.Errorf("stylesheet: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Errorf("stylesheet content-type: got %q", ct)
	}
}
