// Package app serves the server-rendered analysis dashboard.
package app

import (
	"embed"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/wayfinder/internal/runs"
	"github.com/JaimeStill/wayfinder/pkg/module"
	"github.com/JaimeStill/wayfinder/pkg/web"
)

//go:embed server public
var content embed.FS

const layout = "app"

var (
	dashboardView = web.ViewDef{Template: "dashboard.html", Title: "Wayfinder"}
	notFoundView  = web.ViewDef{Template: "not-found.html", Title: "Not Found"}
)

// Options sets the render widths of the embedded charts.
type Options struct {
	ChartWidth float64
	GraphWidth float64
}

// NewModule creates the dashboard module mounted at basePath.
func NewModule(basePath string, rs runs.System, opts Options, logger *slog.Logger) (*module.Module, error) {
	ts, err := web.NewTemplateSet(
		content,
		"server/layouts/*.html",
		"server/views",
		basePath,
		nil,
		dashboardView,
		notFoundView,
	)
	if err != nil {
		return nil, err
	}

	p := &page{
		runs:   rs,
		views:  ts,
		opts:   opts,
		logger: logger.With("handler", "app"),
	}

	router := web.NewRouter(ts.PageHandler(layout, notFoundView, http.StatusNotFound))
	router.HandleFunc("GET /{$}", p.dashboard)
	web.Assets(router, content, "public", "static", "app.css")

	return module.New(basePath, router), nil
}
