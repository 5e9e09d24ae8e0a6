package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/wayfinder/internal/api"
	"github.com/JaimeStill/wayfinder/internal/config"
	"github.com/JaimeStill/wayfinder/internal/infrastructure"
	"github.com/JaimeStill/wayfinder/pkg/lifecycle"
	"github.com/JaimeStill/wayfinder/pkg/middleware"
	"github.com/JaimeStill/wayfinder/pkg/module"
	"github.com/JaimeStill/wayfinder/web/app"
)

const appPrefix = "/app"

type Modules struct {
	API *api.API
	App *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.New(cfg, infra)
	if err != nil {
		return nil, err
	}

	appModule, err := app.NewModule(
		appPrefix,
		apiModule.Domain.Runs,
		app.Options{
			ChartWidth: cfg.Analysis.ChartWidth,
			GraphWidth: cfg.Analysis.GraphWidth,
		},
		infra.Logger.With("module", "app"),
	)
	if err != nil {
		return nil, err
	}
	appModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API: apiModule,
		App: appModule,
	}, nil
}

func (m *Modules) Start(lc *lifecycle.Coordinator) error {
	return m.API.Start(lc)
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API.Module)
	router.Mount(m.App)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, appPrefix, http.StatusFound)
	})

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body := map[string]any{"components": infra.Lifecycle.Components()}
		if !infra.Lifecycle.Ready() {
			body["status"] = "not ready"
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(body)
			return
		}
		body["status"] = "ready"
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(body)
	})

	return router
}
