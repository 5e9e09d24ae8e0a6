// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/wayfinder/internal/config"
	"github.com/JaimeStill/wayfinder/internal/infrastructure"
	"github.com/JaimeStill/wayfinder/pkg/lifecycle"
	"github.com/JaimeStill/wayfinder/pkg/middleware"
	"github.com/JaimeStill/wayfinder/pkg/module"
)

// API is the mounted module together with the domain systems behind it.
type API struct {
	Module *module.Module
	Domain *Domain
}

// New creates the API module with all domain handlers and middleware.
func New(cfg *config.Config, infra *infrastructure.Infrastructure) (*API, error) {
	runtime := NewRuntime(infra)
	domain := NewDomain(cfg, runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return &API{Module: m, Domain: domain}, nil
}

// Start registers the domain systems with the lifecycle coordinator.
func (a *API) Start(lc *lifecycle.Coordinator) error {
	return a.Domain.Start(lc)
}
