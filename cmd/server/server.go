package main

import (
	"time"

	"github.com/JaimeStill/wayfinder/internal/config"
	"github.com/JaimeStill/wayfinder/internal/infrastructure"
)

// Server owns the infrastructure, the mounted modules, and the HTTP listener.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"modules", router.Prefixes(),
		"inference", infra.Runtime != nil,
	)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start registers every subsystem with the lifecycle coordinator, then
// begins serving. Model loading continues in the background; /readyz
// reports it per component.
func (s *Server) Start() error {
	lc := s.infra.Lifecycle

	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.modules.Start(lc); err != nil {
		return err
	}
	if err := s.http.Start(lc); err != nil {
		return err
	}

	go func() {
		lc.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready", "components", lc.Components())
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
