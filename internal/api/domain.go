package api

import (
	"github.com/JaimeStill/wayfinder/internal/classifier"
	"github.com/JaimeStill/wayfinder/internal/config"
	"github.com/JaimeStill/wayfinder/internal/dashboard"
	"github.com/JaimeStill/wayfinder/internal/runs"
	"github.com/JaimeStill/wayfinder/pkg/lifecycle"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Runs       runs.System
	Dashboard  dashboard.System
	Classifier classifier.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	runsSystem := runs.New(
		runtime.Storage,
		runs.Options{
			Prefix:     cfg.Analysis.Prefix,
			Manifest:   cfg.Analysis.Manifest,
			DefaultRun: cfg.Analysis.DefaultRun,
		},
		runtime.Logger,
	)

	dashboardSystem := dashboard.New(
		runsSystem,
		dashboard.Options{
			SessionTTL:    cfg.Analysis.SessionTTLDuration(),
			SweepInterval: cfg.Analysis.SweepIntervalDuration(),
			AutoLoad:      cfg.Analysis.LoadsDefaultRun(),
			GraphWidth:    cfg.Analysis.GraphWidth,
			ChartWidth:    cfg.Analysis.ChartWidth,
		},
		runtime.Logger,
	)

	classifierSystem := classifier.New(
		runtime.Storage,
		runtime.Runtime,
		classifier.Options{
			Prefix:        cfg.Inference.Prefix,
			Manifest:      cfg.Inference.Manifest,
			LoadLimit:     cfg.Inference.LoadLimit,
			GroupLimit:    cfg.Inference.GroupLimit,
			MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
			MaxPixels:     cfg.Inference.MaxPixels,
			RateLimit:     &cfg.API.RateLimit,
		},
		runtime.Logger,
	)

	return &Domain{
		Runs:       runsSystem,
		Dashboard:  dashboardSystem,
		Classifier: classifierSystem,
	}
}

// Start registers the stateful systems with the lifecycle coordinator.
func (d *Domain) Start(lc *lifecycle.Coordinator) error {
	if err := d.Dashboard.Start(lc); err != nil {
		return err
	}
	return d.Classifier.Start(lc)
}
