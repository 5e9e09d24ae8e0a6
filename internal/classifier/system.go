package classifier

import (
	"context"
	"image"

	"github.com/JaimeStill/wayfinder/pkg/lifecycle"
)

// System defines the public contract for image classification.
type System interface {
	Handler() *Handler

	// Start loads the catalog and its models during startup and releases
	// them on shutdown.
	Start(lc *lifecycle.Coordinator) error
	// Ready reports whether every catalog model is loaded.
	Ready() bool
	// Status describes model readiness for display.
	Status() Status

	// Classify ranks the base model's classes for img.
	Classify(ctx context.Context, img image.Image) (*Result, error)
	// Hierarchical ranks the base and coarse models for img. When groups is
	// true, coarse classes with a group model are refined by it.
	Hierarchical(ctx context.Context, img image.Image, groups bool) (*HierarchicalResult, error)
}

// Status reports classifier readiness.
type Status struct {
	Ready   bool     `json:"ready"`
	Message string   `json:"message"`
	Size    int      `json:"size,omitempty"`
	Models  []string `json:"models,omitempty"`
	Groups  []string `json:"groups,omitempty"`
}

// Result is a single-model ranking.
type Result struct {
	Predictions []Prediction `json:"predictions"`
}

// HierarchicalResult carries the base ranking and the coarse ranking, the
// latter optionally refined by group models.
type HierarchicalResult struct {
	Base   []Prediction `json:"base"`
	Coarse []Prediction `json:"coarse"`
	Groups bool         `json:"groups"`
}
