// Package runs reads training-run artifacts: the run manifest, per-run
// history logs, and per-run confusion matrices.
package runs

import (
	"strings"

	"github.com/JaimeStill/wayfinder/internal/confusion"
)

// Artifact names inside a run directory.
const (
	HistoryFile   = "history.csv"
	ConfusionFile = "confusion_matrix.csv"
)

// Catalog is the list of available runs. Fallback is set when the manifest
// could not be used and Runs holds only the configured default.
type Catalog struct {
	Runs     []string `json:"runs"`
	Default  string   `json:"default"`
	Fallback bool     `json:"fallback"`
}

// Run is a fully loaded training run.
type Run struct {
	Name    string                  `json:"name"`
	History *History                `json:"history"`
	Matrix  *confusion.Matrix       `json:"matrix"`
	Records []confusion.ClassRecord `json:"classes"`
}

// Totals returns the per-class row totals of the run.
func (r *Run) Totals() []int {
	return confusion.Totals(r.Records)
}

// ValidateName rejects run names that are empty or would escape the run directory.
func ValidateName(name string) error {
	if name == "" || name == "." || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return ErrInvalidRun
	}
	return nil
}
