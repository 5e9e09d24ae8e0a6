package classifier

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// Catalog describes the models served by the classifier. It is read from a
// YAML manifest whose artifact paths are relative to the manifest location.
type Catalog struct {
	// Size is the square input edge S; tensors are (1,S,S,3).
	Size int `yaml:"size" json:"size"`
	// Mean and Std standardize each RGB channel of the 0-255 pixel values.
	Mean []float32 `yaml:"mean" json:"mean"`
	Std  []float32 `yaml:"std" json:"std"`
	// Input and Output name the graph tensors. Defaults: "input", "output".
	Input  string `yaml:"input" json:"input"`
	Output string `yaml:"output" json:"output"`

	Base   ModelSpec  `yaml:"base" json:"base"`
	Coarse *ModelSpec `yaml:"coarse,omitempty" json:"coarse,omitempty"`
	// Groups maps a coarse class name to the fine model that refines it.
	Groups map[string]ModelSpec `yaml:"groups,omitempty" json:"groups,omitempty"`
}

// ModelSpec locates a model artifact and its class manifest.
type ModelSpec struct {
	Model   string `yaml:"model" json:"model"`
	Classes string `yaml:"classes" json:"classes"`
	// Outputs overrides the probability vector length when the class
	// manifest is shorter than the model head.
	Outputs int `yaml:"outputs,omitempty" json:"outputs,omitempty"`
}

// ClassManifest is the JSON document listing a model's class names in
// output order.
type ClassManifest struct {
	ClassNames []string `json:"class_names"`
}

// ParseCatalog decodes and validates a YAML catalog manifest.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if c.Input == "" {
		c.Input = "input"
	}
	if c.Output == "" {
		c.Output = "output"
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: size must be positive", ErrInvalidCatalog)
	}
	if len(c.Mean) != 3 || len(c.Std) != 3 {
		return fmt.Errorf("%w: mean and std need one value per RGB channel", ErrInvalidCatalog)
	}
	for i, s := range c.Std {
		if s == 0 {
			return fmt.Errorf("%w: std[%d] must be non-zero", ErrInvalidCatalog, i)
		}
	}
	if c.Base.Model == "" {
		return fmt.Errorf("%w: base model required", ErrInvalidCatalog)
	}
	if len(c.Groups) > 0 && c.Coarse == nil {
		return fmt.Errorf("%w: groups require a coarse model", ErrInvalidCatalog)
	}
	for key, spec := range c.Groups {
		if spec.Model == "" {
			return fmt.Errorf("%w: group %q has no model", ErrInvalidCatalog, key)
		}
	}
	return nil
}

// Normalization returns the per-channel standardization of the catalog.
func (c *Catalog) Normalization() Normalization {
	var n Normalization
	copy(n.Mean[:], c.Mean)
	copy(n.Std[:], c.Std)
	return n
}

// GroupKeys returns the group names in sorted order.
func (c *Catalog) GroupKeys() []string {
	return slices.Sorted(maps.Keys(c.Groups))
}

// ParseClassManifest decodes a class manifest. A missing class_names field
// yields an empty list.
func ParseClassManifest(data []byte) ([]string, error) {
	var m ClassManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: class manifest: %v", ErrInvalidCatalog, err)
	}
	return m.ClassNames, nil
}
