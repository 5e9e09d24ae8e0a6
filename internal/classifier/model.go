package classifier

import (
	"fmt"
	"sync"
)

// Shape fixes the tensor geometry of a model session.
type Shape struct {
	Size    int
	Outputs int
	Input   string
	Output  string
}

// InputLen is the element count of the (1,S,S,3) input tensor.
func (s Shape) InputLen() int {
	return s.Size * s.Size * 3
}

// Model runs one forward pass. Implementations need not be safe for
// concurrent use; the classifier serializes calls per model.
type Model interface {
	Infer(input []float32) ([]float32, error)
	Close() error
}

// Runtime opens models from artifact bytes.
type Runtime interface {
	Open(name string, artifact []byte, shape Shape) (Model, error)
	Close() error
}

// warmupThreshold is the probability mass below which a model's first
// output is treated as uninitialized and the pass is repeated.
const warmupThreshold = 1e-6

// runner serializes inference on one model and applies the first-run
// warm-up retry.
type runner struct {
	name    string
	model   Model
	classes []string
	shape   Shape

	mu  sync.Mutex
	ran bool
}

func newRunner(name string, model Model, classes []string, shape Shape) *runner {
	return &runner{name: name, model: model, classes: classes, shape: shape}
}

func (r *runner) run(input []float32) ([]float32, error) {
	if len(input) != r.shape.InputLen() {
		return nil, fmt.Errorf("%w: %s wants %d values, got %d", ErrInvalidInput, r.name, r.shape.InputLen(), len(input))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	probs, err := r.model.Infer(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInference, r.name, err)
	}

	if !r.ran && sum(probs) < warmupThreshold {
		probs, err = r.model.Infer(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInference, r.name, err)
		}
	}
	r.ran = true
	return probs, nil
}

func (r *runner) rank(input []float32) ([]Prediction, error) {
	probs, err := r.run(input)
	if err != nil {
		return nil, err
	}
	return Rank(probs, r.classes), nil
}

func sum(v []float32) float64 {
	var total float64
	for _, p := range v {
		total += float64(p)
	}
	return total
}
