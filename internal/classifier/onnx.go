package classifier

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNXOptions configures the ONNX Runtime environment.
type ONNXOptions struct {
	// Library is the path of the onnxruntime shared library. Empty uses the
	// platform default lookup.
	Library string
	// Threads limits intra-op parallelism per session. Zero keeps the
	// runtime default.
	Threads int
	// Dir is where model artifacts are staged. Empty uses os.TempDir.
	Dir string
}

type onnxRuntime struct {
	opts ONNXOptions
}

// NewONNXRuntime initializes the ONNX Runtime environment. Close destroys it
// and must be called after every model is closed.
func NewONNXRuntime(opts ONNXOptions) (Runtime, error) {
	if opts.Library != "" {
		ort.SetSharedLibraryPath(opts.Library)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("initialize onnx environment: %w", err)
	}
	return &onnxRuntime{opts: opts}, nil
}

func (rt *onnxRuntime) Open(name string, artifact []byte, shape Shape) (Model, error) {
	path, err := rt.stage(name, artifact)
	if err != nil {
		return nil, err
	}

	m := &onnxModel{path: path, shape: shape, threads: rt.opts.Threads}
	if err := m.build(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("open model %s: %w", name, err)
	}
	return m, nil
}

func (rt *onnxRuntime) Close() error {
	return ort.DestroyEnvironment()
}

// stage writes the artifact to disk; sessions are created from a file path.
func (rt *onnxRuntime) stage(name string, artifact []byte) (string, error) {
	pattern := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)) + "-*.onnx"
	f, err := os.CreateTemp(rt.opts.Dir, pattern)
	if err != nil {
		return "", fmt.Errorf("stage model %s: %w", name, err)
	}
	if _, err := f.Write(artifact); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("stage model %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("stage model %s: %w", name, err)
	}
	return f.Name(), nil
}

type onnxModel struct {
	path    string
	shape   Shape
	threads int

	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

func (m *onnxModel) build() error {
	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(m.shape.Size), int64(m.shape.Size), 3))
	if err != nil {
		return fmt.Errorf("create input tensor: %w", err)
	}

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(m.shape.Outputs)))
	if err != nil {
		input.Destroy()
		return fmt.Errorf("create output tensor: %w", err)
	}

	var options *ort.SessionOptions
	if m.threads > 0 {
		options, err = ort.NewSessionOptions()
		if err != nil {
			input.Destroy()
			output.Destroy()
			return fmt.Errorf("create session options: %w", err)
		}
		defer options.Destroy()
		if err := options.SetIntraOpNumThreads(m.threads); err != nil {
			input.Destroy()
			output.Destroy()
			return fmt.Errorf("set threads: %w", err)
		}
	}

	session, err := ort.NewAdvancedSession(m.path,
		[]string{m.shape.Input}, []string{m.shape.Output},
		[]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{output},
		options)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return fmt.Errorf("create session: %w", err)
	}

	m.session, m.input, m.output = session, input, output
	return nil
}

// Infer runs the session. A failed run releases the session and its
// tensors; the next call rebuilds them from the staged artifact.
func (m *onnxModel) Infer(data []float32) ([]float32, error) {
	if m.session == nil {
		if err := m.build(); err != nil {
			return nil, err
		}
	}

	copy(m.input.GetData(), data)
	if err := m.session.Run(); err != nil {
		m.release()
		return nil, err
	}
	return slices.Clone(m.output.GetData()), nil
}

func (m *onnxModel) release() error {
	var errs []error
	if m.session != nil {
		errs = append(errs, m.session.Destroy())
	}
	if m.input != nil {
		errs = append(errs, m.input.Destroy())
	}
	if m.output != nil {
		errs = append(errs, m.output.Destroy())
	}
	m.session, m.input, m.output = nil, nil, nil
	return errors.Join(errs...)
}

func (m *onnxModel) Close() error {
	return errors.Join(m.release(), os.Remove(m.path))
}
