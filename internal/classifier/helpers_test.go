package classifier_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/wayfinder/internal/classifier"
	"github.com/JaimeStill/wayfinder/pkg/lifecycle"
	"github.com/JaimeStill/wayfinder/pkg/storage"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const hallways = "Site__Indoor__Hallways"

const catalogYAML = `size: 8
mean: [0, 0, 0]
std: [1, 1, 1]
base:
  model: base.onnx
  classes: base.json
coarse:
  model: coarse.onnx
  classes: coarse.json
groups:
  Site__Indoor__Hallways:
    model: halls.onnx
    classes: halls.json
`

const baseOnlyYAML = `size: 8
mean: [0, 0, 0]
std: [1, 1, 1]
base:
  model: base.onnx
  classes: base.json
`

// artifacts writes a model directory into a temporary artifact root.
func artifacts(t *testing.T, manifest string) (string, storage.System) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "models")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	files := map[string]string{
		"manifest.yaml": manifest,
		"base.json":     `{"class_names": ["a", "b", "c"]}`,
		"coarse.json":   `{"class_names": ["Site__Indoor__Hallways", "Site__Outdoor__Yard"]}`,
		"halls.json":    `{"class_names": ["h1", "h2"]}`,
		"base.onnx":     "base",
		"coarse.onnx":   "coarse",
		"halls.onnx":    "halls",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	store, err := storage.New(&storage.Config{Provider: storage.ProviderLocal, Root: root}, discard())
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	return dir, store
}

type fakeModel struct {
	mu      sync.Mutex
	outputs [][]float32
	err     error
	calls   int
	closed  bool
}

func (m *fakeModel) Infer([]float32) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	idx := min(m.calls-1, len(m.outputs)-1)
	return slices.Clone(m.outputs[idx]), nil
}

func (m *fakeModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *fakeModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *fakeModel) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

type fakeRuntime struct {
	mu     sync.Mutex
	models map[string]*fakeModel
	shapes map[string]classifier.Shape
	closed bool
}

func newRuntime() *fakeRuntime {
	return &fakeRuntime{
		models: map[string]*fakeModel{
			"base.onnx":   {outputs: [][]float32{{0.2, 0.7, 0.1}}},
			"coarse.onnx": {outputs: [][]float32{{0.6, 0.4}}},
			"halls.onnx":  {outputs: [][]float32{{0.25, 0.75}}},
		},
		shapes: make(map[string]classifier.Shape),
	}
}

func (rt *fakeRuntime) Open(name string, artifact []byte, shape classifier.Shape) (classifier.Model, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	m, ok := rt.models[name]
	if !ok {
		return nil, errors.New("unknown model " + name)
	}
	if len(artifact) == 0 {
		return nil, errors.New("empty artifact")
	}
	rt.shapes[name] = shape
	return m, nil
}

func (rt *fakeRuntime) Close() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.closed = true
	return nil
}

func (rt *fakeRuntime) Closed() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.closed
}

// started creates a classifier and runs its startup hooks.
func started(t *testing.T, store storage.System, rt classifier.Runtime, opts classifier.Options) (classifier.System, *lifecycle.Coordinator) {
	t.Helper()
	sys := classifier.New(store, rt, opts, discard())
	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start: %v", err)
	}
	lc.WaitForStartup()
	t.Cleanup(func() { lc.Shutdown(time.Second) })
	return sys, lc
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// hugePNG returns a small PNG whose header declares w×h pixels. Only the
// header is consistent; decoding the pixel data would fail.
func hugePNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(1, 1, color.RGBA{A: 255})); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()
	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc after 13 data bytes
	binary.BigEndian.PutUint32(b[16:20], w)
	binary.BigEndian.PutUint32(b[20:24], h)
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))
	return b
}
