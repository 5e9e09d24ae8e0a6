package dashboard_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/wayfinder/internal/confusion"
	"github.com/JaimeStill/wayfinder/internal/runs"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// threeClass has one weak class (c, 50%) confused with a in both directions.
const threeClass = "true,a,b,c\n" +
	"a,8,0,2\n" +
	"b,0,10,0\n" +
	"c,5,0,5\n"

const history = "epoch,accuracy,val_accuracy,loss,val_loss\n" +
	"0,0.5,0.4,1.2,1.3\n" +
	"1,0.8,0.7,0.6,0.7\n"

func buildRun(t *testing.T, name, matrix string) *runs.Run {
	t.Helper()
	m, err := confusion.ParseMatrix(strings.NewReader(matrix))
	if err != nil {
		t.Fatalf("ParseMatrix: %v", err)
	}
	h, err := runs.ParseHistory(strings.NewReader(history))
	if err != nil {
		t.Fatalf("ParseHistory: %v", err)
	}
	return &runs.Run{Name: name, History: h, Matrix: m, Records: confusion.BuildRecords(m)}
}

type fakeRuns struct {
	catalog *runs.Catalog
	loadFn  func(ctx context.Context, name string) (*runs.Run, error)
}

func (f *fakeRuns) Handler() *runs.Handler {
	return runs.NewHandler(f, discard())
}

func (f *fakeRuns) List(context.Context) (*runs.Catalog, error) {
	if f.catalog == nil {
		return nil, runs.ErrRunNotFound
	}
	return f.catalog, nil
}

func (f *fakeRuns) History(ctx context.Context, name string) (*runs.History, error) {
	run, err := f.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return run.History, nil
}

func (f *fakeRuns) Load(ctx context.Context, name string) (*runs.Run, error) {
	return f.loadFn(ctx, name)
}

// staticRuns serves threeClass under every name except "missing".
func staticRuns(t *testing.T) *fakeRuns {
	return &fakeRuns{
		catalog: &runs.Catalog{Runs: []string{"baseline"}, Default: "baseline"},
		loadFn: func(_ context.Context, name string) (*runs.Run, error) {
			if name == "missing" {
				return nil, runs.ErrRunNotFound
			}
			return buildRun(t, name, threeClass), nil
		},
	}
}
