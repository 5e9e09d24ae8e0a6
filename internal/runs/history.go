package runs

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Metric is a training metric value. Missing or malformed values are NaN and
// serialize as JSON null.
type Metric float64

// Valid reports whether m is finite.
func (m Metric) Valid() bool {
	f := float64(m)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(m))
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Metric(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*m = Metric(f)
	return nil
}

// Percent formats m as a percentage with two decimals, or "n/a".
func (m Metric) Percent() string {
	if !m.Valid() {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", float64(m)*100)
}

// Fixed formats m with four decimals, or "n/a".
func (m Metric) Fixed() string {
	if !m.Valid() {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", float64(m))
}

// Epoch is one row of a training history.
type Epoch struct {
	Epoch       float64 `json:"epoch"`
	Accuracy    Metric  `json:"accuracy"`
	ValAccuracy Metric  `json:"val_accuracy"`
	Loss        Metric  `json:"loss"`
	ValLoss     Metric  `json:"val_loss"`
}

// Summary holds the headline figures of a history.
type Summary struct {
	Epochs         int    `json:"epochs"`
	MaxAccuracy    Metric `json:"max_accuracy"`
	MaxValAccuracy Metric `json:"max_val_accuracy"`
	MinLoss        Metric `json:"min_loss"`
	MinValLoss     Metric `json:"min_val_loss"`
}

// String renders the summary as the one-line history caption.
func (s Summary) String() string {
	if s.Epochs == 0 {
		return "No history data"
	}
	return fmt.Sprintf(
		"Epochs: %d | Max acc: train %s val %s | Min loss: train %s val %s",
		s.Epochs,
		s.MaxAccuracy.Percent(), s.MaxValAccuracy.Percent(),
		s.MinLoss.Fixed(), s.MinValLoss.Fixed(),
	)
}

// History is a parsed training log.
type History struct {
	Epochs  []Epoch `json:"epochs"`
	Summary Summary `json:"summary"`
}

// Point is one chart coordinate.
type Point struct {
	X float64 `json:"x"`
	Y Metric  `json:"y"`
}

// Series returns the chart points of one metric, with x = epoch + 1.
func (h *History) Series(metric func(Epoch) Metric) []Point {
	points := make([]Point, len(h.Epochs))
	for i, e := range h.Epochs {
		points[i] = Point{X: e.Epoch + 1, Y: metric(e)}
	}
	return points
}

// Metric accessors for Series.
var (
	TrainAccuracy = func(e Epoch) Metric { return e.Accuracy }
	ValAccuracy   = func(e Epoch) Metric { return e.ValAccuracy }
	TrainLoss     = func(e Epoch) Metric { return e.Loss }
	ValLoss       = func(e Epoch) Metric { return e.ValLoss }
)

var historyColumns = []string{"epoch", "accuracy", "val_accuracy", "loss", "val_loss"}

// ParseHistory reads a history CSV with the columns epoch, accuracy,
// val_accuracy, loss and val_loss in any order. Missing columns and malformed
// cells read as NaN; rows whose epoch is not finite are dropped.
func ParseHistory(r io.Reader) (*History, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &History{Epochs: []Epoch{}, Summary: summarize(nil)}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidHistory, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	epochs := make([]Epoch, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidHistory, err)
		}

		cell := func(name string) float64 {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return math.NaN()
			}
			raw := strings.TrimSpace(record[i])
			if raw == "" {
				return 0
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return math.NaN()
			}
			return v
		}

		e := Epoch{
			Epoch:       cell(historyColumns[0]),
			Accuracy:    Metric(cell(historyColumns[1])),
			ValAccuracy: Metric(cell(historyColumns[2])),
			Loss:        Metric(cell(historyColumns[3])),
			ValLoss:     Metric(cell(historyColumns[4])),
		}
		if !Metric(e.Epoch).Valid() {
			continue
		}
		epochs = append(epochs, e)
	}

	return &History{Epochs: epochs, Summary: summarize(epochs)}, nil
}

func summarize(epochs []Epoch) Summary {
	nan := Metric(math.NaN())
	s := Summary{
		Epochs:         len(epochs),
		MaxAccuracy:    nan,
		MaxValAccuracy: nan,
		MinLoss:        nan,
		MinValLoss:     nan,
	}

	better := func(cur *Metric, v Metric, wantMax bool) {
		if !v.Valid() {
			return
		}
		if !cur.Valid() || (wantMax && v > *cur) || (!wantMax && v < *cur) {
			*cur = v
		}
	}

	for _, e := range epochs {
		better(&s.MaxAccuracy, e.Accuracy, true)
		better(&s.MaxValAccuracy, e.ValAccuracy, true)
		better(&s.MinLoss, e.Loss, false)
		better(&s.MinValLoss, e.ValLoss, false)
	}
	return s
}
