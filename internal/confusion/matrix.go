// Package confusion implements the confusion data pipeline: parsing a confusion
// matrix, deriving per-class statistics, filtering classes for display, aggregating
// accuracy over selections, and building the confusion graph with its circular layout.
// Everything here is a pure function of its inputs.
package confusion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Matrix is a square confusion matrix where Counts[i][j] is the number of
// samples with true label i predicted as label j.
type Matrix struct {
	Labels       []string `json:"labels"`
	Counts       [][]int  `json:"matrix"`
	InvalidCells int      `json:"invalid_cells"`
}

// Size returns the number of labels.
func (m *Matrix) Size() int {
	return len(m.Labels)
}

// At returns Counts[i][j], or 0 when either index is out of range.
func (m *Matrix) At(i, j int) int {
	if i < 0 || i >= len(m.Counts) || j < 0 || j >= len(m.Counts[i]) {
		return 0
	}
	return m.Counts[i][j]
}

// Sub returns the sub-matrix restricted to the given indices in the given order.
func (m *Matrix) Sub(indices []int) [][]int {
	sub := make([][]int, len(indices))
	for a, i := range indices {
		sub[a] = make([]int, len(indices))
		for b, j := range indices {
			sub[a][b] = m.At(i, j)
		}
	}
	return sub
}

// ParseMatrix reads a confusion matrix from CSV. The header holds the true-label
// column name followed by the predicted labels; each following row holds a true
// label and its counts. Malformed cells count as zero and are tallied in
// InvalidCells.
func ParseMatrix(r io.Reader) (*Matrix, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyMatrix
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	labels := make([]string, 0, len(header))
	for _, cell := range header[min(1, len(header)):] {
		labels = append(labels, strings.TrimSpace(cell))
	}
	if len(labels) == 0 {
		return nil, ErrEmptyMatrix
	}

	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if _, dup := seen[label]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, label)
		}
		seen[label] = struct{}{}
	}

	m := &Matrix{
		Labels: labels,
		Counts: make([][]int, 0, len(labels)),
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(m.Counts)+1, err)
		}
		if isBlank(record) {
			continue
		}

		row := len(m.Counts)
		if len(record) != len(labels)+1 {
			return nil, fmt.Errorf(
				"%w: row %d has %d cells, want %d",
				ErrNotSquare, row+1, len(record), len(labels)+1,
			)
		}
		if row >= len(labels) {
			return nil, fmt.Errorf("%w: more rows than labels (%d)", ErrNotSquare, len(labels))
		}
		if got := strings.TrimSpace(record[0]); got != labels[row] {
			return nil, fmt.Errorf(
				"%w: row %d is %q, column %d is %q",
				ErrLabelMismatch, row+1, got, row+1, labels[row],
			)
		}

		counts := make([]int, len(labels))
		for j, cell := range record[1:] {
			v, ok := parseCount(cell)
			if !ok {
				m.InvalidCells++
			}
			counts[j] = v
		}
		m.Counts = append(m.Counts, counts)
	}

	if len(m.Counts) != len(labels) {
		return nil, fmt.Errorf(
			"%w: %d rows for %d labels",
			ErrNotSquare, len(m.Counts), len(labels),
		)
	}

	return m, nil
}

func parseCount(cell string) (int, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
