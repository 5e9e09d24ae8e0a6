package confusion

// ClassRecord holds derived statistics for one label of a confusion matrix.
// Accuracy is nil when the class has no samples.
type ClassRecord struct {
	Index    int       `json:"index"`
	Full     string    `json:"full"`
	Short    string    `json:"short"`
	Total    int       `json:"total"`
	Correct  int       `json:"correct"`
	Accuracy *float64  `json:"accuracy"`
	Row      []int     `json:"row"`
	RowPct   []float64 `json:"row_pct"`
}

// HasAccuracy reports whether the record has a defined accuracy.
func (c ClassRecord) HasAccuracy() bool {
	return c.Accuracy != nil
}

// AccuracyValue returns the accuracy, or 0 when undefined.
func (c ClassRecord) AccuracyValue() float64 {
	if c.Accuracy == nil {
		return 0
	}
	return *c.Accuracy
}

// BuildRecords derives one ClassRecord per label, in label order.
func BuildRecords(m *Matrix) []ClassRecord {
	records := make([]ClassRecord, m.Size())
	for i, label := range m.Labels {
		row := m.Counts[i]

		total := 0
		for _, v := range row {
			total += v
		}

		rec := ClassRecord{
			Index:   i,
			Full:    label,
			Short:   ShortLabel(label),
			Total:   total,
			Correct: m.At(i, i),
			Row:     row,
			RowPct:  make([]float64, len(row)),
		}

		if total > 0 {
			acc := float64(rec.Correct) / float64(total)
			rec.Accuracy = &acc
			for j, v := range row {
				rec.RowPct[j] = float64(v) / float64(total)
			}
		}

		records[i] = rec
	}
	return records
}

// Totals returns the row totals of the records, indexed by class.
func Totals(records []ClassRecord) []int {
	totals := make([]int, len(records))
	for _, r := range records {
		if r.Index >= 0 && r.Index < len(totals) {
			totals[r.Index] = r.Total
		}
	}
	return totals
}

// Indices returns the class indices of the records, in record order.
func Indices(records []ClassRecord) []int {
	indices := make([]int, len(records))
	for i, r := range records {
		indices[i] = r.Index
	}
	return indices
}
