package render

import (
	"math"
	"strconv"
)

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickStep returns a 1-2-5 step yielding roughly count ticks over [start, stop].
func tickStep(start, stop float64, count int) float64 {
	if count <= 0 || stop <= start {
		return 0
	}
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	ratio := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case ratio >= e10:
		factor = 10
	case ratio >= e5:
		factor = 5
	case ratio >= e2:
		factor = 2
	}
	return factor * math.Pow(10, power)
}

// Nice extends domain outward to round tick values.
func Nice(domain [2]float64, count int) [2]float64 {
	start, stop := domain[0], domain[1]
	if stop < start {
		start, stop = stop, start
	}
	prev := 0.0
	for range 10 {
		step := tickStep(start, stop, count)
		if step == 0 || step == prev {
			break
		}
		start = math.Floor(start/step) * step
		stop = math.Ceil(stop/step) * step
		prev = step
	}
	return [2]float64{start, stop}
}

// Ticks returns round values within domain, about count of them.
func Ticks(domain [2]float64, count int) []float64 {
	start, stop := domain[0], domain[1]
	if start == stop {
		return []float64{start}
	}
	step := tickStep(start, stop, count)
	if step == 0 {
		return nil
	}
	lo := int(math.Ceil(start/step - 1e-9))
	hi := int(math.Floor(stop/step + 1e-9))
	out := make([]float64, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, roundTo(float64(i)*step, step))
	}
	return out
}

// TickLabel formats v with the precision implied by step.
func TickLabel(v, step float64) string {
	return strconv.FormatFloat(v, 'f', decimals(step), 64)
}

func decimals(step float64) int {
	if step <= 0 || step >= 1 {
		return 0
	}
	return int(math.Max(0, -math.Floor(math.Log10(step)+1e-9)))
}

func roundTo(v, step float64) float64 {
	p := math.Pow(10, float64(decimals(step)))
	return math.Round(v*p) / p
}
