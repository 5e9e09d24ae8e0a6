package dashboard

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/JaimeStill/wayfinder/internal/confusion"
	"github.com/JaimeStill/wayfinder/internal/runs"
)

// FilterFromQuery reads max_accuracy, min_confusions and single_edges from
// query parameters. Absent parameters take their defaults.
func FilterFromQuery(values url.Values) (confusion.Filter, error) {
	f := confusion.DefaultFilter()

	if s := values.Get("max_accuracy"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 || v > 100 {
			return f, fmt.Errorf("%w: max_accuracy %q", runs.ErrInvalidQuery, s)
		}
		f.MaxAccuracyPercent = v
	}

	if s := values.Get("min_confusions"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return f, fmt.Errorf("%w: min_confusions %q", runs.ErrInvalidQuery, s)
		}
		f.MinConfusions = v
	}

	if s := values.Get("single_edges"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return f, fmt.Errorf("%w: single_edges %q", runs.ErrInvalidQuery, s)
		}
		f.SingleEdges = v
	}

	return f, nil
}
