package portfolio

import (
	"math"
	"time"

	"github.com/suitsy/portfolio/date"
)

// day is a helper for test to create dates in January 2025.
func day(d int) date.Date { return date.New(2025, time.January, d) }

// daily is a helper for test to create a series of consecutive days starting on start.
// NaN values are skipped, leaving a gap.
func daily(start date.Date, values ...float64) *date.History[float64] {
	h := new(date.History[float64])
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		h.Append(start.Add(i), v)
	}
	return h
}

// near compares floats with a small tolerance.
func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func nearAll(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !near(a[i], b[i]) {
			return false
		}
	}
	return true
}

var nan = math.NaN()
