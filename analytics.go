package portfolio

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/suitsy/portfolio/date"
)

// FirstTrade returns the index of the first strictly positive cost, or -1.
func FirstTrade(cost []float64) int {
	for i, c := range cost {
		if c > 0 {
			return i
		}
	}
	return -1
}

// ROI returns the return on investment in percent at each date.
// It is 0 wherever there is no cost yet.
func ROI(equity, cost []float64) []float64 {
	roi := make([]float64, len(equity))
	first := FirstTrade(cost)
	if first < 0 {
		return roi
	}
	for i := first; i < len(equity) && i < len(cost); i++ {
		if cost[i] > 0 {
			roi[i] = (equity[i]/cost[i] - 1) * 100
		}
	}
	return roi
}

// Drawdown returns the percent drop from the running maximum of equity, from
// the first trade on, and the deepest of those drops.
//
// Dates before the first trade have no drawdown. Without trade the maximum
// drawdown is 0.
func Drawdown(equity, cost []float64) ([]float64, float64) {
	dd := make([]float64, len(equity))
	first := FirstTrade(cost)
	if first < 0 || first >= len(equity) {
		return dd, 0
	}
	peak := math.Inf(-1)
	for i := first; i < len(equity); i++ {
		peak = math.Max(peak, equity[i])
		if peak > 0 {
			dd[i] = (equity[i] - peak) / peak * 100
		}
	}
	return dd, floats.Min(dd[first:])
}

// BenchmarkROI aligns bench on dates and returns its performance in percent
// from the first trade on, 0 before and on that date.
//
// The reference price is the benchmark price at the first trade, or its
// aligned price on dates[0] when that one is not positive. The result is
// false when bench has no usable price.
func BenchmarkROI(dates []date.Date, first int, bench *date.History[float64]) ([]float64, bool) {
	roi := make([]float64, len(dates))
	if first < 0 || first >= len(dates) {
		return roi, false
	}
	clean := date.Finite(bench)
	if clean.Len() == 0 {
		return roi, false
	}
	prices := date.Align(clean, dates)
	base := prices[first]
	if math.IsNaN(base) || base <= 0 {
		base = prices[0]
	}
	if base <= 0 {
		return roi, false
	}
	for i := first + 1; i < len(dates); i++ {
		roi[i] = (prices[i]/base - 1) * 100
	}
	return roi, true
}

// DailyChange returns the change of the last equity point over the one before,
// in value and in percent. It is false with fewer than 2 points.
func DailyChange(equity []float64) (change, pct float64, ok bool) {
	n := len(equity)
	if n < 2 {
		return 0, 0, false
	}
	prev, last := equity[n-2], equity[n-1]
	change = last - prev
	if prev != 0 {
		pct = change / prev * 100
	}
	return change, pct, true
}
