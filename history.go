package portfolio

import (
	"fmt"
	"slices"

	"github.com/suitsy/portfolio/date"
)

// History is the reconstructed daily evolution of a portfolio, in home currency.
//
// All slices share the Dates index.
type History struct {
	Dates         []date.Date
	Equity        []float64
	Cost          []float64
	Contributions map[string][]float64 // per symbol, sums to Equity
}

// Empty reports whether there is no date at all.
func (h *History) Empty() bool { return h == nil || len(h.Dates) == 0 }

// Len returns the number of dates.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Dates)
}

// Span returns the first and last dates of the history, a zero range when empty.
func (h *History) Span() date.Range {
	if h.Empty() {
		return date.Range{}
	}
	return date.Range{From: h.Dates[0], To: h.Dates[len(h.Dates)-1]}
}

// Reconstruct rebuilds the equity and cost curves of p over the dates of the
// price history in m.
//
// Each transaction contributes nothing before its purchase date, then
// quantity*price*rate with gap filled price and rate. Its cost steps in on the
// purchase date. A transaction whose symbol has no price history is left out.
// A foreign transaction without rate history is left out or converted at
// parity, depending on policy.
//
// An empty price history or an empty portfolio yields an empty History.
func Reconstruct(p *Portfolio, m *MarketData, policy FXPolicy) (*History, Issues) {
	h := &History{Contributions: map[string][]float64{}}
	prices := NewMatrix(m.Prices)
	if prices.Empty() || p.Len() == 0 {
		return h, nil
	}
	n := len(prices.Index)
	h.Dates = slices.Clone(prices.Index)
	h.Equity = make([]float64, n)
	h.Cost = make([]float64, n)

	var issues Issues
	reported := map[string]bool{}
	report := func(key string, i Issue) {
		if !reported[key] {
			reported[key] = true
			issues = append(issues, i)
		}
	}

	rates := map[string][]float64{}
	rateOf := func(currency string) ([]float64, bool) {
		if r, ok := rates[currency]; ok {
			return r, r != nil
		}
		r := fxColumn(m, currency, h.Dates)
		rates[currency] = r
		return r, r != nil
	}

	for _, tx := range p.transactions {
		price, ok := prices.Column(tx.Symbol)
		if !ok {
			report("p:"+tx.Symbol, Issue{
				Kind:   DataUnavailable,
				Symbol: tx.Symbol,
				Err:    fmt.Errorf("no price history, left out of the history: %w", ErrNoPrice),
			})
			continue
		}
		rate, ok := rateOf(tx.Currency)
		if !ok {
			issue := Issue{Kind: MissingFX, Symbol: tx.Symbol, Currency: tx.Currency}
			if policy == FXStrict {
				issue.Err = fmt.Errorf("no %s%s rate history, left out of the history: %w", tx.Currency, m.Home, ErrMissingFX)
				report("fx:"+tx.Symbol+":"+tx.Currency, issue)
				continue
			}
			issue.Err = fmt.Errorf("no %s%s rate history, using parity: %w", tx.Currency, m.Home, ErrMissingFX)
			report("fx:"+tx.Symbol+":"+tx.Currency, issue)
			rate = ones(n)
		}

		contrib, ok := h.Contributions[tx.Symbol]
		if !ok {
			contrib = make([]float64, n)
			h.Contributions[tx.Symbol] = contrib
		}
		for i, on := range h.Dates {
			if on.Before(tx.Date) {
				continue
			}
			v := price[i] * tx.Quantity * rate[i]
			contrib[i] += v
			h.Equity[i] += v
			h.Cost[i] += tx.Cost
		}
	}
	return h, issues
}

// fxColumn returns the currency to home rates aligned on index, or nil when
// there is no usable rate history. Home is always 1.
func fxColumn(m *MarketData, currency string, index []date.Date) []float64 {
	if currency == "" || currency == m.Home {
		return ones(len(index))
	}
	name, ok := FindFXColumn(m.FX, currency, m.Home)
	if !ok || !m.FX.Has(name) {
		return nil
	}
	return date.Align(m.FX[name], index)
}

func ones(n int) []float64 {
	r := make([]float64, n)
	for i := range r {
		r[i] = 1
	}
	return r
}
