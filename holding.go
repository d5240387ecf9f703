package portfolio

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/suitsy/portfolio/date"
)

// Valuation is the value today of the position opened by one transaction.
// Amounts are in the home currency unless stated otherwise.
type Valuation struct {
	Index     int       `json:"index"` // of the transaction in the portfolio
	Symbol    string    `json:"symbol"`
	Currency  string    `json:"currency"`
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"` // live price in Currency, 0 when unknown
	Rate      float64   `json:"rate"`  // Currency to home
	Value     float64   `json:"value"`
	Profit    float64   `json:"profit"`
	ProfitPct float64   `json:"profit_pct"`
	Cost      float64   `json:"cost"`
	Note      string    `json:"note"`
	Date      date.Date `json:"date"` // purchase date
}

// Valuate values every transaction of p against m, in transaction order.
//
// A position without price is valued at 0 and reports no profit. A foreign
// position without a live rate is converted at parity.
func Valuate(p *Portfolio, m *MarketData) ([]Valuation, Issues) {
	var issues Issues
	reported := map[string]bool{}
	vals := make([]Valuation, 0, p.Len())
	for i, tx := range p.transactions {
		price := ResolvePrice(tx.Symbol, m.Quotes, m.Prices)
		rate := ResolveFX(tx.Currency, m.Home, m.Rates)

		if price == 0 && !reported["p:"+tx.Symbol] {
			reported["p:"+tx.Symbol] = true
			issues = append(issues, Issue{Kind: DataUnavailable, Symbol: tx.Symbol, Currency: tx.Currency, Err: ErrNoPrice})
		}
		if tx.Currency != m.Home {
			if r, ok := m.Rates[tx.Currency]; (!ok || r <= 0) && !reported["fx:"+tx.Currency] {
				reported["fx:"+tx.Currency] = true
				issues = append(issues, Issue{
					Kind:     MissingFX,
					Currency: tx.Currency,
					Err:      fmt.Errorf("no live %s%s rate, using parity: %w", tx.Currency, m.Home, ErrMissingFX),
				})
			}
		}
		v := valuate(tx, price, rate)
		v.Index = i
		vals = append(vals, v)
	}
	return vals, issues
}

// valuate computes one position. Profit needs a price, profit percent also needs a cost.
func valuate(tx Transaction, price, rate float64) Valuation {
	v := Valuation{
		Symbol:   tx.Symbol,
		Currency: tx.Currency,
		Quantity: tx.Quantity,
		Price:    price,
		Rate:     rate,
		Value:    tx.Quantity * price * rate,
		Cost:     tx.Cost,
		Note:     tx.Note,
		Date:     tx.Date,
	}
	if price > 0 {
		v.Profit = v.Value - tx.Cost
		if tx.Cost > 0 {
			v.ProfitPct = v.Profit / tx.Cost * 100
		}
	}
	return v
}

// Slice is the share of one symbol in the portfolio value.
type Slice struct {
	Symbol string  `json:"symbol"`
	Value  float64 `json:"value"`
	Cost   float64 `json:"cost"`
	Share  Percent `json:"share"` // of the total value
}

// Allocation groups vals by symbol, largest value first.
func Allocation(vals []Valuation) []Slice {
	index := map[string]int{}
	var out []Slice
	var total float64
	for _, v := range vals {
		total += v.Value
		i, ok := index[v.Symbol]
		if !ok {
			i = len(out)
			index[v.Symbol] = i
			out = append(out, Slice{Symbol: v.Symbol})
		}
		out[i].Value += v.Value
		out[i].Cost += v.Cost
	}
	for i := range out {
		if total > 0 {
			out[i].Share = Percent(out[i].Value / total * 100)
		}
	}
	slices.SortStableFunc(out, func(a, b Slice) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Symbol, b.Symbol)
	})
	return out
}

// Journal returns a copy of vals, most recent purchase first.
// Purchases of the same day keep their order.
func Journal(vals []Valuation) []Valuation {
	out := slices.Clone(vals)
	slices.SortStableFunc(out, func(a, b Valuation) int { return b.Date.Compare(a.Date) })
	return out
}
