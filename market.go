package portfolio

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/suitsy/portfolio/date"
)

// Series is a set of dated series keyed by column name: a symbol for prices,
// a provider pair name (e.g. "USDPLN=X") for exchange rates, a display name
// for benchmarks.
type Series map[string]*date.History[float64]

// Names returns the sorted column names.
func (s Series) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Has reports whether column name exists and holds at least one finite value.
func (s Series) Has(name string) bool {
	h, ok := s[name]
	return ok && date.Finite(h).Len() > 0
}

// MarketData is the snapshot of market information a valuation runs on.
//
// It is built once per recomputation and never mutated by the computations.
type MarketData struct {
	Home       string
	Prices     Series             // historical prices in their own currency
	FX         Series             // historical foreign to home rates
	Quotes     map[string]float64 // live prices by symbol
	Rates      map[string]float64 // live foreign to home rates by currency
	Benchmarks Series             // benchmark prices by display name
}

// NewMarketData returns an empty snapshot for home currency.
func NewMarketData(home string) *MarketData {
	home = strings.ToUpper(home)
	return &MarketData{
		Home:       home,
		Prices:     Series{},
		FX:         Series{},
		Quotes:     map[string]float64{},
		Rates:      map[string]float64{home: 1.0},
		Benchmarks: Series{},
	}
}

// Matrix is a set of series aligned on a common date index.
// NaN marks a date where a column has no value.
type Matrix struct {
	Index   []date.Date
	Columns map[string][]float64
}

// NewMatrix aligns every column of s on the union of their dates.
func NewMatrix(s Series) *Matrix {
	clean := make(map[string]*date.History[float64], len(s))
	hs := make([]*date.History[float64], 0, len(s))
	for name, h := range s {
		clean[name] = date.Finite(h)
		hs = append(hs, clean[name])
	}
	m := &Matrix{Index: date.Union(hs...), Columns: make(map[string][]float64, len(s))}
	for name, h := range clean {
		m.Columns[name] = date.Reindex(h, m.Index)
	}
	return m
}

// Empty reports whether the matrix has no date or no column.
func (m *Matrix) Empty() bool { return len(m.Index) == 0 || len(m.Columns) == 0 }

// Column returns a gap filled copy of the named column.
//
// It returns false when the column does not exist or has no value at all.
func (m *Matrix) Column(name string) ([]float64, bool) {
	col, ok := m.Columns[name]
	if !ok {
		return nil, false
	}
	filled := date.Fill(slices.Clone(col))
	if len(filled) == 0 || math.IsNaN(filled[0]) {
		return nil, false
	}
	return filled, true
}

// ResolvePrice returns the best available price for symbol.
//
// A finite strictly positive live quote wins, then the last finite value of
// the price history. 0 means no price is available.
func ResolvePrice(symbol string, quotes map[string]float64, prices Series) float64 {
	if q, ok := quotes[symbol]; ok && q > 0 && !math.IsInf(q, 0) {
		return q
	}
	if _, last := date.Finite(prices[symbol]).Latest(); last > 0 {
		return last
	}
	return 0
}

// ResolveFX returns the live rate converting currency to home.
//
// Home is always 1. A missing or non positive rate also yields 1: callers
// that need to know must check rates themselves.
func ResolveFX(currency, home string, rates map[string]float64) float64 {
	if currency == "" || currency == home {
		return 1
	}
	if r, ok := rates[currency]; ok && r > 0 && !math.IsInf(r, 0) {
		return r
	}
	return 1
}

// FindFXColumn returns the column of fx holding the currency to home rate.
//
// Providers decorate pair names ("USDPLN=X", "USD/PLN", "usd") so the match is
// on substrings, case insensitive, in this order: the column contains
// currency+home, the column starts with currency, the column contains
// currency. Ties are broken alphabetically.
func FindFXColumn(fx Series, currency, home string) (string, bool) {
	currency, home = strings.ToUpper(currency), strings.ToUpper(home)
	if currency == "" {
		return "", false
	}
	names := fx.Names()
	rules := []func(string) bool{
		func(n string) bool { return strings.Contains(n, currency+home) },
		func(n string) bool { return strings.HasPrefix(n, currency) },
		func(n string) bool { return strings.Contains(n, currency) },
	}
	for _, match := range rules {
		for _, name := range names {
			if match(strings.ToUpper(name)) {
				return name, true
			}
		}
	}
	return "", false
}

// FXPolicy decides what happens to a foreign position without exchange rate history.
type FXPolicy int

const (
	// FXStrict excludes the position from the history.
	FXStrict FXPolicy = iota
	// FXLenient values the position at parity with home.
	FXLenient
)

func (p FXPolicy) String() string {
	switch p {
	case FXStrict:
		return "strict"
	case FXLenient:
		return "lenient"
	default:
		return fmt.Sprintf("FXPolicy(%d)", int(p))
	}
}

// ParseFXPolicy parses "strict" or "lenient". The empty string is strict.
func ParseFXPolicy(s string) (FXPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return FXStrict, nil
	case "lenient":
		return FXLenient, nil
	default:
		return FXStrict, fmt.Errorf("invalid fx policy %q want \"strict\" or \"lenient\"", s)
	}
}
