package portfolio

import (
	"context"
	"fmt"

	"github.com/suitsy/portfolio/date"
)

// Options tunes a Dashboard.
type Options struct {
	Policy     FXPolicy
	Benchmarks []string // names in MarketData.Benchmarks, all of them when empty
}

// KPI are the headline figures of a dashboard, in home currency.
type KPI struct {
	Total  float64 `json:"total"` // current value
	Cost   float64 `json:"cost"`  // invested capital
	Profit float64 `json:"profit"`
	ROI    float64 `json:"roi"` // percent
}

// Dashboard is everything there is to display about a portfolio.
type Dashboard struct {
	Owner      string
	Home       string
	On         date.Date
	KPI        KPI
	Valuations []Valuation // transaction order
	Allocation []Slice
	Journal    []Valuation // newest first
	History    *History
	ROI        []float64
	Drawdown   []float64
	// MaxDrawdown is the deepest drawdown in percent, 0 or negative.
	MaxDrawdown float64
	Benchmarks  map[string][]float64 // ROI in percent aligned on History.Dates
	Change      float64
	ChangePct   float64
	// Insufficient is true when the history has fewer than 2 points and
	// cannot be charted.
	Insufficient bool
	Issues       Issues
}

// NewDashboard computes the full dashboard of p on m.
//
// It never fails: every missing piece of data degrades to a documented
// default and is listed in Issues.
func NewDashboard(p *Portfolio, m *MarketData, opts Options) *Dashboard {
	d := &Dashboard{
		Owner:      p.Owner,
		Home:       m.Home,
		On:         date.Today(),
		Benchmarks: map[string][]float64{},
	}
	var issues Issues
	d.Valuations, issues = Valuate(p, m)
	d.Issues = append(d.Issues, issues...)
	d.Allocation = Allocation(d.Valuations)
	d.Journal = Journal(d.Valuations)
	for _, v := range d.Valuations {
		d.KPI.Total += v.Value
		d.KPI.Cost += v.Cost
		d.KPI.Profit += v.Profit
	}
	if d.KPI.Cost > 0 {
		d.KPI.ROI = d.KPI.Profit / d.KPI.Cost * 100
	}

	d.History, issues = Reconstruct(p, m, opts.Policy)
	d.Issues = append(d.Issues, issues...)
	if d.History.Len() < 2 {
		d.Insufficient = true
		d.Issues = append(d.Issues, Issue{
			Kind: InsufficientHistory,
			Err:  fmt.Errorf("%d history points: %w", d.History.Len(), ErrInsufficientData),
		})
	}
	h := d.History
	d.ROI = ROI(h.Equity, h.Cost)
	d.Drawdown, d.MaxDrawdown = Drawdown(h.Equity, h.Cost)
	d.Change, d.ChangePct, _ = DailyChange(h.Equity)

	names := opts.Benchmarks
	if len(names) == 0 {
		names = m.Benchmarks.Names()
	}
	first := FirstTrade(h.Cost)
	for _, name := range names {
		roi, ok := BenchmarkROI(h.Dates, first, m.Benchmarks[name])
		if !ok {
			if !d.Insufficient {
				d.Issues = append(d.Issues, Issue{Kind: DataUnavailable, Symbol: name, Err: fmt.Errorf("benchmark: %w", ErrNoPrice)})
			}
			continue
		}
		d.Benchmarks[name] = roi
	}
	return d
}

// Compute loads from src the market data p needs and builds its dashboard.
// Loading issues come first in the dashboard issues.
func Compute(ctx context.Context, src Source, p *Portfolio, lopts LoadOptions, opts Options) *Dashboard {
	m, issues := Load(ctx, src, p, lopts)
	d := NewDashboard(p, m, opts)
	d.Issues = append(issues, d.Issues...)
	return d
}
