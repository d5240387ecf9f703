package renderer

import (
	"github.com/suitsy/portfolio"
	"github.com/suitsy/portfolio/date"
)

// Dashboard is the view of a portfolio dashboard.
// Numbers are handled using display types (Money, Percent) so that they
// already contain basics renderers (SignedString etc.)
type Dashboard struct {
	Owner string
	Home  string
	Date  date.Date

	Total       portfolio.Money
	Cost        portfolio.Money
	Profit      portfolio.Money
	ROI         portfolio.Percent
	Change      portfolio.Money
	ChangePct   portfolio.Percent
	MaxDrawdown portfolio.Percent

	// Insufficient is true when there is not enough history to report
	// change, drawdown and benchmarks.
	Insufficient bool

	Positions  []Position
	Allocation []AllocationSlice
	Benchmarks []Benchmark
	Issues     []string
}

// Position is one valued transaction.
type Position struct {
	Index     int
	Date      date.Date
	Symbol    string
	Quantity  string
	Price     portfolio.Money // in the position currency
	Rate      string
	Value     portfolio.Money
	Cost      portfolio.Money
	Profit    portfolio.Money
	ProfitPct portfolio.Percent
	Note      string
}

// AllocationSlice is the share of one symbol.
type AllocationSlice struct {
	Symbol string
	Value  portfolio.Money
	Share  portfolio.Percent
}

// Benchmark compares the portfolio ROI with a benchmark since the first trade.
type Benchmark struct {
	Name      string
	ROI       portfolio.Percent
	Portfolio portfolio.Percent
	Delta     portfolio.Percent
}

// NewDashboard creates the view of d.
func NewDashboard(d *portfolio.Dashboard) *Dashboard {
	home := d.Home
	v := &Dashboard{
		Owner:        d.Owner,
		Home:         home,
		Date:         d.On,
		Total:        portfolio.M(d.KPI.Total, home),
		Cost:         portfolio.M(d.KPI.Cost, home),
		Profit:       portfolio.M(d.KPI.Profit, home),
		ROI:          portfolio.Percent(d.KPI.ROI),
		Change:       portfolio.M(d.Change, home),
		ChangePct:    portfolio.Percent(d.ChangePct),
		MaxDrawdown:  portfolio.Percent(d.MaxDrawdown),
		Insufficient: d.Insufficient,
	}
	for _, val := range d.Valuations {
		v.Positions = append(v.Positions, newPosition(val, home))
	}
	for _, s := range d.Allocation {
		v.Allocation = append(v.Allocation, AllocationSlice{Symbol: s.Symbol, Value: portfolio.M(s.Value, home), Share: s.Share})
	}
	var last float64
	if n := len(d.ROI); n > 0 {
		last = d.ROI[n-1]
	}
	for _, name := range sortedKeys(d.Benchmarks) {
		roi := d.Benchmarks[name]
		if len(roi) == 0 {
			continue
		}
		b := roi[len(roi)-1]
		v.Benchmarks = append(v.Benchmarks, Benchmark{
			Name:      name,
			ROI:       portfolio.Percent(b),
			Portfolio: portfolio.Percent(last),
			Delta:     portfolio.Percent(last - b),
		})
	}
	v.Issues = issueLines(d.Issues)
	return v
}

func newPosition(val portfolio.Valuation, home string) Position {
	return Position{
		Index:     val.Index,
		Date:      val.Date,
		Symbol:    val.Symbol,
		Quantity:  formatQuantity(val.Quantity),
		Price:     portfolio.M(val.Price, val.Currency),
		Rate:      formatRate(val.Rate),
		Value:     portfolio.M(val.Value, home),
		Cost:      portfolio.M(val.Cost, home),
		Profit:    portfolio.M(val.Profit, home),
		ProfitPct: portfolio.Percent(val.ProfitPct),
		Note:      escapeCell(val.Note),
	}
}
