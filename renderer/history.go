package renderer

import (
	"github.com/suitsy/portfolio"
	"github.com/suitsy/portfolio/date"
)

// History is the view of the reconstructed portfolio history.
type History struct {
	Owner        string
	Home         string
	Insufficient bool
	Span         date.Range // of the entries
	Symbols      []string   // contribution columns, sorted
	Entries      []HistoryEntry
	Benchmarks   []string // benchmark columns, sorted
	Issues       []string
}

// HistoryEntry is one date of the history.
type HistoryEntry struct {
	Date          date.Date
	Equity        portfolio.Money
	Cost          portfolio.Money
	ROI           portfolio.Percent
	Drawdown      portfolio.Percent
	Contributions []portfolio.Money   // in Symbols order
	Benchmarks    []portfolio.Percent // in Benchmarks order
}

// NewHistory creates the view of the last n dates of d's history, all of them when n <= 0.
func NewHistory(d *portfolio.Dashboard, n int) *History {
	h := d.History
	v := &History{
		Owner:        d.Owner,
		Home:         d.Home,
		Insufficient: d.Insufficient,
		Symbols:      sortedKeys(h.Contributions),
		Benchmarks:   sortedKeys(d.Benchmarks),
		Issues:       issueLines(d.Issues),
	}
	from := 0
	if n > 0 && h.Len() > n {
		from = h.Len() - n
	}
	for i := from; i < h.Len(); i++ {
		e := HistoryEntry{
			Date:     h.Dates[i],
			Equity:   portfolio.M(h.Equity[i], d.Home),
			Cost:     portfolio.M(h.Cost[i], d.Home),
			ROI:      portfolio.Percent(d.ROI[i]),
			Drawdown: portfolio.Percent(d.Drawdown[i]),
		}
		for _, s := range v.Symbols {
			e.Contributions = append(e.Contributions, portfolio.M(h.Contributions[s][i], d.Home))
		}
		for _, b := range v.Benchmarks {
			e.Benchmarks = append(e.Benchmarks, portfolio.Percent(d.Benchmarks[b][i]))
		}
		v.Entries = append(v.Entries, e)
	}
	if len(v.Entries) > 0 {
		v.Span = date.Range{From: v.Entries[0].Date, To: v.Entries[len(v.Entries)-1].Date}
	}
	return v
}
