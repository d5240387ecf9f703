package renderer

import (
	"github.com/suitsy/portfolio"
)

// Journal is the view of the transactions, newest first.
type Journal struct {
	Owner   string
	Home    string
	Entries []Position
}

// NewJournal creates the journal view of d.
func NewJournal(d *portfolio.Dashboard) *Journal {
	j := &Journal{Owner: d.Owner, Home: d.Home}
	for _, val := range d.Journal {
		j.Entries = append(j.Entries, newPosition(val, d.Home))
	}
	return j
}
