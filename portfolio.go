package portfolio

import (
	"fmt"
	"slices"
	"strings"

	"github.com/suitsy/portfolio/date"
)

// Portfolio is the ordered list of buys of a single owner.
//
// Every computation in this package takes a Portfolio explicitly, there is
// no global state.
type Portfolio struct {
	Owner string
	Home  string // home currency, all values are reported in it

	transactions []Transaction
}

// NewPortfolio returns a portfolio for owner, valued in home currency.
func NewPortfolio(owner, home string, txs ...Transaction) *Portfolio {
	p := &Portfolio{Owner: owner, Home: strings.ToUpper(home)}
	for _, tx := range txs {
		p.Append(tx)
	}
	return p
}

// Append adds tx at the end of the portfolio. An empty currency means home.
func (p *Portfolio) Append(tx Transaction) {
	if tx.Currency == "" {
		tx.Currency = p.Home
	}
	p.transactions = append(p.transactions, tx)
}

// EditNote replaces the note of the i-th transaction.
func (p *Portfolio) EditNote(i int, note string) error {
	if i < 0 || i >= len(p.transactions) {
		return fmt.Errorf("cannot edit transaction #%d: %w", i, ErrIndexOutOfRange)
	}
	p.transactions[i].Note = note
	return nil
}

// Remove deletes the i-th transaction.
func (p *Portfolio) Remove(i int) error {
	if i < 0 || i >= len(p.transactions) {
		return fmt.Errorf("cannot remove transaction #%d: %w", i, ErrIndexOutOfRange)
	}
	p.transactions = slices.Delete(p.transactions, i, i+1)
	return nil
}

// Transactions returns a copy of the transactions in insertion order.
func (p *Portfolio) Transactions() []Transaction { return slices.Clone(p.transactions) }

// Len returns the number of transactions.
func (p *Portfolio) Len() int { return len(p.transactions) }

// Symbols returns the sorted distinct symbols held.
func (p *Portfolio) Symbols() []string {
	var out []string
	for _, tx := range p.transactions {
		if tx.Symbol == "" {
			continue
		}
		out = append(out, tx.Symbol)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Currencies returns the sorted distinct foreign currencies, home excluded.
func (p *Portfolio) Currencies() []string {
	var out []string
	for _, tx := range p.transactions {
		if tx.Currency == p.Home {
			continue
		}
		out = append(out, tx.Currency)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// FirstPurchase returns the earliest purchase date.
func (p *Portfolio) FirstPurchase() (date.Date, bool) {
	if len(p.transactions) == 0 {
		return date.Date{}, false
	}
	first := p.transactions[0].Date
	for _, tx := range p.transactions[1:] {
		if tx.Date.Before(first) {
			first = tx.Date
		}
	}
	return first, true
}
