package portfolio

import (
	"fmt"
	"strings"

	"github.com/suitsy/portfolio/date"
)

// Transaction records a single buy.
type Transaction struct {
	Symbol   string    `json:"symbol"`
	Currency string    `json:"currency"` // currency the position is denominated in
	Date     date.Date `json:"date"`     // purchase date
	Quantity float64   `json:"quantity"`
	Cost     float64   `json:"cost"` // initial cost in the home currency, never recomputed
	Note     string    `json:"note,omitempty"`
}

// RawTransaction is a transaction as found in a loosely typed source, like a
// spreadsheet row or a hand-edited file.
type RawTransaction struct {
	Symbol   string
	Currency string
	Date     any
	Quantity any
	Cost     any
	Note     string
}

// ParseTransaction validates raw into a Transaction.
//
// It never fails: malformed amounts become 0, a malformed date becomes today,
// negative amounts are clamped to 0, and an empty currency means home. Every
// such correction is reported as a ParseFailure issue.
func ParseTransaction(raw RawTransaction, home string) (Transaction, Issues) {
	var issues Issues
	tx := Transaction{
		Symbol:   strings.ToUpper(strings.TrimSpace(raw.Symbol)),
		Currency: strings.ToUpper(strings.TrimSpace(raw.Currency)),
		Note:     raw.Note,
	}
	if tx.Currency == "" {
		tx.Currency = home
	}

	fail := func(format string, args ...any) {
		issues = append(issues, Issue{
			Kind:     ParseFailure,
			Symbol:   tx.Symbol,
			Currency: tx.Currency,
			Err:      fmt.Errorf(format, args...),
		})
	}

	var ok bool
	if tx.Date, ok = date.NormalizeOK(raw.Date); !ok {
		fail("invalid purchase date %v, using %s", raw.Date, tx.Date)
	}
	if tx.Quantity, ok = normalizeAmount(raw.Quantity); !ok {
		fail("invalid quantity %v, using 0", raw.Quantity)
	}
	if tx.Cost, ok = normalizeAmount(raw.Cost); !ok {
		fail("invalid cost %v, using 0", raw.Cost)
	}
	if tx.Quantity < 0 {
		fail("negative quantity %v, using 0", tx.Quantity)
		tx.Quantity = 0
	}
	if tx.Cost < 0 {
		fail("negative cost %v, using 0", tx.Cost)
		tx.Cost = 0
	}
	return tx, issues
}

// Purchase is a buy expressed the way a user enters it: an amount paid in
// some currency, rather than a quantity.
type Purchase struct {
	Symbol        string
	AssetCurrency string // currency the security trades in
	PayCurrency   string // currency of Amount
	Amount        float64
	Date          date.Date
	Note          string
}

// Transaction converts the purchase into a Transaction.
//
// price is the security price on the purchase date in AssetCurrency, payRate
// converts PayCurrency to home and assetRate converts AssetCurrency to home.
func (p Purchase) Transaction(price, payRate, assetRate float64) (Transaction, error) {
	if p.Amount <= 0 {
		return Transaction{}, fmt.Errorf("%w: amount must be positive, got %v", ErrInvalidPurchase, p.Amount)
	}
	if payRate <= 0 {
		return Transaction{}, fmt.Errorf("%w: no %s rate", ErrInvalidPurchase, p.PayCurrency)
	}
	unit := price * assetRate
	if unit <= 0 {
		return Transaction{}, fmt.Errorf("%w: no price for %s on %s", ErrInvalidPurchase, p.Symbol, p.Date)
	}
	cost := p.Amount * payRate
	return Transaction{
		Symbol:   strings.ToUpper(strings.TrimSpace(p.Symbol)),
		Currency: strings.ToUpper(p.AssetCurrency),
		Date:     p.Date,
		Quantity: cost / unit,
		Cost:     cost,
		Note:     p.Note,
	}, nil
}
