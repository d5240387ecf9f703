package portfolio

import (
	"errors"
	"slices"
	"testing"

	"github.com/suitsy/portfolio/date"
)

func TestParseTransaction(t *testing.T) {
	tests := []struct {
		name   string
		raw    RawTransaction
		want   Transaction
		issues int
	}{
		{
			name: "clean",
			raw:  RawTransaction{Symbol: " aapl ", Currency: "usd", Date: "2025-01-02", Quantity: "10", Cost: "1 500,50", Note: "first"},
			want: Transaction{Symbol: "AAPL", Currency: "USD", Date: day(2), Quantity: 10, Cost: 1500.5, Note: "first"},
		},
		{
			name: "home currency by default",
			raw:  RawTransaction{Symbol: "PKO.WA", Date: "02.01.2025", Quantity: 3, Cost: 150.0},
			want: Transaction{Symbol: "PKO.WA", Currency: "PLN", Date: day(2), Quantity: 3, Cost: 150},
		},
		{
			name:   "malformed amounts",
			raw:    RawTransaction{Symbol: "X", Currency: "PLN", Date: day(5), Quantity: "ten", Cost: nil},
			want:   Transaction{Symbol: "X", Currency: "PLN", Date: day(5)},
			issues: 2,
		},
		{
			name:   "negative amounts",
			raw:    RawTransaction{Symbol: "X", Currency: "PLN", Date: day(5), Quantity: -1, Cost: "-100"},
			want:   Transaction{Symbol: "X", Currency: "PLN", Date: day(5)},
			issues: 2,
		},
		{
			name:   "out of range exponent",
			raw:    RawTransaction{Symbol: "X", Currency: "PLN", Date: day(5), Quantity: 2, Cost: "1e30000000"},
			want:   Transaction{Symbol: "X", Currency: "PLN", Date: day(5), Quantity: 2},
			issues: 1,
		},
		{
			name:   "malformed date",
			raw:    RawTransaction{Symbol: "X", Currency: "PLN", Date: "someday", Quantity: 1, Cost: 1},
			want:   Transaction{Symbol: "X", Currency: "PLN", Date: date.Today(), Quantity: 1, Cost: 1},
			issues: 1,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, issues := ParseTransaction(test.raw, "PLN")
			if got != test.want {
				t.Errorf("ParseTransaction() = %+v want %+v", got, test.want)
			}
			if len(issues) != test.issues {
				t.Errorf("ParseTransaction() issues = %v want %d issues", issues, test.issues)
			}
			for _, i := range issues {
				if i.Kind != ParseFailure {
					t.Errorf("ParseTransaction() issue kind = %v want %v", i.Kind, ParseFailure)
				}
			}
		})
	}
}

func TestPurchaseTransaction(t *testing.T) {
	// 1000 EUR at 4.3 PLN buys a 50 USD share with USD at 4.0 PLN.
	p := Purchase{Symbol: "aapl", AssetCurrency: "USD", PayCurrency: "EUR", Amount: 1000, Date: day(3), Note: "n"}
	tx, err := p.Transaction(50, 4.3, 4.0)
	if err != nil {
		t.Fatalf("Transaction() error = %v", err)
	}
	if tx.Symbol != "AAPL" || tx.Currency != "USD" || tx.Date != day(3) || tx.Note != "n" {
		t.Errorf("Transaction() = %+v", tx)
	}
	if !near(tx.Cost, 4300) {
		t.Errorf("Transaction().Cost = %v want 4300", tx.Cost)
	}
	if !near(tx.Quantity, 21.5) {
		t.Errorf("Transaction().Quantity = %v want 21.5", tx.Quantity)
	}

	for _, bad := range []struct {
		p                        Purchase
		price, payRate, assetRate float64
	}{
		{Purchase{Amount: 0}, 1, 1, 1},
		{Purchase{Amount: 10}, 0, 1, 1},
		{Purchase{Amount: 10}, 1, 0, 1},
		{Purchase{Amount: 10}, 1, 1, 0},
	} {
		if _, err := bad.p.Transaction(bad.price, bad.payRate, bad.assetRate); !errors.Is(err, ErrInvalidPurchase) {
			t.Errorf("Transaction(%v, %v, %v) error = %v want %v", bad.price, bad.payRate, bad.assetRate, err, ErrInvalidPurchase)
		}
	}
}

func TestPortfolio(t *testing.T) {
	p := NewPortfolio("anna", "pln",
		Transaction{Symbol: "B", Currency: "USD", Date: day(10), Quantity: 1, Cost: 1},
		Transaction{Symbol: "A", Date: day(3), Quantity: 1, Cost: 1},
		Transaction{Symbol: "B", Currency: "EUR", Date: day(5), Quantity: 1, Cost: 1},
	)
	if p.Home != "PLN" {
		t.Errorf("Home = %q want PLN", p.Home)
	}
	if got := p.Transactions()[1].Currency; got != "PLN" {
		t.Errorf("empty currency = %q want PLN", got)
	}
	if got, want := p.Symbols(), []string{"A", "B"}; !slices.Equal(got, want) {
		t.Errorf("Symbols() = %v want %v", got, want)
	}
	if got, want := p.Currencies(), []string{"EUR", "USD"}; !slices.Equal(got, want) {
		t.Errorf("Currencies() = %v want %v", got, want)
	}
	if got, ok := p.FirstPurchase(); !ok || got != day(3) {
		t.Errorf("FirstPurchase() = %v, %v want %v", got, ok, day(3))
	}

	if err := p.EditNote(2, "hello"); err != nil {
		t.Fatalf("EditNote() error = %v", err)
	}
	if got := p.Transactions()[2].Note; got != "hello" {
		t.Errorf("Note = %q want hello", got)
	}
	if err := p.EditNote(3, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("EditNote(3) error = %v want %v", err, ErrIndexOutOfRange)
	}
	if err := p.Remove(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Remove(-1) error = %v want %v", err, ErrIndexOutOfRange)
	}
	if err := p.Remove(0); err != nil {
		t.Fatalf("Remove(0) error = %v", err)
	}
	if p.Len() != 2 || p.Transactions()[0].Symbol != "A" {
		t.Errorf("Remove(0) left %v", p.Transactions())
	}

	if _, ok := NewPortfolio("x", "PLN").FirstPurchase(); ok {
		t.Errorf("FirstPurchase() of an empty portfolio = true want false")
	}
}
