package cmd

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/suitsy/portfolio"
	"github.com/suitsy/portfolio/date"
)

// fakePricer knows the currency and the price of a few symbols, on any day.
type fakePricer struct {
	currencies map[string]string
	prices     map[string]float64
}

func (f fakePricer) Currency(_ context.Context, symbol string) (string, error) {
	if c, ok := f.currencies[symbol]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown symbol %s", symbol)
}

func (f fakePricer) PriceOn(_ context.Context, symbol string, _ date.Date) (float64, error) {
	if p, ok := f.prices[symbol]; ok {
		return p, nil
	}
	return 0, fmt.Errorf("no price for %s", symbol)
}

var prices = fakePricer{
	currencies: map[string]string{"AAPL": "USD", "CDR.WA": "PLN"},
	prices:     map[string]float64{"AAPL": 200, "CDR.WA": 100, "USDPLN=X": 4, "EURPLN=X": 4.25},
}

func TestAddTransaction(t *testing.T) {
	on := date.New(2025, time.March, 3)
	tests := []struct {
		name string
		cmd  addCmd
		want portfolio.Transaction
	}{
		{
			name: "quantity and cost",
			cmd:  addCmd{symbol: " cdr.wa ", day: "2025-3-3", quantity: 5, cost: 510, note: "x"},
			want: portfolio.Transaction{Symbol: "CDR.WA", Currency: "PLN", Date: on, Quantity: 5, Cost: 510, Note: "x"},
		},
		{
			name: "amount in home currency",
			cmd:  addCmd{symbol: "AAPL", day: "2025-03-03", amount: 1600},
			// 1600 PLN buys 1600 / (200 * 4) shares.
			want: portfolio.Transaction{Symbol: "AAPL", Currency: "USD", Date: on, Quantity: 2, Cost: 1600},
		},
		{
			name: "amount in a foreign currency",
			cmd:  addCmd{symbol: "CDR.WA", day: "2025-03-03", amount: 100, pay: "eur"},
			want: portfolio.Transaction{Symbol: "CDR.WA", Currency: "PLN", Date: on, Quantity: 4.25, Cost: 425},
		},
	}
	for _, tt := range tests {
		got, err := tt.cmd.transaction(context.Background(), prices, "PLN")
		if err != nil {
			t.Errorf("%s: transaction() error = %v", tt.name, err)
			continue
		}
		if got.Symbol != tt.want.Symbol || got.Currency != tt.want.Currency || got.Date != tt.want.Date ||
			math.Abs(got.Quantity-tt.want.Quantity) > 1e-9 || math.Abs(got.Cost-tt.want.Cost) > 1e-9 || got.Note != tt.want.Note {
			t.Errorf("%s: transaction() = %+v want %+v", tt.name, got, tt.want)
		}
	}
}

func TestAddTransactionErrors(t *testing.T) {
	tests := []struct {
		name string
		cmd  addCmd
	}{
		{"no symbol", addCmd{day: "2025-03-03", quantity: 1, cost: 1}},
		{"bad date", addCmd{symbol: "AAPL", day: "yesterday", quantity: 1, cost: 1}},
		{"no cost", addCmd{symbol: "AAPL", day: "2025-03-03", quantity: 1}},
		{"unknown currency", addCmd{symbol: "XYZ", day: "2025-03-03", amount: 10}},
		{"unknown rate", addCmd{symbol: "AAPL", day: "2025-03-03", amount: 10, pay: "CHF"}},
		{"negative amount", addCmd{symbol: "AAPL", day: "2025-03-03", amount: -10}},
	}
	for _, tt := range tests {
		if got, err := tt.cmd.transaction(context.Background(), prices, "PLN"); err == nil {
			t.Errorf("%s: transaction() = %+v want an error", tt.name, got)
		}
	}
}

func TestAddTransactionInvalidPurchase(t *testing.T) {
	zero := fakePricer{currencies: prices.currencies, prices: map[string]float64{"CDR.WA": 0}}
	cmd := addCmd{symbol: "CDR.WA", day: "2025-03-03", amount: 10}
	if _, err := cmd.transaction(context.Background(), zero, "PLN"); !errors.Is(err, portfolio.ErrInvalidPurchase) {
		t.Errorf("transaction() without price error = %v want %v", err, portfolio.ErrInvalidPurchase)
	}
}

func TestBenchmarkNames(t *testing.T) {
	if got := benchmarkNames(" "); got != nil {
		t.Errorf("benchmarkNames(blank) = %v want nil", got)
	}
	if got := benchmarkNames("Gold,WIG20"); len(got) != 2 || got[0] != "Gold" || got[1] != "WIG20" {
		t.Errorf("benchmarkNames(Gold,WIG20) = %v want [Gold WIG20]", got)
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		q    float64
		want string
	}{
		{2, "2"},
		{0.5, "0.5"},
		{1.234567, "1.2346"},
	}
	for _, tt := range tests {
		if got := formatQuantity(tt.q); got != tt.want {
			t.Errorf("formatQuantity(%v) = %q want %q", tt.q, got, tt.want)
		}
	}
}
