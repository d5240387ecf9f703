package portfolio

import (
	"testing"
)

func TestValuate(t *testing.T) {
	m := NewMarketData("PLN")
	m.Prices["X"] = daily(day(1), 100, 110, 120)
	m.Quotes["AAPL"] = 100
	m.Rates["USD"] = 4.0

	p := NewPortfolio("anna", "PLN",
		Transaction{Symbol: "X", Currency: "PLN", Date: day(1), Quantity: 10, Cost: 1000},
		Transaction{Symbol: "AAPL", Currency: "USD", Date: day(2), Quantity: 5, Cost: 1600},
		Transaction{Symbol: "GONE", Currency: "PLN", Date: day(2), Quantity: 5, Cost: 500},
		Transaction{Symbol: "FREE", Currency: "PLN", Date: day(2), Quantity: 5, Cost: 0},
	)
	m.Quotes["FREE"] = 2

	vals, issues := Valuate(p, m)
	if len(vals) != 4 {
		t.Fatalf("Valuate() returned %d valuations want 4", len(vals))
	}
	tests := []struct {
		symbol                   string
		price, value, profit, pc float64
	}{
		{"X", 120, 1200, 200, 20},
		{"AAPL", 100, 2000, 400, 25},
		{"GONE", 0, 0, 0, 0},
		{"FREE", 2, 10, 10, 0},
	}
	for i, test := range tests {
		v := vals[i]
		if v.Symbol != test.symbol || !near(v.Price, test.price) || !near(v.Value, test.value) || !near(v.Profit, test.profit) || !near(v.ProfitPct, test.pc) {
			t.Errorf("Valuate()[%d] = %+v want %s price %v value %v profit %v (%v%%)", i, v, test.symbol, test.price, test.value, test.profit, test.pc)
		}
	}
	if got := issues.Of(DataUnavailable); len(got) != 1 || got[0].Symbol != "GONE" {
		t.Errorf("Valuate() DataUnavailable issues = %v want one for GONE", got)
	}
	if issues.Has(MissingFX) {
		t.Errorf("Valuate() issues = %v want no MissingFX", issues)
	}
}

func TestValuateMissingRate(t *testing.T) {
	m := NewMarketData("PLN")
	m.Quotes["AAPL"] = 100
	p := NewPortfolio("anna", "PLN", Transaction{Symbol: "AAPL", Currency: "USD", Date: day(1), Quantity: 5, Cost: 1600})

	vals, issues := Valuate(p, m)
	if !near(vals[0].Value, 500) || vals[0].Rate != 1 {
		t.Errorf("Valuate() = %+v want value 500 at parity", vals[0])
	}
	if !issues.Has(MissingFX) {
		t.Errorf("Valuate() issues = %v want a MissingFX issue", issues)
	}
}

func TestAllocation(t *testing.T) {
	got := Allocation([]Valuation{
		{Symbol: "A", Value: 100, Cost: 80},
		{Symbol: "B", Value: 300, Cost: 250},
		{Symbol: "A", Value: 100, Cost: 90},
		{Symbol: "C", Value: 200},
	})
	want := []Slice{
		{Symbol: "B", Value: 300, Cost: 250, Share: 42.857142},
		{Symbol: "A", Value: 200, Cost: 170, Share: 28.571428},
		{Symbol: "C", Value: 200, Cost: 0, Share: 28.571428},
	}
	if len(got) != len(want) {
		t.Fatalf("Allocation() = %v want %v", got, want)
	}
	for i := range want {
		if got[i].Symbol != want[i].Symbol || got[i].Value != want[i].Value || got[i].Cost != want[i].Cost || !got[i].Share.Equal(want[i].Share) {
			t.Errorf("Allocation()[%d] = %+v want %+v", i, got[i], want[i])
		}
	}
	if got := Allocation(nil); len(got) != 0 {
		t.Errorf("Allocation(nil) = %v want empty", got)
	}
}

func TestJournal(t *testing.T) {
	vals := []Valuation{
		{Symbol: "old", Date: day(1)},
		{Symbol: "new1", Date: day(9)},
		{Symbol: "mid", Date: day(5)},
		{Symbol: "new2", Date: day(9)},
	}
	got := Journal(vals)
	want := []string{"new1", "new2", "mid", "old"}
	for i, s := range want {
		if got[i].Symbol != s {
			t.Errorf("Journal()[%d] = %s want %s", i, got[i].Symbol, s)
		}
	}
	if vals[0].Symbol != "old" {
		t.Errorf("Journal() modified its input")
	}
}
