package portfolio

import (
	"math"
	"testing"
)

func TestReconstruct(t *testing.T) {
	m := NewMarketData("PLN")
	m.Prices["X"] = daily(day(1), 100, nan, 120, 130)
	m.Prices["AAPL"] = daily(day(1), nan, 10, 11, nan)
	m.FX["USDPLN=X"] = daily(day(2), 4, nan, 5)

	p := NewPortfolio("anna", "PLN",
		Transaction{Symbol: "X", Currency: "PLN", Date: day(2), Quantity: 2, Cost: 150},
		Transaction{Symbol: "AAPL", Currency: "USD", Date: day(1), Quantity: 10, Cost: 400},
		Transaction{Symbol: "X", Currency: "PLN", Date: day(4), Quantity: 1, Cost: 125},
	)
	h, issues := Reconstruct(p, m, FXStrict)
	if len(issues) != 0 {
		t.Errorf("Reconstruct() issues = %v want none", issues)
	}
	if h.Len() != 4 {
		t.Fatalf("Reconstruct() has %d dates want 4", h.Len())
	}
	// X price filled [100 100 120 130], AAPL [10 10 11 11], USD [4 4 4 5].
	wantX := []float64{0, 200, 240, 260 + 130}
	wantAAPL := []float64{400, 400, 440, 550}
	wantCost := []float64{400, 550, 550, 675}
	if got := h.Contributions["X"]; !nearAll(got, wantX) {
		t.Errorf("Contributions[X] = %v want %v", got, wantX)
	}
	if got := h.Contributions["AAPL"]; !nearAll(got, wantAAPL) {
		t.Errorf("Contributions[AAPL] = %v want %v", got, wantAAPL)
	}
	if !nearAll(h.Cost, wantCost) {
		t.Errorf("Cost = %v want %v", h.Cost, wantCost)
	}
	for i := range h.Dates {
		var sum float64
		for _, c := range h.Contributions {
			sum += c[i]
		}
		if !near(sum, h.Equity[i]) {
			t.Errorf("sum of contributions on %s = %v want equity %v", h.Dates[i], sum, h.Equity[i])
		}
	}
}

func TestReconstructInfinitePrice(t *testing.T) {
	m := NewMarketData("PLN")
	m.Prices["X"] = daily(day(1), 10, math.Inf(1), 12)
	p := NewPortfolio("anna", "PLN", Transaction{Symbol: "X", Currency: "PLN", Date: day(1), Quantity: 1, Cost: 10})
	h, _ := Reconstruct(p, m, FXStrict)
	want := []float64{10, 12}
	if !nearAll(h.Equity, want) {
		t.Errorf("Equity = %v want %v", h.Equity, want)
	}
}

func TestReconstructZeroBeforePurchase(t *testing.T) {
	m := NewMarketData("PLN")
	m.Prices["X"] = daily(day(1), 1, 2, 3, 4, 5, 6)
	for purchase := 1; purchase <= 7; purchase++ {
		p := NewPortfolio("anna", "PLN", Transaction{Symbol: "X", Currency: "PLN", Date: day(purchase), Quantity: 1, Cost: 1})
		h, _ := Reconstruct(p, m, FXStrict)
		for i, on := range h.Dates {
			if on.Before(day(purchase)) && (h.Equity[i] != 0 || h.Cost[i] != 0) {
				t.Errorf("purchase on %s: equity %v cost %v on %s want 0", day(purchase), h.Equity[i], h.Cost[i], on)
			}
		}
	}
}

func TestReconstructEmpty(t *testing.T) {
	m := NewMarketData("PLN")
	h, issues := Reconstruct(NewPortfolio("anna", "PLN"), m, FXStrict)
	if !h.Empty() || len(h.Equity) != 0 || len(h.Cost) != 0 || len(h.Contributions) != 0 || len(issues) != 0 {
		t.Errorf("Reconstruct(empty) = %+v, %v want an empty history", h, issues)
	}

	// A portfolio without any known price is also empty.
	p := NewPortfolio("anna", "PLN", Transaction{Symbol: "X", Currency: "PLN", Date: day(1), Quantity: 1, Cost: 1})
	if h, _ := Reconstruct(p, m, FXStrict); !h.Empty() {
		t.Errorf("Reconstruct(no prices) = %+v want an empty history", h)
	}
}

func TestReconstructMissing(t *testing.T) {
	m := NewMarketData("PLN")
	m.Prices["X"] = daily(day(1), 10, 10)
	m.Prices["AAPL"] = daily(day(1), 10, 10)
	p := NewPortfolio("anna", "PLN",
		Transaction{Symbol: "X", Currency: "PLN", Date: day(1), Quantity: 1, Cost: 10},
		Transaction{Symbol: "AAPL", Currency: "USD", Date: day(1), Quantity: 1, Cost: 40},
		Transaction{Symbol: "NOPE", Currency: "PLN", Date: day(1), Quantity: 1, Cost: 99},
	)

	tests := []struct {
		policy     FXPolicy
		wantEquity []float64
		wantCost   []float64
	}{
		{FXStrict, []float64{10, 10}, []float64{10, 10}},
		{FXLenient, []float64{20, 20}, []float64{50, 50}},
	}
	for _, test := range tests {
		h, issues := Reconstruct(p, m, test.policy)
		if !nearAll(h.Equity, test.wantEquity) || !nearAll(h.Cost, test.wantCost) {
			t.Errorf("Reconstruct(%v) equity %v cost %v want %v %v", test.policy, h.Equity, h.Cost, test.wantEquity, test.wantCost)
		}
		if got := issues.Of(MissingFX); len(got) != 1 || got[0].Currency != "USD" {
			t.Errorf("Reconstruct(%v) MissingFX issues = %v want one for USD", test.policy, got)
		}
		if got := issues.Of(DataUnavailable); len(got) != 1 || got[0].Symbol != "NOPE" {
			t.Errorf("Reconstruct(%v) DataUnavailable issues = %v want one for NOPE", test.policy, got)
		}
		if _, ok := h.Contributions["NOPE"]; ok {
			t.Errorf("Reconstruct(%v) has a contribution for a symbol without prices", test.policy)
		}
	}
}
