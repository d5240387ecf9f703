package market

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Benchmarks maps the display name of the supported benchmarks to their Yahoo symbol.
var Benchmarks = map[string]string{
	"S&P 500":    "^GSPC",
	"NASDAQ 100": "^NDX",
	"WIG20":      "WIG20.WA",
	"Gold":       "GC=F",
	"Bitcoin":    "BTC-USD",
}

// BenchmarkNames returns the sorted names of the supported benchmarks.
func BenchmarkNames() []string { return slices.Sorted(maps.Keys(Benchmarks)) }

// SelectBenchmarks returns the benchmarks named in names, case insensitive.
// An empty list selects none.
func SelectBenchmarks(names []string) (map[string]string, error) {
	out := map[string]string{}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		found := false
		for name, symbol := range Benchmarks {
			if strings.EqualFold(name, n) || strings.EqualFold(symbol, n) {
				out[name] = symbol
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown benchmark %q want one of %s", n, strings.Join(BenchmarkNames(), ", "))
		}
	}
	return out, nil
}

// IsBenchmarkSet reports whether symbols is a non empty set of benchmark symbols only.
func IsBenchmarkSet(symbols []string) bool {
	if len(symbols) == 0 {
		return false
	}
	for _, s := range symbols {
		found := false
		for _, b := range Benchmarks {
			if b == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
