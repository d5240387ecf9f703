package portfolio

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/rs/zerolog"

	"github.com/suitsy/portfolio/date"
)

// LoadOptions tunes Load.
type LoadOptions struct {
	Retry  Retry
	Logger zerolog.Logger
	// Benchmarks maps a display name to the symbol to fetch.
	Benchmarks map[string]string
	// Today is the reference date, date.Today() when zero.
	Today date.Date
}

// recentDays is the age under which a portfolio history is widened to a full year.
const recentDays = 30

// HistoryStart returns the first date to fetch history from: the first
// purchase, or a year before today when that purchase is too recent to draw
// meaningful curves.
func HistoryStart(first, today date.Date) date.Date {
	if today.Days(first) < recentDays {
		return today.Add(-365)
	}
	return first
}

// Load fetches from src all the market data p needs.
//
// Fetches run one after the other and each is retried according to
// opts.Retry. A fetch that still fails leaves its part of the MarketData
// empty and is reported as an ExternalFetchFailure issue. The home currency
// is never fetched.
func Load(ctx context.Context, src Source, p *Portfolio, opts LoadOptions) (*MarketData, Issues) {
	m := NewMarketData(p.Home)
	first, ok := p.FirstPurchase()
	if !ok {
		return m, nil
	}
	today := opts.Today
	if today.IsZero() {
		today = date.Today()
	}
	start := HistoryStart(first, today)
	log := opts.Logger.With().Str("owner", p.Owner).Str("start", start.String()).Logger()

	var issues Issues
	failed := func(what string, reason error) {
		issues = append(issues, Issue{Kind: ExternalFetchFailure, Err: fmt.Errorf("%s: %w", what, reason)})
	}

	if symbols := p.Symbols(); len(symbols) > 0 {
		log.Debug().Strs("symbols", symbols).Msg("loading prices")
		hist := Fetch(ctx, log, opts.Retry, "history", func(ctx context.Context) (Series, error) {
			return src.FetchHistory(ctx, symbols, start)
		})
		if hist.OK() {
			maps.Copy(m.Prices, hist.Value)
		} else {
			failed("price history", hist.Reason)
		}

		quotes := Fetch(ctx, log, opts.Retry, "quotes", func(ctx context.Context) (map[string]float64, error) {
			return src.FetchLiveQuotes(ctx, symbols)
		})
		if quotes.OK() {
			maps.Copy(m.Quotes, quotes.Value)
		} else {
			failed("live quotes", quotes.Reason)
		}
	}

	if currencies := p.Currencies(); len(currencies) > 0 {
		log.Debug().Strs("currencies", currencies).Msg("loading rates")
		hist := Fetch(ctx, log, opts.Retry, "fx history", func(ctx context.Context) (Series, error) {
			return src.FetchFXHistory(ctx, currencies, m.Home, start)
		})
		if hist.OK() {
			maps.Copy(m.FX, hist.Value)
		} else {
			failed("fx history", hist.Reason)
		}

		rates := Fetch(ctx, log, opts.Retry, "fx rates", func(ctx context.Context) (map[string]float64, error) {
			return src.FetchLiveFX(ctx, currencies, m.Home)
		})
		if rates.OK() {
			maps.Copy(m.Rates, rates.Value)
		} else {
			failed("live fx", rates.Reason)
		}
		m.Rates[m.Home] = 1.0
	}

	if len(opts.Benchmarks) > 0 {
		names := slices.Sorted(maps.Keys(opts.Benchmarks))
		symbols := make([]string, 0, len(names))
		for _, name := range names {
			symbols = append(symbols, opts.Benchmarks[name])
		}
		log.Debug().Strs("benchmarks", symbols).Msg("loading benchmarks")
		bench := Fetch(ctx, log, opts.Retry, "benchmarks", func(ctx context.Context) (Series, error) {
			return src.FetchHistory(ctx, symbols, start)
		})
		if bench.OK() {
			for _, name := range names {
				if h, ok := bench.Value[opts.Benchmarks[name]]; ok {
					m.Benchmarks[name] = h
				}
			}
		} else {
			failed("benchmarks", bench.Reason)
		}
	}
	return m, issues
}
