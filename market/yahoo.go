// Package market provides market data to value a portfolio: a Yahoo Finance
// client, an HTTP disk cache, an in-memory read-through cache and the catalog
// of benchmark indices.
package market

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/suitsy/portfolio"
	"github.com/suitsy/portfolio/date"
)

// DefaultYahooURL is the Yahoo Finance chart API.
const DefaultYahooURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// Yahoo fetches prices and exchange rates from the Yahoo Finance chart API.
type Yahoo struct {
	client  *http.Client
	baseURL string
	log     zerolog.Logger
	now     func() time.Time
}

// NewYahoo returns a Yahoo client using client, that can be a caching one.
// baseURL defaults to DefaultYahooURL.
func NewYahoo(client *http.Client, baseURL string, log zerolog.Logger) *Yahoo {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultYahooURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Yahoo{
		client:  client,
		baseURL: baseURL,
		log:     log.With().Str("client", "yahoo").Logger(),
		now:     time.Now,
	}
}

var _ portfolio.Source = (*Yahoo)(nil)

// Pair returns the Yahoo symbol of the currency to home exchange rate, e.g. "USDPLN=X".
func Pair(currency, home string) string {
	return strings.ToUpper(currency) + strings.ToUpper(home) + "=X"
}

// chart is the part of a chart API answer we use.
type chart struct {
	currency string
	days     []date.Date
	closes   []float64 // NaN where the close is null
}

// chart queries the chart API for symbol with the given parameters.
func (y *Yahoo) chart(ctx context.Context, symbol string, params url.Values) (*chart, error) {
	params.Set("interval", "1d")
	addr := y.baseURL + url.PathEscape(symbol) + "?" + params.Encode()

	var jobj any
	if err := jwget(ctx, y.client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("error fetching %q: %w", symbol, err)
	}
	if jerr, _ := jsonpath.Get("$.chart.error", jobj); jerr != nil {
		return nil, fmt.Errorf("error fetching %q: %v", symbol, jerr)
	}

	c := &chart{}
	if cur, err := jsonpath.Get("$.chart.result[0].meta.currency", jobj); err == nil {
		c.currency, _ = cur.(string)
	}
	var offset float64
	if off, err := jsonpath.Get("$.chart.result[0].meta.gmtoffset", jobj); err == nil {
		offset, _ = off.(float64)
	}
	// a symbol without trades in the range has no timestamp at all.
	stamps, _ := jsonpath.Get("$.chart.result[0].timestamp", jobj)
	closes, _ := jsonpath.Get("$.chart.result[0].indicators.quote[0].close", jobj)
	ts, _ := stamps.([]any)
	cs, _ := closes.([]any)
	for i, t := range ts {
		sec, ok := t.(float64)
		if !ok {
			continue
		}
		v := math.NaN()
		if i < len(cs) {
			if f, ok := cs[i].(float64); ok {
				v = f
			}
		}
		// trading days are in exchange time.
		c.days = append(c.days, date.Of(time.Unix(int64(sec+offset), 0).UTC()))
		c.closes = append(c.closes, v)
	}
	return c, nil
}

// history returns the daily closes of symbol since start.
func (y *Yahoo) history(ctx context.Context, symbol string, start date.Date) (*date.History[float64], error) {
	params := url.Values{}
	params.Set("period1", fmt.Sprint(start.Time().Unix()))
	// end at the next midnight so that the request, hence the disk cache key, is stable for the day.
	params.Set("period2", fmt.Sprint(date.Of(y.now().UTC()).Add(1).Time().Unix()))
	c, err := y.chart(ctx, symbol, params)
	if err != nil {
		return nil, err
	}
	h := new(date.History[float64])
	for i, on := range c.days {
		if !math.IsNaN(c.closes[i]) {
			h.Append(on, c.closes[i])
		}
	}
	return h, nil
}

// last returns the last known close of symbol over the past few days.
func (y *Yahoo) last(ctx context.Context, symbol string) (float64, error) {
	c, err := y.chart(ctx, symbol, url.Values{"range": {"5d"}})
	if err != nil {
		return 0, err
	}
	for i := len(c.closes) - 1; i >= 0; i-- {
		if v := c.closes[i]; !math.IsNaN(v) && v > 0 {
			return v, nil
		}
	}
	return 0, fmt.Errorf("no recent close for %q", symbol)
}

// Currency returns the currency symbol trades in.
func (y *Yahoo) Currency(ctx context.Context, symbol string) (string, error) {
	c, err := y.chart(ctx, symbol, url.Values{"range": {"5d"}})
	if err != nil {
		return "", err
	}
	if c.currency == "" {
		return "", fmt.Errorf("no currency for %q", symbol)
	}
	return strings.ToUpper(c.currency), nil
}

// PriceOn returns the close of symbol on day, or the last close before it.
func (y *Yahoo) PriceOn(ctx context.Context, symbol string, day date.Date) (float64, error) {
	h, err := y.history(ctx, symbol, day.Add(-10))
	if err != nil {
		return 0, err
	}
	v, ok := h.ValueAsOf(day)
	if !ok || v <= 0 {
		// the first close after day is better than nothing.
		if _, first := h.First(); first > 0 {
			return first, nil
		}
		return 0, fmt.Errorf("no close for %q on %s", symbol, day)
	}
	return v, nil
}

// each calls fetch for every key and collects the failures.
//
// It only fails when every key failed, permanently so when every failure is
// a client error, to stop retrying unknown symbols.
func (y *Yahoo) each(keys []string, fetch func(string) error) error {
	var errs []error
	permanent := true
	for _, k := range keys {
		if err := fetch(k); err != nil {
			y.log.Warn().Err(err).Str("symbol", k).Msg("fetch failed")
			errs = append(errs, err)
			var se *statusError
			if !errors.As(err, &se) || se.Code < 400 || se.Code >= 500 {
				permanent = false
			}
		}
	}
	if len(keys) == 0 || len(errs) < len(keys) {
		return nil
	}
	err := errors.Join(errs...)
	if permanent {
		return backoff.Permanent(err)
	}
	return err
}

// FetchHistory implements portfolio.Source.
func (y *Yahoo) FetchHistory(ctx context.Context, symbols []string, start date.Date) (portfolio.Series, error) {
	out := portfolio.Series{}
	err := y.each(symbols, func(s string) error {
		h, err := y.history(ctx, s, start)
		if err != nil {
			return err
		}
		out[s] = h
		return nil
	})
	return out, err
}

// FetchLiveQuotes implements portfolio.Source.
func (y *Yahoo) FetchLiveQuotes(ctx context.Context, symbols []string) (map[string]float64, error) {
	out := map[string]float64{}
	err := y.each(symbols, func(s string) error {
		v, err := y.last(ctx, s)
		if err != nil {
			return err
		}
		out[s] = v
		return nil
	})
	return out, err
}

// FetchFXHistory implements portfolio.Source. Series are keyed by Pair.
func (y *Yahoo) FetchFXHistory(ctx context.Context, currencies []string, home string, start date.Date) (portfolio.Series, error) {
	out := portfolio.Series{}
	err := y.each(foreign(currencies, home), func(c string) error {
		h, err := y.history(ctx, Pair(c, home), start)
		if err != nil {
			return err
		}
		out[Pair(c, home)] = h
		return nil
	})
	return out, err
}

// FetchLiveFX implements portfolio.Source. Home is always 1.
func (y *Yahoo) FetchLiveFX(ctx context.Context, currencies []string, home string) (map[string]float64, error) {
	out := map[string]float64{strings.ToUpper(home): 1}
	err := y.each(foreign(currencies, home), func(c string) error {
		v, err := y.last(ctx, Pair(c, home))
		if err != nil {
			return err
		}
		out[c] = v
		return nil
	})
	return out, err
}

// foreign returns currencies without home.
func foreign(currencies []string, home string) []string {
	var out []string
	for _, c := range currencies {
		if c = strings.ToUpper(c); c != "" && c != strings.ToUpper(home) {
			out = append(out, c)
		}
	}
	return out
}
