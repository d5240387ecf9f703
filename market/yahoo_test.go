package market

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suitsy/portfolio/date"
)

// fakeYahoo serves chart answers for a few symbols and counts the requests.
type fakeYahoo struct {
	mu    sync.Mutex
	hits  map[string]int
	query map[string]string
}

func (f *fakeYahoo) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimPrefix(r.URL.Path, "/")
	f.mu.Lock()
	f.hits[symbol]++
	f.query[symbol] = r.URL.RawQuery
	f.mu.Unlock()

	// 2025-01-02, 2025-01-03, 2025-01-06 at 14:30 UTC
	stamps := []int64{1735828200, 1735914600, 1736173800}
	var closes []any
	var currency string
	switch symbol {
	case "AAPL":
		currency, closes = "USD", []any{100.0, nil, 102.5}
	case "USDPLN=X":
		currency, closes = "PLN", []any{4.1, 4.2, 4.0}
	case "BROKEN":
		w.WriteHeader(http.StatusInternalServerError)
		return
	default:
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"chart": map[string]any{"result": nil, "error": map[string]any{"code": "Not Found"}}})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"chart": map[string]any{
			"result": []any{map[string]any{
				"meta":       map[string]any{"currency": currency, "symbol": symbol, "gmtoffset": -18000},
				"timestamp":  stamps,
				"indicators": map[string]any{"quote": []any{map[string]any{"close": closes}}},
			}},
			"error": nil,
		},
	})
}

func newFakeYahoo(t *testing.T) (*fakeYahoo, *Yahoo) {
	t.Helper()
	f := &fakeYahoo{hits: map[string]int{}, query: map[string]string{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	y := NewYahoo(srv.Client(), srv.URL, zerolog.Nop())
	y.now = func() time.Time { return time.Date(2025, time.January, 7, 12, 0, 0, 0, time.UTC) }
	return f, y
}

func TestYahooFetchHistory(t *testing.T) {
	f, y := newFakeYahoo(t)
	start := date.New(2025, time.January, 1)

	s, err := y.FetchHistory(context.Background(), []string{"AAPL", "UNKNOWN"}, start)
	require.NoError(t, err)
	require.Contains(t, s, "AAPL")
	assert.NotContains(t, s, "UNKNOWN")

	h := s["AAPL"]
	assert.Equal(t, 2, h.Len(), "null closes are skipped")
	v, ok := h.Get(date.New(2025, time.January, 6))
	assert.True(t, ok)
	assert.Equal(t, 102.5, v)
	_, ok = h.Get(date.New(2025, time.January, 3))
	assert.False(t, ok)

	assert.Contains(t, f.query["AAPL"], "period1=1735689600")
	assert.Contains(t, f.query["AAPL"], "period2=1736294400")
	assert.Contains(t, f.query["AAPL"], "interval=1d")
}

func TestYahooFetchHistoryFailures(t *testing.T) {
	_, y := newFakeYahoo(t)
	start := date.New(2025, time.January, 1)

	_, err := y.FetchHistory(context.Background(), []string{"UNKNOWN", "NOPE"}, start)
	require.Error(t, err)
	var perm *backoff.PermanentError
	assert.True(t, errors.As(err, &perm), "unknown symbols are not worth retrying")

	_, err = y.FetchHistory(context.Background(), []string{"BROKEN"}, start)
	require.Error(t, err)
	assert.False(t, errors.As(err, &perm), "server errors are worth retrying")

	s, err := y.FetchHistory(context.Background(), nil, start)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestYahooLive(t *testing.T) {
	f, y := newFakeYahoo(t)
	ctx := context.Background()

	quotes, err := y.FetchLiveQuotes(ctx, []string{"AAPL"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"AAPL": 102.5}, quotes)
	assert.Contains(t, f.query["AAPL"], "range=5d")

	rates, err := y.FetchLiveFX(ctx, []string{"usd", "PLN"}, "PLN")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"PLN": 1, "USD": 4.0}, rates)
	assert.Zero(t, f.hits["PLNPLN=X"], "home is never fetched")

	fx, err := y.FetchFXHistory(ctx, []string{"USD"}, "PLN", date.New(2025, time.January, 1))
	require.NoError(t, err)
	require.Contains(t, fx, "USDPLN=X")
	assert.Equal(t, 3, fx["USDPLN=X"].Len())

	cur, err := y.Currency(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "USD", cur)

	price, err := y.PriceOn(ctx, "AAPL", date.New(2025, time.January, 4))
	require.NoError(t, err)
	assert.Equal(t, 100.0, price)
}

func TestPair(t *testing.T) {
	assert.Equal(t, "USDPLN=X", Pair("usd", "pln"))
}

func TestDiskCache(t *testing.T) {
	f := &fakeYahoo{hits: map[string]int{}, query: map[string]string{}}
	srv := httptest.NewServer(f)
	defer srv.Close()

	dir := t.TempDir()
	client := NewCachingClient(dir, time.Hour, zerolog.Nop())
	y := NewYahoo(client, srv.URL, zerolog.Nop())
	ctx := context.Background()

	for range 3 {
		v, err := y.last(ctx, "AAPL")
		require.NoError(t, err)
		assert.Equal(t, 102.5, v)
	}
	assert.Equal(t, 1, f.hits["AAPL"], "cached responses are served from disk")

	for range 2 {
		_, err := y.last(ctx, "UNKNOWN")
		require.Error(t, err)
	}
	assert.Equal(t, 2, f.hits["UNKNOWN"], "failures are not cached")

	// expire everything.
	client.Transport.(*diskCache).now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err := y.last(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 2, f.hits["AAPL"])
}
