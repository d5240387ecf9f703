package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suitsy/portfolio"
	"github.com/suitsy/portfolio/date"
	"github.com/suitsy/portfolio/store"
)

// fakeSource prices every symbol 100, 110, 120 from the requested start.
type fakeSource struct{ err error }

func (f fakeSource) FetchHistory(_ context.Context, symbols []string, start date.Date) (portfolio.Series, error) {
	s := portfolio.Series{}
	for _, sym := range symbols {
		h := new(date.History[float64])
		h.Append(start, 100).Append(start.Add(1), 110).Append(start.Add(2), 120)
		s[sym] = h
	}
	return s, f.err
}

func (f fakeSource) FetchLiveQuotes(_ context.Context, symbols []string) (map[string]float64, error) {
	q := map[string]float64{}
	for _, sym := range symbols {
		q[sym] = 120
	}
	return q, f.err
}

func (f fakeSource) FetchFXHistory(context.Context, []string, string, date.Date) (portfolio.Series, error) {
	return portfolio.Series{}, f.err
}

func (f fakeSource) FetchLiveFX(context.Context, []string, string) (map[string]float64, error) {
	return map[string]float64{}, f.err
}

func newTestServer(t *testing.T, src portfolio.Source) *Server {
	t.Helper()
	st := store.NewJSONL(filepath.Join(t.TempDir(), "tx.jsonl"))
	err := st.Save(context.Background(), "anna", []portfolio.Transaction{
		{Symbol: "AAPL", Currency: "PLN", Date: date.Today().Add(-60), Quantity: 10, Cost: 1000, Note: "first"},
	})
	require.NoError(t, err)
	return New(Config{
		Addr:   "localhost:0",
		Log:    zerolog.Nop(),
		Store:  st,
		Source: src,
		Home:   "PLN",
		Load:   portfolio.LoadOptions{Retry: portfolio.Retry{Attempts: 1, Wait: time.Millisecond}, Logger: zerolog.Nop()},
	})
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t, fakeSource{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestOwners(t *testing.T) {
	s := newTestServer(t, fakeSource{})

	rec := get(t, s, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `<a href="/anna">anna</a>`)

	rec = get(t, s, "/api/owners")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"owners":["anna"]}`, rec.Body.String())
}

func TestDashboardAPI(t *testing.T) {
	rec := get(t, newTestServer(t, fakeSource{}), "/api/anna/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "anna", resp.Owner)
	assert.Equal(t, "PLN", resp.Home)
	assert.InDelta(t, 1200, resp.KPI.Total, 1e-9)
	assert.InDelta(t, 200, resp.KPI.Profit, 1e-9)
	assert.InDelta(t, 20, resp.KPI.ROI, 1e-9)
	require.Len(t, resp.Positions, 1)
	assert.Equal(t, "first", resp.Positions[0].Note)
	assert.Len(t, resp.History, 3)
	assert.False(t, resp.Insufficient)
	assert.Empty(t, resp.Issues)
}

func TestDashboardAPIFetchFailure(t *testing.T) {
	rec := get(t, newTestServer(t, fakeSource{err: errors.New("down")}), "/api/anna/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Insufficient)
	require.NotEmpty(t, resp.Issues)
	assert.Equal(t, "fetch failure", resp.Issues[0].Kind)
	assert.Contains(t, resp.Issues[0].Message, "down")
}

func TestDashboardPage(t *testing.T) {
	rec := get(t, newTestServer(t, fakeSource{}), "/anna")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Portfolio of anna</title>")
	assert.Contains(t, rec.Body.String(), "AAPL")
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, newTestServer(t, fakeSource{}), "/api/anna/nothing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
