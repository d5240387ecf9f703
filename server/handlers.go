package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/suitsy/portfolio"
	"github.com/suitsy/portfolio/date"
	"github.com/suitsy/portfolio/renderer"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := s.cfg.Store.Owners(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	var b strings.Builder
	b.WriteString("# Portfolios\n\n")
	if len(owners) == 0 {
		b.WriteString("No transactions yet.\n")
	}
	for _, o := range owners {
		fmt.Fprintf(&b, "- [%s](/%s)\n", o, url.PathEscape(o))
	}
	s.writePage(w, "Portfolios", b.String())
}

func (s *Server) handleOwnersAPI(w http.ResponseWriter, r *http.Request) {
	owners, err := s.cfg.Store.Owners(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if owners == nil {
		owners = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"owners": owners})
}

func (s *Server) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	d, err := s.dashboard(r.Context(), chi.URLParam(r, "owner"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writePage(w, "Portfolio of "+d.Owner, renderer.RenderDashboard(renderer.NewDashboard(d)))
}

func (s *Server) handleDashboardAPI(w http.ResponseWriter, r *http.Request) {
	d, err := s.dashboard(r.Context(), chi.URLParam(r, "owner"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newDashboardResponse(d))
}

// DashboardResponse is the JSON form of a dashboard.
type DashboardResponse struct {
	Owner        string                `json:"owner"`
	Home         string                `json:"home"`
	On           date.Date             `json:"on"`
	KPI          portfolio.KPI         `json:"kpi"`
	Positions    []portfolio.Valuation `json:"positions"`
	Allocation   []portfolio.Slice     `json:"allocation"`
	History      []HistoryPoint        `json:"history"`
	MaxDrawdown  float64               `json:"max_drawdown"`
	Change       float64               `json:"change"`
	ChangePct    float64               `json:"change_pct"`
	Insufficient bool                  `json:"insufficient"`
	Benchmarks   map[string][]float64  `json:"benchmarks"`
	Issues       []IssueResponse       `json:"issues"`
}

// HistoryPoint is one date of the portfolio history.
type HistoryPoint struct {
	Date     date.Date `json:"date"`
	Equity   float64   `json:"equity"`
	Cost     float64   `json:"cost"`
	ROI      float64   `json:"roi"`
	Drawdown float64   `json:"drawdown"`
}

// IssueResponse is the JSON form of a data issue.
type IssueResponse struct {
	Kind     string `json:"kind"`
	Symbol   string `json:"symbol,omitempty"`
	Currency string `json:"currency,omitempty"`
	Message  string `json:"message"`
}

func newDashboardResponse(d *portfolio.Dashboard) DashboardResponse {
	resp := DashboardResponse{
		Owner:        d.Owner,
		Home:         d.Home,
		On:           d.On,
		KPI:          d.KPI,
		Positions:    append([]portfolio.Valuation{}, d.Valuations...),
		Allocation:   append([]portfolio.Slice{}, d.Allocation...),
		History:      []HistoryPoint{},
		MaxDrawdown:  d.MaxDrawdown,
		Change:       d.Change,
		ChangePct:    d.ChangePct,
		Insufficient: d.Insufficient,
		Benchmarks:   d.Benchmarks,
		Issues:       []IssueResponse{},
	}
	h := d.History
	for i := 0; i < h.Len(); i++ {
		resp.History = append(resp.History, HistoryPoint{
			Date:     h.Dates[i],
			Equity:   h.Equity[i],
			Cost:     h.Cost[i],
			ROI:      d.ROI[i],
			Drawdown: d.Drawdown[i],
		})
	}
	for _, i := range d.Issues {
		resp.Issues = append(resp.Issues, IssueResponse{
			Kind:     i.Kind.String(),
			Symbol:   i.Symbol,
			Currency: i.Currency,
			Message:  i.Error(),
		})
	}
	return resp
}

func (s *Server) writePage(w http.ResponseWriter, title, markdown string) {
	page, err := renderer.Page(title, markdown)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(page))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.log.Error().Err(err).Int("status", status).Msg("request failed")
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
