package httpapi

import (
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"

	"github.com/tinoosan/cashflow/internal/cashflow"
)

const (
	defaultBucketCount = 7
	maxBucketCount     = 366
)

// getReport handles GET /v1/scenarios/{scenario}/report with granularity,
// anchor and buckets query parameters.
func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	scenario := chi.URLParam(r, "scenario")

	q := r.URL.Query()
	granularity := q.Get("granularity")
	if granularity == "" {
		granularity = string(cashflow.GranularityDaily)
	}
	g, err := cashflow.ParseGranularity(granularity)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	anchorStr := q.Get("anchor")
	if anchorStr == "" {
		badRequest(w, "anchor is required (YYYY-MM-DD)")
		return
	}
	anchor, err := cashflow.ParseDate(anchorStr)
	if err != nil {
		badRequest(w, "invalid anchor: "+err.Error())
		return
	}

	buckets := defaultBucketCount
	if v := q.Get("buckets"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxBucketCount {
			badRequest(w, "buckets must be a number between 1 and "+strconv.Itoa(maxBucketCount))
			return
		}
		buckets = n
	}

	l, err := s.engine.Ledger(r.Context(), scenario)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	projected := s.reports.Project(l, g, anchor, buckets)
	resp := reportResponse{
		Scenario:    scenario,
		Granularity: string(g),
		Anchor:      anchor.String(),
		Buckets:     make([]bucketResponse, 0, len(projected)),
	}
	for _, b := range projected {
		resp.Buckets = append(resp.Buckets, toBucketResponse(l.Currency, b, s.reports.Summarize(b)))
	}
	toJSON(w, http.StatusOK, resp)
}

// getCategoryTotal handles
// GET /v1/scenarios/{scenario}/days/{date}/categories/{categoryID}/total.
// Internal categories roll their subtree up recursively.
func (s *Server) getCategoryTotal(w http.ResponseWriter, r *http.Request) {
	scenario := chi.URLParam(r, "scenario")
	date, err := cashflow.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		badRequest(w, "invalid date: "+err.Error())
		return
	}
	categoryID := chi.URLParam(r, "categoryID")

	l, err := s.engine.Ledger(r.Context(), scenario)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	day, ok := l.Day(date)
	if !ok {
		// A date outside the ledger has no payments; its total is zero by
		// construction, so answer with an empty day instead of a 404.
		day = cashflow.NewDayRecord(date, s.chart, cashflow.BankFacility{})
	}
	total, err := s.reports.CategoryTotal(day, categoryID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, totalResponse{
		Scenario:   scenario,
		Date:       date.String(),
		CategoryID: categoryID,
		Total:      total.String(),
		Formatted:  formatAmount(l.Currency, total),
	})
}
