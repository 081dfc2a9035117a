package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
)

// getLedger handles GET /v1/scenarios/{scenario}/ledger.
func (s *Server) getLedger(w http.ResponseWriter, r *http.Request) {
	scenario := chi.URLParam(r, "scenario")
	l, err := s.engine.Ledger(r.Context(), scenario)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toLedgerResponse(l))
}

// recalculate handles POST /v1/scenarios/{scenario}/recalculate. It forces a
// defensive recomputation of every opening balance from the payment lists.
func (s *Server) recalculate(w http.ResponseWriter, r *http.Request) {
	scenario := chi.URLParam(r, "scenario")
	l, err := s.engine.Recalculate(r.Context(), scenario)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	ledgerMutationsTotal.WithLabelValues("recalculate", scenario).Inc()
	toJSON(w, http.StatusOK, toLedgerResponse(l))
}
