package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
)

// getCheques handles GET /v1/scenarios/{scenario}/cheques: every payment in
// the ledger settled by post-dated cheque, ordered by date.
func (s *Server) getCheques(w http.ResponseWriter, r *http.Request) {
	scenario := chi.URLParam(r, "scenario")
	l, err := s.engine.Ledger(r.Context(), scenario)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	cheques := s.reports.PostDatedCheques(l)
	resp := chequesResponse{Scenario: scenario, Items: make([]chequeResponse, 0, len(cheques))}
	for _, c := range cheques {
		resp.Items = append(resp.Items, toChequeResponse(l.Currency, c))
	}
	toJSON(w, http.StatusOK, resp)
}
