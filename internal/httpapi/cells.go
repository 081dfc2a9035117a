package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/govalues/decimal"

	"github.com/tinoosan/cashflow/internal/cashflow"
	"github.com/tinoosan/cashflow/internal/service/engine"
)

// putCell handles PUT /v1/scenarios/{scenario}/days/{date}/cells/{categoryID}.
// The request body replaces the cell's payment list wholesale.
func (s *Server) putCell(w http.ResponseWriter, r *http.Request) {
	scenario := chi.URLParam(r, "scenario")
	date, err := cashflow.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		badRequest(w, "invalid date: "+err.Error())
		return
	}
	categoryID := chi.URLParam(r, "categoryID")

	var req editCellRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}

	payments := make([]cashflow.Payment, 0, len(req.Payments))
	var warnings []engine.Warning
	for i, p := range req.Payments {
		if !p.Method.Valid() {
			badRequest(w, fmt.Sprintf("payments[%d]: unknown method %q", i, p.Method))
			return
		}
		amount, perr := decimal.Parse(string(p.Amount))
		if perr != nil {
			// Permissive-input policy: unparsable amounts become zero.
			amount = decimal.MustNew(0, 0)
			warnings = append(warnings, engine.Warning{
				Code:    engine.WarnMalformedAmount,
				Message: fmt.Sprintf("payments[%d]: amount %q normalized to zero", i, string(p.Amount)),
			})
		}
		payments = append(payments, cashflow.Payment{
			ID:           p.ID,
			Amount:       amount,
			Method:       p.Method,
			ChequeNumber: p.ChequeNumber,
			Details:      p.Details,
		})
	}

	l, engineWarnings, err := s.engine.EditCell(r.Context(), scenario, date, categoryID, payments)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	ledgerMutationsTotal.WithLabelValues("edit_cell", scenario).Inc()
	toJSON(w, http.StatusOK, mutationResponse{
		Ledger:   toLedgerResponse(l),
		Warnings: append(warnings, engineWarnings...),
	})
}

// movePayment handles POST /v1/scenarios/{scenario}/payments/move.
func (s *Server) movePayment(w http.ResponseWriter, r *http.Request) {
	scenario := chi.URLParam(r, "scenario")

	var req moveRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if req.PaymentID == "" {
		badRequest(w, "payment_id is required")
		return
	}
	srcDate, err := cashflow.ParseDate(req.SourceDate)
	if err != nil {
		badRequest(w, "invalid source_date: "+err.Error())
		return
	}
	destDate, err := cashflow.ParseDate(req.DestDate)
	if err != nil {
		badRequest(w, "invalid dest_date: "+err.Error())
		return
	}

	l, warnings, err := s.engine.MovePayment(r.Context(), scenario, engine.MoveRequest{
		PaymentID:        req.PaymentID,
		SourceDate:       srcDate,
		SourceCategoryID: req.SourceCategoryID,
		DestDate:         destDate,
		DestCategoryID:   req.DestCategoryID,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	ledgerMutationsTotal.WithLabelValues("move_payment", scenario).Inc()
	toJSON(w, http.StatusOK, mutationResponse{
		Ledger:   toLedgerResponse(l),
		Warnings: warnings,
	})
}
