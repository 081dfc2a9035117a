package httpapi

import (
	"github.com/govalues/decimal"
	"github.com/govalues/money"

	"github.com/tinoosan/cashflow/internal/cashflow"
	"github.com/tinoosan/cashflow/internal/service/engine"
	"github.com/tinoosan/cashflow/internal/service/report"
)

// amountField accepts a JSON number or string and keeps the raw text so the
// handler can apply the permissive-input policy when parsing it.
type amountField string

func (a *amountField) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	*a = amountField(s)
	return nil
}

type editCellRequest struct {
	Payments []editPayment `json:"payments"`
}

type editPayment struct {
	ID           string          `json:"id,omitempty"`
	Amount       amountField     `json:"amount"`
	Method       cashflow.Method `json:"method"`
	ChequeNumber string          `json:"cheque_number,omitempty"`
	Details      string          `json:"details,omitempty"`
}

type moveRequest struct {
	PaymentID        string `json:"payment_id"`
	SourceDate       string `json:"source_date"`
	SourceCategoryID string `json:"source_category_id"`
	DestDate         string `json:"dest_date"`
	DestCategoryID   string `json:"dest_category_id"`
}

type paymentResponse struct {
	ID            string          `json:"id"`
	Amount        string          `json:"amount"`
	Formatted     string          `json:"amount_formatted"`
	Method        cashflow.Method `json:"method"`
	ChequeNumber  string          `json:"cheque_number,omitempty"`
	Details       string          `json:"details,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
}

type facilityResponse struct {
	Limit string `json:"limit"`
	Taken string `json:"taken"`
}

type dayResponse struct {
	Date           string                       `json:"date"`
	OpeningBalance string                       `json:"opening_balance"`
	Facility       facilityResponse             `json:"bank_facility"`
	Cells          map[string][]paymentResponse `json:"cells"`
}

type ledgerResponse struct {
	Scenario string        `json:"scenario"`
	Currency string        `json:"currency"`
	Days     []dayResponse `json:"days"`
}

type mutationResponse struct {
	Ledger   ledgerResponse   `json:"ledger"`
	Warnings []engine.Warning `json:"warnings,omitempty"`
}

type summaryResponse struct {
	TotalInflow       string `json:"total_inflow"`
	TotalOutflow      string `json:"total_outflow"`
	ClosingBalance    string `json:"closing_balance"`
	FacilityRemaining string `json:"facility_remaining"`
}

type bucketResponse struct {
	Start          string                       `json:"start"`
	End            string                       `json:"end"`
	OpeningBalance string                       `json:"opening_balance"`
	Facility       facilityResponse             `json:"bank_facility"`
	Cells          map[string][]paymentResponse `json:"cells"`
	Summary        summaryResponse              `json:"summary"`
}

type reportResponse struct {
	Scenario    string           `json:"scenario"`
	Granularity string           `json:"granularity"`
	Anchor      string           `json:"anchor"`
	Buckets     []bucketResponse `json:"buckets"`
}

type totalResponse struct {
	Scenario   string `json:"scenario"`
	Date       string `json:"date"`
	CategoryID string `json:"category_id"`
	Total      string `json:"total"`
	Formatted  string `json:"total_formatted"`
}

type chequeResponse struct {
	PaymentID    string `json:"payment_id"`
	ChequeNumber string `json:"cheque_number"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	Date         string `json:"date"`
	Amount       string `json:"amount"`
	Formatted    string `json:"amount_formatted"`
	Details      string `json:"details,omitempty"`
}

type chequesResponse struct {
	Scenario string           `json:"scenario"`
	Items    []chequeResponse `json:"items"`
}

type categoryResponse struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Kind     cashflow.Kind      `json:"kind"`
	Children []categoryResponse `json:"children,omitempty"`
}

// formatAmount renders a decimal in the ledger currency. When the currency
// code is unknown the bare decimal string is returned.
func formatAmount(currency string, d decimal.Decimal) string {
	a, err := money.ParseAmount(currency, d.String())
	if err != nil {
		return d.String()
	}
	return a.String()
}

func toPaymentResponse(currency string, p cashflow.Payment) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		Amount:        p.Amount.String(),
		Formatted:     formatAmount(currency, p.Amount),
		Method:        p.Method,
		ChequeNumber:  p.ChequeNumber,
		Details:       p.Details,
		TransactionID: p.TransactionID,
	}
}

func toCellsResponse(currency string, cells map[string][]cashflow.Payment) map[string][]paymentResponse {
	out := make(map[string][]paymentResponse, len(cells))
	for id, ps := range cells {
		rs := make([]paymentResponse, 0, len(ps))
		for _, p := range ps {
			rs = append(rs, toPaymentResponse(currency, p))
		}
		out[id] = rs
	}
	return out
}

func toFacilityResponse(f cashflow.BankFacility) facilityResponse {
	return facilityResponse{Limit: f.Limit.String(), Taken: f.Taken.String()}
}

func toLedgerResponse(l cashflow.Ledger) ledgerResponse {
	out := ledgerResponse{
		Scenario: l.Scenario,
		Currency: l.Currency,
		Days:     make([]dayResponse, 0, len(l.Days)),
	}
	for _, d := range l.Days {
		out.Days = append(out.Days, dayResponse{
			Date:           d.Date.String(),
			OpeningBalance: d.OpeningBalance.String(),
			Facility:       toFacilityResponse(d.Facility),
			Cells:          toCellsResponse(l.Currency, d.Cells),
		})
	}
	return out
}

func toBucketResponse(currency string, b cashflow.PeriodBucket, sum cashflow.PeriodSummary) bucketResponse {
	return bucketResponse{
		Start:          b.Start.String(),
		End:            b.End.String(),
		OpeningBalance: b.OpeningBalance.String(),
		Facility:       toFacilityResponse(b.Facility),
		Cells:          toCellsResponse(currency, b.Cells),
		Summary: summaryResponse{
			TotalInflow:       sum.TotalInflow.String(),
			TotalOutflow:      sum.TotalOutflow.String(),
			ClosingBalance:    sum.ClosingBalance.String(),
			FacilityRemaining: sum.FacilityRemaining.String(),
		},
	}
}

func toChequeResponse(currency string, c report.Cheque) chequeResponse {
	return chequeResponse{
		PaymentID:    c.PaymentID,
		ChequeNumber: c.ChequeNumber,
		CategoryID:   c.CategoryID,
		CategoryName: c.CategoryName,
		Date:         c.Date.String(),
		Amount:       c.Amount.String(),
		Formatted:    formatAmount(currency, c.Amount),
		Details:      c.Details,
	}
}

func toCategoryResponse(c *cashflow.Category) categoryResponse {
	out := categoryResponse{ID: c.ID, Name: c.Name, Kind: c.Kind}
	for _, child := range c.Children {
		out.Children = append(out.Children, toCategoryResponse(child))
	}
	return out
}
