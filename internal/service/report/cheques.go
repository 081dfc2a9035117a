package report

import (
	"sort"

	"github.com/govalues/decimal"

	"github.com/tinoosan/cashflow/internal/cashflow"
)

// Cheque is one post-dated cheque found in a ledger, flattened for listing.
type Cheque struct {
	PaymentID    string          `json:"payment_id"`
	ChequeNumber string          `json:"cheque_number"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Date         cashflow.Date   `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Details      string          `json:"details,omitempty"`
}

// PostDatedCheques scans the whole ledger for payments settled by post-dated
// cheque and returns them ordered by date, then cheque number.
func (s *service) PostDatedCheques(l cashflow.Ledger) []Cheque {
	out := make([]Cheque, 0)
	for _, day := range l.Days {
		for _, leaf := range s.chart.Leaves() {
			for _, p := range day.Payments(leaf.ID) {
				if p.Method != cashflow.MethodPostDatedCheque {
					continue
				}
				out = append(out, Cheque{
					PaymentID:    p.ID,
					ChequeNumber: p.ChequeNumber,
					CategoryID:   leaf.ID,
					CategoryName: leaf.Name,
					Date:         day.Date,
					Amount:       p.Amount,
					Details:      p.Details,
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ChequeNumber < out[j].ChequeNumber
	})
	return out
}
