package cashflow

import "github.com/govalues/decimal"

// Method enumerates how a payment is settled.
type Method string

const (
	MethodBankTransfer    Method = "bank_transfer"
	MethodCheque          Method = "cheque"
	MethodFacilityDraw    Method = "facility_draw"
	MethodDeferredCredit  Method = "deferred_credit"
	MethodPostDatedCheque Method = "post_dated_cheque"
)

// Valid reports whether m is one of the known payment methods.
func (m Method) Valid() bool {
	switch m {
	case MethodBankTransfer, MethodCheque, MethodFacilityDraw, MethodDeferredCredit, MethodPostDatedCheque:
		return true
	}
	return false
}

// Payment is a single cash movement recorded in a leaf category on one day.
// TransactionID is set only on payments that belong to a linked transaction;
// all records of one linked transaction share it.
type Payment struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        Method          `json:"method"`
	ChequeNumber  string          `json:"cheque_number,omitempty"`
	Details       string          `json:"details,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
}

// Linked reports whether the payment belongs to a linked transaction.
func (p Payment) Linked() bool { return p.TransactionID != "" }

// clonePayments copies a payment list. Payment itself has no reference
// fields, so a slice copy is a full copy.
func clonePayments(ps []Payment) []Payment {
	if ps == nil {
		return nil
	}
	out := make([]Payment, len(ps))
	copy(out, ps)
	return out
}
