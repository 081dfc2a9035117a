package engine

import (
	"github.com/tinoosan/cashflow/internal/cashflow"
)

// linkedPrimary decides whether an edit participates in the deferred-credit
// linkage. Only the first payment of the replacement list is inspected: an
// edit replaces the whole cell as one logical transaction, so any further
// payments ride along unlinked.
func (s *service) linkedPrimary(categoryID string, payments []cashflow.Payment) (bool, cashflow.Payment) {
	if len(payments) == 0 {
		return false, cashflow.Payment{}
	}
	primary := payments[0]
	if primary.Method != cashflow.MethodDeferredCredit {
		return false, cashflow.Payment{}
	}
	if !s.chart.Within(s.cfg.Link.SupplierCategoryID, categoryID) {
		return false, cashflow.Payment{}
	}
	return true, primary
}

// spawnSatellites writes the two derived payments of a linked transaction:
// a same-day support inflow mirroring the primary, and a repayment outflow
// carrying the financing cost at the configured offset. Both share the
// primary's transaction id and get fresh payment ids.
func (s *service) spawnSatellites(l *cashflow.Ledger, date cashflow.Date, primary cashflow.Payment, txID string) {
	support := l.FindOrCreateDay(date, s.chart, s.cfg.Seed.Facility)
	support.Append(s.cfg.Link.SupportCategoryID, cashflow.Payment{
		ID:            s.ids.NewID(),
		Amount:        primary.Amount,
		Method:        primary.Method,
		Details:       primary.Details,
		TransactionID: txID,
	})

	repayAmount := primary.Amount
	if v, err := primary.Amount.Mul(s.cfg.Link.CarryRate); err == nil {
		repayAmount = v
	}
	repayDate := date.AddDays(s.cfg.Link.OffsetDays)
	repay := l.FindOrCreateDay(repayDate, s.chart, s.cfg.Seed.Facility)
	repay.Append(s.cfg.Link.RepaymentCategoryID, cashflow.Payment{
		ID:            s.ids.NewID(),
		Amount:        repayAmount,
		Method:        cashflow.MethodDeferredCredit,
		TransactionID: txID,
	})
}
