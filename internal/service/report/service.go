package report

import (
	"github.com/govalues/decimal"

	"github.com/tinoosan/cashflow/internal/cashflow"
)

// Service exposes the read-only projections over a ledger snapshot. Nothing
// here mutates; every method works on the value it is handed.
type Service interface {
	Project(l cashflow.Ledger, g cashflow.Granularity, anchor cashflow.Date, buckets int) []cashflow.PeriodBucket
	Summarize(b cashflow.PeriodBucket) cashflow.PeriodSummary
	CategoryTotal(day cashflow.DayRecord, categoryID string) (decimal.Decimal, error)
	PostDatedCheques(l cashflow.Ledger) []Cheque
}

type service struct {
	chart           *cashflow.Chart
	defaultFacility cashflow.BankFacility
}

// New constructs the report service. The facility value is what empty
// buckets fall back to.
func New(chart *cashflow.Chart, defaultFacility cashflow.BankFacility) Service {
	return &service{chart: chart, defaultFacility: defaultFacility}
}

// Summarize computes the headline numbers of one bucket: flow totals,
// end-of-period balance and remaining facility. Cell keys unknown to the
// chart are skipped.
func (s *service) Summarize(b cashflow.PeriodBucket) cashflow.PeriodSummary {
	var inflow, outflow decimal.Decimal
	for id, ps := range b.Cells {
		kind, ok := s.chart.KindOf(id)
		if !ok {
			continue
		}
		for _, p := range ps {
			switch kind {
			case cashflow.KindInflow:
				inflow = tolerantAdd(inflow, p.Amount)
			case cashflow.KindOutflow:
				outflow = tolerantAdd(outflow, p.Amount)
			}
		}
	}
	closing := tolerantSub(tolerantAdd(b.OpeningBalance, inflow), outflow)
	return cashflow.PeriodSummary{
		TotalInflow:       inflow,
		TotalOutflow:      outflow,
		ClosingBalance:    closing,
		FacilityRemaining: b.Facility.Remaining(),
	}
}

func tolerantAdd(a, b decimal.Decimal) decimal.Decimal {
	if v, err := a.Add(b); err == nil {
		return v
	}
	return a
}

func tolerantSub(a, b decimal.Decimal) decimal.Decimal {
	if v, err := a.Sub(b); err == nil {
		return v
	}
	return a
}
