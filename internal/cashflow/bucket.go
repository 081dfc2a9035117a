package cashflow

import (
	"fmt"

	"github.com/govalues/decimal"

	"github.com/tinoosan/cashflow/internal/errs"
)

// Granularity selects how day records are bucketed for a period view.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
	// GranularityYearly steps through successive months, not years; yearly
	// reports share monthly bucket math.
	GranularityYearly Granularity = "yearly"
)

// ParseGranularity maps a query string to a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case GranularityDaily, GranularityWeekly, GranularityMonthly, GranularityYearly:
		return Granularity(s), nil
	}
	return "", fmt.Errorf("%w: granularity %q", errs.ErrInvalid, s)
}

// PeriodBucket is a read-only projection over one or more consecutive days.
// Cells hold the concatenated payment lists of the days in the span, so
// individual payment records (and their method tags) survive aggregation.
type PeriodBucket struct {
	Start          Date                 `json:"start"`
	End            Date                 `json:"end"`
	OpeningBalance decimal.Decimal      `json:"opening_balance"`
	Facility       BankFacility         `json:"bank_facility"`
	Cells          map[string][]Payment `json:"cells"`
}

// PeriodSummary carries the headline numbers for one bucket.
type PeriodSummary struct {
	TotalInflow       decimal.Decimal `json:"total_inflow"`
	TotalOutflow      decimal.Decimal `json:"total_outflow"`
	ClosingBalance    decimal.Decimal `json:"closing_balance"`
	FacilityRemaining decimal.Decimal `json:"facility_remaining"`
}
