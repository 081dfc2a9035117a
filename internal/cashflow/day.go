package cashflow

import "github.com/govalues/decimal"

// BankFacility tracks the credit line available to the business on a day.
type BankFacility struct {
	Limit decimal.Decimal `json:"limit"`
	Taken decimal.Decimal `json:"taken"`
}

// Remaining returns the undrawn part of the facility.
func (f BankFacility) Remaining() decimal.Decimal {
	return subDec(f.Limit, f.Taken)
}

// DayRecord is the ledger snapshot for one calendar day: its derived opening
// balance, the facility state, and the payments recorded per leaf category.
// Every leaf of the chart has an entry in Cells, possibly empty.
type DayRecord struct {
	Date           Date                 `json:"date"`
	OpeningBalance decimal.Decimal      `json:"opening_balance"`
	Facility       BankFacility         `json:"bank_facility"`
	Cells          map[string][]Payment `json:"cells"`
}

// NewDayRecord builds an empty day shaped by the chart.
func NewDayRecord(date Date, chart *Chart, facility BankFacility) DayRecord {
	d := DayRecord{
		Date:     date,
		Facility: facility,
		Cells:    make(map[string][]Payment, len(chart.Leaves())),
	}
	for _, leaf := range chart.Leaves() {
		d.Cells[leaf.ID] = []Payment{}
	}
	return d
}

// Clone deep-copies the day record.
func (d DayRecord) Clone() DayRecord {
	out := d
	out.Cells = make(map[string][]Payment, len(d.Cells))
	for id, ps := range d.Cells {
		out.Cells[id] = clonePayments(ps)
	}
	return out
}

// Payments returns the list recorded for a leaf category, nil if absent.
func (d DayRecord) Payments(categoryID string) []Payment {
	return d.Cells[categoryID]
}

// SetCell replaces the payment list of a leaf category wholesale.
func (d *DayRecord) SetCell(categoryID string, ps []Payment) {
	if ps == nil {
		ps = []Payment{}
	}
	d.Cells[categoryID] = ps
}

// Append adds one payment to the end of a leaf category's list.
func (d *DayRecord) Append(categoryID string, p Payment) {
	d.Cells[categoryID] = append(d.Cells[categoryID], p)
}

// FlowTotals sums the day's payments by category kind. Cell keys that are
// not leaves of the chart are skipped, so stray data never breaks a fold.
func (d DayRecord) FlowTotals(chart *Chart) (inflow, outflow decimal.Decimal) {
	for id, ps := range d.Cells {
		if !chart.IsLeaf(id) {
			continue
		}
		kind, _ := chart.KindOf(id)
		for _, p := range ps {
			switch kind {
			case KindInflow:
				inflow = addDec(inflow, p.Amount)
			case KindOutflow:
				outflow = addDec(outflow, p.Amount)
			}
		}
	}
	return inflow, outflow
}

// addDec and subDec fold decimals tolerantly: on overflow the left operand
// is kept and the fold continues.
func addDec(a, b decimal.Decimal) decimal.Decimal {
	if v, err := a.Add(b); err == nil {
		return v
	}
	return a
}

func subDec(a, b decimal.Decimal) decimal.Decimal {
	if v, err := a.Sub(b); err == nil {
		return v
	}
	return a
}
