package cashflow

import (
	"fmt"
	"sort"

	"github.com/tinoosan/cashflow/internal/errs"
)

// Ledger is the ordered, gapless-by-construction sequence of day records for
// one scenario ("actual", "budgeted", ...). Days are kept strictly sorted by
// date ascending with no duplicates. Mutations operate on a Clone and the
// whole value is swapped in afterwards; a Ledger held by a caller never
// changes underneath it.
type Ledger struct {
	Scenario string      `json:"scenario"`
	Currency string      `json:"currency"`
	Days     []DayRecord `json:"days"`
}

// Clone deep-copies the ledger.
func (l Ledger) Clone() Ledger {
	out := l
	out.Days = make([]DayRecord, len(l.Days))
	for i, d := range l.Days {
		out.Days[i] = d.Clone()
	}
	return out
}

// DayIndex returns the position of the record for date, or -1.
func (l Ledger) DayIndex(date Date) int {
	for i := range l.Days {
		if l.Days[i].Date.Equal(date) {
			return i
		}
	}
	return -1
}

// Day returns the record for date.
func (l Ledger) Day(date Date) (DayRecord, bool) {
	if i := l.DayIndex(date); i >= 0 {
		return l.Days[i], true
	}
	return DayRecord{}, false
}

// FindOrCreateDay returns the record for date, synthesizing an empty one
// (zero opening balance, default facility) and re-sorting the sequence when
// the date is new. The returned pointer stays valid until the next insert.
func (l *Ledger) FindOrCreateDay(date Date, chart *Chart, facility BankFacility) *DayRecord {
	if i := l.DayIndex(date); i >= 0 {
		return &l.Days[i]
	}
	l.Days = append(l.Days, NewDayRecord(date, chart, facility))
	l.sortDays()
	return &l.Days[l.DayIndex(date)]
}

func (l *Ledger) sortDays() {
	sort.Slice(l.Days, func(i, j int) bool {
		return l.Days[i].Date.Before(l.Days[j].Date)
	})
}

// RemovePaymentsByTransaction drops every payment carrying one of the given
// transaction ids, regardless of which day or category holds it. Running it
// before re-applying a linked transaction makes edits replacements rather
// than accumulations.
func (l *Ledger) RemovePaymentsByTransaction(txIDs ...string) {
	if len(txIDs) == 0 {
		return
	}
	match := make(map[string]struct{}, len(txIDs))
	for _, id := range txIDs {
		if id != "" {
			match[id] = struct{}{}
		}
	}
	if len(match) == 0 {
		return
	}
	for di := range l.Days {
		for catID, ps := range l.Days[di].Cells {
			kept := ps[:0]
			for _, p := range ps {
				if _, hit := match[p.TransactionID]; hit {
					continue
				}
				kept = append(kept, p)
			}
			l.Days[di].Cells[catID] = kept
		}
	}
}

// PaymentsByTransaction returns every payment sharing the transaction id.
func (l Ledger) PaymentsByTransaction(txID string) []Payment {
	var out []Payment
	if txID == "" {
		return out
	}
	for _, d := range l.Days {
		for _, ps := range d.Cells {
			for _, p := range ps {
				if p.TransactionID == txID {
					out = append(out, p)
				}
			}
		}
	}
	return out
}

// Recalculate recomputes every opening balance after the first as a running
// fold over the prior day's net flow. The first day's opening balance is the
// externally supplied seed and is preserved. The fold is idempotent.
func (l *Ledger) Recalculate(chart *Chart) {
	for i := 1; i < len(l.Days); i++ {
		prev := l.Days[i-1]
		inflow, outflow := prev.FlowTotals(chart)
		l.Days[i].OpeningBalance = subDec(addDec(prev.OpeningBalance, inflow), outflow)
	}
}

// Validate checks the structural invariants a persisted snapshot must hold:
// strictly ascending unique dates, and a cell entry for every leaf of the
// chart in every day. Violations are reported as ErrCorruptSnapshot so
// callers can fall back to a freshly generated ledger.
func (l Ledger) Validate(chart *Chart) error {
	if l.Scenario == "" {
		return fmt.Errorf("%w: missing scenario name", errs.ErrCorruptSnapshot)
	}
	for i, d := range l.Days {
		if d.Date.IsZero() {
			return fmt.Errorf("%w: day %d has no date", errs.ErrCorruptSnapshot, i)
		}
		if i > 0 && !l.Days[i-1].Date.Before(d.Date) {
			return fmt.Errorf("%w: days out of order at %s", errs.ErrCorruptSnapshot, d.Date)
		}
		if d.Cells == nil {
			return fmt.Errorf("%w: day %s has no cells", errs.ErrCorruptSnapshot, d.Date)
		}
		for _, leaf := range chart.Leaves() {
			if _, ok := d.Cells[leaf.ID]; !ok {
				return fmt.Errorf("%w: day %s missing cell %s", errs.ErrCorruptSnapshot, d.Date, leaf.ID)
			}
		}
	}
	return nil
}
