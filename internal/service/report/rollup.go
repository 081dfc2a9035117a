package report

import (
	"fmt"

	"github.com/govalues/decimal"

	"github.com/tinoosan/cashflow/internal/cashflow"
	"github.com/tinoosan/cashflow/internal/errs"
)

// totalKey memoizes rollups per (day, category) within one query pass.
type totalKey struct {
	date       string
	categoryID string
}

// Totaler computes category totals for day records with memoization. The
// cache lives for one query pass; build a new Totaler per pass, it is not
// safe to share across goroutines.
type Totaler struct {
	chart *cashflow.Chart
	memo  map[totalKey]decimal.Decimal
}

// NewTotaler builds a Totaler over a chart.
func NewTotaler(chart *cashflow.Chart) *Totaler {
	return &Totaler{chart: chart, memo: make(map[totalKey]decimal.Decimal)}
}

// Total returns the rollup amount of a category for one day: a leaf sums its
// own payments, an internal category sums its children recursively.
func (t *Totaler) Total(day cashflow.DayRecord, categoryID string) (decimal.Decimal, error) {
	cat, ok := t.chart.Category(categoryID)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: category %s", errs.ErrUnknownCategory, categoryID)
	}
	return t.total(day, cat), nil
}

func (t *Totaler) total(day cashflow.DayRecord, cat *cashflow.Category) decimal.Decimal {
	key := totalKey{date: day.Date.String(), categoryID: cat.ID}
	if v, hit := t.memo[key]; hit {
		return v
	}
	var sum decimal.Decimal
	if cat.Leaf() {
		for _, p := range day.Payments(cat.ID) {
			sum = tolerantAdd(sum, p.Amount)
		}
	} else {
		for _, child := range cat.Children {
			sum = tolerantAdd(sum, t.total(day, child))
		}
	}
	t.memo[key] = sum
	return sum
}

// CategoryTotal answers a single rollup query with a throwaway memo cache.
func (s *service) CategoryTotal(day cashflow.DayRecord, categoryID string) (decimal.Decimal, error) {
	return NewTotaler(s.chart).Total(day, categoryID)
}
