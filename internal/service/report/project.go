package report

import (
	"time"

	"github.com/tinoosan/cashflow/internal/cashflow"
)

// Project buckets the day sequence into bucketCount consecutive periods
// starting at the anchor date. Bucket cells concatenate the underlying days'
// payment lists, so each bucket still carries individual payment records.
func (s *service) Project(l cashflow.Ledger, g cashflow.Granularity, anchor cashflow.Date, buckets int) []cashflow.PeriodBucket {
	out := make([]cashflow.PeriodBucket, 0, buckets)
	for i := 0; i < buckets; i++ {
		start, end := bucketSpan(g, anchor, i)
		out = append(out, s.bucket(l, start, end))
	}
	return out
}

// bucketSpan resolves the i-th bucket's inclusive date span.
func bucketSpan(g cashflow.Granularity, anchor cashflow.Date, i int) (cashflow.Date, cashflow.Date) {
	switch g {
	case cashflow.GranularityDaily:
		d := anchor.AddDays(i)
		return d, d
	case cashflow.GranularityWeekly:
		// Weeks run Monday through Sunday; the first bucket is the week
		// containing the anchor.
		offset := (int(anchor.Weekday()) + 6) % 7
		start := anchor.AddDays(-offset + i*7)
		return start, start.AddDays(6)
	default:
		// Monthly, and yearly through the same month stepping.
		start := cashflow.NewDate(anchor.Year(), anchor.Month()+time.Month(i), 1)
		end := cashflow.Date{Time: start.Time.AddDate(0, 1, -1)}
		return start, end
	}
}

func (s *service) bucket(l cashflow.Ledger, start, end cashflow.Date) cashflow.PeriodBucket {
	b := cashflow.PeriodBucket{
		Start:    start,
		End:      end,
		Facility: s.defaultFacility,
		Cells:    make(map[string][]cashflow.Payment, len(s.chart.Leaves())),
	}
	for _, leaf := range s.chart.Leaves() {
		b.Cells[leaf.ID] = []cashflow.Payment{}
	}

	first := true
	openingSet := false
	for _, day := range l.Days {
		if day.Date.Before(start) {
			continue
		}
		// Opening balance comes from the first day at or after the bucket
		// start, even when that day lies beyond the bucket itself.
		if !openingSet {
			b.OpeningBalance = day.OpeningBalance
			openingSet = true
		}
		if day.Date.After(end) {
			break
		}
		if first {
			b.Facility = day.Facility
			first = false
		}
		for id, ps := range day.Cells {
			if _, known := b.Cells[id]; !known {
				continue
			}
			b.Cells[id] = append(b.Cells[id], ps...)
		}
	}
	return b
}
