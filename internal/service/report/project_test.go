package report

import (
	"testing"

	"github.com/govalues/decimal"

	"github.com/tinoosan/cashflow/internal/cashflow"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.Parse(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

var testFacility = cashflow.BankFacility{
	Limit: decimal.MustNew(200000, 0),
	Taken: decimal.MustNew(50000, 0),
}

// sampleLedger builds 40 consecutive days starting 2024-08-01 with a 50000
// opening balance, one 100 inflow on day 0 and one 30 outflow on day 10.
func sampleLedger(t *testing.T, chart *cashflow.Chart) cashflow.Ledger {
	t.Helper()
	start := cashflow.MustParseDate("2024-08-01")
	l := cashflow.Ledger{Scenario: "actual", Currency: "USD"}
	for i := 0; i < 40; i++ {
		l.Days = append(l.Days, cashflow.NewDayRecord(start.AddDays(i), chart, testFacility))
	}
	l.Days[0].OpeningBalance = dec(t, "50000")
	l.Days[0].Append("inflow_direct", cashflow.Payment{ID: "p-in", Amount: dec(t, "100"), Method: cashflow.MethodCheque})
	l.Days[10].Append("outflow_office_rent", cashflow.Payment{ID: "p-out", Amount: dec(t, "30"), Method: cashflow.MethodBankTransfer})
	l.Recalculate(chart)
	return l
}

func paymentIDs(b cashflow.PeriodBucket) []string {
	var ids []string
	for _, ps := range b.Cells {
		for _, p := range ps {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func TestProject_DailyBucketsMatchDays(t *testing.T) {
	chart := cashflow.DefaultChart()
	svc := New(chart, testFacility)
	l := sampleLedger(t, chart)
	anchor := cashflow.MustParseDate("2024-08-01")

	buckets := svc.Project(l, cashflow.GranularityDaily, anchor, 7)
	if len(buckets) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(buckets))
	}
	for i, b := range buckets {
		want := anchor.AddDays(i)
		if !b.Start.Equal(want) || !b.End.Equal(want) {
			t.Fatalf("bucket %d: expected span %s..%s, got %s..%s", i, want, want, b.Start, b.End)
		}
		if b.OpeningBalance.Cmp(l.Days[i].OpeningBalance) != 0 {
			t.Fatalf("bucket %d: opening %s, day has %s", i, b.OpeningBalance, l.Days[i].OpeningBalance)
		}
	}
	if ids := paymentIDs(buckets[0]); len(ids) != 1 || ids[0] != "p-in" {
		t.Fatalf("expected only p-in in first bucket, got %v", ids)
	}
	if ids := paymentIDs(buckets[1]); len(ids) != 0 {
		t.Fatalf("expected empty second bucket, got %v", ids)
	}
}

func TestProject_WeeklySpansMondayToSunday(t *testing.T) {
	chart := cashflow.DefaultChart()
	svc := New(chart, testFacility)
	l := sampleLedger(t, chart)

	// 2024-08-01 is a Thursday; its week starts Monday 2024-07-29.
	buckets := svc.Project(l, cashflow.GranularityWeekly, cashflow.MustParseDate("2024-08-01"), 3)
	if got := buckets[0].Start.String(); got != "2024-07-29" {
		t.Fatalf("expected first week to start 2024-07-29, got %s", got)
	}
	if got := buckets[0].End.String(); got != "2024-08-04" {
		t.Fatalf("expected first week to end 2024-08-04, got %s", got)
	}
	if got := buckets[1].Start.String(); got != "2024-08-05" {
		t.Fatalf("expected second week to start 2024-08-05, got %s", got)
	}

	// every payment lands in exactly one bucket
	seen := map[string]int{}
	for _, b := range buckets {
		for _, id := range paymentIDs(b) {
			seen[id]++
		}
	}
	if seen["p-in"] != 1 || seen["p-out"] != 1 {
		t.Fatalf("expected each payment in exactly one bucket, got %v", seen)
	}
}

func TestProject_MonthlyAndYearlyAgree(t *testing.T) {
	chart := cashflow.DefaultChart()
	svc := New(chart, testFacility)
	l := sampleLedger(t, chart)
	anchor := cashflow.MustParseDate("2024-08-01")

	monthly := svc.Project(l, cashflow.GranularityMonthly, anchor, 2)
	yearly := svc.Project(l, cashflow.GranularityYearly, anchor, 2)
	for i := range monthly {
		if !monthly[i].Start.Equal(yearly[i].Start) || !monthly[i].End.Equal(yearly[i].End) {
			t.Fatalf("bucket %d: monthly %s..%s vs yearly %s..%s", i, monthly[i].Start, monthly[i].End, yearly[i].Start, yearly[i].End)
		}
	}
	if got := monthly[0].Start.String(); got != "2024-08-01" {
		t.Fatalf("expected first month to start 2024-08-01, got %s", got)
	}
	if got := monthly[0].End.String(); got != "2024-08-31" {
		t.Fatalf("expected first month to end 2024-08-31, got %s", got)
	}
	if got := monthly[1].End.String(); got != "2024-09-30" {
		t.Fatalf("expected second month to end 2024-09-30, got %s", got)
	}
	if ids := paymentIDs(monthly[0]); len(ids) != 2 {
		t.Fatalf("expected both payments in August, got %v", ids)
	}
}

func TestProject_EmptyBucketFallsBackToDefaults(t *testing.T) {
	chart := cashflow.DefaultChart()
	svc := New(chart, testFacility)
	l := sampleLedger(t, chart)

	// well past the last ledger day
	buckets := svc.Project(l, cashflow.GranularityDaily, cashflow.MustParseDate("2025-01-01"), 1)
	b := buckets[0]
	if b.Facility.Limit.Cmp(testFacility.Limit) != 0 || b.Facility.Taken.Cmp(testFacility.Taken) != 0 {
		t.Fatalf("expected default facility, got %+v", b.Facility)
	}
	if !b.OpeningBalance.IsZero() {
		t.Fatalf("expected zero opening for a bucket past the ledger, got %s", b.OpeningBalance)
	}
	if ids := paymentIDs(b); len(ids) != 0 {
		t.Fatalf("expected no payments, got %v", ids)
	}
}

func TestProject_OpeningFromFirstDayAtOrAfterStart(t *testing.T) {
	chart := cashflow.DefaultChart()
	svc := New(chart, testFacility)
	l := sampleLedger(t, chart)

	// bucket starting before the ledger's first day picks that day's opening
	buckets := svc.Project(l, cashflow.GranularityDaily, cashflow.MustParseDate("2024-07-15"), 1)
	if got := buckets[0].OpeningBalance; got.Cmp(dec(t, "50000")) != 0 {
		t.Fatalf("expected opening from first ledger day, got %s", got)
	}
}

func TestSummarize(t *testing.T) {
	chart := cashflow.DefaultChart()
	svc := New(chart, testFacility)
	l := sampleLedger(t, chart)

	buckets := svc.Project(l, cashflow.GranularityMonthly, cashflow.MustParseDate("2024-08-01"), 1)
	sum := svc.Summarize(buckets[0])
	if sum.TotalInflow.Cmp(dec(t, "100")) != 0 {
		t.Fatalf("expected inflow 100, got %s", sum.TotalInflow)
	}
	if sum.TotalOutflow.Cmp(dec(t, "30")) != 0 {
		t.Fatalf("expected outflow 30, got %s", sum.TotalOutflow)
	}
	if sum.ClosingBalance.Cmp(dec(t, "50070")) != 0 {
		t.Fatalf("expected closing 50070, got %s", sum.ClosingBalance)
	}
	if sum.FacilityRemaining.Cmp(dec(t, "150000")) != 0 {
		t.Fatalf("expected facility remaining 150000, got %s", sum.FacilityRemaining)
	}
}
