package cashflow

import (
	"errors"
	"testing"

	"github.com/govalues/decimal"

	"github.com/tinoosan/cashflow/internal/errs"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.Parse(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func testFacility(t *testing.T) BankFacility {
	t.Helper()
	return BankFacility{Limit: dec(t, "200000"), Taken: dec(t, "50000")}
}

func testLedger(t *testing.T, chart *Chart, days int) Ledger {
	t.Helper()
	l := Ledger{Scenario: "actual", Currency: "USD"}
	start := MustParseDate("2024-08-01")
	for i := 0; i < days; i++ {
		l.Days = append(l.Days, NewDayRecord(start.AddDays(i), chart, testFacility(t)))
	}
	return l
}

func TestFindOrCreateDay_SortsAndReuses(t *testing.T) {
	chart := DefaultChart()
	l := testLedger(t, chart, 0)

	l.FindOrCreateDay(MustParseDate("2024-08-10"), chart, testFacility(t))
	l.FindOrCreateDay(MustParseDate("2024-08-01"), chart, testFacility(t))
	l.FindOrCreateDay(MustParseDate("2024-08-05"), chart, testFacility(t))
	// repeat lookup must not duplicate
	l.FindOrCreateDay(MustParseDate("2024-08-05"), chart, testFacility(t))

	if len(l.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(l.Days))
	}
	for i, want := range []string{"2024-08-01", "2024-08-05", "2024-08-10"} {
		if got := l.Days[i].Date.String(); got != want {
			t.Fatalf("day %d: expected %s, got %s", i, want, got)
		}
	}
	day := l.Days[0]
	if len(day.Cells) != len(chart.Leaves()) {
		t.Fatalf("expected %d cells, got %d", len(chart.Leaves()), len(day.Cells))
	}
}

func TestRemovePaymentsByTransaction(t *testing.T) {
	chart := DefaultChart()
	l := testLedger(t, chart, 3)

	l.Days[0].Append("outflow_supplier_1", Payment{ID: "p1", Amount: dec(t, "100"), Method: MethodDeferredCredit, TransactionID: "tx1"})
	l.Days[0].Append(CategoryCardSupport, Payment{ID: "p2", Amount: dec(t, "100"), Method: MethodDeferredCredit, TransactionID: "tx1"})
	l.Days[2].Append(CategoryCreditRepayment, Payment{ID: "p3", Amount: dec(t, "101.8"), Method: MethodDeferredCredit, TransactionID: "tx1"})
	l.Days[1].Append("inflow_direct", Payment{ID: "p4", Amount: dec(t, "5"), Method: MethodCheque})

	l.RemovePaymentsByTransaction("tx1")

	if got := l.PaymentsByTransaction("tx1"); len(got) != 0 {
		t.Fatalf("expected no payments with tx1, got %d", len(got))
	}
	if got := l.Days[1].Payments("inflow_direct"); len(got) != 1 {
		t.Fatalf("unlinked payment must survive, got %d", len(got))
	}
}

func TestRecalculate_FoldInvariant(t *testing.T) {
	chart := DefaultChart()
	l := testLedger(t, chart, 4)
	l.Days[0].OpeningBalance = dec(t, "50000")
	l.Days[0].Append("inflow_direct", Payment{ID: "p1", Amount: dec(t, "1000"), Method: MethodBankTransfer})
	l.Days[0].Append("outflow_office_rent", Payment{ID: "p2", Amount: dec(t, "400"), Method: MethodCheque})
	l.Days[2].Append("inflow_corporate", Payment{ID: "p3", Amount: dec(t, "250.50"), Method: MethodBankTransfer})

	l.Recalculate(chart)

	if got := l.Days[1].OpeningBalance; got.Cmp(dec(t, "50600")) != 0 {
		t.Fatalf("day 1 opening balance: expected 50600, got %s", got)
	}
	// invariant over the whole sequence
	for i := 1; i < len(l.Days); i++ {
		in, out := l.Days[i-1].FlowTotals(chart)
		want := subDec(addDec(l.Days[i-1].OpeningBalance, in), out)
		if got := l.Days[i].OpeningBalance; got.Cmp(want) != 0 {
			t.Fatalf("day %d: expected %s, got %s", i, want, got)
		}
	}
	if got := l.Days[3].OpeningBalance; got.Cmp(dec(t, "50850.50")) != 0 {
		t.Fatalf("day 3 opening balance: expected 50850.50, got %s", got)
	}
}

func TestRecalculate_Idempotent(t *testing.T) {
	chart := DefaultChart()
	l := testLedger(t, chart, 5)
	l.Days[0].OpeningBalance = dec(t, "1234.56")
	l.Days[1].Append("outflow_payroll_salaries", Payment{ID: "p1", Amount: dec(t, "700"), Method: MethodBankTransfer})

	l.Recalculate(chart)
	once := make([]decimal.Decimal, len(l.Days))
	for i, d := range l.Days {
		once[i] = d.OpeningBalance
	}
	l.Recalculate(chart)
	for i, d := range l.Days {
		if d.OpeningBalance.Cmp(once[i]) != 0 {
			t.Fatalf("day %d changed on second recalculation: %s vs %s", i, d.OpeningBalance, once[i])
		}
	}
}

func TestRecalculate_SkipsUnknownCategories(t *testing.T) {
	chart := DefaultChart()
	l := testLedger(t, chart, 2)
	l.Days[0].OpeningBalance = dec(t, "100")
	l.Days[0].Cells["ghost_category"] = []Payment{{ID: "p1", Amount: dec(t, "9999"), Method: MethodCheque}}

	l.Recalculate(chart)

	if got := l.Days[1].OpeningBalance; got.Cmp(dec(t, "100")) != 0 {
		t.Fatalf("unknown category must not affect the fold, got %s", got)
	}
}

func TestLedger_Validate(t *testing.T) {
	chart := DefaultChart()

	valid := testLedger(t, chart, 3)
	if err := valid.Validate(chart); err != nil {
		t.Fatalf("valid ledger rejected: %v", err)
	}

	outOfOrder := testLedger(t, chart, 3)
	outOfOrder.Days[0], outOfOrder.Days[2] = outOfOrder.Days[2], outOfOrder.Days[0]
	if err := outOfOrder.Validate(chart); !errors.Is(err, errs.ErrCorruptSnapshot) {
		t.Fatalf("expected ErrCorruptSnapshot, got %v", err)
	}

	missingCell := testLedger(t, chart, 1)
	delete(missingCell.Days[0].Cells, "inflow_direct")
	if err := missingCell.Validate(chart); !errors.Is(err, errs.ErrCorruptSnapshot) {
		t.Fatalf("expected ErrCorruptSnapshot, got %v", err)
	}

	noName := testLedger(t, chart, 1)
	noName.Scenario = ""
	if err := noName.Validate(chart); !errors.Is(err, errs.ErrCorruptSnapshot) {
		t.Fatalf("expected ErrCorruptSnapshot, got %v", err)
	}
}

func TestClone_Isolation(t *testing.T) {
	chart := DefaultChart()
	l := testLedger(t, chart, 1)
	l.Days[0].Append("inflow_direct", Payment{ID: "p1", Amount: dec(t, "10"), Method: MethodCheque})

	c := l.Clone()
	c.Days[0].Append("inflow_direct", Payment{ID: "p2", Amount: dec(t, "20"), Method: MethodCheque})
	c.Days[0].OpeningBalance = dec(t, "999")

	if got := len(l.Days[0].Payments("inflow_direct")); got != 1 {
		t.Fatalf("clone mutation leaked into original: %d payments", got)
	}
	if l.Days[0].OpeningBalance.Cmp(dec(t, "999")) == 0 {
		t.Fatal("clone balance mutation leaked into original")
	}
}
