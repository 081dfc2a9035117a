package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/govalues/decimal"

	"github.com/tinoosan/cashflow/internal/cashflow"
	"github.com/tinoosan/cashflow/internal/errs"
)

var zeroAmount = decimal.MustNew(0, 0)

// SeedConfig describes the ledger generated when the store holds nothing.
type SeedConfig struct {
	Start          cashflow.Date
	Days           int
	OpeningBalance decimal.Decimal
	Facility       cashflow.BankFacility
}

// LinkRule parametrizes the deferred-credit linkage: which subtree anchors a
// supplier payment, where its two satellites land, how far out the repayment
// sits and what it costs.
type LinkRule struct {
	SupplierCategoryID  string
	SupportCategoryID   string
	RepaymentCategoryID string
	OffsetDays          int
	CarryRate           decimal.Decimal
}

// Config carries everything the engine needs beyond its store and chart.
type Config struct {
	Currency  string
	Scenarios []string
	Seed      SeedConfig
	Link      LinkRule
}

// DefaultConfig returns engine defaults: two scenarios, a 365-day seed with
// an opening balance of 50000 and a 200000/50000 facility, and a 60-day
// deferred-credit repayment at a 1.8% carrying cost.
func DefaultConfig(start cashflow.Date) Config {
	return Config{
		Currency:  "USD",
		Scenarios: []string{"actual", "budgeted"},
		Seed: SeedConfig{
			Start:          start,
			Days:           365,
			OpeningBalance: decimal.MustNew(50000, 0),
			Facility: cashflow.BankFacility{
				Limit: decimal.MustNew(200000, 0),
				Taken: decimal.MustNew(50000, 0),
			},
		},
		Link: LinkRule{
			SupplierCategoryID:  cashflow.CategorySupplierPayments,
			SupportCategoryID:   cashflow.CategoryCardSupport,
			RepaymentCategoryID: cashflow.CategoryCreditRepayment,
			OffsetDays:          60,
			CarryRate:           decimal.MustParse("1.018"),
		},
	}
}

// GenerateInitialLedger builds a fresh scenario ledger: consecutive empty
// days shaped by the chart, the seed opening balance on the first day, and
// one recalculation pass so every derived balance is consistent.
func GenerateInitialLedger(scenario string, chart *cashflow.Chart, cfg Config) cashflow.Ledger {
	l := cashflow.Ledger{
		Scenario: scenario,
		Currency: cfg.Currency,
		Days:     make([]cashflow.DayRecord, 0, cfg.Seed.Days),
	}
	for i := 0; i < cfg.Seed.Days; i++ {
		day := cashflow.NewDayRecord(cfg.Seed.Start.AddDays(i), chart, cfg.Seed.Facility)
		if i == 0 {
			day.OpeningBalance = cfg.Seed.OpeningBalance
		}
		l.Days = append(l.Days, day)
	}
	l.Recalculate(chart)
	return l
}

// Bootstrap makes sure every configured scenario has a usable snapshot.
func (s *service) Bootstrap(ctx context.Context) error {
	for _, scenario := range s.cfg.Scenarios {
		if _, err := s.ledger(ctx, scenario); err != nil {
			return err
		}
	}
	return nil
}

// ledger loads a scenario snapshot, falling back to a generated ledger when
// the store has none or returns one that fails structural validation.
func (s *service) ledger(ctx context.Context, scenario string) (cashflow.Ledger, error) {
	if !s.knownScenario(scenario) {
		return cashflow.Ledger{}, fmt.Errorf("%w: scenario %s", errs.ErrNotFound, scenario)
	}
	cur, err := s.repo.Ledger(ctx, scenario)
	switch {
	case err == nil:
		verr := cur.Validate(s.chart)
		if verr == nil {
			return cur, nil
		}
		s.log.Warn("snapshot failed validation, regenerating", "scenario", scenario, "err", verr)
	case errors.Is(err, errs.ErrNotFound):
		s.log.Info("no snapshot, generating initial ledger", "scenario", scenario)
	case errors.Is(err, errs.ErrCorruptSnapshot):
		s.log.Warn("corrupt snapshot, regenerating", "scenario", scenario, "err", err)
	default:
		return cashflow.Ledger{}, err
	}
	fresh := GenerateInitialLedger(scenario, s.chart, s.cfg)
	if err := s.writer.SaveLedger(ctx, fresh); err != nil {
		return cashflow.Ledger{}, err
	}
	return fresh, nil
}

func (s *service) knownScenario(scenario string) bool {
	for _, name := range s.cfg.Scenarios {
		if name == scenario {
			return true
		}
	}
	return false
}
