package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tinoosan/cashflow/internal/cashflow"
	"github.com/tinoosan/cashflow/internal/errs"
	"github.com/tinoosan/cashflow/internal/ids"
)

// Repo defines the read side of the snapshot store the engine mutates.
type Repo interface {
	Ledger(ctx context.Context, scenario string) (cashflow.Ledger, error)
}

// Writer defines the write side of the snapshot store.
type Writer interface {
	SaveLedger(ctx context.Context, l cashflow.Ledger) error
}

// Warning is a non-fatal signal attached to a successful mutation.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	// WarnMalformedAmount is attached when a payment amount was normalized
	// to zero instead of being rejected.
	WarnMalformedAmount = "malformed_amount"
	// WarnLinkedMove is attached when a payment belonging to a linked
	// transaction is relocated; its satellites stay where they are.
	WarnLinkedMove = "linked_move"
	// WarnUnknownCategory is attached when a move targets a category the
	// chart does not know; the payment is stored but ignored by folds.
	WarnUnknownCategory = "unknown_category"
)

// MoveRequest identifies a payment and where it should go.
type MoveRequest struct {
	PaymentID        string
	SourceDate       cashflow.Date
	SourceCategoryID string
	DestDate         cashflow.Date
	DestCategoryID   string
}

// Service is the mutation engine over scenario ledgers. Every mutation loads
// the current snapshot, transforms a clone, recomputes all opening balances,
// persists the new snapshot and returns it. A failed mutation leaves the
// stored snapshot untouched.
type Service interface {
	Ledger(ctx context.Context, scenario string) (cashflow.Ledger, error)
	EditCell(ctx context.Context, scenario string, date cashflow.Date, categoryID string, payments []cashflow.Payment) (cashflow.Ledger, []Warning, error)
	MovePayment(ctx context.Context, scenario string, req MoveRequest) (cashflow.Ledger, []Warning, error)
	Recalculate(ctx context.Context, scenario string) (cashflow.Ledger, error)
	Bootstrap(ctx context.Context) error
}

type service struct {
	repo   Repo
	writer Writer
	chart  *cashflow.Chart
	ids    ids.Generator
	cfg    Config
	log    *slog.Logger
}

// New constructs the engine service.
func New(repo Repo, writer Writer, chart *cashflow.Chart, gen ids.Generator, cfg Config, logger *slog.Logger) Service {
	return &service{repo: repo, writer: writer, chart: chart, ids: gen, cfg: cfg, log: logger}
}

// Ledger returns the current snapshot for a scenario, bootstrapping or
// regenerating it when the store has nothing usable.
func (s *service) Ledger(ctx context.Context, scenario string) (cashflow.Ledger, error) {
	return s.ledger(ctx, scenario)
}

// EditCell replaces the payment list of one (date, category) cell. Satellites
// of linked transactions previously anchored in the cell are removed first,
// and a deferred-credit payment in a supplier leaf spawns fresh ones, so an
// edit is always a replacement of the whole logical transaction.
func (s *service) EditCell(ctx context.Context, scenario string, date cashflow.Date, categoryID string, payments []cashflow.Payment) (cashflow.Ledger, []Warning, error) {
	if !s.chart.IsLeaf(categoryID) {
		return cashflow.Ledger{}, nil, fmt.Errorf("%w: category %s", errs.ErrUnknownCategory, categoryID)
	}
	cur, err := s.ledger(ctx, scenario)
	if err != nil {
		return cashflow.Ledger{}, nil, err
	}
	next := cur.Clone()

	payments, warnings := s.normalize(payments)

	// Transaction ids anchored in the cell before the edit. Their satellites
	// must go even when the new list is empty.
	stale := cellTransactionIDs(next, date, categoryID)

	link, primary := s.linkedPrimary(categoryID, payments)
	txID := ""
	if len(payments) > 0 {
		txID = payments[0].TransactionID
		if txID == "" {
			txID = payments[0].ID
		}
		stale = append(stale, txID)
	}
	next.RemovePaymentsByTransaction(stale...)

	day := next.FindOrCreateDay(date, s.chart, s.cfg.Seed.Facility)
	for i := range payments {
		if link {
			payments[i].TransactionID = txID
		} else {
			payments[i].TransactionID = ""
		}
	}
	day.SetCell(categoryID, payments)

	if link {
		s.spawnSatellites(&next, date, primary, txID)
	}

	next.Recalculate(s.chart)
	if err := s.writer.SaveLedger(ctx, next); err != nil {
		return cashflow.Ledger{}, nil, err
	}
	return next, warnings, nil
}

// MovePayment relocates one payment between cells, verbatim, and recomputes
// balances. Moving a payment that belongs to a linked transaction is allowed
// but flagged: the satellites are not moved with it.
func (s *service) MovePayment(ctx context.Context, scenario string, req MoveRequest) (cashflow.Ledger, []Warning, error) {
	cur, err := s.ledger(ctx, scenario)
	if err != nil {
		return cashflow.Ledger{}, nil, err
	}
	next := cur.Clone()

	srcIdx := next.DayIndex(req.SourceDate)
	if srcIdx < 0 {
		return cashflow.Ledger{}, nil, fmt.Errorf("%w: day %s", errs.ErrNotFound, req.SourceDate)
	}
	src := &next.Days[srcIdx]
	ps := src.Payments(req.SourceCategoryID)
	pi := -1
	for i, p := range ps {
		if p.ID == req.PaymentID {
			pi = i
			break
		}
	}
	if pi < 0 {
		return cashflow.Ledger{}, nil, fmt.Errorf("%w: payment %s in %s/%s", errs.ErrNotFound, req.PaymentID, req.SourceDate, req.SourceCategoryID)
	}
	moved := ps[pi]

	var warnings []Warning
	if moved.Linked() {
		warnings = append(warnings, Warning{
			Code:    WarnLinkedMove,
			Message: fmt.Sprintf("payment %s belongs to linked transaction %s; its satellite payments stay on their original dates", moved.ID, moved.TransactionID),
		})
		s.log.Warn("moving linked payment", "scenario", scenario, "payment_id", moved.ID, "transaction_id", moved.TransactionID)
	}
	if !s.chart.IsLeaf(req.DestCategoryID) {
		warnings = append(warnings, Warning{
			Code:    WarnUnknownCategory,
			Message: fmt.Sprintf("category %s is not part of the chart; the payment is kept but ignored by balance folds", req.DestCategoryID),
		})
	}

	src.SetCell(req.SourceCategoryID, append(ps[:pi:pi], ps[pi+1:]...))
	dest := next.FindOrCreateDay(req.DestDate, s.chart, s.cfg.Seed.Facility)
	dest.Append(req.DestCategoryID, moved)

	next.Recalculate(s.chart)
	if err := s.writer.SaveLedger(ctx, next); err != nil {
		return cashflow.Ledger{}, nil, err
	}
	return next, warnings, nil
}

// Recalculate re-derives every opening balance from the raw payment lists
// and persists the result. It is the defensive recovery path: a consistent
// state is always derivable from the payments alone.
func (s *service) Recalculate(ctx context.Context, scenario string) (cashflow.Ledger, error) {
	cur, err := s.ledger(ctx, scenario)
	if err != nil {
		return cashflow.Ledger{}, err
	}
	next := cur.Clone()
	next.Recalculate(s.chart)
	if err := s.writer.SaveLedger(ctx, next); err != nil {
		return cashflow.Ledger{}, err
	}
	return next, nil
}

// normalize assigns missing payment ids and applies the permissive-input
// policy: a negative amount becomes zero and produces a warning instead of
// an error.
func (s *service) normalize(payments []cashflow.Payment) ([]cashflow.Payment, []Warning) {
	out := clonePayments(payments)
	var warnings []Warning
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = s.ids.NewID()
		}
		if out[i].Amount.IsNeg() {
			warnings = append(warnings, Warning{
				Code:    WarnMalformedAmount,
				Message: fmt.Sprintf("payment %s: negative amount %s normalized to zero", out[i].ID, out[i].Amount),
			})
			out[i].Amount = zeroAmount
		}
	}
	return out, warnings
}

// cellTransactionIDs collects the transaction ids present in a cell.
func cellTransactionIDs(l cashflow.Ledger, date cashflow.Date, categoryID string) []string {
	day, ok := l.Day(date)
	if !ok {
		return nil
	}
	var out []string
	for _, p := range day.Payments(categoryID) {
		if p.TransactionID != "" {
			out = append(out, p.TransactionID)
		}
	}
	return out
}

func clonePayments(ps []cashflow.Payment) []cashflow.Payment {
	out := make([]cashflow.Payment, len(ps))
	copy(out, ps)
	return out
}
