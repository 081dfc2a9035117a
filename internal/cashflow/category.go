package cashflow

import (
	"fmt"

	"github.com/tinoosan/cashflow/internal/errs"
)

// Kind says which side of the cash position a category moves.
type Kind string

const (
	// KindInflow categories increase the cash position.
	KindInflow Kind = "inflow"
	// KindOutflow categories decrease the cash position.
	KindOutflow Kind = "outflow"
)

// Category is one node of the chart. A category with no children is a leaf
// and holds payments directly; an internal category is a computed roll-up
// over its subtree. Kind is inherited by every descendant.
type Category struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Kind     Kind        `json:"kind"`
	Children []*Category `json:"children,omitempty"`
}

// Leaf reports whether the category holds payments directly.
func (c *Category) Leaf() bool { return len(c.Children) == 0 }

// Chart is the static category tree every ledger is shaped by. It is built
// once, validated, and never mutated afterwards.
type Chart struct {
	roots  []*Category
	byID   map[string]*Category
	leaves []*Category
	parent map[string]string
}

// NewChart validates the tree and builds the lookup indexes. It rejects
// duplicate ids, unknown kinds, and subtrees that mix kinds.
func NewChart(roots []*Category) (*Chart, error) {
	c := &Chart{
		roots:  roots,
		byID:   make(map[string]*Category),
		parent: make(map[string]string),
	}
	for _, r := range roots {
		if err := c.index(r, "", r.Kind); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Chart) index(cat *Category, parentID string, kind Kind) error {
	if cat.ID == "" {
		return fmt.Errorf("%w: category without id", errs.ErrInvalid)
	}
	if cat.Kind != KindInflow && cat.Kind != KindOutflow {
		return fmt.Errorf("%w: category %s: unknown kind %q", errs.ErrInvalid, cat.ID, cat.Kind)
	}
	if cat.Kind != kind {
		return fmt.Errorf("%w: category %s: kind %q differs from subtree kind %q", errs.ErrInvalid, cat.ID, cat.Kind, kind)
	}
	if _, dup := c.byID[cat.ID]; dup {
		return fmt.Errorf("%w: duplicate category id %s", errs.ErrInvalid, cat.ID)
	}
	c.byID[cat.ID] = cat
	if parentID != "" {
		c.parent[cat.ID] = parentID
	}
	if cat.Leaf() {
		c.leaves = append(c.leaves, cat)
		return nil
	}
	for _, child := range cat.Children {
		if err := c.index(child, cat.ID, kind); err != nil {
			return err
		}
	}
	return nil
}

// Roots returns the top-level categories in declaration order.
func (c *Chart) Roots() []*Category { return c.roots }

// Category looks a node up by id.
func (c *Chart) Category(id string) (*Category, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}

// Leaves returns every leaf category in tree order.
func (c *Chart) Leaves() []*Category { return c.leaves }

// IsLeaf reports whether id names a leaf category of this chart.
func (c *Chart) IsLeaf(id string) bool {
	cat, ok := c.byID[id]
	return ok && cat.Leaf()
}

// KindOf returns the kind of the category with the given id.
func (c *Chart) KindOf(id string) (Kind, bool) {
	cat, ok := c.byID[id]
	if !ok {
		return "", false
	}
	return cat.Kind, true
}

// Within reports whether id equals ancestorID or sits anywhere underneath it.
func (c *Chart) Within(ancestorID, id string) bool {
	for id != "" {
		if id == ancestorID {
			return true
		}
		id = c.parent[id]
	}
	return false
}

// Default chart ids referenced by the linked-transaction rule.
const (
	CategorySupplierPayments = "outflow_supplier"
	CategoryCardSupport      = "inflow_card_support"
	CategoryCreditRepayment  = "outflow_loan_cc_repay"
)

// DefaultChart returns the built-in chart of ledger categories.
func DefaultChart() *Chart {
	roots := []*Category{
		{ID: "inflow", Name: "Cash Inflow", Kind: KindInflow, Children: []*Category{
			{ID: "inflow_direct", Name: "Direct", Kind: KindInflow},
			{ID: "inflow_third_party", Name: "Third-Party", Kind: KindInflow},
			{ID: "inflow_corporate", Name: "Corporate", Kind: KindInflow},
			{ID: "inflow_bank_facility", Name: "Bank Facility Drawdown", Kind: KindInflow},
			{ID: CategoryCardSupport, Name: "Card Support (Delayed)", Kind: KindInflow},
		}},
		{ID: "outflow", Name: "Cash Outflow (Expenses)", Kind: KindOutflow, Children: []*Category{
			{ID: "outflow_loan", Name: "Loan & Credit Card", Kind: KindOutflow, Children: []*Category{
				{ID: "outflow_loan_bankA", Name: "Bank A Loan", Kind: KindOutflow},
				{ID: CategoryCreditRepayment, Name: "Credit Card Repayment", Kind: KindOutflow},
			}},
			{ID: CategorySupplierPayments, Name: "Supplier Payments", Kind: KindOutflow, Children: []*Category{
				{ID: "outflow_supplier_1", Name: "Supplier A", Kind: KindOutflow},
				{ID: "outflow_supplier_2", Name: "Supplier B", Kind: KindOutflow},
			}},
			{ID: "outflow_office", Name: "Office Expenses", Kind: KindOutflow, Children: []*Category{
				{ID: "outflow_office_rent", Name: "Rent", Kind: KindOutflow},
				{ID: "outflow_office_utilities", Name: "Utilities", Kind: KindOutflow},
			}},
			{ID: "outflow_payroll", Name: "Payroll", Kind: KindOutflow, Children: []*Category{
				{ID: "outflow_payroll_salaries", Name: "Salaries", Kind: KindOutflow},
			}},
			{ID: "outflow_gov", Name: "Government Expenses", Kind: KindOutflow, Children: []*Category{
				{ID: "outflow_gov_taxes", Name: "Taxes", Kind: KindOutflow},
			}},
			{ID: "outflow_marketing", Name: "Marketing Expenses", Kind: KindOutflow, Children: []*Category{
				{ID: "outflow_marketing_ads", Name: "Online Ads", Kind: KindOutflow},
			}},
		}},
	}
	c, err := NewChart(roots)
	if err != nil {
		// the built-in chart is covered by tests; reaching this is a bug
		panic(err)
	}
	return c
}
