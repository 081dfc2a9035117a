package cashflow

import (
	"testing"
)

func TestNewChart_Validation(t *testing.T) {
	tests := []struct {
		name    string
		roots   []*Category
		wantErr bool
	}{
		{
			name: "valid tree",
			roots: []*Category{
				{ID: "in", Name: "In", Kind: KindInflow, Children: []*Category{
					{ID: "in_a", Name: "A", Kind: KindInflow},
				}},
			},
		},
		{
			name: "duplicate id",
			roots: []*Category{
				{ID: "in", Name: "In", Kind: KindInflow, Children: []*Category{
					{ID: "in_a", Name: "A", Kind: KindInflow},
					{ID: "in_a", Name: "A again", Kind: KindInflow},
				}},
			},
			wantErr: true,
		},
		{
			name: "mixed kinds in one subtree",
			roots: []*Category{
				{ID: "in", Name: "In", Kind: KindInflow, Children: []*Category{
					{ID: "out_a", Name: "A", Kind: KindOutflow},
				}},
			},
			wantErr: true,
		},
		{
			name:    "missing id",
			roots:   []*Category{{Name: "In", Kind: KindInflow}},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			roots:   []*Category{{ID: "x", Name: "X", Kind: "sideways"}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChart(tt.roots)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewChart error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultChart(t *testing.T) {
	chart := DefaultChart()

	if got := len(chart.Leaves()); got != 14 {
		t.Fatalf("expected 14 leaves, got %d", got)
	}
	for _, id := range []string{CategorySupplierPayments, CategoryCardSupport, CategoryCreditRepayment} {
		if _, ok := chart.Category(id); !ok {
			t.Fatalf("expected category %s in default chart", id)
		}
	}
	if chart.IsLeaf(CategorySupplierPayments) {
		t.Fatal("supplier payments should be an internal category")
	}
	if !chart.IsLeaf(CategoryCardSupport) {
		t.Fatal("card support should be a leaf")
	}
	if !chart.Within(CategorySupplierPayments, "outflow_supplier_1") {
		t.Fatal("supplier leaf should sit within the supplier subtree")
	}
	if chart.Within(CategorySupplierPayments, CategoryCardSupport) {
		t.Fatal("card support must not sit within the supplier subtree")
	}
	if kind, _ := chart.KindOf("outflow_supplier_1"); kind != KindOutflow {
		t.Fatalf("expected outflow kind, got %s", kind)
	}
}
