package books

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestReconcile_LedgerPrecedence(t *testing.T) {
	raw := []Raw{{BookName: "Physics Part 1", Subject: "Physics", Publisher: "Oxford", Price: 100}}
	ledger := Ledger{
		Identity("Physics Part 1", "Oxford", Textbook, 0): {
			BookName: "Physics Part 1", Publisher: "Oxford",
			Price: 80, Discount: 10, Tax: 5, Type: Textbook,
		},
	}

	lists := Reconcile(raw, nil, Defaults{TextbookDiscount: 20, TextbookTax: 18}, ledger, "")
	if len(lists.Textbooks) != 1 {
		t.Fatalf("expected 1 textbook, got %d", len(lists.Textbooks))
	}
	b := lists.Textbooks[0]
	if b.Price != 80 || b.Discount != 10 || b.Tax != 5 {
		t.Fatalf("ledger must win over import and defaults, got %+v", b)
	}
	if !almostEqual(b.FinalPrice, 75.6) {
		t.Fatalf("expected finalPrice 75.6, got %v", b.FinalPrice)
	}
}

func TestReconcile_EmptyLedgerFallsBackToDefaults(t *testing.T) {
	raw := []Raw{{BookName: "Chemistry Part 1", Subject: "Chemistry", Publisher: "N/A", Price: 160}}

	lists := Reconcile(raw, nil, Defaults{TextbookDiscount: 10, TextbookTax: 5}, nil, "")
	b := lists.Textbooks[0]
	if b.Price != 160 || b.Discount != 10 || b.Tax != 5 {
		t.Fatalf("expected imported price with category defaults, got %+v", b)
	}
	if !almostEqual(b.FinalPrice, 160*0.9*1.05) {
		t.Fatalf("unexpected finalPrice %v", b.FinalPrice)
	}
}

func TestReconcile_AssignsIDsTypeAndUpload(t *testing.T) {
	tb := []Raw{{BookName: "A", Price: 1}, {BookName: "B", Price: 2}}
	nb := []Raw{{BookName: "C", Price: 3, Pages: 100}}

	lists := Reconcile(tb, nb, Defaults{}, nil, "upload-1")
	for i, b := range lists.Textbooks {
		if b.ID != i+1 {
			t.Fatalf("expected sequential ids, got %d at %d", b.ID, i)
		}
		if b.Type != Textbook || b.UploadID != "upload-1" {
			t.Fatalf("bad stamping: %+v", b)
		}
	}
	if lists.Notebooks[0].ID != 1 {
		t.Fatalf("notebook ids restart at 1, got %d", lists.Notebooks[0].ID)
	}
	if lists.Notebooks[0].Type != Notebook || lists.Notebooks[0].Pages != 100 {
		t.Fatalf("bad notebook row: %+v", lists.Notebooks[0])
	}
}

func TestReconcile_NotebookLedgerKeyIncludesPages(t *testing.T) {
	raw := []Raw{{BookName: "Graph Book", Publisher: "Classmate", Price: 35, Pages: 200}}
	ledger := Ledger{
		Identity("Graph Book", "Classmate", Notebook, 200): {
			BookName: "Graph Book", Publisher: "Classmate",
			Price: 30, Discount: 5, Tax: 0, Type: Notebook, Pages: 200,
		},
	}

	lists := Reconcile(nil, raw, Defaults{NotebookDiscount: 15, NotebookTax: 5}, ledger, "")
	b := lists.Notebooks[0]
	if b.Price != 30 || b.Discount != 5 || b.Tax != 0 || b.Pages != 200 {
		t.Fatalf("expected ledger override, got %+v", b)
	}
}
