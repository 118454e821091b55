package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/edubook/edubook/pkg/books"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLedger_UpsertAndGet(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	entry := books.LedgerEntry{BookName: "Physics Part 1", Publisher: "Oxford", Price: 80, Discount: 10, Tax: 5, Type: books.Textbook}
	identity := books.Identity("Physics Part 1", "Oxford", books.Textbook, 0)

	if err := db.UpsertLedgerEntry(ctx, "u1", identity, entry); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	ledger, err := db.GetLedger(ctx, "u1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	got, ok := ledger[identity]
	if !ok {
		t.Fatalf("entry not found under %q", identity)
	}
	if got != entry {
		t.Fatalf("expected %+v, got %+v", entry, got)
	}

	// Overwrite wins.
	entry.Price = 90
	if err := db.UpsertLedgerEntry(ctx, "u1", identity, entry); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	ledger, _ = db.GetLedger(ctx, "u1")
	if ledger[identity].Price != 90 {
		t.Fatalf("expected overwritten price 90, got %v", ledger[identity].Price)
	}
}

func TestLedger_EmptyIdentityIsNoop(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.UpsertLedgerEntry(ctx, "u1", "", books.LedgerEntry{BookName: "x"}); err != nil {
		t.Fatalf("empty identity must be a no-op, got %v", err)
	}
	ledger, _ := db.GetLedger(ctx, "u1")
	if len(ledger) != 0 {
		t.Fatalf("expected empty ledger, got %d entries", len(ledger))
	}
}

func TestLedger_ScopedPerUser(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	identity := books.Identity("Mathematics", "NCERT", books.Textbook, 0)
	if err := db.UpsertLedgerEntry(ctx, "u1", identity, books.LedgerEntry{BookName: "Mathematics", Publisher: "NCERT", Price: 180, Type: books.Textbook}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	other, err := db.GetLedger(ctx, "u2")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("u2 must not see u1's ledger, got %d entries", len(other))
	}
}

func TestBulkUpsertLedger_DedupesLastWins(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	records := []books.Book{
		{Type: books.Textbook, BookName: "Physics Part 1", Publisher: "Oxford", Price: 100, Discount: 5, Tax: 5},
		{Type: books.Textbook, BookName: "Physics Part 1", Publisher: "Oxford", Price: 120, Discount: 10, Tax: 5},
	}
	if err := db.BulkUpsertLedger(ctx, "u1", records); err != nil {
		t.Fatalf("bulk upsert failed: %v", err)
	}

	ledger, _ := db.GetLedger(ctx, "u1")
	if len(ledger) != 1 {
		t.Fatalf("colliding identities must dedupe to one entry, got %d", len(ledger))
	}
	got := ledger[records[1].Identity()]
	if got.Price != 120 || got.Discount != 10 {
		t.Fatalf("last record must win, got %+v", got)
	}
}

func TestDeleteAllLedgerEntries(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		b := books.Book{Type: books.Textbook, BookName: name, Publisher: "P", Price: 1}
		if err := db.UpsertLedgerEntry(ctx, "u1", b.Identity(), books.EntryFor(b)); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	n, err := db.DeleteAllLedgerEntries(ctx, "u1")
	if err != nil {
		t.Fatalf("wipe failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 deleted, got %d", n)
	}
	ledger, _ := db.GetLedger(ctx, "u1")
	if len(ledger) != 0 {
		t.Fatalf("expected empty ledger after wipe")
	}
}

func TestSessionsAndSnapshots(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.CreateUploadSession(ctx, UploadSession{
		UserID: "u1", Class: "12", Course: "Science",
		TextbookDiscount: 10, TextbookTax: 5, NotebookDiscount: 15, NotebookTax: 5,
	})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	if id == "" {
		t.Fatalf("expected a generated session id")
	}

	records := []books.Book{
		{Type: books.Textbook, BookName: "Physics Part 1", Subject: "Physics", Publisher: "Oxford", Price: 150, Discount: 10, Tax: 5, FinalPrice: books.Final(150, 10, 5)},
		{Type: books.Notebook, BookName: "Graph Book", Subject: "Math", Publisher: "Classmate", Pages: 200, Price: 35, Discount: 15, Tax: 5, FinalPrice: books.Final(35, 15, 5)},
	}
	if err := db.SaveSnapshot(ctx, "u1", id, records); err != nil {
		t.Fatalf("snapshot save failed: %v", err)
	}

	uploads, err := db.ListUploads(ctx, "u1")
	if err != nil {
		t.Fatalf("list uploads failed: %v", err)
	}
	if len(uploads) != 1 || uploads[0].ID != id || uploads[0].Class != "12" {
		t.Fatalf("unexpected uploads: %+v", uploads)
	}

	all, err := db.QuerySnapshots(ctx, "u1", SnapshotFilters{})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(all))
	}
	if all[0].Class != "12" || all[0].Course != "Science" {
		t.Fatalf("snapshots must carry session metadata: %+v", all[0])
	}

	// Case-insensitive publisher substring.
	filtered, err := db.QuerySnapshots(ctx, "u1", SnapshotFilters{Publisher: "class"})
	if err != nil {
		t.Fatalf("filtered query failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].BookName != "Graph Book" {
		t.Fatalf("unexpected filter result: %+v", filtered)
	}

	none, err := db.QuerySnapshots(ctx, "u1", SnapshotFilters{Class: "7"})
	if err != nil {
		t.Fatalf("class query failed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no class-7 snapshots, got %d", len(none))
	}
}

func TestGetTypeStats(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.CreateUploadSession(ctx, UploadSession{UserID: "u1", Class: "12", Course: "Science"})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	records := []books.Book{
		{Type: books.Textbook, BookName: "A", Subject: "S", Publisher: "P", Price: 100, Discount: 10, Tax: 5, FinalPrice: 100},
		{Type: books.Textbook, BookName: "B", Subject: "S", Publisher: "P", Price: 200, Discount: 20, Tax: 15, FinalPrice: 200},
		{Type: books.Notebook, BookName: "C", Subject: "S", Publisher: "P", Price: 40, Discount: 0, Tax: 0, FinalPrice: 40},
	}
	if err := db.SaveSnapshot(ctx, "u1", id, records); err != nil {
		t.Fatalf("snapshot save failed: %v", err)
	}

	stats, err := db.GetTypeStats(ctx, "u1")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected stats for both types, got %d", len(stats))
	}
	// Ordered by type: Notebook before Textbook.
	if stats[0].Type != "Notebook" || stats[0].Count != 1 || stats[0].TotalValue != 40 {
		t.Fatalf("unexpected notebook stats: %+v", stats[0])
	}
	if stats[1].Type != "Textbook" || stats[1].Count != 2 || stats[1].TotalValue != 300 || stats[1].AvgDiscount != 15 {
		t.Fatalf("unexpected textbook stats: %+v", stats[1])
	}
}

func TestNoUser(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.GetLedger(ctx, ""); err != ErrNoUser {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}
	if err := db.UpsertLedgerEntry(ctx, "", "x", books.LedgerEntry{}); err != ErrNoUser {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}
	if _, err := db.CreateUploadSession(ctx, UploadSession{}); err != ErrNoUser {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}
}
