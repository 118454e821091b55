package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"

	"github.com/edubook/edubook/pkg/books"
)

// ErrNoUser means persistence was requested without a signed-in user id.
// Pricing still works without one; saving does not.
var ErrNoUser = errors.New("no user configured, persistence unavailable")

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS uploads (
  id                TEXT PRIMARY KEY,
  user_id           TEXT NOT NULL,
  class             TEXT NOT NULL,
  course            TEXT NOT NULL,
  textbook_discount REAL NOT NULL DEFAULT 0,
  textbook_tax      REAL NOT NULL DEFAULT 0,
  notebook_discount REAL NOT NULL DEFAULT 0,
  notebook_tax      REAL NOT NULL DEFAULT 0,
  created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_uploads_user ON uploads(user_id, created_at);
CREATE TABLE IF NOT EXISTS frequent_book_data (
  user_id    TEXT NOT NULL,
  identity   TEXT NOT NULL,
  book_name  TEXT NOT NULL,
  publisher  TEXT NOT NULL,
  price      REAL NOT NULL,
  discount   REAL NOT NULL,
  tax        REAL NOT NULL,
  type       TEXT NOT NULL CHECK (type IN ('Textbook','Notebook')),
  pages      INTEGER,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (user_id, identity)
);
CREATE TABLE IF NOT EXISTS snapshots (
  id          INTEGER PRIMARY KEY,
  user_id     TEXT NOT NULL,
  upload_id   TEXT NOT NULL,
  type        TEXT NOT NULL CHECK (type IN ('Textbook','Notebook')),
  book_name   TEXT NOT NULL,
  subject     TEXT NOT NULL,
  publisher   TEXT NOT NULL,
  pages       INTEGER,
  price       REAL NOT NULL,
  discount    REAL NOT NULL,
  tax         REAL NOT NULL,
  final_price REAL NOT NULL,
  created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_snapshots_user ON snapshots(user_id, upload_id);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// GetLedger loads all frequent-book pricing for a user, keyed by identity.
func (d *DB) GetLedger(ctx context.Context, userID string) (books.Ledger, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	rows, err := d.sql.QueryContext(ctx, "SELECT identity, book_name, publisher, price, discount, tax, type, pages FROM frequent_book_data WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ledger := make(books.Ledger)
	for rows.Next() {
		var (
			identity, typ string
			e             books.LedgerEntry
			pages         sql.NullInt64
		)
		if err := rows.Scan(&identity, &e.BookName, &e.Publisher, &e.Price, &e.Discount, &e.Tax, &typ, &pages); err != nil {
			return nil, err
		}
		e.Type = books.Type(typ)
		if pages.Valid {
			e.Pages = int(pages.Int64)
		}
		ledger[identity] = e
	}
	return ledger, rows.Err()
}

// UpsertLedgerEntry overwrites the pricing stored under one identity.
// An empty identity is a no-op.
func (d *DB) UpsertLedgerEntry(ctx context.Context, userID, identity string, e books.LedgerEntry) error {
	if userID == "" {
		return ErrNoUser
	}
	if identity == "" {
		return nil
	}
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO frequent_book_data (user_id, identity, book_name, publisher, price, discount, tax, type, pages, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
ON CONFLICT(user_id, identity) DO UPDATE SET
  book_name = excluded.book_name,
  publisher = excluded.publisher,
  price     = excluded.price,
  discount  = excluded.discount,
  tax       = excluded.tax,
  type      = excluded.type,
  pages     = excluded.pages,
  updated_at = CURRENT_TIMESTAMP`,
		userID, identity, e.BookName, e.Publisher, e.Price, e.Discount, e.Tax, string(e.Type), nullIfZero(e.Pages))
	return err
}

// BulkUpsertLedger writes ledger entries for a whole list in one
// transaction. Records colliding on the same identity within the batch are
// deduped first, last one wins, so each identity is written once.
func (d *DB) BulkUpsertLedger(ctx context.Context, userID string, records []books.Book) error {
	if userID == "" {
		return ErrNoUser
	}
	entries := make(map[string]books.LedgerEntry, len(records))
	order := make([]string, 0, len(records))
	for _, b := range records {
		identity := b.Identity()
		if identity == "" {
			continue
		}
		if _, seen := entries[identity]; !seen {
			order = append(order, identity)
		}
		entries[identity] = books.EntryFor(b)
	}

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, identity := range order {
		e := entries[identity]
		_, err = tx.ExecContext(ctx, `
INSERT INTO frequent_book_data (user_id, identity, book_name, publisher, price, discount, tax, type, pages, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
ON CONFLICT(user_id, identity) DO UPDATE SET
  book_name = excluded.book_name,
  publisher = excluded.publisher,
  price     = excluded.price,
  discount  = excluded.discount,
  tax       = excluded.tax,
  type      = excluded.type,
  pages     = excluded.pages,
  updated_at = CURRENT_TIMESTAMP`,
			userID, identity, e.BookName, e.Publisher, e.Price, e.Discount, e.Tax, string(e.Type), nullIfZero(e.Pages))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteAllLedgerEntries wipes a user's frequent-book pricing and reports
// how many entries were removed.
func (d *DB) DeleteAllLedgerEntries(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrNoUser
	}
	res, err := d.sql.ExecContext(ctx, "DELETE FROM frequent_book_data WHERE user_id = ?", userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CreateUploadSession persists the session metadata and returns its id.
func (d *DB) CreateUploadSession(ctx context.Context, s UploadSession) (string, error) {
	if s.UserID == "" {
		return "", ErrNoUser
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO uploads (id, user_id, class, course, textbook_discount, textbook_tax, notebook_discount, notebook_tax, created_at)
VALUES (?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)`,
		s.ID, s.UserID, s.Class, s.Course, s.TextbookDiscount, s.TextbookTax, s.NotebookDiscount, s.NotebookTax)
	if err != nil {
		return "", err
	}
	return s.ID, nil
}

// SaveSnapshot stores denormalized copies of the given records under an
// upload session.
func (d *DB) SaveSnapshot(ctx context.Context, userID, uploadID string, records []books.Book) error {
	if userID == "" {
		return ErrNoUser
	}
	if uploadID == "" {
		return fmt.Errorf("snapshot requires an upload session")
	}
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for _, b := range records {
		_, err = tx.ExecContext(ctx, `
INSERT INTO snapshots (user_id, upload_id, type, book_name, subject, publisher, pages, price, discount, tax, final_price, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)`,
			userID, uploadID, string(b.Type), b.BookName, b.Subject, b.Publisher, nullIfZero(b.Pages), b.Price, b.Discount, b.Tax, b.FinalPrice)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListUploads returns a user's saved sessions, newest first.
func (d *DB) ListUploads(ctx context.Context, userID string) ([]UploadSession, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	rows, err := d.sql.QueryContext(ctx, `
SELECT id, user_id, class, course, textbook_discount, textbook_tax, notebook_discount, notebook_tax, created_at
FROM uploads WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UploadSession
	for rows.Next() {
		var (
			s         UploadSession
			createdAt string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.Class, &s.Course, &s.TextbookDiscount, &s.TextbookTax, &s.NotebookDiscount, &s.NotebookTax, &createdAt); err != nil {
			return nil, err
		}
		s.CreatedAt = parseSQLiteTime(createdAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

// QuerySnapshots returns a user's saved snapshots joined with their session
// metadata, optionally narrowed by filters.
func (d *DB) QuerySnapshots(ctx context.Context, userID string, f SnapshotFilters) ([]Snapshot, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	where := "WHERE s.user_id = ?"
	args := []interface{}{userID}
	if f.Class != "" {
		where += " AND u.class = ?"
		args = append(args, f.Class)
	}
	if f.BookName != "" {
		where += " AND s.book_name LIKE ? COLLATE NOCASE"
		args = append(args, fmt.Sprintf("%%%s%%", f.BookName))
	}
	if f.Publisher != "" {
		where += " AND s.publisher LIKE ? COLLATE NOCASE"
		args = append(args, fmt.Sprintf("%%%s%%", f.Publisher))
	}

	q := `
SELECT s.upload_id, u.class, u.course, s.type, s.book_name, s.subject, s.publisher, s.pages, s.price, s.discount, s.tax, s.final_price, s.created_at
FROM snapshots s
JOIN uploads u ON u.id = s.upload_id ` + where + " ORDER BY s.created_at DESC, s.book_name"

	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			s         Snapshot
			typ       string
			pages     sql.NullInt64
			createdAt string
		)
		if err := rows.Scan(&s.UploadID, &s.Class, &s.Course, &typ, &s.BookName, &s.Subject, &s.Publisher, &pages, &s.Price, &s.Discount, &s.Tax, &s.FinalPrice, &createdAt); err != nil {
			return nil, err
		}
		s.Type = books.Type(typ)
		if pages.Valid {
			s.Pages = int(pages.Int64)
		}
		s.CreatedAt = parseSQLiteTime(createdAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetTypeStats aggregates a user's snapshots per book type.
func (d *DB) GetTypeStats(ctx context.Context, userID string) ([]TypeStats, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	rows, err := d.sql.QueryContext(ctx, `
SELECT type, COUNT(*), SUM(final_price), AVG(discount), AVG(tax)
FROM snapshots WHERE user_id = ?
GROUP BY type ORDER BY type`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []TypeStats
	for rows.Next() {
		var s TypeStats
		if err := rows.Scan(&s.Type, &s.Count, &s.TotalValue, &s.AvgDiscount, &s.AvgTax); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// parseSQLiteTime handles CURRENT_TIMESTAMP output.
// Try "2006-01-02 15:04:05" then RFC3339.
func parseSQLiteTime(s string) time.Time {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func nullIfZero(n int) interface{} {
	if n == 0 {
		return nil
	}
	return n
}
