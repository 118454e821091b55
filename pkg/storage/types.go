package storage

import (
	"time"

	"github.com/edubook/edubook/pkg/books"
)

// UploadSession groups one import's class/course/default settings. Immutable
// once created; its id is stamped on every snapshot row saved under it.
type UploadSession struct {
	ID               string
	UserID           string
	Class            string
	Course           string
	TextbookDiscount float64
	TextbookTax      float64
	NotebookDiscount float64
	NotebookTax      float64
	CreatedAt        time.Time
}

// Snapshot is a denormalized copy of a book record enriched with its
// session's class/course/timestamp, for later browsing.
type Snapshot struct {
	UploadID   string
	Class      string
	Course     string
	Type       books.Type
	BookName   string
	Subject    string
	Publisher  string
	Pages      int
	Price      float64
	Discount   float64
	Tax        float64
	FinalPrice float64
	CreatedAt  time.Time
}

// SnapshotFilters narrows snapshot queries. Class matches exactly, the rest
// are case-insensitive substrings.
type SnapshotFilters struct {
	Class     string
	BookName  string
	Publisher string
}

// TypeStats aggregates saved snapshots per book type.
type TypeStats struct {
	Type        string
	Count       int
	TotalValue  float64
	AvgDiscount float64
	AvgTax      float64
}
