package books

// Type tells which working list a book belongs to. Pages only participate
// in identity for notebooks.
type Type string

const (
	Textbook Type = "Textbook"
	Notebook Type = "Notebook"
)

// Book is a single priced line item in a working list.
type Book struct {
	ID       int
	UploadID string
	Type     Type

	BookName  string
	Subject   string
	Publisher string
	Pages     int // 0 means not set

	Price      float64
	Discount   float64 // percent
	Tax        float64 // percent
	FinalPrice float64 // derived, always Final(Price, Discount, Tax)
}

// Raw is an imported row before reconciliation.
type Raw struct {
	BookName  string
	Subject   string
	Publisher string
	Price     float64
	Pages     int
}

// LedgerEntry is the per-user "last used" pricing for one identity.
type LedgerEntry struct {
	BookName  string
	Publisher string
	Price     float64
	Discount  float64
	Tax       float64
	Type      Type
	Pages     int
}

// Ledger maps identity keys to their last-known pricing.
type Ledger map[string]LedgerEntry

// Defaults holds the per-category discount/tax applied to rows with no
// ledger history.
type Defaults struct {
	TextbookDiscount float64
	TextbookTax      float64
	NotebookDiscount float64
	NotebookTax      float64
}

// Lists are the two working lists produced by one import.
type Lists struct {
	Textbooks []Book
	Notebooks []Book
}

// Filters holds per-column substring patterns, matched case-insensitively.
// An empty pattern always passes.
type Filters struct {
	BookName  string
	Subject   string
	Publisher string
}

// EntryFor builds the ledger entry a book would persist under its identity.
func EntryFor(b Book) LedgerEntry {
	return LedgerEntry{
		BookName:  b.BookName,
		Publisher: b.Publisher,
		Price:     b.Price,
		Discount:  b.Discount,
		Tax:       b.Tax,
		Type:      b.Type,
		Pages:     b.Pages,
	}
}
