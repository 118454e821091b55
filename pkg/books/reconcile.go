package books

// Reconcile merges imported rows with ledger overrides and produces the two
// working lists. Per row: a sequential id is assigned, the identity derived,
// and pricing resolved with precedence ledger > imported > category default.
// The ledger is the tool's memory: whenever it knows a book, its last-used
// price/discount/tax/pages win over fresh spreadsheet values.
//
// A nil or empty ledger is fine; rows then keep their imported price and get
// the category defaults.
func Reconcile(rawTextbooks, rawNotebooks []Raw, defaults Defaults, ledger Ledger, uploadID string) Lists {
	return Lists{
		Textbooks: reconcileList(rawTextbooks, Textbook, defaults.TextbookDiscount, defaults.TextbookTax, ledger, uploadID),
		Notebooks: reconcileList(rawNotebooks, Notebook, defaults.NotebookDiscount, defaults.NotebookTax, ledger, uploadID),
	}
}

func reconcileList(raw []Raw, typ Type, discount, tax float64, ledger Ledger, uploadID string) []Book {
	out := make([]Book, 0, len(raw))
	for i, r := range raw {
		b := Book{
			ID:        i + 1,
			UploadID:  uploadID,
			Type:      typ,
			BookName:  r.BookName,
			Subject:   r.Subject,
			Publisher: r.Publisher,
			Pages:     r.Pages,
			Price:     r.Price,
			Discount:  discount,
			Tax:       tax,
		}
		if entry, ok := ledger[Identity(r.BookName, r.Publisher, typ, r.Pages)]; ok {
			b.Price = entry.Price
			b.Discount = entry.Discount
			b.Tax = entry.Tax
			if entry.Pages > 0 {
				b.Pages = entry.Pages
			}
		}
		out = append(out, reprice(b))
	}
	return out
}
