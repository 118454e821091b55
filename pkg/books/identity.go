package books

import (
	"regexp"
	"strconv"
)

var identityStrip = regexp.MustCompile(`[^A-Za-z0-9-]`)

// Identity derives the ledger deduplication key for a book. The key is
// name-publisher-type, with the page count appended for notebooks that have
// one, stripped of everything outside [A-Za-z0-9-]. The exact algorithm is
// load-bearing: existing ledger rows were persisted under these keys.
func Identity(name, publisher string, typ Type, pages int) string {
	key := name + "-" + publisher + "-" + string(typ)
	if typ == Notebook && pages > 0 {
		key += "-" + strconv.Itoa(pages)
	}
	return identityStrip.ReplaceAllString(key, "")
}

// Identity returns the ledger key for this book.
func (b Book) Identity() string {
	return Identity(b.BookName, b.Publisher, b.Type, b.Pages)
}
