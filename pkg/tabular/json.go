package tabular

import (
	"github.com/tidwall/gjson"

	"github.com/edubook/edubook/pkg/books"
)

// ImportJSON reads book lists from a JSON document with top-level
// "textbooks" and "notebooks" arrays. Rows use the machine field names and
// the same defaulting rules as the spreadsheet import.
func ImportJSON(data []byte) (textbooks, notebooks []books.Raw, err error) {
	tb := gjson.GetBytes(data, "textbooks")
	nb := gjson.GetBytes(data, "notebooks")
	if !tb.Exists() && !nb.Exists() {
		return nil, nil, ErrInvalidFileFormat
	}

	textbooks = parseJSONList(tb, false)
	notebooks = parseJSONList(nb, true)
	return textbooks, notebooks, nil
}

func parseJSONList(list gjson.Result, notebook bool) []books.Raw {
	if !list.Exists() {
		return nil
	}
	var out []books.Raw
	list.ForEach(func(_, row gjson.Result) bool {
		r := books.Raw{
			BookName:  row.Get("bookName").String(),
			Subject:   orNA(row.Get("subject").String()),
			Publisher: orNA(row.Get("publisher").String()),
			Price:     row.Get("price").Float(),
		}
		if notebook {
			r.Pages = int(row.Get("pages").Int())
		}
		out = append(out, r)
		return true
	})
	return out
}
